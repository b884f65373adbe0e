// Copyright the halo2-analyzer authors
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package circuit

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// ============================================================================
// Expressions
// ============================================================================

// Expr is a polynomial expression over the cells of a PLONKish circuit.  It is
// a closed sum type: the only implementations are the variants declared in
// this file, and every consumer dispatches over them with an exhaustive type
// switch.  Adding a new variant is intended to break every such switch at its
// panicking default case.
type Expr interface {
	fmt.Stringer
	// isExpr is a marker restricting implementations to this package.
	isExpr()
}

// Constant is a literal field element.
type Constant struct {
	Value fr.Element
}

// Selector references a selector column by its index.  Selectors are resolved
// at analysis time against a region's enabled-selector set; they never appear
// as free variables.
type Selector struct {
	Index int
}

// FixedQuery references a fixed column at a given rotation.
type FixedQuery struct {
	ColumnIndex int
	Rotation    int
}

// AdviceQuery references an advice (witness) column at a given rotation.
type AdviceQuery struct {
	ColumnIndex int
	Rotation    int
}

// InstanceQuery references an instance (public input) column at a given
// rotation.
type InstanceQuery struct {
	ColumnIndex int
	Rotation    int
}

// Negated is the additive inverse of its argument.
type Negated struct {
	Arg Expr
}

// Sum is the field addition of two expressions.
type Sum struct {
	Left  Expr
	Right Expr
}

// Product is the field multiplication of two expressions.
type Product struct {
	Left  Expr
	Right Expr
}

// Scaled multiplies an expression by a constant scalar.
type Scaled struct {
	Arg    Expr
	Scalar fr.Element
}

func (Constant) isExpr()      {}
func (Selector) isExpr()      {}
func (FixedQuery) isExpr()    {}
func (AdviceQuery) isExpr()   {}
func (InstanceQuery) isExpr() {}
func (Negated) isExpr()       {}
func (Sum) isExpr()           {}
func (Product) isExpr()       {}
func (Scaled) isExpr()        {}

func (e Constant) String() string {
	return e.Value.String()
}

func (e Selector) String() string {
	return fmt.Sprintf("s%d", e.Index)
}

func (e FixedQuery) String() string {
	return fmt.Sprintf("f%d@%d", e.ColumnIndex, e.Rotation)
}

func (e AdviceQuery) String() string {
	return fmt.Sprintf("a%d@%d", e.ColumnIndex, e.Rotation)
}

func (e InstanceQuery) String() string {
	return fmt.Sprintf("i%d@%d", e.ColumnIndex, e.Rotation)
}

func (e Negated) String() string {
	return fmt.Sprintf("(- %s)", e.Arg)
}

func (e Sum) String() string {
	return fmt.Sprintf("(+ %s %s)", e.Left, e.Right)
}

func (e Product) String() string {
	return fmt.Sprintf("(* %s %s)", e.Left, e.Right)
}

func (e Scaled) String() string {
	return fmt.Sprintf("(* %s %s)", e.Scalar.String(), e.Arg)
}

// Const constructs a constant expression from a uint64.
func Const(val uint64) Constant {
	var element fr.Element
	//
	element.SetUint64(val)
	//
	return Constant{element}
}

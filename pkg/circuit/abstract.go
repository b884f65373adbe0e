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

	"github.com/bits-and-blooms/bitset"
)

// AbsResult is the three-valued lattice used to evaluate expressions over a
// selector-enabled/disabled abstraction.  It classifies an expression as
// provably zero, provably nonzero, or unknown; it is not a field-value
// evaluation.  Only the AbsZero verdict is ever relied upon: the liveness
// analyses treat anything else as "possibly nonzero".
type AbsResult int

const (
	// AbsZero means the expression is identically zero under the given
	// selector configuration.
	AbsZero AbsResult = iota
	// AbsNonZero means the expression is a selector (or negated selector)
	// known to be enabled, i.e. the literal one.
	AbsNonZero
	// AbsUnknown means nothing is known about the expression's value.
	AbsUnknown
)

func (r AbsResult) String() string {
	switch r {
	case AbsZero:
		return "zero"
	case AbsNonZero:
		return "nonzero"
	case AbsUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// EvalAbstract evaluates an expression bottom-up over the selector lattice: a
// selector reference is AbsZero when absent from enabled, and AbsNonZero
// (the literal one) otherwise.  Cell references and nonzero constants are
// AbsUnknown.  The combination rules over-approximate the field arithmetic
// identities; in particular a sum of nonzero operands is AbsUnknown since the
// operands could cancel.  Soundness requirement: an AbsZero verdict must
// imply the expression really is identically zero.
func EvalAbstract(expr Expr, enabled *bitset.BitSet) AbsResult {
	switch e := expr.(type) {
	case Constant:
		if e.Value.IsZero() {
			return AbsZero
		}
		//
		return AbsUnknown
	case Selector:
		if enabled != nil && enabled.Test(uint(e.Index)) {
			return AbsNonZero
		}
		//
		return AbsZero
	case FixedQuery, AdviceQuery, InstanceQuery:
		return AbsUnknown
	case Negated:
		// Negation preserves the zero / nonzero class.
		return EvalAbstract(e.Arg, enabled)
	case Sum:
		left := EvalAbstract(e.Left, enabled)
		right := EvalAbstract(e.Right, enabled)
		//
		if left == AbsZero && right == AbsZero {
			return AbsZero
		}
		//
		return AbsUnknown
	case Product:
		left := EvalAbstract(e.Left, enabled)
		right := EvalAbstract(e.Right, enabled)
		//
		if left == AbsZero || right == AbsZero {
			return AbsZero
		}
		//
		return AbsUnknown
	case Scaled:
		if e.Scalar.IsZero() || EvalAbstract(e.Arg, enabled) == AbsZero {
			return AbsZero
		}
		//
		return AbsUnknown
	default:
		panic(fmt.Sprintf("unhandled expression %v", expr))
	}
}

// ExtractColumns collects every fixed and advice (column, rotation) pair
// textually present in the expression, independent of selector state.
func ExtractColumns(expr Expr) map[Query]bool {
	columns := make(map[Query]bool)
	extractColumns(expr, columns)
	//
	return columns
}

func extractColumns(expr Expr, columns map[Query]bool) {
	switch e := expr.(type) {
	case Constant, Selector, InstanceQuery:
		// no data columns
	case FixedQuery:
		columns[Query{Column{FixedColumn, e.ColumnIndex}, e.Rotation}] = true
	case AdviceQuery:
		columns[Query{Column{AdviceColumn, e.ColumnIndex}, e.Rotation}] = true
	case Negated:
		extractColumns(e.Arg, columns)
	case Sum:
		extractColumns(e.Left, columns)
		extractColumns(e.Right, columns)
	case Product:
		extractColumns(e.Left, columns)
		extractColumns(e.Right, columns)
	case Scaled:
		extractColumns(e.Arg, columns)
	default:
		panic(fmt.Sprintf("unhandled expression %v", expr))
	}
}

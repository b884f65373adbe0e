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
package analyzer

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/bits-and-blooms/bitset"

	"github.com/obatirou/halo2-analyzer/pkg/circuit"
	"github.com/obatirou/halo2-analyzer/pkg/smt"
)

// ErrEncoding indicates a malformed or unexpectedly shaped expression was met
// during decomposition.  Fatal; aborts the current analysis.
var ErrEncoding = errors.New("expression encoding failed")

// decomposeExpression translates one expression, evaluated at a given region
// and row, into a printed field term plus the kind tag of the variant that
// produced it.  The recursion mirrors the expression variants one to one.
func (a *Analyzer) decomposeExpression(p *smt.Printer, expr circuit.Expr, regionNo int, rowNum int,
	enabled *bitset.BitSet) (string, smt.TermKind, error) {
	switch e := expr.(type) {
	case circuit.Constant:
		var val big.Int
		//
		e.Value.BigInt(&val)
		//
		return p.Literal(&val), smt.KindConstant, nil
	case circuit.Selector:
		// Selectors are never run-time-unknown: resolve at encoding time.
		if enabled != nil && enabled.Test(uint(e.Index)) {
			return p.Literal(big.NewInt(1)), smt.KindFixed, nil
		}
		//
		return p.Literal(big.NewInt(0)), smt.KindFixed, nil
	case circuit.FixedQuery:
		row := rowNum + e.Rotation
		name := circuit.FixedCellName(regionNo, e.ColumnIndex, row)
		//
		p.WriteVar(name)
		a.fixedCells[name] = fixedCell{e.ColumnIndex, row}
		//
		return name, smt.KindFixed, nil
	case circuit.AdviceQuery:
		name := circuit.AdviceCellName(regionNo, e.ColumnIndex, rowNum+e.Rotation)
		//
		p.WriteVar(name)
		//
		return name, smt.KindAdvice, nil
	case circuit.InstanceQuery:
		// Instance values are tied in exclusively through the equality
		// tables, never inline in a gate polynomial.
		return "", smt.KindInstance, nil
	case circuit.Negated:
		term, kind, err := a.decomposeExpression(p, e.Arg, regionNo, rowNum, enabled)
		if err != nil {
			return "", 0, err
		}
		//
		return p.WriteNeg(term, kind), smt.KindNegated, nil
	case circuit.Sum:
		left, leftKind, err := a.decomposeExpression(p, e.Left, regionNo, rowNum, enabled)
		if err != nil {
			return "", 0, err
		}
		//
		right, rightKind, err := a.decomposeExpression(p, e.Right, regionNo, rowNum, enabled)
		if err != nil {
			return "", 0, err
		}
		// An instance placeholder contributes nothing: the surviving operand
		// keeps its own kind, so it is not re-parenthesized downstream.
		if left == "" {
			return right, rightKind, nil
		} else if right == "" {
			return left, leftKind, nil
		}
		//
		return p.WriteTerm("add", left, leftKind, right, rightKind), smt.KindAdd, nil
	case circuit.Product:
		left, leftKind, err := a.decomposeExpression(p, e.Left, regionNo, rowNum, enabled)
		if err != nil {
			return "", 0, err
		}
		//
		right, rightKind, err := a.decomposeExpression(p, e.Right, regionNo, rowNum, enabled)
		if err != nil {
			return "", 0, err
		}
		//
		if left == "" {
			return right, rightKind, nil
		} else if right == "" {
			return left, leftKind, nil
		}
		//
		return p.WriteTerm("mul", left, leftKind, right, rightKind), smt.KindMul, nil
	case circuit.Scaled:
		// Rewrite as Product(Constant(scalar), arg) and reuse the product
		// rule.
		product := circuit.Product{Left: circuit.Constant{Value: e.Scalar}, Right: e.Arg}
		//
		term, kind, err := a.decomposeExpression(p, product, regionNo, rowNum, enabled)
		if err != nil {
			return "", 0, err
		}
		// The product collapses to its scalar when the argument is an
		// instance placeholder.
		if kind != smt.KindMul {
			return term, kind, nil
		}
		//
		return term, smt.KindScaled, nil
	case nil:
		return "", 0, fmt.Errorf("%w: nil expression", ErrEncoding)
	default:
		panic(fmt.Sprintf("unhandled expression %v", expr))
	}
}

// decomposePolynomial encodes the whole constraint system: every gate
// polynomial asserted zero at every row of every region, every lookup as a
// disjunction over the concrete table rows, and every named fixed cell pinned
// to its concrete value where one is assigned.
func (a *Analyzer) decomposePolynomial(p *smt.Printer) error {
	for regionNo := range a.Layout.Regions {
		region := &a.Layout.Regions[regionNo]
		//
		for rowNum := 0; rowNum < region.RowCount; rowNum++ {
			for _, gate := range a.CS.Gates {
				for _, poly := range gate.Polys {
					term, kind, err := a.decomposeExpression(p, poly, regionNo, rowNum, region.EnabledSelectors)
					if err != nil {
						return err
					}
					//
					p.AssertZero(term, kind)
				}
			}
		}
	}
	//
	for regionNo := range a.Layout.Regions {
		region := &a.Layout.Regions[regionNo]
		//
		for rowNum := 0; rowNum < region.RowCount; rowNum++ {
			for _, lookup := range a.CS.Lookups {
				if err := a.encodeLookup(p, lookup, regionNo, rowNum, region.EnabledSelectors); err != nil {
					return err
				}
			}
		}
	}
	// Pinning runs last so cells first named inside lookup inputs are pinned
	// too.
	return a.pinFixedCells(p)
}

// pinFixedCells asserts, for every fixed cell named by some gate polynomial,
// equality with its concrete value from the fixed matrix.  Cells outside the
// matrix or without an assigned value stay free.
func (a *Analyzer) pinFixedCells(p *smt.Printer) error {
	for _, name := range p.Vars() {
		cell, ok := a.fixedCells[name]
		if !ok {
			continue
		}
		//
		if cell.column >= len(a.Fixed) || cell.row < 0 || cell.row >= a.Fixed.Height() {
			continue
		}
		//
		value := a.Fixed[cell.column][cell.row]
		if value.State != circuit.Assigned {
			continue
		}
		//
		var val big.Int
		//
		value.Value.BigInt(&val)
		p.AssertCellsEqual(name, p.Literal(&val))
	}
	//
	return nil
}

// encodeLookup asserts one lookup at one (region, row): the input tuple must
// equal some row of the fixed table.  Table data ends at the first
// unassigned cell; poisoned rows are skipped, never read as data.
func (a *Analyzer) encodeLookup(p *smt.Printer, lookup circuit.Lookup, regionNo int, rowNum int,
	enabled *bitset.BitSet) error {
	inputTerms := make([]string, len(lookup.Inputs))
	inputKinds := make([]smt.TermKind, len(lookup.Inputs))
	//
	for i, input := range lookup.Inputs {
		term, kind, err := a.decomposeExpression(p, input, regionNo, rowNum, enabled)
		if err != nil {
			return err
		}
		//
		inputTerms[i] = term
		inputKinds[i] = kind
	}
	// Locate the fixed column behind every table expression.
	colIndices := make([]int, 0, len(lookup.Table))
	//
	for _, tableExpr := range lookup.Table {
		if fixed, ok := tableExpr.(circuit.FixedQuery); ok {
			colIndices = append(colIndices, fixed.ColumnIndex)
		}
	}
	//
	if len(colIndices) == 0 || len(colIndices) != len(inputTerms) {
		return fmt.Errorf("%w: lookup %q has %d fixed table columns for %d inputs",
			ErrEncoding, lookup.Name, len(colIndices), len(inputTerms))
	}
	//
	var disjuncts []string
	//
rowLoop:
	for row := 0; row < a.Fixed.Height(); row++ {
		conjuncts := make([]string, 0, len(colIndices))
		//
		for col, colIndex := range colIndices {
			if colIndex >= len(a.Fixed) {
				return fmt.Errorf("%w: lookup %q references missing fixed column %d", ErrEncoding, lookup.Name, colIndex)
			}
			//
			cell := a.Fixed[colIndex][row]
			//
			switch cell.State {
			case circuit.Unassigned:
				// Table data ends at the first gap.
				break rowLoop
			case circuit.Poisoned:
				continue rowLoop
			}
			//
			var val big.Int
			//
			cell.Value.BigInt(&val)
			//
			cond, err := p.GetAssert(inputTerms[col], val.String(), inputKinds[col], smt.OpEq)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrEncoding, err)
			}
			//
			conjuncts = append(conjuncts, cond)
		}
		//
		disjuncts = append(disjuncts, p.GetAnd(conjuncts))
	}
	//
	p.WriteAssert(p.GetOr(disjuncts))
	//
	return nil
}

// encodeEqualities asserts every copy constraint from each region's two
// equality tables as a direct field equality between the two named cells.
func (a *Analyzer) encodeEqualities(p *smt.Printer) {
	for _, region := range a.Layout.Regions {
		for _, eq := range region.AdviceEqualities {
			p.WriteVar(eq.Left)
			p.WriteVar(eq.Right)
			p.AssertCellsEqual(eq.Left, eq.Right)
		}
	}
	//
	for _, region := range a.Layout.Regions {
		for _, eq := range region.Equalities {
			p.WriteVar(eq.Left)
			p.WriteVar(eq.Right)
			p.AssertCellsEqual(eq.Left, eq.Right)
		}
	}
}

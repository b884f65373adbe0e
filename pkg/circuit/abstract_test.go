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
	"testing"

	"github.com/bits-and-blooms/bitset"
)

func Test_Abstract_01(t *testing.T) {
	// Disabled selector is zero.
	checkAbstract(t, Selector{0}, noSelectors(), AbsZero)
}

func Test_Abstract_02(t *testing.T) {
	// Enabled selector is the literal one.
	checkAbstract(t, Selector{0}, selectors(0), AbsNonZero)
}

func Test_Abstract_03(t *testing.T) {
	// Only an explicit zero constant is zero.
	checkAbstract(t, Const(0), noSelectors(), AbsZero)
	checkAbstract(t, Const(7), noSelectors(), AbsUnknown)
}

func Test_Abstract_04(t *testing.T) {
	// Cell references are never known.
	checkAbstract(t, AdviceQuery{0, 0}, selectors(0), AbsUnknown)
	checkAbstract(t, FixedQuery{1, -1}, selectors(0), AbsUnknown)
	checkAbstract(t, InstanceQuery{0, 0}, selectors(0), AbsUnknown)
}

func Test_Abstract_05(t *testing.T) {
	// Negation preserves the class.
	checkAbstract(t, Negated{Selector{0}}, noSelectors(), AbsZero)
	checkAbstract(t, Negated{Selector{0}}, selectors(0), AbsNonZero)
	checkAbstract(t, Negated{AdviceQuery{0, 0}}, noSelectors(), AbsUnknown)
}

func Test_Abstract_06(t *testing.T) {
	// A product is killed by any zero operand.
	checkAbstract(t, Product{Selector{0}, AdviceQuery{0, 0}}, noSelectors(), AbsZero)
	checkAbstract(t, Product{AdviceQuery{0, 0}, Selector{0}}, noSelectors(), AbsZero)
	checkAbstract(t, Product{Selector{0}, AdviceQuery{0, 0}}, selectors(0), AbsUnknown)
}

func Test_Abstract_07(t *testing.T) {
	// A sum is zero only when both operands are.
	checkAbstract(t, Sum{Selector{0}, Selector{1}}, noSelectors(), AbsZero)
	checkAbstract(t, Sum{Selector{0}, Selector{1}}, selectors(1), AbsUnknown)
	// Never a false nonzero, even for enabled selectors: they could cancel.
	checkAbstract(t, Sum{Selector{0}, Negated{Selector{0}}}, selectors(0), AbsUnknown)
}

func Test_Abstract_08(t *testing.T) {
	// Scaling by zero kills the expression; otherwise it is as unknown as
	// its argument.
	checkAbstract(t, Scaled{AdviceQuery{0, 0}, Const(0).Value}, selectors(0), AbsZero)
	checkAbstract(t, Scaled{Selector{0}, Const(3).Value}, noSelectors(), AbsZero)
	checkAbstract(t, Scaled{AdviceQuery{0, 0}, Const(3).Value}, selectors(0), AbsUnknown)
}

func Test_Abstract_09(t *testing.T) {
	// Constant-only expressions under an empty selector set: any product
	// containing a disabled selector is zero, everything else unknown.
	expr := Sum{Product{Selector{0}, Const(5)}, Const(0)}
	checkAbstract(t, expr, noSelectors(), AbsZero)
	//
	checkAbstract(t, Sum{Const(2), Const(3)}, noSelectors(), AbsUnknown)
}

func Test_ExtractColumns_01(t *testing.T) {
	columns := ExtractColumns(Sum{AdviceQuery{1, 0}, AdviceQuery{2, 1}})
	//
	checkColumns(t, columns,
		Query{Column{AdviceColumn, 1}, 0},
		Query{Column{AdviceColumn, 2}, 1})
}

func Test_ExtractColumns_02(t *testing.T) {
	columns := ExtractColumns(Negated{FixedQuery{3, -1}})
	//
	checkColumns(t, columns, Query{Column{FixedColumn, 3}, -1})
}

func Test_ExtractColumns_03(t *testing.T) {
	// Selectors, constants and instance references contribute no columns;
	// extraction ignores selector state entirely.
	expr := Product{Selector{0}, Sum{Const(1), InstanceQuery{0, 0}}}
	//
	checkColumns(t, ExtractColumns(expr))
}

func Test_ExtractColumns_04(t *testing.T) {
	// Duplicated references collapse.
	expr := Product{Scaled{AdviceQuery{0, 0}, Const(2).Value}, AdviceQuery{0, 0}}
	//
	checkColumns(t, ExtractColumns(expr), Query{Column{AdviceColumn, 0}, 0})
}

func checkAbstract(t *testing.T, expr Expr, enabled *bitset.BitSet, expected AbsResult) {
	t.Helper()
	//
	if actual := EvalAbstract(expr, enabled); actual != expected {
		t.Errorf("eval of %s gave %s, expected %s", expr, actual, expected)
	}
}

func checkColumns(t *testing.T, actual map[Query]bool, expected ...Query) {
	t.Helper()
	//
	if len(actual) != len(expected) {
		t.Errorf("extracted %d columns, expected %d", len(actual), len(expected))
	}
	//
	for _, query := range expected {
		if !actual[query] {
			t.Errorf("missing column %v", query)
		}
	}
}

func noSelectors() *bitset.BitSet {
	return bitset.New(4)
}

func selectors(enabled ...uint) *bitset.BitSet {
	set := bitset.New(4)
	for _, sel := range enabled {
		set.Set(sel)
	}
	//
	return set
}

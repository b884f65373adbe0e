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
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/require"

	"github.com/obatirou/halo2-analyzer/pkg/circuit"
)

func enabledSelectors(enabled ...uint) *bitset.BitSet {
	set := bitset.New(4)
	for _, sel := range enabled {
		set.Set(sel)
	}
	//
	return set
}

func adviceQuery(column int) circuit.Query {
	return circuit.Query{
		Column:   circuit.Column{Kind: circuit.AdviceColumn, Index: column},
		Rotation: 0,
	}
}

// A gate guarded by selector 0 constraining advice column 0.
func guardedGate() circuit.Gate {
	return circuit.Gate{
		Name:  "guarded",
		Polys: []circuit.Expr{circuit.Product{Left: circuit.Selector{Index: 0}, Right: circuit.AdviceQuery{ColumnIndex: 0}}},
	}
}

func Test_UnusedGates_SelectorNeverEnabled(t *testing.T) {
	a := New(&circuit.Circuit{
		CS: circuit.ConstraintSystem{
			NumSelectors: 1,
			Gates:        []circuit.Gate{guardedGate()},
		},
		Layout: circuit.Layout{
			Regions: []circuit.Region{
				{Name: "r0", RowCount: 2, EnabledSelectors: enabledSelectors()},
			},
		},
	})
	//
	output := a.AnalyzeUnusedGates()
	//
	require.Equal(t, UnusedCustomGates, output.Status)
	require.Len(t, a.Log, 1)
	require.Contains(t, a.Log[0], `unused gate: "guarded"`)
	require.Equal(t, uint(1), a.Findings())
}

func Test_UnusedGates_SelectorEnabled(t *testing.T) {
	a := New(&circuit.Circuit{
		CS: circuit.ConstraintSystem{
			NumSelectors: 1,
			Gates:        []circuit.Gate{guardedGate()},
		},
		Layout: circuit.Layout{
			Regions: []circuit.Region{
				{Name: "r0", RowCount: 2, EnabledSelectors: enabledSelectors(0)},
			},
		},
	})
	//
	a.AnalyzeUnusedGates()
	//
	require.Empty(t, a.Log)
}

func Test_UnusedGates_NoRegions(t *testing.T) {
	// With no regions there is nowhere for the gate to be active.
	a := New(&circuit.Circuit{
		CS: circuit.ConstraintSystem{NumSelectors: 1, Gates: []circuit.Gate{guardedGate()}},
	})
	//
	a.AnalyzeUnusedGates()
	//
	require.Len(t, a.Log, 1)
}

func Test_UnusedColumns(t *testing.T) {
	a := New(&circuit.Circuit{
		CS: circuit.ConstraintSystem{
			NumSelectors:  1,
			Gates:         []circuit.Gate{guardedGate()},
			AdviceQueries: []circuit.Query{adviceQuery(0), adviceQuery(1)},
		},
	})
	//
	output := a.AnalyzeUnusedColumns()
	//
	require.Equal(t, UnusedColumns, output.Status)
	require.Len(t, a.Log, 1)
	require.Contains(t, a.Log[0], "unused column: advice 1")
}

func Test_UnusedColumns_SelectorIndependent(t *testing.T) {
	// Presence is textual: the column counts as used even though the gate is
	// dead in every region.
	a := New(&circuit.Circuit{
		CS: circuit.ConstraintSystem{
			NumSelectors:  1,
			Gates:         []circuit.Gate{guardedGate()},
			AdviceQueries: []circuit.Query{adviceQuery(0)},
		},
		Layout: circuit.Layout{
			Regions: []circuit.Region{
				{Name: "r0", RowCount: 1, EnabledSelectors: enabledSelectors()},
			},
		},
	})
	//
	a.AnalyzeUnusedColumns()
	//
	require.Empty(t, a.Log)
}

func Test_UnconstrainedCells(t *testing.T) {
	a := New(&circuit.Circuit{
		CS: circuit.ConstraintSystem{
			NumSelectors: 1,
			Gates:        []circuit.Gate{guardedGate()},
		},
		Layout: circuit.Layout{
			Regions: []circuit.Region{
				{
					Name:             "assign",
					RowCount:         1,
					EnabledSelectors: enabledSelectors(0),
					Columns: []circuit.Query{
						adviceQuery(0),
						adviceQuery(1),
						{Column: circuit.Column{Kind: circuit.SelectorColumn, Index: 0}},
					},
				},
			},
		},
	})
	//
	output := a.AnalyzeUnconstrainedCells()
	//
	require.Equal(t, UnconstrainedCells, output.Status)
	// Advice column 0 is constrained by the active gate; advice column 1 is
	// assigned but constrained by nothing; the selector column is skipped.
	require.Len(t, a.Log, 1)
	require.Contains(t, a.Log[0], `unconstrained cell in "assign" region: advice 1`)
}

func Test_UnconstrainedCells_DeadGate(t *testing.T) {
	// A gate whose selector is disabled constrains nothing, so even the
	// column it references is unconstrained.
	a := New(&circuit.Circuit{
		CS: circuit.ConstraintSystem{
			NumSelectors: 1,
			Gates:        []circuit.Gate{guardedGate()},
		},
		Layout: circuit.Layout{
			Regions: []circuit.Region{
				{
					Name:             "assign",
					RowCount:         1,
					EnabledSelectors: enabledSelectors(),
					Columns:          []circuit.Query{adviceQuery(0)},
				},
			},
		},
	})
	//
	a.AnalyzeUnconstrainedCells()
	//
	require.Len(t, a.Log, 1)
}

func Test_InstanceColumns(t *testing.T) {
	a := New(&circuit.Circuit{
		Layout: circuit.Layout{
			Equalities: []circuit.CellEquality{{Left: "I-0-1", Right: "A-0-0-1"}},
			Regions: []circuit.Region{
				{
					Name:             "r0",
					EnabledSelectors: enabledSelectors(),
					Equalities: []circuit.CellEquality{
						{Left: "I-0-0", Right: "A-0-0-0"},
						{Left: "I-0-1", Right: "A-0-1-0"},
					},
					AdviceEqualities: []circuit.CellEquality{
						// Advice copies contribute no instance variables.
						{Left: "A-0-0-0", Right: "A-0-1-0"},
					},
				},
			},
		},
	})
	//
	require.Equal(t, []string{"I-0-0", "I-0-1"}, a.InstanceColumns())
}

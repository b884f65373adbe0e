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

// Package analyzer implements the static analyses over a synthesized
// PLONKish circuit: dead-code detection (unused gates, unused columns,
// assigned-but-unconstrained cells) and the solver-backed search for
// underconstrained circuits.
package analyzer

import (
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/obatirou/halo2-analyzer/pkg/circuit"
)

// Analyzer is the per-run analysis context: the circuit under analysis plus
// the growing findings log.  It is never shared between runs.
type Analyzer struct {
	CS     circuit.ConstraintSystem
	Layout circuit.Layout
	Fixed  circuit.FixedMatrix
	// Human-readable findings, one entry per violation.
	Log []string
	// Number of findings reported so far.
	counter uint
	// Fixed cells named during encoding, so their concrete values can be
	// pinned afterwards.
	fixedCells map[string]fixedCell
}

type fixedCell struct {
	column int
	row    int
}

// New creates a fresh analysis context for the given circuit.
func New(c *circuit.Circuit) *Analyzer {
	return &Analyzer{
		CS:         c.CS,
		Layout:     c.Layout,
		Fixed:      c.Fixed,
		fixedCells: make(map[string]fixedCell),
	}
}

// Findings returns the number of findings reported so far.
func (a *Analyzer) Findings() uint {
	return a.counter
}

func (a *Analyzer) report(format string, args ...any) {
	a.Log = append(a.Log, fmt.Sprintf(format, args...))
	a.counter++
}

// AnalyzeUnusedGates detects gates whose every polynomial is identically zero
// under every region's enabled-selector set.  Such a gate constrains nothing
// anywhere in the layout.
func (a *Analyzer) AnalyzeUnusedGates() AnalyzerOutput {
	count := 0
	//
	for _, gate := range a.CS.Gates {
		used := false
		//
	regionSearch:
		for _, region := range a.Layout.Regions {
			for _, poly := range gate.Polys {
				if circuit.EvalAbstract(poly, region.EnabledSelectors) != circuit.AbsZero {
					used = true
					break regionSearch
				}
			}
		}
		//
		if !used {
			count++
			a.report("unused gate: %q (consider removing the gate or checking selectors in regions)", gate.Name)
		}
	}
	//
	log.Infof("finished analysis: %d unused gates found", count)
	//
	return AnalyzerOutput{UnusedCustomGates}
}

// AnalyzeUnusedColumns detects advice (column, rotation) pairs which appear
// in no gate polynomial.  The check is purely textual and ignores selector
// state, so it is intentionally coarser than the gate liveness check.
func (a *Analyzer) AnalyzeUnusedColumns() AnalyzerOutput {
	count := 0
	//
	for _, query := range a.CS.AdviceQueries {
		used := false
		//
		for _, gate := range a.CS.Gates {
			for _, poly := range gate.Polys {
				if circuit.ExtractColumns(poly)[query] {
					used = true
				}
			}
		}
		//
		if !used {
			count++
			a.report("unused column: %s %d (rotation: %d)", query.Column.Kind, query.Column.Index, query.Rotation)
		}
	}
	//
	log.Infof("finished analysis: %d unused columns found", count)
	//
	return AnalyzerOutput{UnusedColumns}
}

// AnalyzeUnconstrainedCells detects cells referenced inside a region which no
// gate polynomial both references and leaves not-provably-zero under the
// region's selector set.  An assigned but unconstrained cell is almost
// certainly a bug: the prover can put anything there.
func (a *Analyzer) AnalyzeUnconstrainedCells() AnalyzerOutput {
	count := 0
	//
	for _, region := range a.Layout.Regions {
		for _, query := range region.Columns {
			// Selector columns are not data cells.
			if query.Column.Kind == circuit.SelectorColumn {
				continue
			}
			//
			used := false
			//
			for _, gate := range a.CS.Gates {
				for _, poly := range gate.Polys {
					eval := circuit.EvalAbstract(poly, region.EnabledSelectors)
					//
					if eval != circuit.AbsZero && circuit.ExtractColumns(poly)[query] {
						used = true
					}
				}
			}
			//
			if !used {
				count++
				a.report("unconstrained cell in %q region: %s %d (rotation: %d) -- very likely a bug",
					region.Name, query.Column.Kind, query.Column.Index, query.Rotation)
			}
		}
	}
	//
	log.Infof("finished analysis: %d unconstrained cells found", count)
	//
	return AnalyzerOutput{UnconstrainedCells}
}

// InstanceColumns identifies the instance variables of the circuit: the union
// of left-hand cell names across the top-level equality table and every
// region's general equality table.  Sorted for deterministic iteration.
func (a *Analyzer) InstanceColumns() []string {
	seen := make(map[string]bool)
	//
	for _, eq := range a.Layout.Equalities {
		seen[eq.Left] = true
	}
	//
	for _, region := range a.Layout.Regions {
		for _, eq := range region.Equalities {
			seen[eq.Left] = true
		}
	}
	//
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	//
	sort.Strings(names)
	//
	return names
}

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

// CellEquality is a copy constraint: the cell named Left must hold the same
// value as the cell named Right.  Cell names follow the naming scheme of
// AdviceCellName and friends, which is shared with the symbolic encoder and
// the solver model parser.
type CellEquality struct {
	Left  string
	Right string
}

// Region is one contiguous area of the concrete circuit layout: a name, a row
// count, the set of (column, rotation) pairs referenced within it, the
// selectors enabled within it and its copy constraints.
type Region struct {
	Name string
	// Number of rows occupied by this region.
	RowCount int
	// All (column, rotation) pairs referenced within this region.
	Columns []Query
	// Selectors enabled within this region, indexed by selector number.
	EnabledSelectors *bitset.BitSet
	// Advice-to-advice copy constraints.
	AdviceEqualities []CellEquality
	// General copy constraints, including those against instance cells.
	Equalities []CellEquality
}

// Layout is the concrete region layout of a synthesized circuit, together
// with any top-level copy constraints declared outside all regions.
type Layout struct {
	Regions    []Region
	Equalities []CellEquality
}

// Circuit bundles everything the framework exposes about a synthesized
// circuit: its constraint system, its region layout and the concrete values
// of its fixed columns.
type Circuit struct {
	CS     ConstraintSystem
	Layout Layout
	Fixed  FixedMatrix
}

// AdviceCellName returns the canonical name for an advice cell, identified by
// region, column index and absolute row within the region.
func AdviceCellName(region, column, row int) string {
	return fmt.Sprintf("A-%d-%d-%d", region, column, row)
}

// FixedCellName returns the canonical name for a fixed cell.
func FixedCellName(region, column, row int) string {
	return fmt.Sprintf("F-%d-%d-%d", region, column, row)
}

// InstanceCellName returns the canonical name for an instance cell.  Instance
// cells are global to the circuit rather than scoped to a region.
func InstanceCellName(column, row int) string {
	return fmt.Sprintf("I-%d-%d", column, row)
}

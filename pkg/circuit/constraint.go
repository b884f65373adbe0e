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

// ColumnKind distinguishes the four column classes of a PLONKish constraint
// system.
type ColumnKind int

const (
	// AdviceColumn holds private witness values.
	AdviceColumn ColumnKind = iota
	// FixedColumn holds values baked in at circuit-definition time.
	FixedColumn
	// InstanceColumn holds public input values.
	InstanceColumn
	// SelectorColumn holds gate activation bits.  Selector columns are not
	// data cells and are skipped by the cell-level analyses.
	SelectorColumn
)

func (k ColumnKind) String() string {
	switch k {
	case AdviceColumn:
		return "advice"
	case FixedColumn:
		return "fixed"
	case InstanceColumn:
		return "instance"
	case SelectorColumn:
		return "selector"
	default:
		return "unknown"
	}
}

// Column identifies a column by kind and index.  Indices are scoped per kind,
// following the halo2 convention (advice column 0 and fixed column 0 are
// distinct columns).
type Column struct {
	Kind  ColumnKind
	Index int
}

// Query is a (column, rotation) pair, i.e. a reference to a column at a row
// offset relative to the current row.
type Query struct {
	Column   Column
	Rotation int
}

// Gate is a named collection of polynomial expressions, each implicitly
// asserted equal to zero wherever the gate's selector(s) are active.
type Gate struct {
	Name  string
	Polys []Expr
}

// Lookup asserts that, at every row, the tuple of input-expression values
// matches some row of the table-expression tuple.  Table expressions are
// references into fixed columns.
type Lookup struct {
	Name   string
	Inputs []Expr
	Table  []Expr
}

// ConstraintSystem is the static part of a circuit: its gates, lookups and
// column queries.  It is produced by the circuit framework and consumed
// read-only by every analysis.
type ConstraintSystem struct {
	// Number of selector columns declared by the circuit.
	NumSelectors int
	// Custom gates.
	Gates []Gate
	// Lookup arguments.
	Lookups []Lookup
	// All advice (column, rotation) pairs queried by any gate.
	AdviceQueries []Query
}

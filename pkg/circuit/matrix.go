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
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// CellState classifies the contents of a fixed-matrix cell.
type CellState int

const (
	// Unassigned marks a cell that was never written.  Table data is treated
	// as ending at the first unassigned cell.
	Unassigned CellState = iota
	// Assigned marks a cell holding a concrete field value.
	Assigned
	// Poisoned marks a malformed or deliberately blinded cell.  Poisoned
	// cells must never be read as data.
	Poisoned
)

// CellValue is the content of one fixed-matrix cell.  Value is only
// meaningful when State is Assigned.
type CellValue struct {
	State CellState
	Value fr.Element
}

// AssignedCell constructs an assigned cell holding the given value.
func AssignedCell(val uint64) CellValue {
	var element fr.Element
	//
	element.SetUint64(val)
	//
	return CellValue{Assigned, element}
}

// FixedMatrix holds the concrete values of all fixed columns, column-major:
// the outer index is the fixed column, the inner index the absolute row.
type FixedMatrix [][]CellValue

// Height returns the number of rows in the matrix, or zero when there are no
// fixed columns.
func (m FixedMatrix) Height() int {
	if len(m) == 0 {
		return 0
	}
	//
	return len(m[0])
}

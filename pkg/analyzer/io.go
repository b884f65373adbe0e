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

// VerificationMode selects how the uniqueness prover chooses public inputs.
type VerificationMode int

const (
	// ModeSpecific checks one user-chosen instance assignment.
	ModeSpecific VerificationMode = iota
	// ModeRandom lets the solver sample instance assignments, up to an
	// iteration bound.
	ModeRandom
)

// AnalyzerInput configures one underconstrained-circuit analysis.
type AnalyzerInput struct {
	Mode VerificationMode
	// Instance variable name to decimal value.  Consulted in Specific mode.
	Instances map[string]string
	// Iteration bound for Random mode.
	Iterations uint
}

// AnalyzerOutputStatus is the terminal classification of an analysis.
type AnalyzerOutputStatus int

const (
	// Invalid means the analysis did not run to completion.
	Invalid AnalyzerOutputStatus = iota
	// UnusedCustomGates is the terminal status of the unused-gate pass.
	UnusedCustomGates
	// UnusedColumns is the terminal status of the unused-column pass.
	UnusedColumns
	// UnconstrainedCells is the terminal status of the unconstrained-cell
	// pass.
	UnconstrainedCells
	// Overconstrained means the base encoding admits no witness at all.
	Overconstrained
	// Underconstrained means two witnesses agree on every instance variable
	// but differ elsewhere: the public input does not determine the witness.
	Underconstrained
	// NotUnderconstrained means every satisfiable instance assignment was
	// visited and none admitted a second witness.
	NotUnderconstrained
	// NotUnderconstrainedLocal means the iteration budget ran out without
	// finding a second witness.  A bounded negative result, not a proof.
	NotUnderconstrainedLocal
)

func (s AnalyzerOutputStatus) String() string {
	switch s {
	case Invalid:
		return "Invalid"
	case UnusedCustomGates:
		return "UnusedCustomGates"
	case UnusedColumns:
		return "UnusedColumns"
	case UnconstrainedCells:
		return "UnconstrainedCells"
	case Overconstrained:
		return "Overconstrained"
	case Underconstrained:
		return "Underconstrained"
	case NotUnderconstrained:
		return "NotUnderconstrained"
	case NotUnderconstrainedLocal:
		return "NotUnderconstrainedLocal"
	default:
		return "Invalid"
	}
}

// AnalyzerOutput is the result handed to the reporting collaborator.
type AnalyzerOutput struct {
	Status AnalyzerOutputStatus
}

// AnalyzerType selects which analysis Dispatch runs.
type AnalyzerType int

const (
	// TypeUnusedGates runs the unused custom gate detection.
	TypeUnusedGates AnalyzerType = iota
	// TypeUnusedColumns runs the unused advice column detection.
	TypeUnusedColumns
	// TypeUnconstrainedCells runs the assigned-but-unconstrained cell
	// detection.
	TypeUnconstrainedCells
	// TypeUnderconstrained runs the witness-uniqueness analysis.
	TypeUnderconstrained
)

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
	"os/exec"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/obatirou/halo2-analyzer/pkg/circuit"
	"github.com/obatirou/halo2-analyzer/pkg/smt"
)

// These tests drive a real cvc5 process over the bn254 scalar field and are
// skipped when the binary is not installed.

func cvc5(t *testing.T) smt.Solver {
	t.Helper()
	//
	if _, err := exec.LookPath(smt.DefaultBinary); err != nil {
		t.Skipf("%s not installed", smt.DefaultBinary)
	}
	//
	return smt.NewProcessSolver(smt.DefaultBinary, fr.Modulus())
}

func Test_Cvc5_SumIsUnderconstrained(t *testing.T) {
	solver := cvc5(t)
	//
	a := New(sumCircuit())
	input := newInput(ModeSpecific, map[string]string{"I-0-0": "5"}, 0)
	//
	output, err := a.AnalyzeUnderconstrained(input, solver, fr.Modulus())
	//
	require.NoError(t, err)
	require.Equal(t, Underconstrained, output.Status)
}

func Test_Cvc5_CopyIsNotUnderconstrainedLocal(t *testing.T) {
	solver := cvc5(t)
	//
	a := New(uniqueCircuit())
	output, err := a.AnalyzeUnderconstrained(newInput(ModeRandom, nil, 2), solver, fr.Modulus())
	//
	require.NoError(t, err)
	require.Equal(t, NotUnderconstrainedLocal, output.Status)
}

func Test_Cvc5_ContradictionIsOverconstrained(t *testing.T) {
	solver := cvc5(t)
	//
	// A gate asserting 1 = 0 on an active row admits no witness at all.
	c := &circuit.Circuit{
		CS: circuit.ConstraintSystem{
			NumSelectors: 1,
			Gates:        []circuit.Gate{{Name: "absurd", Polys: []circuit.Expr{circuit.Const(1)}}},
		},
		Layout: circuit.Layout{
			Regions: []circuit.Region{
				{
					Name:             "r0",
					RowCount:         1,
					EnabledSelectors: enabledSelectors(0),
					Equalities:       []circuit.CellEquality{{Left: "I-0-0", Right: "A-0-0-0"}},
				},
			},
		},
	}
	//
	a := New(c)
	output, err := a.AnalyzeUnderconstrained(newInput(ModeRandom, nil, 1), solver, fr.Modulus())
	//
	require.NoError(t, err)
	require.Equal(t, Overconstrained, output.Status)
}

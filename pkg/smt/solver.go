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
package smt

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"os/exec"

	log "github.com/sirupsen/logrus"
)

// ErrSolverInvocation indicates the external solver process could not be
// started or produced unparsable output.  Fatal; never retried.
var ErrSolverInvocation = errors.New("solver invocation failed")

// ErrModelLookup indicates a variable expected in a returned model was
// absent, i.e. the encoding and the solver response disagree.  Fatal.
var ErrModelLookup = errors.New("model lookup failed")

// Solver submits one complete SMT-LIB script and returns the resulting
// model.  Each submission is an independent query: the script must carry its
// own (check-sat) and (get-value ...) footer, as produced by
// Printer.QueryScript.
type Solver interface {
	Submit(script string) (Model, error)
}

// DefaultBinary is the solver invoked when none is configured.
const DefaultBinary = "cvc5"

// ProcessSolver runs an external SMT solver binary on each submitted script.
// The script is handed over as a temporary file, matching the way cvc5 is
// conventionally driven.
type ProcessSolver struct {
	// Name or path of the solver binary.
	Binary string
	// Field order used to normalize model values.
	Prime *big.Int
}

// NewProcessSolver constructs a gateway around the given solver binary.
func NewProcessSolver(binary string, prime *big.Int) *ProcessSolver {
	if binary == "" {
		binary = DefaultBinary
	}
	//
	return &ProcessSolver{Binary: binary, Prime: prime}
}

// Submit writes the script to a scratch file, runs the solver on it and
// parses the textual response.  A stuck solver is fatal for the analysis; no
// timeout or retry is applied here.
func (s *ProcessSolver) Submit(script string) (Model, error) {
	file, err := os.CreateTemp("", "halo2-analyzer-*.smt2")
	if err != nil {
		return Model{}, fmt.Errorf("%w: %v", ErrSolverInvocation, err)
	}
	//
	defer os.Remove(file.Name())
	//
	if _, err := file.WriteString(script); err != nil {
		file.Close()
		return Model{}, fmt.Errorf("%w: %v", ErrSolverInvocation, err)
	}
	//
	if err := file.Close(); err != nil {
		return Model{}, fmt.Errorf("%w: %v", ErrSolverInvocation, err)
	}
	//
	log.Debugf("submitting %d byte query to %s", len(script), s.Binary)
	//
	out, err := exec.Command(s.Binary, file.Name()).Output()
	if err != nil {
		return Model{}, fmt.Errorf("%w: running %s: %v", ErrSolverInvocation, s.Binary, err)
	}
	//
	model, err := ParseModelResponse(string(out), s.Prime)
	if err != nil {
		return Model{}, err
	}
	//
	log.Debugf("solver verdict: %s", model.Sat)
	//
	return model, nil
}

// ScriptedSolver is an in-memory Solver for tests.  It replays a fixed
// sequence of models, one per submission, and records every submitted script
// so tests can inspect the emitted encoding.
type ScriptedSolver struct {
	// Models returned in order, one per Submit call.
	Models []Model
	// Scripts records every submitted script.
	Scripts []string
}

// Submit replays the next canned model.
func (s *ScriptedSolver) Submit(script string) (Model, error) {
	s.Scripts = append(s.Scripts, script)
	//
	if len(s.Scripts) > len(s.Models) {
		return Model{}, fmt.Errorf("%w: scripted solver exhausted after %d queries", ErrSolverInvocation, len(s.Models))
	}
	//
	return s.Models[len(s.Scripts)-1], nil
}

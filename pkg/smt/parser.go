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
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// Satisfiability is the verdict of one solver query.
type Satisfiability int

const (
	// Satisfiable means the solver found a model.
	Satisfiable Satisfiability = iota
	// Unsatisfiable means no model exists.
	Unsatisfiable
	// Unknown means the solver gave up.
	Unknown
)

func (s Satisfiability) String() string {
	switch s {
	case Satisfiable:
		return "sat"
	case Unsatisfiable:
		return "unsat"
	case Unknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Model is the structured response to one satisfiability query: the verdict,
// plus (when satisfiable) an assignment of every requested variable to a
// field value, held as a decimal string in [0, p).
type Model struct {
	Sat    Satisfiability
	Values map[string]string
}

// Value looks up the assignment of a variable in the model.  A missing
// variable indicates a protocol mismatch between the encoding and the solver
// response, which is fatal for the analysis.
func (m Model) Value(name string) (string, error) {
	val, ok := m.Values[name]
	if !ok {
		return "", fmt.Errorf("%w: variable %s absent from model", ErrModelLookup, name)
	}
	//
	return val, nil
}

// Matches one get-value response line, e.g. ((A-0-1-0 (as ff5 F))).
var valueLine = regexp.MustCompile(`^\(\((\S+) \(as ff(-?\d+) F\)\)\)$`)

// ParseModelResponse parses the textual output of a solver run into a Model.
// The first line carries the verdict; each subsequent line carries one
// variable binding.  Values are reduced modulo the given prime.  Anything
// else (including solver error output) fails the parse.
func ParseModelResponse(output string, prime *big.Int) (Model, error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return Model{}, fmt.Errorf("%w: empty solver response", ErrSolverInvocation)
	}
	//
	model := Model{Values: make(map[string]string)}
	//
	switch strings.TrimSpace(lines[0]) {
	case "sat":
		model.Sat = Satisfiable
	case "unsat":
		model.Sat = Unsatisfiable
		return model, nil
	case "unknown":
		model.Sat = Unknown
		return model, nil
	default:
		return Model{}, fmt.Errorf("%w: unexpected verdict %q", ErrSolverInvocation, lines[0])
	}
	//
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		//
		match := valueLine.FindStringSubmatch(line)
		if match == nil {
			return Model{}, fmt.Errorf("%w: unparsable model line %q", ErrSolverInvocation, line)
		}
		//
		val, ok := new(big.Int).SetString(match[2], 10)
		if !ok {
			return Model{}, fmt.Errorf("%w: unparsable field value in %q", ErrSolverInvocation, line)
		}
		//
		model.Values[match[1]] = new(big.Int).Mod(val, prime).String()
	}
	//
	return model, nil
}

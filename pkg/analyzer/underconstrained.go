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
	"fmt"
	"math/big"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/obatirou/halo2-analyzer/pkg/smt"
)

// AnalyzeUnderconstrained decides whether the public input determines the
// private witness uniquely.  The whole constraint system is encoded once;
// the counterexample-guided loop then searches for two witnesses agreeing on
// every instance variable but differing elsewhere.
func (a *Analyzer) AnalyzeUnderconstrained(input AnalyzerInput, solver smt.Solver, prime *big.Int) (AnalyzerOutput, error) {
	printer := smt.NewPrinter(prime)
	//
	if err := a.decomposePolynomial(printer); err != nil {
		return AnalyzerOutput{Invalid}, err
	}
	//
	a.encodeEqualities(printer)
	//
	status, err := a.uniquenessAssertion(printer, solver, input)
	if err != nil {
		return AnalyzerOutput{Invalid}, err
	}
	//
	return AnalyzerOutput{status}, nil
}

// uniquenessAssertion runs the counterexample-guided search over a fully
// encoded system.  Scope discipline: each iteration pushes exactly one scope
// for the "same public input, different witness" check and pops it before
// writing the blocking clause; the Underconstrained early return abandons the
// script with its final scope open, which is fine since nothing is submitted
// afterwards.
func (a *Analyzer) uniquenessAssertion(printer *smt.Printer, solver smt.Solver,
	input AnalyzerInput) (AnalyzerOutputStatus, error) {
	instance := make(map[string]bool)
	for _, name := range a.InstanceColumns() {
		instance[name] = true
	}
	//
	maxIterations := uint(1)
	//
	if input.Mode == ModeSpecific {
		// Pin each instance variable to its proposed value, permanently.
		for _, name := range sortedKeys(input.Instances) {
			printer.WriteVar(name)
			//
			cond, err := printer.GetAssert(name, input.Instances[name], smt.KindInstance, smt.OpEq)
			if err != nil {
				return Invalid, fmt.Errorf("%w: %v", ErrEncoding, err)
			}
			//
			printer.WriteAssert(cond)
		}
	} else {
		maxIterations = input.Iterations
	}
	// All variables the encoding declared, instance variables included.
	variables := printer.Vars()
	// Base query: does any witness exist at all?
	base, err := submit(solver, printer)
	if err != nil {
		return Invalid, err
	}
	//
	if base.Sat == smt.Unsatisfiable {
		return Overconstrained, nil
	}
	//
	for iteration := uint(1); iteration <= maxIterations; iteration++ {
		model, err := submit(solver, printer)
		if err != nil {
			return Invalid, err
		}
		//
		if model.Sat == smt.Unsatisfiable {
			return NotUnderconstrained, nil
		}
		//
		log.Debugf("model %d to be checked:", iteration)
		//
		for _, name := range variables {
			if val, ok := model.Values[name]; ok {
				log.Debugf("  %s = %s", name, val)
			}
		}
		// Search for a second witness: same public input, different values
		// elsewhere.
		printer.Push()
		//
		var same, diff []string
		//
		for _, name := range variables {
			val, err := model.Value(name)
			if err != nil {
				return Invalid, err
			}
			// In Specific mode the instance variables are already pinned, so
			// they join the "differs" side where their disjuncts are
			// trivially false.
			if instance[name] && input.Mode != ModeSpecific {
				cond, err := printer.GetAssert(name, val, smt.KindInstance, smt.OpEq)
				if err != nil {
					return Invalid, fmt.Errorf("%w: %v", ErrEncoding, err)
				}
				//
				same = append(same, cond)
			} else {
				cond, err := printer.GetAssert(name, val, smt.KindInstance, smt.OpNeq)
				if err != nil {
					return Invalid, fmt.Errorf("%w: %v", ErrEncoding, err)
				}
				//
				diff = append(diff, cond)
			}
		}
		//
		printer.WriteAssert(printer.GetAnd(append(same, printer.GetOr(diff))))
		//
		alternate, err := submit(solver, printer)
		if err != nil {
			return Invalid, err
		}
		//
		if alternate.Sat == smt.Satisfiable {
			log.Debug("equivalent model for the same public input:")
			//
			for _, name := range variables {
				if val, ok := alternate.Values[name]; ok {
					log.Debugf("  %s = %s", name, val)
				}
			}
			//
			return Underconstrained, nil
		}
		//
		log.Debugf("no equivalent model with the same public input for model %d", iteration)
		//
		printer.Pop()
		// Block this public-input point so a later iteration never resamples
		// it.
		var blocking []string
		//
		for _, name := range variables {
			if !instance[name] {
				continue
			}
			//
			val, err := model.Value(name)
			if err != nil {
				return Invalid, err
			}
			//
			cond, err := printer.GetAssert(name, val, smt.KindInstance, smt.OpNeq)
			if err != nil {
				return Invalid, fmt.Errorf("%w: %v", ErrEncoding, err)
			}
			//
			blocking = append(blocking, cond)
		}
		//
		printer.WriteAssert(printer.GetOr(blocking))
	}
	//
	return NotUnderconstrainedLocal, nil
}

// Dispatch runs the analysis selected by the given type.
func (a *Analyzer) Dispatch(analyzerType AnalyzerType, input AnalyzerInput, solver smt.Solver,
	prime *big.Int) (AnalyzerOutput, error) {
	switch analyzerType {
	case TypeUnusedGates:
		return a.AnalyzeUnusedGates(), nil
	case TypeUnusedColumns:
		return a.AnalyzeUnusedColumns(), nil
	case TypeUnconstrainedCells:
		return a.AnalyzeUnconstrainedCells(), nil
	case TypeUnderconstrained:
		return a.AnalyzeUnderconstrained(input, solver, prime)
	default:
		panic(fmt.Sprintf("unhandled analyzer type %d", analyzerType))
	}
}

// submit issues one query over the current script.  An unknown verdict is
// fatal: the search cannot make progress without a definite answer.
func submit(solver smt.Solver, printer *smt.Printer) (smt.Model, error) {
	model, err := solver.Submit(printer.QueryScript())
	if err != nil {
		return smt.Model{}, err
	}
	//
	if model.Sat == smt.Unknown {
		return smt.Model{}, fmt.Errorf("%w: solver returned unknown", smt.ErrSolverInvocation)
	}
	//
	return model, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	//
	sort.Strings(keys)
	//
	return keys
}

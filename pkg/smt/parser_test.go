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
	"math/big"
	"testing"
)

var testPrime = big.NewInt(101)

func Test_Parser_Sat(t *testing.T) {
	output := "sat\n((A-0-0-0 (as ff5 F)))\n((I-0-0 (as ff12 F)))\n"
	//
	model, err := ParseModelResponse(output, testPrime)
	if err != nil {
		t.Fatal(err)
	}
	//
	if model.Sat != Satisfiable {
		t.Fatalf("expected sat, got %s", model.Sat)
	}
	//
	checkValue(t, model, "A-0-0-0", "5")
	checkValue(t, model, "I-0-0", "12")
}

func Test_Parser_Unsat(t *testing.T) {
	// get-value requests are appended unconditionally; on unsat the solver
	// answers with errors after the verdict, which must be ignored.
	output := "unsat\n(error \"cannot get value: the model is not available\")\n"
	//
	model, err := ParseModelResponse(output, testPrime)
	if err != nil {
		t.Fatal(err)
	}
	//
	if model.Sat != Unsatisfiable {
		t.Fatalf("expected unsat, got %s", model.Sat)
	}
}

func Test_Parser_Unknown(t *testing.T) {
	model, err := ParseModelResponse("unknown\n", testPrime)
	if err != nil {
		t.Fatal(err)
	}
	//
	if model.Sat != Unknown {
		t.Fatalf("expected unknown, got %s", model.Sat)
	}
}

func Test_Parser_NegativeNormalization(t *testing.T) {
	model, err := ParseModelResponse("sat\n((x (as ff-1 F)))\n", testPrime)
	if err != nil {
		t.Fatal(err)
	}
	//
	checkValue(t, model, "x", "100")
}

func Test_Parser_Garbage(t *testing.T) {
	if _, err := ParseModelResponse("segmentation fault\n", testPrime); !errors.Is(err, ErrSolverInvocation) {
		t.Errorf("expected solver invocation error, got %v", err)
	}
	//
	if _, err := ParseModelResponse("", testPrime); !errors.Is(err, ErrSolverInvocation) {
		t.Errorf("expected solver invocation error, got %v", err)
	}
	//
	if _, err := ParseModelResponse("sat\n((x nonsense))\n", testPrime); !errors.Is(err, ErrSolverInvocation) {
		t.Errorf("expected solver invocation error, got %v", err)
	}
}

func Test_Parser_ModelLookup(t *testing.T) {
	model, err := ParseModelResponse("sat\n((x (as ff1 F)))\n", testPrime)
	if err != nil {
		t.Fatal(err)
	}
	//
	if _, err := model.Value("y"); !errors.Is(err, ErrModelLookup) {
		t.Errorf("expected model lookup error, got %v", err)
	}
}

func checkValue(t *testing.T, model Model, name string, expected string) {
	t.Helper()
	//
	val, err := model.Value(name)
	if err != nil {
		t.Fatal(err)
	}
	//
	if val != expected {
		t.Errorf("%s = %s, expected %s", name, val, expected)
	}
}

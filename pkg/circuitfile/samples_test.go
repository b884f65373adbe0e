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
package circuitfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/obatirou/halo2-analyzer/pkg/circuit"
)

func Test_Samples_Add(t *testing.T) {
	c := readSample(t, "add.json")
	//
	if len(c.CS.Gates) != 1 || len(c.CS.Gates[0].Polys) != 1 {
		t.Fatalf("unexpected gates: %v", c.CS.Gates)
	}
	//
	if got := c.CS.Gates[0].Polys[0].String(); got != "(* s0 (+ (+ a0@0 a1@0) (- a2@0)))" {
		t.Errorf("unexpected polynomial: %s", got)
	}
	//
	if len(c.Layout.Regions) != 1 || !c.Layout.Regions[0].EnabledSelectors.Test(0) {
		t.Errorf("unexpected layout: %v", c.Layout.Regions)
	}
}

func Test_Samples_Range(t *testing.T) {
	c := readSample(t, "range.json")
	//
	if len(c.CS.Lookups) != 1 {
		t.Fatalf("unexpected lookups: %v", c.CS.Lookups)
	}
	//
	if len(c.Fixed) != 1 || c.Fixed.Height() != 4 {
		t.Fatalf("unexpected fixed matrix: %v", c.Fixed)
	}
	//
	for row := 0; row < 4; row++ {
		if c.Fixed[0][row].State != circuit.Assigned {
			t.Errorf("fixed cell %d not assigned", row)
		}
	}
}

func readSample(t *testing.T, name string) *circuit.Circuit {
	t.Helper()
	//
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	//
	c, err := CircuitFromJson(data)
	if err != nil {
		t.Fatal(err)
	}
	//
	return c
}

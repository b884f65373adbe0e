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
package cmd

import (
	"bufio"
	"fmt"
	"math/big"
	"os"
	"strings"

	"golang.org/x/term"
)

// promptInstances interactively collects a value for every instance variable.
// It reports false when stdin is not a terminal (or there is nothing to ask
// for), in which case the caller falls back to random verification.
func promptInstances(instanceCols []string) (map[string]string, bool) {
	if len(instanceCols) == 0 || !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, false
	}
	//
	reader := bufio.NewReader(os.Stdin)
	instances := make(map[string]string, len(instanceCols))
	//
	for _, name := range instanceCols {
		for {
			fmt.Printf("value for %s [0]: ", name)
			//
			line, err := reader.ReadString('\n')
			if err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
			//
			line = strings.TrimSpace(line)
			if line == "" {
				line = "0"
			}
			//
			if _, ok := new(big.Int).SetString(line, 10); !ok {
				fmt.Printf("%q is not a decimal field value\n", line)
				continue
			}
			//
			instances[name] = line
			//
			break
		}
	}
	//
	return instances, true
}

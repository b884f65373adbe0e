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
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/obatirou/halo2-analyzer/pkg/analyzer"
	"github.com/obatirou/halo2-analyzer/pkg/smt"
)

var gatesCmd = &cobra.Command{
	Use:   "gates [flags] circuit_file",
	Short: "Detect unused custom gates.",
	Long: `Detect gates whose every polynomial is identically zero under every
region's enabled-selector set.`,
	Run: func(cmd *cobra.Command, args []string) {
		runDeadCodeCmd(cmd, args, analyzer.TypeUnusedGates)
	},
}

var columnsCmd = &cobra.Command{
	Use:   "columns [flags] circuit_file",
	Short: "Detect unused advice columns.",
	Long:  `Detect advice column queries which appear in no gate polynomial.`,
	Run: func(cmd *cobra.Command, args []string) {
		runDeadCodeCmd(cmd, args, analyzer.TypeUnusedColumns)
	},
}

var cellsCmd = &cobra.Command{
	Use:   "cells [flags] circuit_file",
	Short: "Detect assigned but unconstrained cells.",
	Long: `Detect cells referenced inside a region which no active gate
polynomial constrains.  Such cells are very likely bugs.`,
	Run: func(cmd *cobra.Command, args []string) {
		runDeadCodeCmd(cmd, args, analyzer.TypeUnconstrainedCells)
	},
}

var underconstrainedCmd = &cobra.Command{
	Use:   "underconstrained [flags] circuit_file",
	Short: "Check whether the public input determines the witness uniquely.",
	Long: `Check, via an external SMT solver, whether some public input admits
more than one private witness.  With --instance assignments given, a single
check is run against that public input; otherwise the solver samples public
inputs up to the iteration bound.`,
	Run: runUnderconstrainedCmd,
}

func runDeadCodeCmd(cmd *cobra.Command, args []string, analyzerType analyzer.AnalyzerType) {
	configureLogging(cmd)
	//
	if len(args) != 1 {
		fmt.Println(cmd.UsageString())
		os.Exit(2)
	}
	//
	a := analyzer.New(readCircuitFile(args[0]))
	//
	output, err := a.Dispatch(analyzerType, analyzer.AnalyzerInput{}, nil, nil)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	reportOutput(a, output)
}

func runUnderconstrainedCmd(cmd *cobra.Command, args []string) {
	configureLogging(cmd)
	//
	if len(args) != 1 {
		fmt.Println(cmd.UsageString())
		os.Exit(2)
	}
	//
	a := analyzer.New(readCircuitFile(args[0]))
	prime := fieldPrime(cmd)
	input := resolveInput(cmd, a.InstanceColumns())
	solver := smt.NewProcessSolver(GetString(cmd, "solver"), prime)
	//
	output, err := a.AnalyzeUnderconstrained(input, solver, prime)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	reportOutput(a, output)
	//
	if output.Status == analyzer.Underconstrained {
		os.Exit(1)
	}
}

// fieldPrime reads the --field flag, defaulting to the bn254 scalar modulus.
func fieldPrime(cmd *cobra.Command) *big.Int {
	field := GetString(cmd, "field")
	if field == "" {
		return fr.Modulus()
	}
	//
	prime, ok := new(big.Int).SetString(field, 10)
	if !ok || prime.Sign() <= 0 {
		fmt.Printf("malformed field prime %q\n", field)
		os.Exit(2)
	}
	//
	return prime
}

// resolveInput assembles the verification input: explicit --instance
// assignments select Specific mode; otherwise the user is prompted when
// attached to a terminal, falling back to Random mode with the --iterations
// bound.
func resolveInput(cmd *cobra.Command, instanceCols []string) analyzer.AnalyzerInput {
	assignments := GetStringArray(cmd, "instance")
	//
	if len(assignments) > 0 {
		instances := defaultInstances(instanceCols)
		//
		for _, assignment := range assignments {
			name, value, found := strings.Cut(assignment, "=")
			if !found {
				fmt.Printf("malformed instance assignment %q (expected NAME=VALUE)\n", assignment)
				os.Exit(2)
			}
			//
			if _, ok := instances[name]; !ok {
				fmt.Printf("unknown instance variable %q (known: %s)\n", name, strings.Join(instanceCols, ", "))
				os.Exit(2)
			}
			//
			instances[name] = value
		}
		//
		return analyzer.AnalyzerInput{Mode: analyzer.ModeSpecific, Instances: instances}
	}
	//
	if instances, ok := promptInstances(instanceCols); ok {
		return analyzer.AnalyzerInput{Mode: analyzer.ModeSpecific, Instances: instances}
	}
	//
	return analyzer.AnalyzerInput{Mode: analyzer.ModeRandom, Iterations: GetUint(cmd, "iterations")}
}

func defaultInstances(instanceCols []string) map[string]string {
	instances := make(map[string]string, len(instanceCols))
	for _, name := range instanceCols {
		instances[name] = "0"
	}
	//
	return instances
}

func reportOutput(a *analyzer.Analyzer, output analyzer.AnalyzerOutput) {
	for _, finding := range a.Log {
		fmt.Println(finding)
	}
	//
	fmt.Printf("result: %s\n", output.Status)
}

func configureLogging(cmd *cobra.Command) {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
}

func init() {
	rootCmd.AddCommand(gatesCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(cellsCmd)
	rootCmd.AddCommand(underconstrainedCmd)
	//
	underconstrainedCmd.Flags().String("field", "", "field prime as a decimal string (default: bn254 scalar field)")
	underconstrainedCmd.Flags().String("solver", smt.DefaultBinary, "SMT solver binary to invoke")
	underconstrainedCmd.Flags().Uint("iterations", 5, "iteration bound for random verification")
	underconstrainedCmd.Flags().StringArray("instance", nil, "instance assignment NAME=VALUE (repeatable; selects specific verification)")
}

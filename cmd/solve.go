/*
Copyright © 2020 ConsenSys

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"github.com/spf13/cobra"
)

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use: "solve [system.ef]",

	Short:   "derives the tolerance of every variable in the equation file",
	Run:     cmdSolve,
	Version: buildString(),
}

var (
	fInputPath  string
	fCombos     []string
	fCheck      bool
	fCheckTol   float64
	fNumeric    bool
	fFormat     string
	fOutputPath string
)

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.PersistentFlags().StringVar(&fInputPath, "input", "", "specifies full path for the YAML file with values, tolerances and const errors")
	solveCmd.PersistentFlags().StringArrayVar(&fCombos, "combo", nil, "solves only the named equation combo; repeat for several combos")
	solveCmd.PersistentFlags().BoolVar(&fCheck, "check", false, "verifies caller values against the equations before trusting them")
	solveCmd.PersistentFlags().Float64Var(&fCheckTol, "check-tol", 0.01, "maximum difference allowed by --check")
	solveCmd.PersistentFlags().BoolVar(&fNumeric, "numeric", false, "differentiates with central finite differences instead of symbolically")
	solveCmd.PersistentFlags().StringVar(&fFormat, "format", "table", "output format, table or csv")
	solveCmd.PersistentFlags().StringVarP(&fOutputPath, "output", "o", "", "writes the report to this path instead of stdout")
	_ = solveCmd.MarkPersistentFlagRequired("input")
}

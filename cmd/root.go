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
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/consensys/errprop/logger"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "errprop",
	Short: "propagates measurement tolerances through equation systems",
	Long: `errprop reads a system of explicit equations, each defining one variable in
terms of others, and derives the worst case tolerance of every variable from
the tolerances of the measured inputs.`,
	Version: buildString(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch {
		case fVerbose >= 2:
			logger.SetLevel(zerolog.TraceLevel)
		case fVerbose == 1:
			logger.SetLevel(zerolog.DebugLevel)
		}
	},
}

var fVerbose int

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&fVerbose, "verbose", "v", "increase logging verbosity (-v debug, -vv trace)")
}

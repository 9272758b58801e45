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

// fmtCmd represents the fmt command
var fmtCmd = &cobra.Command{
	Use: "fmt [system.ef]",

	Short:   "rewrites the equation file in canonical form",
	Run:     cmdFmt,
	Version: buildString(),
}

var fWrite bool

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.PersistentFlags().BoolVarP(&fWrite, "write", "w", false, "writes the result back to the file instead of stdout")
}

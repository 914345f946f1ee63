// Copyright Consensys Software Inc.
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
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trident-lang/trident/pkg/api"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt file.tri",
	Short: "Print the canonical formatting of a Trident source file.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		contents := readFile(args[0])

		out, diags := api.FormatSource(args[0], contents)
		if diags.HasErrors() {
			fmt.Fprint(os.Stderr, "parse error, cannot format\n")
			os.Exit(1)
		}

		if GetFlag(cmd, "write") {
			if err := os.WriteFile(args[0], []byte(out), 0o644); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			return
		}

		fmt.Print(out)
	},
}

func init() {
	fmtCmd.Flags().Bool("write", false, "write the formatted output back to the input file")
	rootCmd.AddCommand(fmtCmd)
}

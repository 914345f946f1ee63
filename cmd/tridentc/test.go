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
	"github.com/trident-lang/trident/pkg/termio"
)

var testCmd = &cobra.Command{
	Use:   "test entry.tri",
	Short: "Run every #[test] function in a Trident project.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		report, diags := api.RunTests(args[0], depDirs(cmd), cfgFlags(cmd))
		if diags.HasErrors() {
			os.Exit(1)
		}

		color := termio.Stdout()

		for _, r := range report.Results {
			if r.Passed {
				fmt.Printf("%s %s\n", termio.Colorize(color, termio.Bold(), "PASS"), r.Name)
				continue
			}

			fmt.Printf("%s %s: %s\n", termio.Colorize(color, termio.Red(), "FAIL"), r.Name, r.Message)
		}

		if !report.Passed() {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
}

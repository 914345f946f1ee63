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

var costCmd = &cobra.Command{
	Use:   "cost entry.tri",
	Short: "Estimate the proving cost of a Trident project.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		target := GetString(cmd, "target")

		result, diags := api.AnalyzeCostsProject(args[0], api.CompileOptions{
			DepDirs:  depDirs(cmd),
			CfgFlags: cfgFlags(cmd),
			Target:   api.TargetConfig{Name: target},
		})
		if diags.HasErrors() {
			os.Exit(1)
		}

		out, err := result.ToJSON()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		fmt.Println(string(out))
	},
}

func init() {
	costCmd.Flags().String("target", "triton", "target cost model (triton, miden, cycles)")
	rootCmd.AddCommand(costCmd)
}

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

var checkCmd = &cobra.Command{
	Use:   "check entry.tri",
	Short: "Type-check a Trident project.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		prog := api.CheckProject(args[0], depDirs(cmd), cfgFlags(cmd))
		if prog == nil {
			os.Exit(1)
		}

		fmt.Printf("ok: %d function(s) checked\n", len(prog.Functions))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

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
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trident-lang/trident/pkg/api"
)

var compileCmd = &cobra.Command{
	Use:   "compile entry.tri",
	Short: "Lower a Trident project to target assembly.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		target := GetString(cmd, "target")
		register := GetFlag(cmd, "register")

		result, diags := api.CompileToBundle(args[0], api.CompileOptions{
			DepDirs:  depDirs(cmd),
			CfgFlags: cfgFlags(cmd),
			Target:   api.TargetConfig{Name: target, Register: register},
		})
		if diags.HasErrors() {
			os.Exit(1)
		}

		if register {
			fmt.Printf("// %s\n", result.Name)

			for _, line := range result.RegisterAsm {
				fmt.Println(line)
			}

			if out := GetString(cmd, "out"); out != "" {
				if err := os.WriteFile(out, result.Bytes, 0o644); err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(1)
				}
			} else {
				fmt.Println("// bytes:", hex.EncodeToString(result.Bytes))
			}

			return
		}

		fmt.Printf("// %s\n", result.Name)

		for _, line := range result.StackAsm {
			fmt.Println(line)
		}
	},
}

func init() {
	compileCmd.Flags().String("target", "triton", "target backend (triton, miden, riscv)")
	compileCmd.Flags().Bool("register", false, "lower to a register-machine target instead of a stack machine")
	compileCmd.Flags().String("out", "", "write the register target's binary encoding to this file")
	rootCmd.AddCommand(compileCmd)
}

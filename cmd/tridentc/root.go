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

// Package main implements tridentc, the command-line front-end over
// pkg/api. Its subcommand/root shape follows the teacher's pkg/cmd: a
// package-level rootCmd, one file per subcommand registering itself via an
// init-time AddCommand call, and small Get* flag helpers rather than a
// config struct threaded through every command.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is filled in when building via `make`, mirroring the teacher's
// Version variable convention.
var version string

var rootCmd = &cobra.Command{
	Use:   "tridentc",
	Short: "A compiler toolchain for the Trident zk-VM language.",
	Long:  "A compiler (and general toolbox) for Trident: type checking, assembly lowering, cost analysis, and test execution.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("tridentc ")

			switch {
			case version != "":
				fmt.Print(version)
			default:
				if info, ok := debug.ReadBuildInfo(); ok {
					fmt.Print(info.Main.Version)
				} else {
					fmt.Print("(unknown version)")
				}
			}

			fmt.Println()

			return
		}

		_ = cmd.Help()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("version", false, "print version information")
	rootCmd.PersistentFlags().StringArray("dep", nil, "additional dependency search directory (repeatable)")
	rootCmd.PersistentFlags().StringArray("cfg", nil, "enable a #[cfg(flag)] build flag (repeatable)")
}

// GetFlag gets a bool flag, exiting on a programming error (unknown flag
// name), matching the teacher's util.go convention.
func GetFlag(cmd *cobra.Command, flag string) bool {
	v, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return v
}

// GetString gets a string flag.
func GetString(cmd *cobra.Command, flag string) string {
	v, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return v
}

// GetStringArray gets a repeatable string flag.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	v, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return v
}

func depDirs(cmd *cobra.Command) []string { return GetStringArray(cmd, "dep") }

func cfgFlags(cmd *cobra.Command) map[string]bool {
	flags := map[string]bool{}
	for _, f := range GetStringArray(cmd, "cfg") {
		flags[f] = true
	}

	return flags
}

func readFile(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	return data
}

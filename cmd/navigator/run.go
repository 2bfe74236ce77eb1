// Copyright 2024 Policy Navigator Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/your-org/policy-navigator/internal/agent"
)

var (
	runProfile  string
	runDocument string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive consultation",
	Long: "Runs one consultation on the console. Clarifying questions are asked on\n" +
		"stdin; omit --document to use the bundled sample policy.",
	RunE: func(cmd *cobra.Command, args []string) error {
		asker := agent.NewConsoleAsker(os.Stdin, os.Stdout)
		a, err := buildAgent(asker)
		if err != nil {
			return err
		}

		result, err := a.Run(cmd.Context(), runProfile, runDocument)
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println(result.Report)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runProfile, "profile", "p", "", "User profile, e.g. \"29세/수도권/중소기업/월250/미혼\"")
	runCmd.Flags().StringVarP(&runDocument, "document", "d", "", "Path to a policy PDF or image")
	_ = runCmd.MarkFlagRequired("profile")
}

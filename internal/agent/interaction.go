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

package agent

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Asker collects one answer to a clarifying question. A nil Asker disables
// the interactive question loop entirely (non-interactive surfaces return
// open questions to the caller instead).
type Asker interface {
	Ask(question string) (string, error)
}

// ConsoleAsker prints questions and blocks on line-oriented reads, with no
// timeout; the user may take as long as they like.
type ConsoleAsker struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsoleAsker creates an asker over the given streams.
func NewConsoleAsker(in io.Reader, out io.Writer) *ConsoleAsker {
	return &ConsoleAsker{in: bufio.NewReader(in), out: out}
}

// Ask prints the question and reads one line. The answer is whitespace
// trimmed; an empty answer means the user chose to skip.
func (a *ConsoleAsker) Ask(question string) (string, error) {
	if _, err := fmt.Fprintf(a.out, "\n%s\n> ", question); err != nil {
		return "", err
	}
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

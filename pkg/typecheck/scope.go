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
package typecheck

import "github.com/trident-lang/trident/pkg/ast"

// local describes one bound name: its type and whether it may be the target
// of an Assign statement.
type local struct {
	ty      ast.Ty
	mutable bool
}

// scopeStack is a stack of lexical scopes, innermost last.  pushScope and
// popScope must be paired around every block, on every exit path (including
// early returns), so a local never leaks past the end of its block.
type scopeStack struct {
	frames []map[string]local
}

func newScopeStack() *scopeStack {
	return &scopeStack{}
}

func (s *scopeStack) pushScope() {
	s.frames = append(s.frames, map[string]local{})
}

func (s *scopeStack) popScope() {
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *scopeStack) bind(name string, l local) {
	s.frames[len(s.frames)-1][name] = l
}

func (s *scopeStack) lookup(name string) (local, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if l, ok := s.frames[i][name]; ok {
			return l, true
		}
	}

	return local{}, false
}

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
package source

import "testing"

func Test_Set_AddGet(t *testing.T) {
	set := NewSet()

	a := set.Add("a.tri", []byte("program a"))
	b := set.Add("b.tri", []byte("program b"))

	if a == b {
		t.Fatalf("distinct files got the same FileID")
	}

	fa := set.Get(a)
	if fa.Name() != "a.tri" {
		t.Errorf("Get(a).Name() = %q, want %q", fa.Name(), "a.tri")
	}

	if string(fa.Contents()) != "program a" {
		t.Errorf("Get(a).Contents() = %q, want %q", fa.Contents(), "program a")
	}

	fb := set.Get(b)
	if string(fb.Contents()) != "program b" {
		t.Errorf("Get(b).Contents() = %q, want %q", fb.Contents(), "program b")
	}
}

func Test_Set_Text(t *testing.T) {
	set := NewSet()

	id := set.Add("f.tri", []byte("program foo"))
	span := NewSpan(id, 0, len("program"))

	if got := set.Text(span); got != "program" {
		t.Errorf("Text(span) = %q, want %q", got, "program")
	}
}

func Test_Span_Merge(t *testing.T) {
	id := FileID(0)

	a := NewSpan(id, 2, 5)
	b := NewSpan(id, 10, 14)

	m := a.Merge(b)

	if m.Start != 2 || m.End != 14 {
		t.Errorf("Merge() = {%d,%d}, want {2,14}", m.Start, m.End)
	}

	if got := m.Length(); got != 12 {
		t.Errorf("Length() = %d, want 12", got)
	}
}

func Test_Span_Length(t *testing.T) {
	span := NewSpan(FileID(0), 3, 9)

	if got := span.Length(); got != 6 {
		t.Errorf("Length() = %d, want 6", got)
	}
}

func Test_Spanned_NewSpanned(t *testing.T) {
	span := NewSpan(FileID(0), 0, 1)
	s := NewSpanned[int](42, span)

	if s.Node != 42 {
		t.Errorf("Node = %d, want 42", s.Node)
	}

	if s.Span != span {
		t.Errorf("Span = %v, want %v", s.Span, span)
	}
}

func Test_File_LineOf(t *testing.T) {
	set := NewSet()
	id := set.Add("f.tri", []byte("fn a() {}\nfn b() {}\nfn c() {}\n"))

	f := set.Get(id)

	// offset 0 is on the first line.
	line := f.LineOf(0)
	if line.Number != 1 {
		t.Errorf("LineOf(0).Number = %d, want 1", line.Number)
	}

	// offset within the second line ("fn b() {}") starts at byte 10.
	line = f.LineOf(12)
	if line.Number != 2 {
		t.Errorf("LineOf(12).Number = %d, want 2", line.Number)
	}

	if line.Text != "fn b() {}" {
		t.Errorf("LineOf(12).Text = %q, want %q", line.Text, "fn b() {}")
	}

	// offset within the third line.
	line = f.LineOf(22)
	if line.Number != 3 {
		t.Errorf("LineOf(22).Number = %d, want 3", line.Number)
	}
}

// Copyright 2024 The LykiaDB Authors.
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

// Package token defines the lexical tokens produced by the scanner and the
// Span type that every AST node and token carries.
package token

import "fmt"

// Span is a contiguous source region, in both byte offsets and line numbers.
// Invariant: 0 <= Start <= End <= len(source) for any span drawn from a
// given source string.
type Span struct {
	Start   int `bson:"start"`
	End     int `bson:"end"`
	Line    int `bson:"line"`
	LineEnd int `bson:"line_end"`
}

// Merge returns the smallest span covering both a and b.
func Merge(a, b Span) Span {
	s := Span{
		Start:   a.Start,
		End:     a.End,
		Line:    a.Line,
		LineEnd: a.LineEnd,
	}
	if b.Start < s.Start {
		s.Start = b.Start
	}
	if b.End > s.End {
		s.End = b.End
	}
	if b.Line < s.Line {
		s.Line = b.Line
	}
	if b.LineEnd > s.LineEnd {
		s.LineEnd = b.LineEnd
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.Line, s.Start, s.LineEnd, s.End)
}

// Spanned is implemented by every AST node and token.
type Spanned interface {
	GetSpan() Span
}

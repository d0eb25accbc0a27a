/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package calc

import (
	"context"
	"strings"
	"testing"

	"dirpx.dev/errslot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCtx() context.Context {
	return errslot.WithRegistry(context.Background(), errslot.NewRegistry())
}

func TestExecute(t *testing.T) {
	tests := []struct {
		line string
		want string
		quit bool
	}{
		{line: "", want: Help},
		{line: "   ", want: Help},
		{line: "help", want: Help},
		{line: "quit", want: "quitting", quit: true},
		{line: "sum", want: "0"},
		{line: "sum 1 2 3", want: "6"},
		{line: "sum -4 +1", want: "-3"},
		{line: "mul", want: "1"},
		{line: "mul 2 3 4", want: "24"},
		{line: "sub 10 3 2", want: "5"},
		{line: "div 100 5 2", want: "10"},
		{line: "mod 7 3", want: "1"},
		{line: "\tsum  1\t2 ", want: "3"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, quit, err := Execute(newCtx(), tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.quit, quit)
		})
	}
}

func TestResponder_Failures(t *testing.T) {
	tests := []struct {
		line   string
		prefix string
	}{
		{"div 1 0", "Error (div): division by zero"},
		{"mod 1", "Error (mod): wrong argument count: 1 (required: 2)"},
		{"mod 1 2 3", "Error (mod): wrong argument count: 3 (required: 2)"},
		{"mod 1 0", "Error (mod): division by zero"},
		{"sub 1", "Error (sub): wrong argument count: 1 (required: [2, MAX])"},
		{"div", "Error (div): wrong argument count: 0 (required: [2, MAX])"},
		{"sum 1 x2", `Error (sum): int64 parse error: ->"x2"`},
		{"mul 12ab", `Error (mul): int64 parse error: "12"->"ab"`},
		{"mod 1 99999999999999999999", `Error (mod): int64 parse error: ->"99999999999999999999"`},
	}
	r := NewResponder()
	ctx := newCtx()
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			rep := r.Respond(ctx, tt.line)
			require.NoError(t, rep.Err)
			assert.False(t, rep.Quit)
			assert.True(t, strings.HasPrefix(rep.Text, tt.prefix+"\nDetailed error diagnostic:\n----\n"),
				"reply %q does not start with %q", rep.Text, tt.prefix)
			assert.True(t, strings.HasSuffix(rep.Text, "\n----"))
		})
	}
}

func TestResponder_DiagnosticListsCommand(t *testing.T) {
	rep := NewResponder().Respond(newCtx(), "div 1 0")
	assert.Contains(t, rep.Text, "\n    calc.Command: div")
	assert.Contains(t, rep.Text, "\n    Caught error: division by zero")
}

func TestResponder_ErrorQuit(t *testing.T) {
	rep := NewResponder().Respond(newCtx(), "error-quit")
	assert.ErrorIs(t, rep.Err, ErrErrorQuit)
	assert.Empty(t, rep.Text)
}

func TestResponder_Success(t *testing.T) {
	r := NewResponder()
	ctx := newCtx()
	assert.Equal(t, Reply{Text: "6"}, r.Respond(ctx, "sum 1 2 3"))
	assert.Equal(t, Reply{Text: "quitting", Quit: true}, r.Respond(ctx, "quit"))
}

func TestParseError_String(t *testing.T) {
	assert.Equal(t, `->"abc"`, ParseError{Input: "abc", Pos: 0}.String())
	assert.Equal(t, `"ab"->"cd"`, ParseError{Input: "abcd", Pos: 2}.String())
	assert.Equal(t, `"abc"<-`, ParseError{Input: "abc", Pos: 3}.String())
}

func TestArgCount_String(t *testing.T) {
	assert.Equal(t, "1 (required: 2)", ArgCount{Count: 1, Min: 2, Max: 2}.String())
	assert.Equal(t, "5 (required: [1, 3])", ArgCount{Count: 5, Min: 1, Max: 3}.String())
	assert.Equal(t, "0 (required: [2, MAX])", ArgCount{Count: 0, Min: 2, Max: Unbounded}.String())
}

func TestParsedPrefix(t *testing.T) {
	tests := map[string]int{
		"abc":                  0,
		"12ab":                 2,
		"-7x":                  2,
		"+":                    0,
		"1.5":                  1,
		"99999999999999999999": 0,
	}
	for in, want := range tests {
		assert.Equal(t, want, parsedPrefix(in), in)
	}
}

func TestWire(t *testing.T) {
	assert.Equal(t, "a\r\nb\r\n", wire("a\r\nb"))
	assert.Equal(t, "\r\n", wire(""))
}

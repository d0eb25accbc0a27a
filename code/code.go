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

package code

import (
	"bytes"
	"encoding"
	"errors"
	"regexp"
	"strings"
)

// Code classifies a failure for transport adapters. It travels as an
// ordinary errslot payload:
//
//	return errslot.New(ctx, code.NotFound, httpx.Message("no such order"))
//
// A distinct type keeps raw strings from being loaded, or matched, where a
// canonical code is expected. Handlers take it with Required[code.Code]() or
// narrow it with Match(code.NotFound, code.Missing).
type Code string

// Length bounds of a canonical code. They are exported so that callers
// building codes from configuration can report the same limits.
const (
	// MinLength rules out one and two letter codes such as "x" or "e1".
	MinLength = 3

	// MaxLength fits descriptive codes like "failed_precondition" and keeps
	// codes short enough to use as metric labels.
	MaxLength = 64
)

// codeFmt is the pattern a canonical code matches:
//
//	[a-z]           a lowercase ASCII letter first
//	[a-z0-9_]{2,63} then letters, digits or underscores, 3..64 in total
//
// The quantifier is derived from MinLength and MaxLength. Change them
// together.
const codeFmt = `^[a-z][a-z0-9_]{2,63}$`

// codeRe accepts "not_found" and "internal" and rejects "Not_Found",
// "not-found", "nf" and "404".
var codeRe = regexp.MustCompile(codeFmt)

// ErrCodeInvalid is returned by Parse, Validate and the text methods for a
// value that is not a canonical code. Compare with errors.Is.
var ErrCodeInvalid = errors.New("errslot/code: invalid code")

var (
	_ encoding.TextMarshaler   = (*Code)(nil)
	_ encoding.TextUnmarshaler = (*Code)(nil)
)

// Empty is the zero code. Handlers treat it as "no code attached" and
// Validate rejects it.
const Empty Code = ""

// Parse normalizes s and validates the result. It is the entry point for
// codes that come from outside the program: configuration files, headers,
// or another service's response.
func Parse(s string) (Code, error) {
	s = Normalize(s)
	if !codeRe.MatchString(s) {
		return Empty, ErrCodeInvalid
	}
	return Code(s), nil
}

// MustParse is like Parse but panics on invalid input. Use it for
// package-level variables.
func MustParse(s string) Code {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Normalize applies the lossless rewrites Parse performs before
// validation:
//
//   - surrounding spaces are trimmed;
//   - ASCII letters are lowercased;
//   - '-' becomes '_'.
//
// The result is not guaranteed to be valid. "Not-Found " normalizes to
// "not_found", "4 0 4" stays invalid.
func Normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}

// Validate reports whether c is canonical. Empty is not.
func Validate(c Code) error {
	if !codeRe.MatchString(string(c)) {
		return ErrCodeInvalid
	}
	return nil
}

// Known reports whether c is one of the codes declared in this package.
func Known(c Code) bool {
	_, ok := known[c]
	return ok
}

func (c Code) String() string { return string(c) }

// MarshalText implements encoding.TextMarshaler. Invalid codes, Empty
// included, fail with ErrCodeInvalid so they never reach the wire.
func (c Code) MarshalText() ([]byte, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	return []byte(c), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The text goes
// through Parse, so "NOT-FOUND" decodes to NotFound.
func (c *Code) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(bytes.TrimSpace(text)))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

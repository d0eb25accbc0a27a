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
	"strconv"
	"strings"

	"dirpx.dev/errslot"
)

// Help is the reply to an empty line or an unknown command.
const Help = "Help:\n" +
	"    quit                        End the session\n" +
	"    error-quit                  Simulated error to end the session\n" +
	"    sum <int64>*                Addition\n" +
	"    sub <int64>+                Subtraction\n" +
	"    mul <int64>*                Multiplication\n" +
	"    div <int64>+                Division\n" +
	"    mod <int64> <int64>         Remainder\n" +
	"    <anything else>             This message"

// Execute runs one command line. quit is set when the session should end
// after the reply is sent. Failures carry their payloads on the error id;
// the command word is attached to every failure.
func Execute(ctx context.Context, line string) (reply string, quit bool, err error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return Help, false, nil
	}
	cmd, args := words[0], words[1:]

	g := errslot.OnError(ctx, errslot.Preload(Command(cmd)))
	defer g.Close(&err)

	var v int64
	switch cmd {
	case "quit":
		return "quitting", true, nil
	case "error-quit":
		return "", false, errslot.New(ctx, ErrorQuit{})
	case "sum":
		v, err = fold(ctx, 0, args, func(acc, i int64) (int64, error) { return acc + i, nil })
	case "mul":
		v, err = fold(ctx, 1, args, func(acc, i int64) (int64, error) { return acc * i, nil })
	case "sub":
		if len(args) < 2 {
			return "", false, errslot.New(ctx, ArgCount{Count: len(args), Min: 2, Max: Unbounded})
		}
		if v, err = parseInt(ctx, args[0]); err == nil {
			v, err = fold(ctx, v, args[1:], func(acc, i int64) (int64, error) { return acc - i, nil })
		}
	case "div":
		if len(args) < 2 {
			return "", false, errslot.New(ctx, ArgCount{Count: len(args), Min: 2, Max: Unbounded})
		}
		if v, err = parseInt(ctx, args[0]); err == nil {
			v, err = fold(ctx, v, args[1:], func(acc, i int64) (int64, error) {
				if i == 0 {
					return 0, ErrDivisionByZero
				}
				return acc / i, nil
			})
		}
	case "mod":
		if len(args) != 2 {
			return "", false, errslot.New(ctx, ArgCount{Count: len(args), Min: 2, Max: 2})
		}
		var a, b int64
		if a, err = parseInt(ctx, args[0]); err != nil {
			return "", false, err
		}
		if b, err = parseInt(ctx, args[1]); err != nil {
			return "", false, err
		}
		if b == 0 {
			return "", false, errslot.Raise(ctx, ErrDivisionByZero)
		}
		v = a % b
	default:
		return Help, false, nil
	}
	if err != nil {
		return "", false, err
	}
	return strconv.FormatInt(v, 10), false, nil
}

func fold(ctx context.Context, acc int64, args []string, op func(acc, i int64) (int64, error)) (int64, error) {
	for _, w := range args {
		i, err := parseInt(ctx, w)
		if err != nil {
			return 0, err
		}
		if acc, err = op(acc, i); err != nil {
			return 0, err
		}
	}
	return acc, nil
}

func parseInt(ctx context.Context, w string) (int64, error) {
	v, err := strconv.ParseInt(w, 10, 64)
	if err != nil {
		return 0, errslot.New(ctx, ParseError{Input: w, Pos: parsedPrefix(w)})
	}
	return v, nil
}

// parsedPrefix returns the length of the longest prefix of w that is a
// valid int64, or 0.
func parsedPrefix(w string) int {
	i := 0
	if i < len(w) && (w[i] == '+' || w[i] == '-') {
		i++
	}
	j := i
	for j < len(w) && w[j] >= '0' && w[j] <= '9' {
		j++
	}
	if j == i {
		return 0
	}
	if _, err := strconv.ParseInt(w[:j], 10, 64); err != nil {
		return 0
	}
	return j
}

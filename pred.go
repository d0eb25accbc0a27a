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

package errslot

// MatchFunc selects the handler when a payload of type E is attached and
// pred reports true for it.
func MatchFunc[E any](pred func(E) bool) Arg[E] {
	a := Required[E]()
	t := a.types[0]
	a.pred = func(d *dispatch) bool { return pred(*lookup[E](d, t)) }
	return a
}

// Match selects the handler when a payload of type E is attached and equals
// one of vals.
//
//	errslot.Match(ErrCode(ENOENT), ErrCode(EACCES))
func Match[E comparable](vals ...E) Arg[E] {
	return MatchFunc(func(v E) bool {
		for _, c := range vals {
			if v == c {
				return true
			}
		}
		return false
	})
}

// MatchValue is Match over a value derived from the payload, typically one
// of its fields.
//
//	errslot.MatchValue(func(e HTTPFailure) int { return e.Status }, 502, 503)
func MatchValue[E any, V comparable](field func(E) V, vals ...V) Arg[E] {
	return MatchFunc(func(e E) bool {
		v := field(e)
		for _, c := range vals {
			if v == c {
				return true
			}
		}
		return false
	})
}

// Not inverts the predicate of a, which must come from one of the Match
// constructors. The payload must still be attached.
func Not[T any](a Arg[T]) Arg[T] {
	pred := a.pred
	if pred == nil {
		panic("errslot: Not requires an argument with a predicate")
	}
	a.pred = func(d *dispatch) bool { return !pred(d) }
	return a
}

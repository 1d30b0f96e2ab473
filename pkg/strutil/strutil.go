// Copyright 2024 The kutil Authors.
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

// Package strutil provides bounds-checked string-to-number conversion for
// every machine integer and float width, plus small string helpers.
//
// The Parse functions demand that the whole input be exactly one number and
// that the value fit the destination type. The Prefix variants instead
// consume the longest leading numeric token and return whatever follows,
// the moral equivalent of C's strtol endptr contract.
package strutil

import (
	"strconv"

	"golang.org/x/exp/constraints"
)

// ParseSigned converts s to a signed integer of type T. The whole of s must
// be one integer (decimal, or prefixed 0x/0o/0b) and the value must fit T.
func ParseSigned[T constraints.Signed](s string) (T, error) {
	v, err := strconv.ParseInt(s, 0, bitSizeOf[T]())
	if err != nil {
		return 0, err
	}
	return T(v), nil
}

// ParseUnsigned converts s to an unsigned integer of type T. A leading sign
// is not permitted.
func ParseUnsigned[T constraints.Unsigned](s string) (T, error) {
	v, err := strconv.ParseUint(s, 0, bitSizeOf[T]())
	if err != nil {
		return 0, err
	}
	return T(v), nil
}

// ParseFloat converts s to a float of type T. The whole of s must be one
// number and the value must not overflow T.
func ParseFloat[T constraints.Float](s string) (T, error) {
	v, err := strconv.ParseFloat(s, bitSizeOf[T]())
	if err != nil {
		return 0, err
	}
	return T(v), nil
}

// ParseSignedPrefix converts the longest leading integer token of s to a
// signed integer of type T and returns the unconsumed remainder.
func ParseSignedPrefix[T constraints.Signed](s string) (T, string, error) {
	n := intPrefixLen(s, true)
	if n == 0 {
		return 0, s, strconv.ErrSyntax
	}
	v, err := strconv.ParseInt(s[:n], 0, bitSizeOf[T]())
	if err != nil {
		return 0, s, err
	}
	return T(v), s[n:], nil
}

// ParseUnsignedPrefix converts the longest leading integer token of s to an
// unsigned integer of type T and returns the unconsumed remainder.
func ParseUnsignedPrefix[T constraints.Unsigned](s string) (T, string, error) {
	n := intPrefixLen(s, false)
	if n == 0 {
		return 0, s, strconv.ErrSyntax
	}
	v, err := strconv.ParseUint(s[:n], 0, bitSizeOf[T]())
	if err != nil {
		return 0, s, err
	}
	return T(v), s[n:], nil
}

// ParseFloatPrefix converts the longest leading decimal float token of s to
// a float of type T and returns the unconsumed remainder.
func ParseFloatPrefix[T constraints.Float](s string) (T, string, error) {
	n := floatPrefixLen(s)
	if n == 0 {
		return 0, s, strconv.ErrSyntax
	}
	v, err := strconv.ParseFloat(s[:n], bitSizeOf[T]())
	if err != nil {
		return 0, s, err
	}
	return T(v), s[n:], nil
}

// intPrefixLen returns the length of the longest leading integer token:
// an optional sign (signed only), then decimal digits or a 0x/0X hex run.
func intPrefixLen(s string, signed bool) int {
	i := 0
	if signed && i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if i+2 < len(s) && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') && isHex(s[i+2]) {
		i += 2
		for i < len(s) && isHex(s[i]) {
			i++
		}
		return i
	}
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == start {
		return 0
	}
	return i
}

// floatPrefixLen returns the length of the longest leading decimal float
// token: sign, digits, optional fraction, optional exponent.
func floatPrefixLen(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := func() (n int) {
		for i < len(s) && isDigit(s[i]) {
			i++
			n++
		}
		return n
	}
	whole := digits()
	frac := 0
	if i < len(s) && s[i] == '.' {
		i++
		frac = digits()
	}
	if whole+frac == 0 {
		return 0
	}
	mark := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if digits() == 0 {
			// A bare exponent marker belongs to the remainder.
			i = mark
		}
	}
	return i
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// Package rpmver compares RPM package versions.
//
// Ordering follows the epoch/version/release precedence used by rpm: epochs
// compare numerically first, then the version strings, then the release
// strings. Version and release strings are compared segment-wise, splitting
// each string into alternating runs of digits and letters. The comparison
// never fails: arbitrary input degrades to a lexical comparison of the
// offending run.
package rpmver

import (
	"strings"

	"github.com/wally-mageia/tidy-rpm-cache/pkg/model"
)

// Compare returns 1, 0 or -1 when a is respectively newer than, equal to or
// older than b.
//
// A missing epoch sorts below any present epoch, including epoch 0. When both
// epochs are absent the epoch is skipped altogether.
func Compare(a, b model.VersionKey) int {
	switch {
	case a.Epoch == nil && b.Epoch == nil:
		// no epoch on either side
	case a.Epoch == nil:
		return -1
	case b.Epoch == nil:
		return 1
	case *a.Epoch != *b.Epoch:
		if *a.Epoch > *b.Epoch {
			return 1
		}
		return -1
	}
	if c := rpmvercmp(a.Version, b.Version); c != 0 {
		return c
	}
	return rpmvercmp(a.Release, b.Release)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool { return isDigit(c) || isAlpha(c) }

// rpmvercmp compares two version fragments the way librpm does.
//
// Characters that are neither alphanumeric nor tilde act as separators.
// Numeric runs compare numerically with leading zeros ignored, alphabetic
// runs compare lexically, and a numeric run outranks an alphabetic run at
// the same position. Tilde sorts lower than anything, including the end of
// the string, so "1.0~rc1" precedes "1.0".
func rpmvercmp(a, b string) int {
	if a == b {
		return 0
	}
	var i, j int
	for i < len(a) || j < len(b) {
		for i < len(a) && a[i] != '~' && !isAlnum(a[i]) {
			i++
		}
		for j < len(b) && b[j] != '~' && !isAlnum(b[j]) {
			j++
		}

		aTilde := i < len(a) && a[i] == '~'
		bTilde := j < len(b) && b[j] == '~'
		if aTilde || bTilde {
			if !aTilde {
				return 1
			}
			if !bTilde {
				return -1
			}
			i++
			j++
			continue
		}

		if i >= len(a) || j >= len(b) {
			break
		}

		numeric := isDigit(a[i])
		si, sj := i, j
		if numeric {
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			for j < len(b) && isDigit(b[j]) {
				j++
			}
		} else {
			for i < len(a) && isAlpha(a[i]) {
				i++
			}
			for j < len(b) && isAlpha(b[j]) {
				j++
			}
		}

		segA, segB := a[si:i], b[sj:j]
		if segB == "" {
			// the two runs are of different kinds: numeric wins
			if numeric {
				return 1
			}
			return -1
		}

		if numeric {
			segA = strings.TrimLeft(segA, "0")
			segB = strings.TrimLeft(segB, "0")
			if len(segA) != len(segB) {
				if len(segA) > len(segB) {
					return 1
				}
				return -1
			}
		}
		if c := strings.Compare(segA, segB); c != 0 {
			return c
		}
	}

	// equal prefixes: the fragment with leftover runs is newer
	if i >= len(a) && j >= len(b) {
		return 0
	}
	if i >= len(a) {
		return -1
	}
	return 1
}

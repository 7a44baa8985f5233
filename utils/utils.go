package utils

import "math/rand"

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// ContainsString returns true iff the provided string slice hay contains string
// needle.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}

// IntersectCount returns the number of distinct strings present in both
// slices. Used by match generation for shared-interest scoring.
func IntersectCount(a []string, b []string) int {
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[s] = true
	}
	count := 0
	for _, s := range b {
		if seen[s] {
			count++
			seen[s] = false
		}
	}
	return count
}

// RandomAlphabetString generates a random lowercase string of given length.
func RandomAlphabetString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

package app

import "strings"

// Evaluate counts the submitted answers that match the expected ones,
// position by position, ignoring letter case. Whitespace is compared as-is,
// extra submitted answers are ignored and missing ones earn nothing.
func Evaluate(correct, submitted []string) int {
	n := len(correct)
	if len(submitted) < n {
		n = len(submitted)
	}
	score := 0
	for i := 0; i < n; i++ {
		if strings.ToLower(submitted[i]) == strings.ToLower(correct[i]) {
			score++
		}
	}
	return score
}

package ner

// similarityRatio computes the Ratcliff-Obershelp similarity between two
// strings: twice the number of matching characters over the combined length,
// with matches found by recursively locating the longest common substring.
// The result is in [0,1].
func similarityRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	matches := matchingChars(a, b)
	return 2.0 * float64(matches) / float64(len(a)+len(b))
}

func matchingChars(a, b string) int {
	length, posA, posB := longestCommonSubstring(a, b)
	if length == 0 {
		return 0
	}
	return length +
		matchingChars(a[:posA], b[:posB]) +
		matchingChars(a[posA+length:], b[posB+length:])
}

func longestCommonSubstring(a, b string) (length, posA, posB int) {
	// prev[j] holds the match run length ending at a[i-1], b[j-1].
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > length {
					length = curr[j]
					posA = i - length
					posB = j - length
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return length, posA, posB
}

package navigation

// defaultSimilarityThreshold is the minimum similarity for a fuzzy
// correction to be accepted.
const defaultSimilarityThreshold = 0.7

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = minInt(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// similarity maps edit distance onto [0,1], where 1 is identical.
func similarity(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshteinDistance(a, b))/float64(maxLen)
}

// fuzzyCorrect finds the vocabulary entry closest to target. Returns
// the best entry and true when its similarity meets the threshold.
func fuzzyCorrect(target string, vocab []string, threshold float64) (string, bool) {
	best := ""
	bestSim := 0.0
	for _, v := range vocab {
		if sim := similarity(target, v); sim > bestSim {
			best = v
			bestSim = sim
		}
	}
	if bestSim < threshold {
		return "", false
	}
	return best, true
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

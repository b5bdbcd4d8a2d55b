package actionitem

import "strings"

// NormalizeTask folds a task description for duplicate detection: lower case,
// collapsed whitespace and no trailing sentence punctuation.
func NormalizeTask(task string) string {
	s := strings.Join(strings.Fields(strings.ToLower(task)), " ")
	return strings.TrimRight(s, ".!; ")
}

// Similarity is the Jaccard index of the word sets of two normalized tasks
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			shared++
		}
	}
	union := len(setA) + len(setB) - shared
	return float64(shared) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		w = strings.Trim(w, ".,!?;:'\"()")
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

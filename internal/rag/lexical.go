package rag

import (
	"regexp"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, t := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		tokens[t] = true
	}
	return tokens
}

// lexicalRetrieve ranks the corpus by query token overlap. Ties keep corpus
// order; when nothing overlaps, the first topK documents are returned so the
// result is never empty unless the corpus is.
func lexicalRetrieve(corpus []Document, query string, topK int) []string {
	if len(corpus) == 0 || topK <= 0 {
		return nil
	}

	firstK := func() []string {
		n := topK
		if n > len(corpus) {
			n = len(corpus)
		}
		out := make([]string, 0, n)
		for _, d := range corpus[:n] {
			out = append(out, d.Text)
		}
		return out
	}

	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return firstK()
	}

	type scored struct {
		idx   int
		score int
	}
	var results []scored
	for i, d := range corpus {
		score := 0
		for t := range tokenize(d.Text) {
			if queryTokens[t] {
				score++
			}
		}
		if score > 0 {
			results = append(results, scored{idx: i, score: score})
		}
	}
	if len(results) == 0 {
		return firstK()
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > topK {
		results = results[:topK]
	}

	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, corpus[r.idx].Text)
	}
	return out
}

package engine

import (
	"math"
	"regexp"
	"strings"
)

var wordRe = regexp.MustCompile(`[a-z0-9_]+`)

var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"on": true, "in": true, "at": true, "of": true, "to": true,
	"for": true, "with": true, "and": true, "or": true, "not": true,
	"no": true, "after": true, "during": true, "when": true, "while": true,
	"does": true, "do": true, "did": true, "it": true, "its": true,
	"this": true, "that": true, "there": true, "has": true, "have": true,
	"from": true, "by": true, "as": true, "but": true, "into": true,
}

// tokenize lowercases text and drops stopwords and one-letter tokens.
func tokenize(s string) []string {
	var out []string
	for _, w := range wordRe.FindAllString(strings.ToLower(s), -1) {
		if len(w) < 2 || stopwords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

// tfidf holds document frequencies over a small candidate corpus, enough
// to compare a query against candidate detail texts by cosine similarity.
type tfidf struct {
	df map[string]int
	n  int
}

func newTFIDF(docs []string) *tfidf {
	t := &tfidf{df: make(map[string]int), n: len(docs)}
	for _, d := range docs {
		seen := make(map[string]bool)
		for _, w := range tokenize(d) {
			if !seen[w] {
				seen[w] = true
				t.df[w]++
			}
		}
	}
	return t
}

// vector builds a tf-idf weight map for text. Terms unseen in the corpus
// still get a baseline idf so query-only terms do not vanish.
func (t *tfidf) vector(text string) map[string]float64 {
	tf := make(map[string]float64)
	for _, w := range tokenize(text) {
		tf[w]++
	}
	for w, f := range tf {
		idf := math.Log(1 + float64(t.n)/float64(1+t.df[w]))
		tf[w] = f * idf
	}
	return tf
}

// cosine computes cosine similarity between two sparse vectors.
func cosine(a, b map[string]float64) float64 {
	var dot, na, nb float64
	for w, av := range a {
		na += av * av
		if bv, ok := b[w]; ok {
			dot += av * bv
		}
	}
	for _, bv := range b {
		nb += bv * bv
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

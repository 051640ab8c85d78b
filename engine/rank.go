package engine

import "strings"

// Scoring weights for similar-PR candidates. The blended score is
//
//	keywordScore + denseWeight*cosine + sparseWeight*surfacingRatio
//
// where surfacingRatio is the share of extracted keywords whose FTS query
// surfaced the candidate.
const (
	titleComboWeight    = 30.0
	contentComboWeight  = 15.0
	titleSingleWeight   = 8.0
	contentSingleWeight = 3.0
	exactBonus          = 10.0
	partialPerWord      = 2.0
	partialThreshold    = 0.6

	denseWeight  = 20.0
	sparseWeight = 10.0
)

// strictnessCutoffs map strictness 0-3 to the minimum blended score a
// candidate needs to survive.
var strictnessCutoffs = [4]float64{0, 15, 30, 50}

func cutoff(strictness int) float64 {
	if strictness < 0 {
		strictness = 0
	}
	if strictness > 3 {
		strictness = 3
	}
	return strictnessCutoffs[strictness]
}

// keywordScore measures how well a candidate's title and content match
// the extracted keywords. A multi-word keyword found verbatim counts as
// an exact phrase match; one with enough of its words present still earns
// a partial score.
func keywordScore(kws []Keyword, title, content string) float64 {
	lt := strings.ToLower(title)
	lc := strings.ToLower(content)
	var score float64
	for _, k := range kws {
		phrase := strings.ToLower(k.Text)
		words := strings.Fields(phrase)
		multi := len(words) > 1
		switch {
		case strings.Contains(lt, phrase):
			if multi {
				score += titleComboWeight + exactBonus
			} else {
				score += titleSingleWeight
			}
		case strings.Contains(lc, phrase):
			if multi {
				score += contentComboWeight + exactBonus
			} else {
				score += contentSingleWeight
			}
		case multi:
			matched := 0
			for _, w := range words {
				if strings.Contains(lt, w) || strings.Contains(lc, w) {
					matched++
				}
			}
			if float64(matched)/float64(len(words)) >= partialThreshold {
				score += partialPerWord * float64(matched)
			}
		}
	}
	return score
}

package engine

import "testing"

func TestKeywordScore(t *testing.T) {
	title := "Recipe editor crash when pasting parameters"
	content := "The editor terminated while a parameter set was pasted into a recipe."

	tests := []struct {
		name string
		kws  []Keyword
		want float64
	}{
		{"combo in title", []Keyword{{Text: "recipe editor crash", Kind: "combo"}}, titleComboWeight + exactBonus},
		{"compound in content only", []Keyword{{Text: "parameter set", Kind: "compound"}}, contentComboWeight + exactBonus},
		{"single in title", []Keyword{{Text: "crash", Kind: "what"}}, titleSingleWeight},
		{"single in content only", []Keyword{{Text: "terminated", Kind: "what"}}, contentSingleWeight},
		{"partial combo", []Keyword{{Text: "recipe editor freeze", Kind: "combo"}}, 2 * partialPerWord},
		{"below partial threshold", []Keyword{{Text: "wafer transfer freeze", Kind: "combo"}}, 0},
	}
	for _, tt := range tests {
		if got := keywordScore(tt.kws, title, content); got != tt.want {
			t.Errorf("%s: keywordScore = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCutoffClamps(t *testing.T) {
	tests := []struct {
		strictness int
		want       float64
	}{
		{-1, 0}, {0, 0}, {1, 15}, {2, 30}, {3, 50}, {9, 50},
	}
	for _, tt := range tests {
		if got := cutoff(tt.strictness); got != tt.want {
			t.Errorf("cutoff(%d) = %v, want %v", tt.strictness, got, tt.want)
		}
	}
}

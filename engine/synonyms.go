package engine

// DomainSynonyms maps a query term to equivalent wording seen across
// release notes. The same failure shows up as "crash", "terminate", or
// "abort" depending on who wrote the note, so candidate generation tries
// the variants too.
var DomainSynonyms = map[string][]string{
	"crash":     {"terminate", "abort", "exception"},
	"hang":      {"freeze", "stuck", "stall"},
	"freeze":    {"hang", "stuck"},
	"stuck":     {"hang", "frozen"},
	"fail":      {"failure", "error"},
	"error":     {"fault", "failure"},
	"timeout":   {"timed", "expire"},
	"mismatch":  {"discrepancy", "inconsistent"},
	"incorrect": {"wrong", "invalid"},
	"missing":   {"absent", "lost"},
	"alarm":     {"warning", "fault"},
	"display":   {"show", "render"},
	"slow":      {"delay", "latency"},
	"leak":      {"leakage"},
}

// expandSynonyms returns the synonym variants of words, excluding words
// already present.
func expandSynonyms(words []string) []string {
	have := make(map[string]bool, len(words))
	for _, w := range words {
		have[w] = true
	}
	var out []string
	for _, w := range words {
		for _, syn := range DomainSynonyms[w] {
			if !have[syn] {
				have[syn] = true
				out = append(out, syn)
			}
		}
	}
	return out
}

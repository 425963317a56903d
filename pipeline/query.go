package pipeline

import "strings"

// querySynonyms canonicalizes verbose furniture phrasing into short search
// nouns. Ordered preference list; first substring match wins.
var querySynonyms = []struct{ verbose, simple string }{
	{"platform bed with light oak frame", "bed"},
	{"minimalist bedside tables", "nightstand"},
	{"simple dresser with warm white finish", "dresser"},
	{"scandinavian style desk", "desk"},
	{"ergonomic chair", "office chair"},
	{"bedside table", "nightstand"},
	{"bed frame", "bed"},
}

// queryKeywords is the fixed collapse list for queries still longer than two
// words after synonym substitution.
var queryKeywords = []string{"bed", "mattress", "nightstand", "dresser", "desk", "chair", "sofa", "table"}

// SimplifyQuery canonicalizes a noisy furniture description into a short
// search term: lower-case, synonym substitution, then collapse to the first
// recognized furniture keyword when the query still exceeds two words. A
// query with no recognized keyword is left unchanged.
func SimplifyQuery(item string) string {
	q := strings.ToLower(strings.TrimSpace(item))
	for _, s := range querySynonyms {
		if strings.Contains(q, s.verbose) {
			q = s.simple
			break
		}
	}
	if len(strings.Fields(q)) > 2 {
		for _, kw := range queryKeywords {
			if strings.Contains(q, kw) {
				return kw
			}
		}
	}
	return q
}

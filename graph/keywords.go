package graph

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9_+#.-]{2,}`)

// stopwords filters common English words plus a handful of conversational
// verbs that carry no concept signal.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		the a an is are was were be been being
		have has had do does did will would shall
		should may might can could to of in for
		on with at by from about as into through
		during before after above below between out
		and but or nor not so yet both either
		i you he she it we they me him her
		us them my your his its our their
		this that these those what which who how
		when where why all each every any some
		write create make show tell give get use
		help want need like also just more very`) {
		stopwords[w] = struct{}{}
	}
}

// ExtractKeywords pulls meaningful lowercase terms from text, filters
// stopwords, and de-duplicates preserving first occurrence. The stable
// order keeps graph updates and retrieval deterministic.
func ExtractKeywords(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)

	seen := make(map[string]struct{}, len(words))
	var keywords []string
	for _, w := range words {
		if _, ok := stopwords[w]; ok {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		keywords = append(keywords, w)
	}
	return keywords
}

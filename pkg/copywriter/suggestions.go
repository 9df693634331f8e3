package copywriter

import (
	"fmt"
	"strings"

	"meridian-hq/crosswind/pkg/adstore"
)

const suggestionROASBar = 5.0

// PerformanceSuggestions extracts copy guidance from a ranked set of
// stored ads. Winning themes are the recurring headline words of ads
// whose ROAS clears the suggestion bar, capped at five; the first three
// become suggested headlines.
func PerformanceSuggestions(ads []*adstore.StoredAd) *Suggestions {
	themes := []string{}
	seen := map[string]struct{}{}

	for _, ad := range ads {
		if ad.ROAS <= suggestionROASBar {
			continue
		}
		for _, word := range strings.Fields(strings.ToLower(ad.Headline)) {
			if len(word) <= 3 {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			themes = append(themes, word)
		}
	}
	if len(themes) > 5 {
		themes = themes[:5]
	}

	headlines := []string{}
	for _, theme := range themes {
		if len(headlines) == 3 {
			break
		}
		headlines = append(headlines, fmt.Sprintf("Proven %s Solution", titleWord(theme)))
	}

	return &Suggestions{
		Recommendation:     "Focus on efficiency and time-saving messaging",
		WinningThemes:      themes,
		SuggestedHeadlines: headlines,
	}
}

// titleWord upcases the first byte; themes are lowercased ASCII words.
func titleWord(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}

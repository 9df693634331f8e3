package adstore

import (
	"math"
	"sort"
	"strings"
)

// wordSet splits s into whitespace-separated lowercase words.
func wordSet(s string) map[string]struct{} {
	words := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(s)) {
		words[w] = struct{}{}
	}
	return words
}

// scoreSimilar ranks ads by word overlap with the query. The score is
// the fraction of distinct query words found in the ad's creative text;
// ads sharing no words are dropped. Input order breaks score ties, so
// callers pass ads in a deterministic order.
func scoreSimilar(ads []*StoredAd, query string, floor PerformanceFloor, limit int) []*ScoredAd {
	queryWords := wordSet(query)
	if len(queryWords) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	var scored []*ScoredAd
	for _, ad := range ads {
		if ad.CTR < floor.MinCTR || ad.ROAS < floor.MinROAS {
			continue
		}

		adWords := wordSet(ad.searchText())
		overlap := 0
		for w := range queryWords {
			if _, ok := adWords[w]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}

		scored = append(scored, &ScoredAd{
			StoredAd: *ad,
			Score:    float64(overlap) / float64(len(queryWords)),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// rankByPerformance sorts ads by ROAS multiplied by CTR, best first,
// and truncates to limit. Ties fall back to ad ID for stable output.
func rankByPerformance(ads []*StoredAd, limit int) []*StoredAd {
	ranked := make([]*StoredAd, len(ads))
	copy(ranked, ads)

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i].ROAS*ranked[i].CTR, ranked[j].ROAS*ranked[j].CTR
		if a != b {
			return a > b
		}
		return ranked[i].ID < ranked[j].ID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// analyzeAds extracts creative patterns from a set of top performers:
// headline word frequency (words longer than three characters), CTA
// frequency, average performance, and a per-platform breakdown.
func analyzeAds(top []*StoredAd) *Patterns {
	if len(top) == 0 {
		return nil
	}

	wordFreq := map[string]int{}
	ctaFreq := map[string]int{}
	var sumCTR, sumROAS float64
	platforms := map[string]*PlatformPatterns{}

	for _, ad := range top {
		for _, word := range strings.Fields(strings.ToLower(ad.Headline)) {
			if len(word) > 3 {
				wordFreq[word]++
			}
		}
		if ad.CTA != "" {
			ctaFreq[ad.CTA]++
		}

		sumCTR += ad.CTR
		sumROAS += ad.ROAS

		p := platforms[ad.Platform]
		if p == nil {
			p = &PlatformPatterns{}
			platforms[ad.Platform] = p
		}
		p.Count++
		p.AvgCTR += ad.CTR
		p.AvgROAS += ad.ROAS
	}

	breakdown := make(map[string]PlatformPatterns, len(platforms))
	for name, p := range platforms {
		p.AvgCTR /= float64(p.Count)
		p.AvgROAS /= float64(p.Count)
		breakdown[name] = *p
	}

	n := float64(len(top))
	return &Patterns{
		TotalAdsAnalyzed:  len(top),
		AverageCTR:        round2(sumCTR / n),
		AverageROAS:       round2(sumROAS / n),
		TopHeadlineWords:  topCounts(wordFreq, 10),
		TopCTAs:           topCounts(ctaFreq, 5),
		PlatformBreakdown: breakdown,
	}
}

// topCounts returns the most frequent entries, count descending with
// alphabetical tie-breaks.
func topCounts(freq map[string]int, limit int) []WordCount {
	counts := make([]WordCount, 0, len(freq))
	for word, count := range freq {
		counts = append(counts, WordCount{Word: word, Count: count})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Word < counts[j].Word
	})

	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

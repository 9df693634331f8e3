package copywriter

// Variations is one set of ad copy options for a platform.
type Variations struct {
	Headlines    []string `json:"headlines"`
	Descriptions []string `json:"descriptions"`
	CTAs         []string `json:"ctas"`
}

// Suggestions is copy guidance derived from ads that are already
// performing well.
type Suggestions struct {
	Recommendation     string   `json:"recommendation"`
	WinningThemes      []string `json:"winning_themes"`
	SuggestedHeadlines []string `json:"suggested_headlines"`
}

// Sources for generated variations.
const (
	SourceModel    = "model"
	SourceTemplate = "template"
)

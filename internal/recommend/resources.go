package recommend

import (
	"net/url"

	"github.com/p-n-ai/pathforge/internal/curriculum"
)

// ResourceMatch is a resource suggestion with static quality scores.
type ResourceMatch struct {
	Title      string  `json:"title"`
	Type       string  `json:"type"`
	URL        string  `json:"url"`
	Difficulty string  `json:"difficulty"`
	Duration   string  `json:"duration"`
	Rating     float64 `json:"rating"`
	MatchScore float64 `json:"match_score"`
}

// Resources returns the curated pair of resources for a topic. Preferences
// are accepted for API compatibility and do not change the result.
func Resources(topicTitle string, _ []string, difficulty string) []ResourceMatch {
	return []ResourceMatch{
		{
			Title:      topicTitle + " - Interactive Course",
			Type:       curriculum.ResourceInteractive,
			URL:        "https://www.codecademy.com/search?query=" + url.QueryEscape(topicTitle),
			Difficulty: difficulty,
			Duration:   "2-4 hours",
			Rating:     4.5,
			MatchScore: 0.95,
		},
		{
			Title:      topicTitle + " Documentation",
			Type:       curriculum.ResourceDocumentation,
			URL:        "#",
			Difficulty: difficulty,
			Duration:   "Reference",
			Rating:     4.8,
			MatchScore: 0.90,
		},
	}
}

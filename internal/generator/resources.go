package generator

import (
	"net/url"
	"slices"

	"github.com/p-n-ai/pathforge/internal/curriculum"
)

// AttachResources replaces every topic's resources with descriptors chosen
// from the preferred content formats. Documentation is always appended.
func AttachResources(c *curriculum.Curriculum, preferredContent []string) {
	c.EachTopic(func(_ *curriculum.Module, t *curriculum.Topic) {
		t.Resources = TopicResources(t.Title, preferredContent)
	})
}

// TopicResources builds the resource list for a single topic title.
func TopicResources(title string, preferredContent []string) []curriculum.Resource {
	q := url.QueryEscape(title)
	prefers := func(names ...string) bool {
		for _, n := range names {
			if slices.Contains(preferredContent, n) {
				return true
			}
		}
		return false
	}

	resources := make([]curriculum.Resource, 0, 4)
	if prefers("videos", "Videos") {
		resources = append(resources, curriculum.Resource{
			Type:     curriculum.ResourceVideo,
			Title:    title + " - Complete Tutorial",
			URL:      "https://youtube.com/search?q=" + q + "+tutorial",
			Duration: "2-3 hours",
			Platform: "YouTube",
		})
	}
	if prefers("articles", "Articles") {
		resources = append(resources, curriculum.Resource{
			Type:     curriculum.ResourceArticle,
			Title:    "Understanding " + title,
			URL:      "https://developer.mozilla.org/en-US/search?q=" + q,
			Duration: "30-45 min read",
			Platform: "MDN Docs",
		})
	}
	if prefers("interactive", "Interactive Coding") {
		resources = append(resources, curriculum.Resource{
			Type:     curriculum.ResourceInteractive,
			Title:    title + " - Interactive Exercises",
			URL:      "https://www.freecodecamp.org/learn",
			Duration: "1-2 hours",
			Platform: "FreeCodeCamp",
		})
	}
	return append(resources, curriculum.Resource{
		Type:     curriculum.ResourceDocumentation,
		Title:    title + " Official Docs",
		URL:      "#",
		Duration: "Reference",
		Platform: "Official Documentation",
	})
}

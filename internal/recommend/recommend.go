// Package recommend suggests what to study next, which resources to use and
// how to spread upcoming topics over a week.
package recommend

import (
	"cmp"
	"slices"

	"github.com/p-n-ai/pathforge/internal/curriculum"
)

// MaxRecommendations bounds the NextTopics result.
const MaxRecommendations = 5

// Priorities. Only PriorityHigh is currently emitted.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

const (
	readyReason       = "Prerequisites completed, ready to start"
	defaultTopicHours = 3
)

var priorityRank = map[string]int{PriorityHigh: 3, PriorityMedium: 2, PriorityLow: 1}

// Recommendation is a topic the learner can start now.
type Recommendation struct {
	TopicID        string  `json:"topic_id"`
	TopicTitle     string  `json:"topic_title"`
	ModuleTitle    string  `json:"module_title"`
	Reason         string  `json:"reason"`
	Priority       string  `json:"priority"`
	EstimatedHours float64 `json:"estimated_hours"`
}

// NextTopics returns up to MaxRecommendations topics that are neither
// completed nor locked and whose prerequisites are all satisfied. A
// prerequisite is satisfied when it is one of userSkills (exact match) or
// the title of a completed topic. Results keep curriculum order within a
// priority.
func NextTopics(completedIDs, userSkills []string, c *curriculum.Curriculum) []Recommendation {
	completed := make(map[string]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}
	skills := make(map[string]bool, len(userSkills))
	for _, s := range userSkills {
		skills[s] = true
	}

	satisfied := func(prereq string) bool {
		if skills[prereq] {
			return true
		}
		t, ok := c.TopicByTitle(prereq)
		return ok && completed[t.ID]
	}

	recs := []Recommendation{}
	c.EachTopic(func(m *curriculum.Module, t *curriculum.Topic) {
		if completed[t.ID] || t.Locked {
			return
		}
		for _, p := range t.Prerequisites {
			if !satisfied(p) {
				return
			}
		}
		hours := t.EstimatedHours
		if hours == 0 {
			hours = defaultTopicHours
		}
		recs = append(recs, Recommendation{
			TopicID:        t.ID,
			TopicTitle:     t.Title,
			ModuleTitle:    m.Title,
			Reason:         readyReason,
			Priority:       PriorityHigh,
			EstimatedHours: hours,
		})
	})

	slices.SortStableFunc(recs, func(a, b Recommendation) int {
		return cmp.Compare(priorityRank[b.Priority], priorityRank[a.Priority])
	})
	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}

package generator

import (
	"math"
	"math/rand"

	"github.com/p-n-ai/pathforge/internal/curriculum"
)

const (
	minTopicHours = 2
	maxTopicHours = 8
)

var multipliers = map[string]float64{
	curriculum.Beginner:     1.5,
	curriculum.Intermediate: 1.0,
	curriculum.Advanced:     0.7,
}

// Multiplier returns the effort multiplier for a proficiency tier, 1.0 for
// unknown tiers.
func Multiplier(proficiency string) float64 {
	if m, ok := multipliers[proficiency]; ok {
		return m
	}
	return 1.0
}

// EstimateTimes draws a base effort per topic uniformly from [2,8] hours,
// scales it by the tier multiplier and rolls totals up to modules and the
// curriculum. A non-positive dailyHours leaves day and week counts at 0.
func EstimateTimes(c *curriculum.Curriculum, dailyHours float64, proficiency string, rng *rand.Rand) {
	multiplier := Multiplier(proficiency)

	var weeks, total float64
	for i := range c.Modules {
		m := &c.Modules[i]
		var hours float64
		for j := range m.Topics {
			base := minTopicHours + rng.Intn(maxTopicHours-minTopicHours+1)
			m.Topics[j].EstimatedHours = round1(float64(base) * multiplier)
			hours += m.Topics[j].EstimatedHours
		}
		m.EstimatedHours = round1(hours)
		m.EstimatedDays = 0
		if dailyHours > 0 {
			m.EstimatedDays = int(m.EstimatedHours / dailyHours)
			weeks += m.EstimatedHours / dailyHours / 7
		}
		total += m.EstimatedHours
	}

	c.TotalEstimatedWeeks = int(weeks)
	c.TotalEstimatedHours = round1(total)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

package adaptive

import "github.com/p-n-ai/pathforge/internal/progress"

// Insights groups observations about a learner's habits.
type Insights struct {
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	LearningPatterns    []string `json:"learning_patterns"`
	Recommendations     []string `json:"recommendations"`
}

// GenerateInsights looks at time-of-day productivity, completion rate and
// the active days among the last seven logs. Each observation is skipped
// when its input is empty.
func GenerateInsights(records []progress.Record, logs []progress.ActivityLog) Insights {
	in := Insights{
		Strengths:           []string{},
		AreasForImprovement: []string{},
		LearningPatterns:    []string{},
		Recommendations:     []string{},
	}

	if len(logs) > 0 {
		var morning, evening int
		for _, l := range logs {
			switch l.TimeOfDay {
			case progress.Morning:
				morning += l.LearningMinutes
			case progress.Evening:
				evening += l.LearningMinutes
			}
		}
		if morning > evening {
			in.LearningPatterns = append(in.LearningPatterns, "You're most productive in the morning")
			in.Recommendations = append(in.Recommendations, "Schedule challenging topics for morning sessions")
		} else {
			in.LearningPatterns = append(in.LearningPatterns, "You're most productive in the evening")
			in.Recommendations = append(in.Recommendations, "Focus on complex topics during evening study time")
		}
	}

	if len(records) > 0 {
		rate := float64(len(progress.CompletedIDs(records))) / float64(len(records))
		switch {
		case rate > 0.8:
			in.Strengths = append(in.Strengths, "High completion rate - you finish what you start!")
		case rate < 0.5:
			in.AreasForImprovement = append(in.AreasForImprovement, "Try to complete topics before moving to new ones")
			in.Recommendations = append(in.Recommendations, "Focus on one topic at a time to improve retention")
		}
	}

	if len(logs) >= 7 {
		active := 0
		for _, l := range logs[len(logs)-7:] {
			if l.LearningMinutes > 0 {
				active++
			}
		}
		switch {
		case active >= 6:
			in.Strengths = append(in.Strengths, "Excellent consistency! You learn almost every day.")
		case active <= 3:
			in.AreasForImprovement = append(in.AreasForImprovement, "Consistency could be improved")
			in.Recommendations = append(in.Recommendations, "Try to establish a daily learning habit, even if just 30 minutes")
		}
	}
	return in
}

package recommend_test

import (
	"testing"

	"github.com/p-n-ai/pathforge/internal/recommend"
)

func topics(hours ...float64) []recommend.ScheduleTopic {
	out := make([]recommend.ScheduleTopic, len(hours))
	for i, h := range hours {
		out[i] = recommend.ScheduleTopic{TopicID: string(rune('a' + i)), EstimatedHours: h}
	}
	return out
}

func TestStudySchedule(t *testing.T) {
	tests := []struct {
		name            string
		hoursPerDay     float64
		topics          []recommend.ScheduleTopic
		wantDays        []int
		wantTotal       float64
		wantUnscheduled int
	}{
		{name: "empty", hoursPerDay: 2, topics: nil, wantDays: nil},
		{name: "defaults to two hours", hoursPerDay: 4, topics: topics(0, 0, 0), wantDays: []int{2, 1}, wantTotal: 6},
		{name: "overflow defers not splits", hoursPerDay: 3, topics: topics(2, 2, 1), wantDays: []int{1, 2}, wantTotal: 5},
		{name: "drops after sunday", hoursPerDay: 2, topics: topics(2, 2, 2, 2, 2, 2, 2, 2, 2), wantDays: []int{1, 1, 1, 1, 1, 1, 1}, wantTotal: 14, wantUnscheduled: 2},
		{name: "oversized topic blocks the rest", hoursPerDay: 2, topics: topics(1, 5, 1), wantDays: []int{1}, wantTotal: 1, wantUnscheduled: 2},
		{name: "zero capacity", hoursPerDay: 0, topics: topics(1), wantDays: nil, wantUnscheduled: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := recommend.StudySchedule(tt.hoursPerDay, "moderate", tt.topics)
			if len(s.Days) != len(tt.wantDays) {
				t.Fatalf("len(Days) = %d, want %d (%+v)", len(s.Days), len(tt.wantDays), s.Days)
			}
			for i, d := range s.Days {
				if d.Day != recommend.Weekdays[i] {
					t.Errorf("Days[%d].Day = %q, want %q", i, d.Day, recommend.Weekdays[i])
				}
				if len(d.Topics) != tt.wantDays[i] {
					t.Errorf("Days[%d] has %d topics, want %d", i, len(d.Topics), tt.wantDays[i])
				}
				if d.TotalHours > tt.hoursPerDay {
					t.Errorf("Days[%d].TotalHours = %v exceeds %v", i, d.TotalHours, tt.hoursPerDay)
				}
			}
			if s.TotalHours != tt.wantTotal {
				t.Errorf("TotalHours = %v, want %v", s.TotalHours, tt.wantTotal)
			}
			if s.Unscheduled != tt.wantUnscheduled {
				t.Errorf("Unscheduled = %d, want %d", s.Unscheduled, tt.wantUnscheduled)
			}
		})
	}
}

func TestFromRecommendations(t *testing.T) {
	got := recommend.FromRecommendations([]recommend.Recommendation{{TopicID: "x", TopicTitle: "X", EstimatedHours: 1.5}})
	if len(got) != 1 || got[0].TopicID != "x" || got[0].EstimatedHours != 1.5 {
		t.Errorf("FromRecommendations() = %+v", got)
	}
}

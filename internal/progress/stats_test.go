package progress_test

import (
	"testing"
	"time"

	"github.com/p-n-ai/pathforge/internal/progress"
)

var today = time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return today.AddDate(0, 0, -n)
}

func logsOn(days ...int) []progress.ActivityLog {
	logs := make([]progress.ActivityLog, len(days))
	for i, d := range days {
		logs[i] = progress.ActivityLog{Date: daysAgo(d), LearningMinutes: 30}
	}
	return logs
}

func TestCalculateStreak(t *testing.T) {
	tests := []struct {
		name string
		logs []progress.ActivityLog
		want int
	}{
		{name: "no logs", logs: nil, want: 0},
		{name: "today and yesterday", logs: logsOn(0, 1), want: 2},
		{name: "unsorted input", logs: logsOn(1, 0, 2), want: 3},
		{name: "gap breaks streak", logs: logsOn(0, 1, 3, 4), want: 2},
		{name: "no activity today", logs: logsOn(1, 2), want: 0},
		{name: "future log ignored", logs: logsOn(-1, 0, 1), want: 2},
		{name: "week", logs: logsOn(0, 1, 2, 3, 4, 5, 6), want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := progress.CalculateStreak(tt.logs, today); got != tt.want {
				t.Errorf("CalculateStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name string
		logs []progress.ActivityLog
		want int
	}{
		{name: "no logs", logs: nil, want: 0},
		{name: "single day", logs: logsOn(5), want: 1},
		{name: "older run is longer", logs: logsOn(0, 1, 5, 6, 7, 8), want: 4},
		{name: "duplicate dates", logs: logsOn(0, 0, 1), want: 2},
		{name: "unsorted", logs: logsOn(2, 0, 1), want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := progress.LongestStreak(tt.logs); got != tt.want {
				t.Errorf("LongestStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHeatmap(t *testing.T) {
	logs := []progress.ActivityLog{
		{Date: daysAgo(0), LearningMinutes: 90},
		{Date: daysAgo(2), LearningMinutes: 400},
		{Date: daysAgo(100), LearningMinutes: 60},
	}

	cells := progress.Heatmap(logs, 1, today)
	if len(cells) != 8 {
		t.Fatalf("len = %d, want 8", len(cells))
	}
	if cells[0].Date != "2026-03-08" || cells[7].Date != "2026-03-15" {
		t.Errorf("range = %s..%s, want 2026-03-08..2026-03-15", cells[0].Date, cells[7].Date)
	}
	if cells[7].Minutes != 90 || cells[7].Intensity != 1 {
		t.Errorf("today = %+v, want 90 minutes intensity 1", cells[7])
	}
	if cells[5].Intensity != 4 {
		t.Errorf("capped intensity = %d, want 4", cells[5].Intensity)
	}
	if cells[6].Minutes != 0 {
		t.Errorf("idle day minutes = %d, want 0", cells[6].Minutes)
	}

	if got := len(progress.Heatmap(nil, 0, today)); got != progress.DefaultHeatmapWeeks*7+1 {
		t.Errorf("default len = %d, want %d", got, progress.DefaultHeatmapWeeks*7+1)
	}
}

func TestCheckAchievements(t *testing.T) {
	tests := []struct {
		name              string
		topics, streak, l int
		want              []string
	}{
		{name: "nothing yet", l: 1, want: nil},
		{name: "first topic", topics: 1, l: 1, want: []string{"First Steps"}},
		{name: "streak and topics", topics: 12, streak: 8, l: 1, want: []string{"First Steps", "10 Topics Master", "Week Warrior"}},
		{name: "everything", topics: 50, streak: 30, l: 10, want: []string{
			"First Steps", "10 Topics Master", "50 Topics Master", "Week Warrior", "Month Champion", "Level 5 Achieved", "Level 10 Achieved",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := progress.CheckAchievements(tt.topics, tt.streak, tt.l)
			if len(got) != len(tt.want) {
				t.Fatalf("CheckAchievements() = %+v, want %v", got, tt.want)
			}
			for i, a := range got {
				if a.Name != tt.want[i] {
					t.Errorf("[%d] = %q, want %q", i, a.Name, tt.want[i])
				}
			}
		})
	}
}

func TestLevels(t *testing.T) {
	if got := progress.XPForLevel(5); got != 5000 {
		t.Errorf("XPForLevel(5) = %d, want 5000", got)
	}
	tests := []struct{ xp, want int }{{0, 1}, {999, 1}, {2000, 2}, {10500, 10}}
	for _, tt := range tests {
		if got := progress.LevelFromXP(tt.xp); got != tt.want {
			t.Errorf("LevelFromXP(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{{45, "45 min"}, {120, "2 hr"}, {90, "1 hr 30 min"}, {0, "0 min"}}
	for _, tt := range tests {
		if got := progress.FormatDuration(tt.minutes); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestCompletedIDs(t *testing.T) {
	got := progress.CompletedIDs([]progress.Record{
		{TopicID: "a", Status: progress.StatusCompleted},
		{TopicID: "b", Status: progress.StatusInProgress},
		{TopicID: "c", Status: progress.StatusCompleted},
	})
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("CompletedIDs() = %v, want [a c]", got)
	}
}

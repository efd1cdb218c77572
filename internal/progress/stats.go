package progress

import (
	"fmt"
	"sort"
	"time"
)

// TopicXP is awarded for each completed topic.
const TopicXP = 50

// DefaultHeatmapWeeks is the heatmap window used when none is given.
const DefaultHeatmapWeeks = 12

// CalculateStreak counts consecutive active days ending today. A missing
// day breaks the streak; logs dated after today are ignored.
func CalculateStreak(logs []ActivityLog, today time.Time) int {
	if len(logs) == 0 {
		return 0
	}

	sorted := make([]ActivityLog, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })

	today = Day(today)
	streak := 0
	for _, l := range sorted {
		expected := today.AddDate(0, 0, -streak)
		d := Day(l.Date)
		switch {
		case d.Equal(expected):
			streak++
		case d.Before(expected):
			return streak
		}
	}
	return streak
}

// LongestStreak returns the longest run of consecutive logged days.
func LongestStreak(logs []ActivityLog) int {
	days := make([]time.Time, 0, len(logs))
	for _, l := range logs {
		days = append(days, Day(l.Date))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 0, 0
	for i, d := range days {
		switch {
		case i > 0 && d.Equal(days[i-1]):
			continue
		case i > 0 && d.Equal(days[i-1].AddDate(0, 0, 1)):
			run++
		default:
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

// HeatmapCell is one day of the activity heatmap. Intensity is 0..4.
type HeatmapCell struct {
	Date      string `json:"date"`
	Minutes   int    `json:"minutes"`
	Intensity int    `json:"intensity"`
}

// Heatmap returns one cell per day from weeks*7 days before today through
// today inclusive.
func Heatmap(logs []ActivityLog, weeks int, today time.Time) []HeatmapCell {
	if weeks <= 0 {
		weeks = DefaultHeatmapWeeks
	}
	minutes := make(map[time.Time]int, len(logs))
	for _, l := range logs {
		minutes[Day(l.Date)] = l.LearningMinutes
	}

	end := Day(today)
	cells := make([]HeatmapCell, 0, weeks*7+1)
	for d := end.AddDate(0, 0, -weeks*7); !d.After(end); d = d.AddDate(0, 0, 1) {
		m := minutes[d]
		cells = append(cells, HeatmapCell{
			Date:      d.Format(time.DateOnly),
			Minutes:   m,
			Intensity: min(m/60, 4),
		})
	}
	return cells
}

// Achievement is a milestone and the XP it rewards.
type Achievement struct {
	Name string `json:"name"`
	XP   int    `json:"xp"`
}

// CheckAchievements returns every achievement the learner currently meets.
func CheckAchievements(completedTopics, streak, level int) []Achievement {
	criteria := []struct {
		Achievement
		met bool
	}{
		{Achievement{"First Steps", 50}, completedTopics >= 1},
		{Achievement{"10 Topics Master", 100}, completedTopics >= 10},
		{Achievement{"50 Topics Master", 500}, completedTopics >= 50},
		{Achievement{"Week Warrior", 200}, streak >= 7},
		{Achievement{"Month Champion", 1000}, streak >= 30},
		{Achievement{"Level 5 Achieved", 300}, level >= 5},
		{Achievement{"Level 10 Achieved", 500}, level >= 10},
	}

	earned := []Achievement{}
	for _, c := range criteria {
		if c.met {
			earned = append(earned, c.Achievement)
		}
	}
	return earned
}

// XPForLevel is the total XP needed to reach a level.
func XPForLevel(level int) int {
	return level * 1000
}

// LevelFromXP returns the level for a total XP, never below 1.
func LevelFromXP(xp int) int {
	return max(1, xp/1000)
}

// FormatDuration renders minutes as "45 min", "2 hr" or "1 hr 30 min".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%d hr", h)
	}
	return fmt.Sprintf("%d hr %d min", h, m)
}

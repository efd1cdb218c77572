package generator_test

import (
	"slices"
	"testing"

	"github.com/p-n-ai/pathforge/internal/curriculum"
	"github.com/p-n-ai/pathforge/internal/generator"
)

func TestAnalyzeSkillGaps(t *testing.T) {
	tests := []struct {
		name          string
		skills        []string
		role          string
		wantMissing   int
		wantTotal     int
		wantCompleted float64
	}{
		{name: "no skills backend", skills: nil, role: "Backend", wantMissing: 12, wantTotal: 12, wantCompleted: 0},
		{name: "case-insensitive match", skills: []string{"python basics", "GIT", "http"}, role: "backend", wantMissing: 9, wantTotal: 12, wantCompleted: 25},
		{name: "unknown role", skills: []string{"Go"}, role: "Astronaut", wantMissing: 0, wantTotal: 0, wantCompleted: 0},
		{name: "display role is not a taxonomy key", skills: nil, role: "Full Stack Developer", wantMissing: 0, wantTotal: 0, wantCompleted: 0},
		{name: "spaces become underscores", skills: nil, role: "Data Science", wantMissing: 12, wantTotal: 12, wantCompleted: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generator.AnalyzeSkillGaps(tt.skills, tt.role)
			if len(got.MissingSkills) != tt.wantMissing {
				t.Errorf("len(MissingSkills) = %d, want %d", len(got.MissingSkills), tt.wantMissing)
			}
			if got.TotalRequired != tt.wantTotal {
				t.Errorf("TotalRequired = %d, want %d", got.TotalRequired, tt.wantTotal)
			}
			if got.CompletionPercentage != tt.wantCompleted {
				t.Errorf("CompletionPercentage = %v, want %v", got.CompletionPercentage, tt.wantCompleted)
			}
		})
	}
}

func TestAnalyzeSkillGaps_KeepsTaxonomyOrder(t *testing.T) {
	tiers, _ := curriculum.RequiredSkills("mobile")
	got := generator.AnalyzeSkillGaps([]string{}, "mobile")

	if !slices.Equal(got.MissingSkills, tiers.All()) {
		t.Errorf("MissingSkills = %v, want %v", got.MissingSkills, tiers.All())
	}
}

func TestDetermineProficiency(t *testing.T) {
	skills := func(n int) []string { return make([]string, n) }

	tests := []struct {
		name  string
		count int
		score float64
		want  string
	}{
		{"advanced", 10, 80, curriculum.Advanced},
		{"high score few skills", 4, 95, curriculum.Beginner},
		{"many skills low score", 20, 40, curriculum.Beginner},
		{"intermediate", 5, 50, curriculum.Intermediate},
		{"advanced score intermediate count", 7, 90, curriculum.Intermediate},
		{"advanced count intermediate score", 12, 79.9, curriculum.Intermediate},
		{"zero", 0, 0, curriculum.Beginner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := generator.DetermineProficiency(skills(tt.count), tt.score); got != tt.want {
				t.Errorf("DetermineProficiency(%d, %v) = %q, want %q", tt.count, tt.score, got, tt.want)
			}
		})
	}
}

func TestDetermineProficiency_Monotonic(t *testing.T) {
	rank := map[string]int{curriculum.Beginner: 0, curriculum.Intermediate: 1, curriculum.Advanced: 2}
	for count := 0; count <= 15; count++ {
		for score := 0; score <= 100; score += 5 {
			base := rank[generator.DetermineProficiency(make([]string, count), float64(score))]
			if more := rank[generator.DetermineProficiency(make([]string, count+1), float64(score))]; more < base {
				t.Fatalf("adding a skill at count=%d score=%d lowered the tier", count, score)
			}
			if score < 100 {
				if more := rank[generator.DetermineProficiency(make([]string, count), float64(score+5))]; more < base {
					t.Fatalf("raising score at count=%d score=%d lowered the tier", count, score)
				}
			}
		}
	}
}

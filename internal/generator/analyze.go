package generator

import "github.com/p-n-ai/pathforge/internal/curriculum"

// SkillGapResult reports which required skills of a role the user lacks.
type SkillGapResult struct {
	MissingSkills        []string `json:"missing_skills"`
	ExistingSkills       []string `json:"existing_skills"`
	TotalRequired        int      `json:"total_required"`
	CompletionPercentage float64  `json:"completion_percentage"`
}

// AnalyzeSkillGaps compares current skills with the role's required skills.
// Missing skills keep taxonomy order and are not de-duplicated. An unknown
// role has no required skills and a completion of 0.
func AnalyzeSkillGaps(currentSkills []string, targetRole string) SkillGapResult {
	var required []string
	if tiers, ok := curriculum.RequiredSkills(curriculum.RoleKey(targetRole)); ok {
		required = tiers.All()
	}

	have := curriculum.SkillSet(currentSkills)
	missing := make([]string, 0, len(required))
	for _, s := range required {
		if _, ok := have[curriculum.NormalizeSkill(s)]; !ok {
			missing = append(missing, s)
		}
	}

	result := SkillGapResult{
		MissingSkills:  missing,
		ExistingSkills: currentSkills,
		TotalRequired:  len(required),
	}
	if len(required) > 0 {
		result.CompletionPercentage = float64(len(currentSkills)) / float64(len(required)) * 100
	}
	return result
}

// DetermineProficiency classifies a user by skill count and assessment
// score. Both thresholds of a tier must hold.
func DetermineProficiency(currentSkills []string, assessmentScore float64) string {
	n := len(currentSkills)
	switch {
	case assessmentScore >= 80 && n >= 10:
		return curriculum.Advanced
	case assessmentScore >= 50 && n >= 5:
		return curriculum.Intermediate
	default:
		return curriculum.Beginner
	}
}

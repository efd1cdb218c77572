package generator

import "github.com/p-n-ai/pathforge/internal/curriculum"

// ApplyLocking marks each topic locked unless every prerequisite is among
// the user's declared skills, compared case-insensitively. Completion state
// is not consulted here; the recommender re-checks prerequisites per call.
func ApplyLocking(c *curriculum.Curriculum, currentSkills []string) {
	have := curriculum.SkillSet(currentSkills)
	c.EachTopic(func(_ *curriculum.Module, t *curriculum.Topic) {
		t.Locked = false
		for _, p := range t.Prerequisites {
			if _, ok := have[curriculum.NormalizeSkill(p)]; !ok {
				t.Locked = true
				break
			}
		}
	})
}

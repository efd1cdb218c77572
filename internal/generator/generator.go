// Package generator turns a learner profile into a sequenced, enriched and
// estimated curriculum.
package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/p-n-ai/pathforge/internal/curriculum"
)

// ErrInvalidProfile is wrapped by every profile validation failure.
var ErrInvalidProfile = errors.New("invalid profile")

var validate = validator.New()

// Profile is the learner input to path generation. Defaults are the
// caller's job; Validate only rejects malformed values.
type Profile struct {
	CurrentSkills    []string `json:"current_skills" validate:"dive,required"`
	TargetRole       string   `json:"target_role" validate:"required"`
	LearningPace     string   `json:"learning_pace"`
	DailyHours       float64  `json:"daily_hours" validate:"gte=0,lte=24"`
	AssessmentScore  float64  `json:"assessment_score" validate:"gte=0,lte=100"`
	PreferredContent []string `json:"preferred_content" validate:"dive,required"`
}

// Validate checks the profile fields.
func (p Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return nil
}

// Generator composes gap analysis, proficiency, template selection,
// sequencing, enrichment and estimation. It is safe for concurrent use.
type Generator struct {
	loader *curriculum.Loader
	mu     sync.Mutex
	rng    *rand.Rand
}

// New creates a generator. A zero seed seeds from the clock.
func New(loader *curriculum.Loader, seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		loader: loader,
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // effort estimates, not security
	}
}

// GeneratePersonalizedPath builds the curriculum for a profile.
func (g *Generator) GeneratePersonalizedPath(p Profile) (curriculum.Curriculum, error) {
	if err := p.Validate(); err != nil {
		return curriculum.Curriculum{}, err
	}

	gaps := AnalyzeSkillGaps(p.CurrentSkills, p.TargetRole)
	proficiency := DetermineProficiency(p.CurrentSkills, p.AssessmentScore)

	c := g.loader.Build(p.TargetRole, proficiency)
	ApplyLocking(&c, p.CurrentSkills)
	AttachResources(&c, p.PreferredContent)

	g.mu.Lock()
	EstimateTimes(&c, p.DailyHours, proficiency, g.rng)
	g.mu.Unlock()

	slog.Debug("path generated",
		"target_role", p.TargetRole,
		"proficiency", proficiency,
		"missing_skills", len(gaps.MissingSkills),
		"modules", len(c.Modules),
		"topics", c.TopicCount(),
	)
	return c, nil
}

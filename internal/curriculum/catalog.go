package curriculum

import (
	"errors"
	"fmt"
	"log/slog"
)

// Template is the authored content of one track. Beginner holds the full
// multi-module path and Experienced the short advanced-only set used for
// intermediate and advanced learners. Modules, when set, serves every tier
// that has no dedicated set.
type Template struct {
	Track       string   `yaml:"track"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	TargetRole  string   `yaml:"target_role"`
	Modules     []Module `yaml:"modules"`
	Beginner    []Module `yaml:"beginner"`
	Experienced []Module `yaml:"experienced"`
}

// ModulesFor returns the authored module set for a proficiency tier.
func (t Template) ModulesFor(proficiency string) []Module {
	if proficiency == Beginner {
		if len(t.Beginner) > 0 {
			return t.Beginner
		}
	} else if len(t.Experienced) > 0 {
		return t.Experienced
	}
	return t.Modules
}

// Curriculum returns a fresh curriculum for the tier. The result shares no
// memory with the template.
func (t Template) Curriculum(proficiency string) Curriculum {
	c := Curriculum{
		Title:       t.Title,
		Description: t.Description,
		TargetRole:  t.TargetRole,
		Difficulty:  proficiency,
		Modules:     t.ModulesFor(proficiency),
	}
	return c.Clone()
}

func (t Template) validate() error {
	if t.Track == "" {
		return errors.New("missing track")
	}
	if t.Title == "" {
		return fmt.Errorf("track %s: missing title", t.Track)
	}
	if len(t.Modules) == 0 && len(t.Beginner) == 0 && len(t.Experienced) == 0 {
		return fmt.Errorf("track %s: no modules", t.Track)
	}
	for name, set := range map[string][]Module{"modules": t.Modules, "beginner": t.Beginner, "experienced": t.Experienced} {
		if err := validateModules(set); err != nil {
			return fmt.Errorf("track %s %s: %w", t.Track, name, err)
		}
	}
	return nil
}

func validateModules(modules []Module) error {
	topicIDs := make(map[string]bool)
	prevOrder := 0
	for _, m := range modules {
		if m.ID == "" || m.Title == "" {
			return errors.New("module missing id or title")
		}
		if m.Order <= prevOrder {
			return fmt.Errorf("module %s: order %d not ascending", m.ID, m.Order)
		}
		prevOrder = m.Order
		for _, t := range m.Topics {
			if t.ID == "" || t.Title == "" {
				return fmt.Errorf("module %s: topic missing id or title", m.ID)
			}
			if topicIDs[t.ID] {
				return fmt.Errorf("module %s: duplicate topic id %s", m.ID, t.ID)
			}
			topicIDs[t.ID] = true
		}
	}
	return nil
}

// Generate returns the curriculum of a track for a proficiency tier. A track
// with no loaded template yields an empty curriculum.
func (l *Loader) Generate(track, proficiency string) Curriculum {
	t, ok := l.Template(track)
	if !ok {
		slog.Warn("no template for track", "track", track)
		return Curriculum{Difficulty: proficiency, Modules: []Module{}}
	}
	return t.Curriculum(proficiency)
}

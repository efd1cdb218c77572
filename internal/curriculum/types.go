package curriculum

// Proficiency tiers.
const (
	Beginner     = "beginner"
	Intermediate = "intermediate"
	Advanced     = "advanced"
)

// Tiers lists proficiency tiers in ascending order.
var Tiers = []string{Beginner, Intermediate, Advanced}

// Resource types attached to topics.
const (
	ResourceVideo         = "video"
	ResourceArticle       = "article"
	ResourceInteractive   = "interactive"
	ResourceDocumentation = "documentation"
)

// Curriculum is the full generated learning plan for one user, role and tier.
type Curriculum struct {
	Title               string   `json:"title" yaml:"title"`
	Description         string   `json:"description" yaml:"description"`
	TargetRole          string   `json:"target_role" yaml:"target_role"`
	Difficulty          string   `json:"difficulty" yaml:"difficulty"`
	Modules             []Module `json:"modules" yaml:"modules"`
	TotalEstimatedWeeks int      `json:"total_estimated_weeks" yaml:"-"`
	TotalEstimatedHours float64  `json:"total_estimated_hours" yaml:"-"`
}

// Module is an ordered group of topics.
type Module struct {
	ID             string  `json:"id" yaml:"id"`
	Title          string  `json:"title" yaml:"title"`
	Description    string  `json:"description" yaml:"description"`
	Order          int     `json:"order" yaml:"order"`
	Difficulty     string  `json:"difficulty" yaml:"difficulty"`
	Topics         []Topic `json:"topics" yaml:"topics"`
	EstimatedHours float64 `json:"estimated_hours" yaml:"-"`
	EstimatedDays  int     `json:"estimated_days" yaml:"-"`
}

// Topic is a single unit of study. Prerequisites hold topic titles or skill
// names, never topic IDs.
type Topic struct {
	ID             string     `json:"id" yaml:"id"`
	Title          string     `json:"title" yaml:"title"`
	Description    string     `json:"description" yaml:"description"`
	Prerequisites  []string   `json:"prerequisites" yaml:"prerequisites"`
	Subtopics      []string   `json:"subtopics" yaml:"subtopics"`
	Locked         bool       `json:"locked" yaml:"-"`
	Resources      []Resource `json:"resources" yaml:"-"`
	EstimatedHours float64    `json:"estimated_hours" yaml:"-"`
}

// Resource describes a learning resource attached to a topic.
type Resource struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Duration string `json:"duration"`
	Platform string `json:"platform"`
}

// TopicCount returns the number of topics across all modules.
func (c *Curriculum) TopicCount() int {
	n := 0
	for _, m := range c.Modules {
		n += len(m.Topics)
	}
	return n
}

// EachTopic calls fn for every topic in module order, then topic order.
// fn receives a pointer into the curriculum so derived fields can be set.
func (c *Curriculum) EachTopic(fn func(m *Module, t *Topic)) {
	for i := range c.Modules {
		m := &c.Modules[i]
		for j := range m.Topics {
			fn(m, &m.Topics[j])
		}
	}
}

// TopicByTitle returns the first topic whose title equals title exactly.
// All title-based prerequisite resolution goes through here so the
// first-match tie-break lives in one place.
func (c *Curriculum) TopicByTitle(title string) (*Topic, bool) {
	for i := range c.Modules {
		for j := range c.Modules[i].Topics {
			if c.Modules[i].Topics[j].Title == title {
				return &c.Modules[i].Topics[j], true
			}
		}
	}
	return nil, false
}

// TopicByID returns the topic with the given id.
func (c *Curriculum) TopicByID(id string) (*Topic, bool) {
	_, t, ok := c.LocateTopic(id)
	return t, ok
}

// LocateTopic returns the topic with the given id and the module holding it.
// Topic ids are unique within a curriculum.
func (c *Curriculum) LocateTopic(id string) (*Module, *Topic, bool) {
	for i := range c.Modules {
		for j := range c.Modules[i].Topics {
			if c.Modules[i].Topics[j].ID == id {
				return &c.Modules[i], &c.Modules[i].Topics[j], true
			}
		}
	}
	return nil, nil, false
}

// Clone returns a deep copy so callers can mutate derived fields freely.
func (c Curriculum) Clone() Curriculum {
	out := c
	out.Modules = make([]Module, len(c.Modules))
	for i, m := range c.Modules {
		out.Modules[i] = m
		out.Modules[i].Topics = make([]Topic, len(m.Topics))
		for j, t := range m.Topics {
			t.Prerequisites = append([]string{}, t.Prerequisites...)
			t.Subtopics = append([]string{}, t.Subtopics...)
			if t.Resources != nil {
				t.Resources = append([]Resource{}, t.Resources...)
			}
			out.Modules[i].Topics[j] = t
		}
	}
	return out
}

package curriculum

import "strings"

// Track keys of the built-in templates.
const (
	TrackFullstack   = "fullstack"
	TrackFrontend    = "frontend"
	TrackBackend     = "backend"
	TrackDataScience = "data_science"
	TrackMobile      = "mobile"
	TrackDevOps      = "devops"
)

// Route pairs a role-key predicate with the curriculum it produces.
type Route struct {
	Name     string
	Match    func(key string) bool
	Generate func(l *Loader, proficiency string) Curriculum
}

// Routes is evaluated in order and the first match wins. The last entry
// matches everything.
var Routes = []Route{
	{
		Name:     "fullstack",
		Match:    func(k string) bool { return k == "fullstack" || k == "full_stack_developer" },
		Generate: track(TrackFullstack),
	},
	{Name: "frontend", Match: contains("frontend"), Generate: track(TrackFrontend)},
	{Name: "backend", Match: contains("backend"), Generate: track(TrackBackend)},
	{
		Name:     "data_science",
		Match:    func(k string) bool { return strings.Contains(k, "data") || k == "data_scientist" },
		Generate: track(TrackDataScience),
	},
	{Name: "mobile", Match: contains("mobile"), Generate: track(TrackMobile)},
	{
		Name:     "machine_learning",
		Match:    contains("machine_learning", "ml"),
		Generate: retitled(TrackDataScience, "Machine Learning Engineer Path", "Machine Learning Engineer"),
	},
	{
		Name:     "ai",
		Match:    contains("ai"),
		Generate: retitled(TrackDataScience, "AI Engineer Path", "AI Engineer"),
	},
	{Name: "devops", Match: contains("devops"), Generate: track(TrackDevOps)},
	{Name: "default", Match: func(string) bool { return true }, Generate: track(TrackFullstack)},
}

// RouteFor returns the first route matching the role.
func RouteFor(targetRole string) Route {
	key := RoleKey(targetRole)
	for _, r := range Routes {
		if r.Match(key) {
			return r
		}
	}
	return Routes[len(Routes)-1]
}

// Build selects a curriculum for the role and tier. Unknown roles fall back
// to the full stack path.
func (l *Loader) Build(targetRole, proficiency string) Curriculum {
	return RouteFor(targetRole).Generate(l, proficiency)
}

func contains(subs ...string) func(string) bool {
	return func(k string) bool {
		for _, s := range subs {
			if strings.Contains(k, s) {
				return true
			}
		}
		return false
	}
}

func track(key string) func(*Loader, string) Curriculum {
	return func(l *Loader, proficiency string) Curriculum {
		return l.Generate(key, proficiency)
	}
}

func retitled(key, title, role string) func(*Loader, string) Curriculum {
	return func(l *Loader, proficiency string) Curriculum {
		c := l.Generate(key, proficiency)
		c.Title = title
		c.TargetRole = role
		return c
	}
}

package curriculum

import (
	"strings"

	"golang.org/x/text/cases"
)

// SkillTiers holds the required skills of a track per proficiency tier.
type SkillTiers struct {
	Beginner     []string
	Intermediate []string
	Advanced     []string
}

// All returns every required skill, beginner tier first. Skills repeated
// across tiers are kept.
func (s SkillTiers) All() []string {
	all := make([]string, 0, len(s.Beginner)+len(s.Intermediate)+len(s.Advanced))
	all = append(all, s.Beginner...)
	all = append(all, s.Intermediate...)
	all = append(all, s.Advanced...)
	return all
}

// taxonomy maps track keys to required skills.
var taxonomy = map[string]SkillTiers{
	"frontend": {
		Beginner:     []string{"HTML", "CSS", "JavaScript Basics", "Git"},
		Intermediate: []string{"React", "CSS Frameworks", "Responsive Design", "APIs"},
		Advanced:     []string{"State Management", "Performance Optimization", "Testing", "Build Tools"},
	},
	"backend": {
		Beginner:     []string{"Python Basics", "HTTP", "Databases", "Git"},
		Intermediate: []string{"Flask/Django", "REST APIs", "SQL Advanced", "Authentication"},
		Advanced:     []string{"Microservices", "Caching", "Message Queues", "DevOps"},
	},
	"fullstack": {
		Beginner:     []string{"HTML", "CSS", "JavaScript", "Python", "Git"},
		Intermediate: []string{"React", "Node.js/Flask", "Databases", "REST APIs"},
		Advanced:     []string{"System Design", "Cloud Deployment", "CI/CD", "Security"},
	},
	"data_science": {
		Beginner:     []string{"Python", "Statistics", "Pandas", "NumPy"},
		Intermediate: []string{"Machine Learning", "Data Visualization", "SQL", "Feature Engineering"},
		Advanced:     []string{"Deep Learning", "MLOps", "Big Data", "Model Deployment"},
	},
	"mobile": {
		Beginner:     []string{"Programming Basics", "UI/UX Principles", "Git"},
		Intermediate: []string{"React Native/Flutter", "State Management", "APIs", "Native Features"},
		Advanced:     []string{"Performance", "App Store Deployment", "Push Notifications", "Offline Support"},
	},
	"devops": {
		Beginner:     []string{"Linux", "Networking", "Git", "Scripting"},
		Intermediate: []string{"Docker", "CI/CD", "Cloud Platforms", "Monitoring"},
		Advanced:     []string{"Kubernetes", "Infrastructure as Code", "Security", "Cost Optimization"},
	},
}

// RequiredSkills returns the skill tiers for a track key.
func RequiredSkills(key string) (SkillTiers, bool) {
	s, ok := taxonomy[key]
	return s, ok
}

// RoleKey turns a free-text role into a lookup key: lowercase with spaces
// replaced by underscores.
func RoleKey(role string) string {
	return strings.ReplaceAll(strings.ToLower(role), " ", "_")
}

// NormalizeSkill case-folds a skill name for case-insensitive comparison.
func NormalizeSkill(s string) string {
	return cases.Fold().String(s)
}

// SkillSet builds a case-insensitive membership set.
func SkillSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		set[NormalizeSkill(s)] = struct{}{}
	}
	return set
}

package services

import (
	"regexp"
	"strconv"
	"strings"
)

// techSkills is the skill dictionary shared by the resume and JD parsers.
var techSkills = map[string][]string{
	"languages": {
		"python", "java", "javascript", "typescript", "c++", "c#", "ruby",
		"go", "rust", "php", "swift", "kotlin", "scala",
	},
	"frameworks": {
		"react", "angular", "vue", "django", "flask", "fastapi", "spring",
		"express", "node.js", "nodejs", ".net", "laravel", "rails",
	},
	"databases": {
		"mysql", "postgresql", "mongodb", "redis", "cassandra",
		"dynamodb", "oracle", "sql server", "sqlite",
	},
	"cloud": {
		"aws", "azure", "gcp", "google cloud", "kubernetes", "docker",
		"terraform", "jenkins", "ci/cd",
	},
	"ml_ai": {
		"tensorflow", "pytorch", "scikit-learn", "keras", "pandas",
		"numpy", "machine learning", "deep learning", "nlp", "computer vision",
	},
	"tools": {
		"git", "jira", "confluence", "agile", "scrum", "rest api",
		"graphql", "microservices",
	},
}

var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\+?\s*years?\s*of\s*experience`),
	regexp.MustCompile(`experience\s*:?\s*(\d+)\+?\s*years?`),
	regexp.MustCompile(`(\d+)\+?\s*yrs?\s*experience`),
}

var projectSectionPattern = regexp.MustCompile(`(?s)(projects?|portfolio)(.*?)(education|skills|experience|certification|$)`)

// ResumeSummary is the parsed view of a candidate resume consumed by the
// session engine as an opaque input.
type ResumeSummary struct {
	Skills          map[string][]string `json:"skills"`
	TotalSkills     int                 `json:"total_skills"`
	ExperienceYears int                 `json:"experience_years"`
	ProjectsFound   int                 `json:"projects_found"`
	Projects        []string            `json:"projects,omitempty"`
}

// ResumeParser extracts skills, experience and projects from plain resume
// text. PDF extraction is a caller concern.
type ResumeParser struct{}

func NewResumeParser() *ResumeParser {
	return &ResumeParser{}
}

// Parse extracts the resume summary from plain text.
func (p *ResumeParser) Parse(text string) *ResumeSummary {
	skills := extractSkills(text)
	totalSkills := 0
	for _, list := range skills {
		totalSkills += len(list)
	}
	projects := p.extractProjects(text)

	return &ResumeSummary{
		Skills:          skills,
		TotalSkills:     totalSkills,
		ExperienceYears: p.extractExperienceYears(text),
		ProjectsFound:   len(projects),
		Projects:        projects,
	}
}

func (p *ResumeParser) extractExperienceYears(text string) int {
	textLower := strings.ToLower(text)
	years := 0
	for _, pattern := range experiencePatterns {
		if m := pattern.FindStringSubmatch(textLower); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil && v > years {
				years = v
			}
		}
	}
	return years
}

func (p *ResumeParser) extractProjects(text string) []string {
	m := projectSectionPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return nil
	}

	var projects []string
	for _, line := range regexp.MustCompile(`[•\-\n]`).Split(m[2], -1) {
		line = strings.TrimSpace(line)
		if len(line) > 20 && len(line) < 200 {
			projects = append(projects, line)
		}
		if len(projects) >= 5 {
			break
		}
	}
	return projects
}

// extractSkills matches the skill dictionary against the text using word
// boundaries to avoid partial matches.
func extractSkills(text string) map[string][]string {
	textLower := strings.ToLower(text)
	found := make(map[string][]string)

	for category, skills := range techSkills {
		var matched []string
		for _, skill := range skills {
			pattern := regexp.MustCompile(`(^|\W)` + regexp.QuoteMeta(skill) + `($|\W)`)
			if pattern.MatchString(textLower) {
				matched = append(matched, skill)
			}
		}
		if len(matched) > 0 {
			found[category] = matched
		}
	}
	return found
}

package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var jdExperiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\+?\s*years?\s*of\s*experience`),
	regexp.MustCompile(`minimum\s+(\d+)\+?\s*years?`),
	regexp.MustCompile(`(\d+)\+?\s*years?\s*experience\s*required`),
	regexp.MustCompile(`at least\s+(\d+)\+?\s*years?`),
}

var (
	seniorRoleWords = []string{"senior", "lead", "principal", "staff", "architect"}
	juniorRoleWords = []string{"junior", "entry", "graduate", "fresher"}
)

// JDSummary is the parsed view of a job description consumed by the session
// engine as an opaque input.
type JDSummary struct {
	RequiredSkills     map[string][]string `json:"required_skills"`
	TotalRequired      int                 `json:"total_required_skills"`
	ExperienceRequired int                 `json:"experience_required"`
	RoleLevel          string              `json:"role_level"`
}

// SkillMatch is the resume-versus-JD comparison result.
type SkillMatch struct {
	MatchPercentage float64  `json:"match_percentage"`
	MatchedSkills   []string `json:"matched_skills"`
	MissingSkills   []string `json:"missing_skills"`
}

// JDParser extracts requirements and role expectations from job description
// text and computes the resume skill match.
type JDParser struct{}

func NewJDParser() *JDParser {
	return &JDParser{}
}

// Parse extracts the JD summary from plain text.
func (p *JDParser) Parse(text string) *JDSummary {
	requiredSkills := extractSkills(text)
	totalRequired := 0
	for _, list := range requiredSkills {
		totalRequired += len(list)
	}

	return &JDSummary{
		RequiredSkills:     requiredSkills,
		TotalRequired:      totalRequired,
		ExperienceRequired: p.extractExperienceRequired(text),
		RoleLevel:          p.extractRoleLevel(text),
	}
}

func (p *JDParser) extractExperienceRequired(text string) int {
	textLower := strings.ToLower(text)
	years := 0
	for _, pattern := range jdExperiencePatterns {
		for _, m := range pattern.FindAllStringSubmatch(textLower, -1) {
			if v, err := strconv.Atoi(m[1]); err == nil && v > years {
				years = v
			}
		}
	}
	if years == 0 {
		return 2 // Typical floor when the JD does not state one
	}
	return years
}

func (p *JDParser) extractRoleLevel(text string) string {
	textLower := strings.ToLower(text)
	for _, word := range seniorRoleWords {
		if strings.Contains(textLower, word) {
			return "senior"
		}
	}
	for _, word := range juniorRoleWords {
		if strings.Contains(textLower, word) {
			return "junior"
		}
	}
	return "mid"
}

// ComputeSkillMatch compares resume skills against JD requirements and
// returns the match percentage with matched and missing skill lists, both
// sorted for stable output.
func (p *JDParser) ComputeSkillMatch(resumeSkills, jdSkills map[string][]string) *SkillMatch {
	resumeSet := flattenSkills(resumeSkills)
	jdSet := flattenSkills(jdSkills)

	var matched, missing []string
	for skill := range jdSet {
		if resumeSet[skill] {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)

	var percentage float64
	if len(jdSet) > 0 {
		percentage = round2(float64(len(matched)) / float64(len(jdSet)) * 100)
	}

	return &SkillMatch{
		MatchPercentage: percentage,
		MatchedSkills:   matched,
		MissingSkills:   missing,
	}
}

func flattenSkills(skills map[string][]string) map[string]bool {
	set := make(map[string]bool)
	for _, list := range skills {
		for _, skill := range list {
			set[strings.ToLower(skill)] = true
		}
	}
	return set
}

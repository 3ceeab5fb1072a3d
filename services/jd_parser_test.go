package services

import (
	"reflect"
	"testing"
)

func TestJDParserParse(t *testing.T) {
	jd := `
Senior Backend Engineer

We are looking for a senior engineer with a minimum 4+ years of experience.
Required: Python, PostgreSQL, AWS, Kubernetes, Docker.
`
	summary := NewJDParser().Parse(jd)

	if summary.RoleLevel != "senior" {
		t.Errorf("role_level = %q, expected senior", summary.RoleLevel)
	}
	if summary.ExperienceRequired != 4 {
		t.Errorf("experience_required = %d, expected 4", summary.ExperienceRequired)
	}
	if summary.TotalRequired < 5 {
		t.Errorf("total_required_skills = %d, expected at least 5", summary.TotalRequired)
	}
}

func TestJDParserDefaults(t *testing.T) {
	summary := NewJDParser().Parse("Looking for an engineer to join our team.")

	if summary.ExperienceRequired != 2 {
		t.Errorf("experience_required = %d, expected default of 2", summary.ExperienceRequired)
	}
	if summary.RoleLevel != "mid" {
		t.Errorf("role_level = %q, expected mid", summary.RoleLevel)
	}
}

func TestJDParserJuniorRole(t *testing.T) {
	summary := NewJDParser().Parse("Graduate developer position, great for entry level candidates.")
	if summary.RoleLevel != "junior" {
		t.Errorf("role_level = %q, expected junior", summary.RoleLevel)
	}
}

func TestComputeSkillMatch(t *testing.T) {
	parser := NewJDParser()

	resume := map[string][]string{
		"languages": {"python"},
		"cloud":     {"aws"},
	}
	jd := map[string][]string{
		"languages": {"python", "java"},
		"cloud":     {"aws", "kubernetes"},
	}

	match := parser.ComputeSkillMatch(resume, jd)

	if match.MatchPercentage != 50 {
		t.Errorf("match_percentage = %v, expected 50", match.MatchPercentage)
	}
	if !reflect.DeepEqual(match.MatchedSkills, []string{"aws", "python"}) {
		t.Errorf("matched_skills = %v, expected sorted [aws python]", match.MatchedSkills)
	}
	if !reflect.DeepEqual(match.MissingSkills, []string{"java", "kubernetes"}) {
		t.Errorf("missing_skills = %v, expected sorted [java kubernetes]", match.MissingSkills)
	}
}

func TestComputeSkillMatchNoRequirements(t *testing.T) {
	match := NewJDParser().ComputeSkillMatch(map[string][]string{"languages": {"go"}}, nil)

	if match.MatchPercentage != 0 {
		t.Errorf("match_percentage = %v, expected 0 with no requirements", match.MatchPercentage)
	}
	if len(match.MatchedSkills) != 0 || len(match.MissingSkills) != 0 {
		t.Errorf("expected empty skill lists, got matched=%v missing=%v",
			match.MatchedSkills, match.MissingSkills)
	}
}

package services

import (
	"errors"
	"testing"

	"github.com/Narain-karthick/Prep2Hire/models"
)

func testCatalogue() []models.Question {
	return []models.Question{
		{ID: "e1", Type: models.QuestionTypeTechnical, Difficulty: models.DifficultyEasy, Prompt: "easy technical"},
		{ID: "e2", Type: models.QuestionTypeConceptual, Difficulty: models.DifficultyEasy, Prompt: "easy conceptual"},
		{ID: "m1", Type: models.QuestionTypeTechnical, Difficulty: models.DifficultyMedium, Prompt: "medium technical"},
		{ID: "h1", Type: models.QuestionTypeTechnical, Difficulty: models.DifficultyHard, Prompt: "hard technical"},
	}
}

func TestTypeForTurnCycles(t *testing.T) {
	bank := NewQuestionBank(nil)

	expected := []string{
		models.QuestionTypeTechnical,
		models.QuestionTypeConceptual,
		models.QuestionTypeBehavioral,
		models.QuestionTypeScenario,
		models.QuestionTypeTechnical,
		models.QuestionTypeConceptual,
	}
	for turn := 1; turn <= len(expected); turn++ {
		if got := bank.TypeForTurn(turn); got != expected[turn-1] {
			t.Errorf("TypeForTurn(%d) = %q, expected %q", turn, got, expected[turn-1])
		}
	}
}

func TestNextQuestionPrefersRequestedDifficultyAndType(t *testing.T) {
	bank := NewQuestionBank(testCatalogue())

	q, err := bank.NextQuestion(models.DifficultyEasy, nil, models.QuestionTypeConceptual)
	if err != nil {
		t.Fatalf("NextQuestion() error = %v", err)
	}
	if q.ID != "e2" {
		t.Errorf("got question %q, expected e2 (easy conceptual)", q.ID)
	}
}

func TestNextQuestionNeverRepeats(t *testing.T) {
	bank := NewQuestionBank(testCatalogue())

	var asked []string
	seen := make(map[string]bool)
	for i := 0; i < 4; i++ {
		q, err := bank.NextQuestion(models.DifficultyEasy, asked, models.QuestionTypeTechnical)
		if err != nil {
			t.Fatalf("NextQuestion() call %d error = %v", i+1, err)
		}
		if seen[q.ID] {
			t.Fatalf("question %q served twice", q.ID)
		}
		seen[q.ID] = true
		asked = append(asked, q.ID)
	}
}

func TestNextQuestionFallsBackToAdjacentDifficulty(t *testing.T) {
	bank := NewQuestionBank(testCatalogue())

	// Both easy questions used up: easy requests fall back to medium first.
	q, err := bank.NextQuestion(models.DifficultyEasy, []string{"e1", "e2"}, models.QuestionTypeTechnical)
	if err != nil {
		t.Fatalf("NextQuestion() error = %v", err)
	}
	if q.Difficulty != models.DifficultyMedium {
		t.Errorf("fallback difficulty = %q, expected medium", q.Difficulty)
	}

	// Medium also spent: falls through to hard rather than failing.
	q, err = bank.NextQuestion(models.DifficultyEasy, []string{"e1", "e2", "m1"}, models.QuestionTypeTechnical)
	if err != nil {
		t.Fatalf("NextQuestion() error = %v", err)
	}
	if q.Difficulty != models.DifficultyHard {
		t.Errorf("fallback difficulty = %q, expected hard", q.Difficulty)
	}
}

func TestNextQuestionExhaustedBank(t *testing.T) {
	bank := NewQuestionBank(testCatalogue())

	_, err := bank.NextQuestion(models.DifficultyMedium, []string{"e1", "e2", "m1", "h1"}, models.QuestionTypeTechnical)
	if !errors.Is(err, ErrExhaustedBank) {
		t.Errorf("error = %v, expected ErrExhaustedBank", err)
	}
}

func TestLoadAssignsMissingIDs(t *testing.T) {
	bank := NewQuestionBank(nil)
	bank.Load([]models.Question{
		{Type: models.QuestionTypeTechnical, Difficulty: models.DifficultyEasy, Prompt: "no id"},
	})

	q, err := bank.NextQuestion(models.DifficultyEasy, nil, models.QuestionTypeTechnical)
	if err != nil {
		t.Fatalf("NextQuestion() error = %v", err)
	}
	if q.ID == "" {
		t.Error("Load did not assign an id")
	}
}

func TestPersonalizeQuestion(t *testing.T) {
	base := models.Question{
		Prompt:           "What is {skill} and where have you used it?",
		ExpectedKeywords: []string{"project", "used"},
	}

	q := PersonalizeQuestion(base, "kubernetes")
	if q.Prompt != "What is kubernetes and where have you used it?" {
		t.Errorf("prompt = %q, placeholder not replaced", q.Prompt)
	}
	if len(q.ExpectedKeywords) != 3 || q.ExpectedKeywords[2] != "kubernetes" {
		t.Errorf("expected skill appended to keywords, got %v", q.ExpectedKeywords)
	}

	// The default skill applies when no matched skills exist.
	q = PersonalizeQuestion(base, "")
	if q.Prompt != "What is programming and where have you used it?" {
		t.Errorf("prompt = %q, expected default skill", q.Prompt)
	}

	// Prompts without a placeholder are untouched.
	plain := models.Question{Prompt: "Tell me about a project.", ExpectedKeywords: []string{"project"}}
	q = PersonalizeQuestion(plain, "go")
	if q.Prompt != plain.Prompt || len(q.ExpectedKeywords) != 1 {
		t.Errorf("plain prompt modified: %+v", q)
	}
}

func TestDefaultCatalogueCoversAllBands(t *testing.T) {
	counts := make(map[string]map[string]int)
	for _, q := range DefaultCatalogue() {
		if counts[q.Difficulty] == nil {
			counts[q.Difficulty] = make(map[string]int)
		}
		counts[q.Difficulty][q.Type]++
		if q.ID == "" {
			t.Errorf("catalogue question %q has no id", q.Prompt)
		}
		if q.MaxTimeSeconds <= 0 {
			t.Errorf("catalogue question %q has no time limit", q.Prompt)
		}
	}

	for _, difficulty := range models.Difficulties {
		for _, qType := range models.QuestionTypes {
			if counts[difficulty][qType] < 2 {
				t.Errorf("catalogue has %d questions for %s/%s, expected at least 2",
					counts[difficulty][qType], difficulty, qType)
			}
		}
	}
}

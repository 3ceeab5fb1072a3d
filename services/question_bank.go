package services

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/Narain-karthick/Prep2Hire/models"
	"github.com/google/uuid"
)

// skillPlaceholder in a prompt is replaced with one of the candidate's
// matched skills when the question is served.
const skillPlaceholder = "{skill}"

// QuestionBank is the static catalogue of questions keyed by (type,
// difficulty). Selection prefers the requested difficulty and type, falls
// back to the nearest difficulty with unused questions, and fails with
// ErrExhaustedBank only when the whole catalogue has been used.
type QuestionBank struct {
	mu        sync.RWMutex
	catalogue []models.Question
}

func NewQuestionBank(catalogue []models.Question) *QuestionBank {
	return &QuestionBank{catalogue: catalogue}
}

// Load replaces the catalogue, assigning ids to entries that lack one.
func (b *QuestionBank) Load(catalogue []models.Question) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range catalogue {
		if catalogue[i].ID == "" {
			catalogue[i].ID = uuid.New().String()
		}
	}
	b.catalogue = catalogue
	slog.Info("Question catalogue loaded", "count", len(catalogue))
}

// Size returns the number of questions in the catalogue.
func (b *QuestionBank) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.catalogue)
}

// TypeForTurn returns the question type for the given 1-based question
// number, cycling technical -> conceptual -> behavioral -> scenario.
func (b *QuestionBank) TypeForTurn(questionNumber int) string {
	if questionNumber < 1 {
		questionNumber = 1
	}
	return models.QuestionTypes[(questionNumber-1)%len(models.QuestionTypes)]
}

// NextQuestion selects an unused question at the requested difficulty,
// preferring preferredType. If the requested difficulty has no unused
// questions it falls back to the nearest difficulty, and returns
// ErrExhaustedBank once every catalogue entry has been served.
func (b *QuestionBank) NextQuestion(difficulty string, excludeIDs []string, preferredType string) (*models.Question, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	for _, band := range fallbackOrder(difficulty) {
		if q := b.pickAt(band, preferredType, excluded); q != nil {
			return q, nil
		}
	}
	return nil, ErrExhaustedBank
}

// pickAt finds an unused question at the given difficulty. Types are tried
// in rotation order starting from preferredType so the interview still
// cycles through types when the preferred one is spent.
func (b *QuestionBank) pickAt(difficulty, preferredType string, excluded map[string]bool) *models.Question {
	start := 0
	for i, t := range models.QuestionTypes {
		if t == preferredType {
			start = i
			break
		}
	}

	for offset := range models.QuestionTypes {
		qType := models.QuestionTypes[(start+offset)%len(models.QuestionTypes)]
		for i := range b.catalogue {
			q := &b.catalogue[i]
			if q.Difficulty == difficulty && q.Type == qType && !excluded[q.ID] {
				out := *q
				return &out
			}
		}
	}
	return nil
}

// fallbackOrder lists difficulties by distance from the requested one,
// preferring the easier band on ties.
func fallbackOrder(difficulty string) []string {
	switch difficulty {
	case models.DifficultyEasy:
		return []string{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard}
	case models.DifficultyHard:
		return []string{models.DifficultyHard, models.DifficultyMedium, models.DifficultyEasy}
	default:
		return []string{models.DifficultyMedium, models.DifficultyEasy, models.DifficultyHard}
	}
}

// PersonalizeQuestion fills the {skill} placeholder with the given skill and
// adds the skill to the expected keywords so it counts toward relevance.
func PersonalizeQuestion(q models.Question, skill string) models.Question {
	if skill == "" {
		skill = "programming"
	}
	if strings.Contains(q.Prompt, skillPlaceholder) {
		q.Prompt = strings.ReplaceAll(q.Prompt, skillPlaceholder, skill)
		keywords := make([]string, 0, len(q.ExpectedKeywords)+1)
		keywords = append(keywords, q.ExpectedKeywords...)
		keywords = append(keywords, skill)
		q.ExpectedKeywords = keywords
	}
	return q
}

// DefaultCatalogue returns the built-in question set used when the database
// has no catalogue configured. Ids are assigned at load time.
func DefaultCatalogue() []models.Question {
	questions := []models.Question{
		// Easy
		{
			Type: models.QuestionTypeTechnical, Difficulty: models.DifficultyEasy,
			Prompt:           "What is {skill} and where have you used it?",
			ExpectedKeywords: []string{"project", "used", "experience"},
			MaxTimeSeconds:   60,
		},
		{
			Type: models.QuestionTypeTechnical, Difficulty: models.DifficultyEasy,
			Prompt:           "Explain the basic features of {skill}.",
			ExpectedKeywords: []string{"feature", "syntax", "library"},
			MaxTimeSeconds:   60,
		},
		{
			Type: models.QuestionTypeConceptual, Difficulty: models.DifficultyEasy,
			Prompt:           "What problem does {skill} solve?",
			ExpectedKeywords: []string{"problem", "solve", "use case"},
			MaxTimeSeconds:   60,
		},
		{
			Type: models.QuestionTypeConceptual, Difficulty: models.DifficultyEasy,
			Prompt:           "Explain the core concepts of {skill}.",
			ExpectedKeywords: []string{"concept", "principle", "design"},
			MaxTimeSeconds:   60,
		},
		{
			Type: models.QuestionTypeBehavioral, Difficulty: models.DifficultyEasy,
			Prompt:           "Tell me about a project you enjoyed working on.",
			ExpectedKeywords: []string{"project", "team", "built", "learned"},
			MaxTimeSeconds:   60,
		},
		{
			Type: models.QuestionTypeBehavioral, Difficulty: models.DifficultyEasy,
			Prompt:           "How do you approach learning a new technology?",
			ExpectedKeywords: []string{"documentation", "practice", "tutorial", "project"},
			MaxTimeSeconds:   60,
		},
		{
			Type: models.QuestionTypeScenario, Difficulty: models.DifficultyEasy,
			Prompt:           "How would you debug a simple error in your application?",
			ExpectedKeywords: []string{"debug", "log", "error", "reproduce"},
			CriticalTerms:    []string{"log"},
			MaxTimeSeconds:   60,
		},
		{
			Type: models.QuestionTypeScenario, Difficulty: models.DifficultyEasy,
			Prompt:           "What steps do you take when your code does not work?",
			ExpectedKeywords: []string{"test", "debug", "isolate", "error"},
			MaxTimeSeconds:   60,
		},

		// Medium
		{
			Type: models.QuestionTypeTechnical, Difficulty: models.DifficultyMedium,
			Prompt:           "How would you optimize performance in a {skill} project?",
			ExpectedKeywords: []string{"performance", "profiling", "cache", "optimize"},
			CriticalTerms:    []string{"performance"},
			MaxTimeSeconds:   75,
		},
		{
			Type: models.QuestionTypeTechnical, Difficulty: models.DifficultyMedium,
			Prompt:           "Explain common challenges you faced while using {skill}.",
			ExpectedKeywords: []string{"challenge", "debug", "version", "dependency"},
			MaxTimeSeconds:   75,
		},
		{
			Type: models.QuestionTypeConceptual, Difficulty: models.DifficultyMedium,
			Prompt:           "Compare {skill} with an alternative technology.",
			ExpectedKeywords: []string{"compare", "alternative", "advantage", "disadvantage"},
			MaxTimeSeconds:   75,
		},
		{
			Type: models.QuestionTypeConceptual, Difficulty: models.DifficultyMedium,
			Prompt:           "Explain the trade-offs involved when using {skill}.",
			ExpectedKeywords: []string{"trade-off", "cost", "benefit", "complexity"},
			CriticalTerms:    []string{"trade-off"},
			MaxTimeSeconds:   75,
		},
		{
			Type: models.QuestionTypeBehavioral, Difficulty: models.DifficultyMedium,
			Prompt:           "Describe a challenging project and how you handled it.",
			ExpectedKeywords: []string{"challenge", "deadline", "solution", "team"},
			MaxTimeSeconds:   75,
		},
		{
			Type: models.QuestionTypeBehavioral, Difficulty: models.DifficultyMedium,
			Prompt:           "Tell me about a time you worked under pressure.",
			ExpectedKeywords: []string{"pressure", "deadline", "priority", "deliver"},
			MaxTimeSeconds:   75,
		},
		{
			Type: models.QuestionTypeScenario, Difficulty: models.DifficultyMedium,
			Prompt:           "How would you design a scalable web application?",
			ExpectedKeywords: []string{"scale", "load balancer", "database", "cache", "stateless"},
			CriticalTerms:    []string{"scale"},
			MaxTimeSeconds:   75,
		},
		{
			Type: models.QuestionTypeScenario, Difficulty: models.DifficultyMedium,
			Prompt:           "How would you handle a production bug reported by users?",
			ExpectedKeywords: []string{"reproduce", "log", "rollback", "fix", "monitor"},
			CriticalTerms:    []string{"reproduce"},
			MaxTimeSeconds:   75,
		},

		// Hard
		{
			Type: models.QuestionTypeTechnical, Difficulty: models.DifficultyHard,
			Prompt:           "Design a scalable system using {skill} for millions of users.",
			ExpectedKeywords: []string{"scale", "shard", "replication", "load balancer", "queue"},
			CriticalTerms:    []string{"scale"},
			MaxTimeSeconds:   90,
		},
		{
			Type: models.QuestionTypeTechnical, Difficulty: models.DifficultyHard,
			Prompt:           "How would you improve fault tolerance in a {skill} system?",
			ExpectedKeywords: []string{"fault", "retry", "replication", "failover", "redundancy"},
			CriticalTerms:    []string{"failover"},
			MaxTimeSeconds:   90,
		},
		{
			Type: models.QuestionTypeConceptual, Difficulty: models.DifficultyHard,
			Prompt:           "Explain the internal architecture or algorithms behind {skill}.",
			ExpectedKeywords: []string{"architecture", "algorithm", "internal", "memory"},
			MaxTimeSeconds:   90,
		},
		{
			Type: models.QuestionTypeConceptual, Difficulty: models.DifficultyHard,
			Prompt:           "Discuss the limitations of {skill} in large-scale systems.",
			ExpectedKeywords: []string{"limitation", "bottleneck", "scale", "latency"},
			MaxTimeSeconds:   90,
		},
		{
			Type: models.QuestionTypeBehavioral, Difficulty: models.DifficultyHard,
			Prompt:           "Tell me about a critical technical decision you made.",
			ExpectedKeywords: []string{"decision", "trade-off", "impact", "outcome"},
			MaxTimeSeconds:   90,
		},
		{
			Type: models.QuestionTypeBehavioral, Difficulty: models.DifficultyHard,
			Prompt:           "How do you balance speed versus quality under deadlines?",
			ExpectedKeywords: []string{"quality", "deadline", "scope", "technical debt"},
			MaxTimeSeconds:   90,
		},
		{
			Type: models.QuestionTypeScenario, Difficulty: models.DifficultyHard,
			Prompt:           "A production system goes down suddenly. Walk me through your response.",
			ExpectedKeywords: []string{"incident", "rollback", "monitor", "postmortem", "communicate"},
			CriticalTerms:    []string{"rollback"},
			MaxTimeSeconds:   90,
		},
		{
			Type: models.QuestionTypeScenario, Difficulty: models.DifficultyHard,
			Prompt:           "How would you redesign a legacy system for scalability?",
			ExpectedKeywords: []string{"legacy", "migrate", "incremental", "scale", "strangler"},
			MaxTimeSeconds:   90,
		},
	}

	for i := range questions {
		questions[i].ID = uuid.New().String()
	}
	return questions
}

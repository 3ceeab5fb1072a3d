package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Narain-karthick/Prep2Hire/models"
)

// stubScorer returns preset overall scores in sequence, with every sub-score
// equal to the overall. Lets the tests drive the state machine directly.
type stubScorer struct {
	overalls []int
	calls    int
}

func (s *stubScorer) ScoreAnswer(question models.Question, answer string, timeTaken int) Score {
	overall := s.overalls[s.calls%len(s.overalls)]
	s.calls++
	v := float64(overall)
	return Score{Accuracy: v, Clarity: v, Depth: v, Relevance: v, TimeEfficiency: v, Overall: overall}
}

func testEngine(scorer Scorer) *InterviewEngine {
	bank := NewQuestionBank(DefaultCatalogue())
	cfg := InterviewConfig{MaxQuestions: 10, InitialDifficulty: models.DifficultyEasy}
	return NewInterviewEngine(bank, scorer, nil, cfg)
}

func testSession() *SessionState {
	return &SessionState{
		ID:     "session-1",
		UserID: "user-1",
		Status: models.SessionNotStarted,
	}
}

func TestStartServesFirstQuestion(t *testing.T) {
	engine := testEngine(&stubScorer{overalls: []int{50}})
	sess := testSession()

	question, err := engine.Start(context.Background(), sess)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if question.QuestionNumber != 1 {
		t.Errorf("question_number = %d, expected 1", question.QuestionNumber)
	}
	if question.MaxQuestions != 10 {
		t.Errorf("max_questions = %d, expected 10", question.MaxQuestions)
	}
	if question.Difficulty != models.DifficultyEasy {
		t.Errorf("difficulty = %q, expected easy", question.Difficulty)
	}
	if question.QuestionType != models.QuestionTypeTechnical {
		t.Errorf("question_type = %q, expected technical for the first turn", question.QuestionType)
	}
	if question.TimeLimit <= 0 {
		t.Errorf("time_limit = %d, expected a positive limit", question.TimeLimit)
	}
	if sess.Status != models.SessionInProgress {
		t.Errorf("session status = %q, expected in_progress", sess.Status)
	}

	if _, err := engine.Start(context.Background(), sess); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Start() error = %v, expected ErrInvalidState", err)
	}
}

func TestSubmitAnswerBeforeStart(t *testing.T) {
	engine := testEngine(&stubScorer{overalls: []int{50}})
	sess := testSession()

	if _, err := engine.SubmitAnswer(context.Background(), sess, "answer", 10); !errors.Is(err, ErrInvalidState) {
		t.Errorf("SubmitAnswer() before Start error = %v, expected ErrInvalidState", err)
	}
}

func TestHighScoringRunCompletes(t *testing.T) {
	engine := testEngine(&stubScorer{overalls: []int{80, 80, 80, 80, 80, 80, 80, 80, 80, 80}})
	sess := testSession()
	bank := engine.bank

	if _, err := engine.Start(context.Background(), sess); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	expectedDifficulties := []string{
		models.DifficultyMedium, models.DifficultyHard, models.DifficultyHard,
		models.DifficultyHard, models.DifficultyHard, models.DifficultyHard,
		models.DifficultyHard, models.DifficultyHard, models.DifficultyHard,
	}

	var final *FinalReport
	for turn := 1; turn <= 10; turn++ {
		step, err := engine.SubmitAnswer(context.Background(), sess, "a strong answer", 20)
		if err != nil {
			t.Fatalf("SubmitAnswer() turn %d error = %v", turn, err)
		}

		if turn < 10 {
			if step.Complete || step.FinalReport != nil {
				t.Fatalf("turn %d marked complete prematurely", turn)
			}
			if step.NextQuestion == nil {
				t.Fatalf("turn %d returned no next question", turn)
			}
			if step.NextQuestion.QuestionNumber != turn+1 {
				t.Errorf("turn %d next question_number = %d, expected %d",
					turn, step.NextQuestion.QuestionNumber, turn+1)
			}
			if step.NextQuestion.Difficulty != expectedDifficulties[turn-1] {
				t.Errorf("turn %d next difficulty = %q, expected %q",
					turn, step.NextQuestion.Difficulty, expectedDifficulties[turn-1])
			}
			if want := bank.TypeForTurn(turn + 1); step.NextQuestion.QuestionType != want {
				t.Errorf("turn %d next question_type = %q, expected %q",
					turn, step.NextQuestion.QuestionType, want)
			}
			if sess.QuestionNumber != turn+1 {
				t.Errorf("turn %d session question_number = %d, expected %d",
					turn, sess.QuestionNumber, turn+1)
			}
			if len(sess.ScoreHistory) != sess.QuestionNumber-1 {
				t.Errorf("turn %d score history length = %d, expected %d",
					turn, len(sess.ScoreHistory), sess.QuestionNumber-1)
			}
		} else {
			if !step.Complete || step.FinalReport == nil {
				t.Fatal("final turn did not complete the interview")
			}
			if step.NextQuestion != nil {
				t.Error("final turn returned a next question")
			}
			final = step.FinalReport
		}
	}

	if sess.Status != models.SessionCompleted {
		t.Errorf("session status = %q, expected completed", sess.Status)
	}
	if sess.QuestionNumber != 10 {
		t.Errorf("question_number = %d, expected frozen at 10", sess.QuestionNumber)
	}

	if final.FinalScore != 80 {
		t.Errorf("final_score = %d, expected 80", final.FinalScore)
	}
	if final.HiringReadiness != models.ReadinessHighlyRecommended {
		t.Errorf("hiring_readiness = %q, expected %q", final.HiringReadiness, models.ReadinessHighlyRecommended)
	}
	if final.TotalQuestions != 10 {
		t.Errorf("total_questions = %d, expected 10", final.TotalQuestions)
	}
	if final.EarlyTermination {
		t.Error("early_termination = true on a completed run")
	}
	if len(final.Strengths) != 5 {
		t.Errorf("strengths = %v, expected all five metrics", final.Strengths)
	}
	if len(final.Weaknesses) != 1 || final.Weaknesses[0] != "None identified" {
		t.Errorf("weaknesses = %v, expected none identified", final.Weaknesses)
	}
	if final.Recommendation == "" {
		t.Error("recommendation is empty")
	}

	// Terminal sessions accept no further submissions and can re-serve the report.
	if _, err := engine.SubmitAnswer(context.Background(), sess, "late answer", 10); !errors.Is(err, ErrInvalidState) {
		t.Errorf("SubmitAnswer() after completion error = %v, expected ErrInvalidState", err)
	}
	report, err := engine.Report(sess)
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if report.FinalScore != final.FinalScore {
		t.Errorf("re-served final_score = %d, expected %d", report.FinalScore, final.FinalScore)
	}
}

func TestEarlyTerminationOnLowStreak(t *testing.T) {
	engine := testEngine(&stubScorer{overalls: []int{20, 20, 20}})
	sess := testSession()

	if _, err := engine.Start(context.Background(), sess); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for turn := 1; turn <= 2; turn++ {
		step, err := engine.SubmitAnswer(context.Background(), sess, "weak answer", 50)
		if err != nil {
			t.Fatalf("SubmitAnswer() turn %d error = %v", turn, err)
		}
		if step.Complete {
			t.Fatalf("turn %d terminated before the streak completed", turn)
		}
	}

	step, err := engine.SubmitAnswer(context.Background(), sess, "weak answer", 50)
	if err != nil {
		t.Fatalf("SubmitAnswer() turn 3 error = %v", err)
	}
	if !step.Complete || step.FinalReport == nil {
		t.Fatal("third low score did not terminate the interview")
	}

	final := step.FinalReport
	if !final.EarlyTermination {
		t.Error("early_termination = false, expected true")
	}
	if final.TerminationReason != "Consistently low performance" {
		t.Errorf("termination_reason = %q", final.TerminationReason)
	}
	if final.HiringReadiness != models.ReadinessNotRecommended {
		t.Errorf("hiring_readiness = %q, expected %q", final.HiringReadiness, models.ReadinessNotRecommended)
	}
	if final.TotalQuestions != 3 {
		t.Errorf("total_questions = %d, expected 3", final.TotalQuestions)
	}
	if sess.Status != models.SessionTerminatedEarly {
		t.Errorf("session status = %q, expected terminated_early", sess.Status)
	}
	if sess.QuestionNumber != 3 {
		t.Errorf("question_number = %d, expected frozen at 3", sess.QuestionNumber)
	}

	if _, err := engine.SubmitAnswer(context.Background(), sess, "late answer", 10); !errors.Is(err, ErrInvalidState) {
		t.Errorf("SubmitAnswer() after termination error = %v, expected ErrInvalidState", err)
	}
}

func TestEarlyTerminationNeedsThreeConsecutiveLows(t *testing.T) {
	engine := testEngine(&stubScorer{overalls: []int{80, 80, 20, 20, 20}})
	sess := testSession()

	if _, err := engine.Start(context.Background(), sess); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for turn := 1; turn <= 4; turn++ {
		step, err := engine.SubmitAnswer(context.Background(), sess, "answer", 20)
		if err != nil {
			t.Fatalf("SubmitAnswer() turn %d error = %v", turn, err)
		}
		if step.Complete {
			t.Fatalf("turn %d terminated early, streak not yet complete", turn)
		}
	}

	step, err := engine.SubmitAnswer(context.Background(), sess, "answer", 20)
	if err != nil {
		t.Fatalf("SubmitAnswer() turn 5 error = %v", err)
	}
	if !step.Complete || !step.FinalReport.EarlyTermination {
		t.Fatal("three consecutive low scores did not terminate the interview")
	}
	if step.FinalReport.TotalQuestions != 5 {
		t.Errorf("total_questions = %d, expected 5", step.FinalReport.TotalQuestions)
	}
	if sess.QuestionNumber != 5 {
		t.Errorf("question_number = %d, expected frozen at 5", sess.QuestionNumber)
	}
}

func TestEmptyAnswerScoresZeroThroughEngine(t *testing.T) {
	engine := testEngine(NewScoringEngine())
	sess := testSession()

	if _, err := engine.Start(context.Background(), sess); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	step, err := engine.SubmitAnswer(context.Background(), sess, "   ", 60)
	if err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}
	if step.Score.Overall != 0 {
		t.Errorf("overall = %d, expected 0 for a blank answer", step.Score.Overall)
	}
	if step.Score.Feedback != "No answer was provided." {
		t.Errorf("feedback = %q", step.Score.Feedback)
	}
	if step.Complete {
		t.Error("single blank answer terminated the interview")
	}
}

func TestReportRequiresTerminalSession(t *testing.T) {
	engine := testEngine(&stubScorer{overalls: []int{50}})
	sess := testSession()

	if _, err := engine.Report(sess); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Report() on fresh session error = %v, expected ErrInvalidState", err)
	}

	if _, err := engine.Start(context.Background(), sess); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := engine.Report(sess); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Report() on in-progress session error = %v, expected ErrInvalidState", err)
	}
}

func TestFocusSkillPersonalization(t *testing.T) {
	engine := testEngine(&stubScorer{overalls: []int{50, 50, 50}})
	sess := testSession()
	sess.FocusSkills = []string{"python", "aws"}

	question, err := engine.Start(context.Background(), sess)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if strings.Contains(question.Question, "{skill}") {
		t.Errorf("question %q still contains the skill placeholder", question.Question)
	}

	for turn := 1; turn <= 3; turn++ {
		step, err := engine.SubmitAnswer(context.Background(), sess, "an answer with some detail", 20)
		if err != nil {
			t.Fatalf("SubmitAnswer() turn %d error = %v", turn, err)
		}
		if step.NextQuestion != nil && strings.Contains(step.NextQuestion.Question, "{skill}") {
			t.Errorf("turn %d question %q still contains the skill placeholder",
				turn, step.NextQuestion.Question)
		}
	}
}

func TestReadinessBands(t *testing.T) {
	engine := testEngine(&stubScorer{overalls: []int{50}})

	tests := []struct {
		name            string
		finalScore      int
		terminatedEarly bool
		expected        string
	}{
		{"Well above the top band", 95, false, models.ReadinessHighlyRecommended},
		{"At the top band boundary", 80, false, models.ReadinessHighlyRecommended},
		{"Just below the top band", 79, false, models.ReadinessRecommended},
		{"At the recommended boundary", 65, false, models.ReadinessRecommended},
		{"Just below recommended", 64, false, models.ReadinessConditional},
		{"At the conditional boundary", 40, false, models.ReadinessConditional},
		{"Below conditional", 39, false, models.ReadinessNotRecommended},
		{"High score but terminated early", 95, true, models.ReadinessNotRecommended},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.readiness(tt.finalScore, tt.terminatedEarly)
			if got != tt.expected {
				t.Errorf("readiness(%d, %v) = %q, expected %q",
					tt.finalScore, tt.terminatedEarly, got, tt.expected)
			}
		})
	}
}

func TestDefaultTimeLimitAppliedToQuestions(t *testing.T) {
	bank := NewQuestionBank([]models.Question{
		{ID: "q1", Type: models.QuestionTypeTechnical, Difficulty: models.DifficultyEasy, Prompt: "no limit set"},
		{ID: "q2", Type: models.QuestionTypeConceptual, Difficulty: models.DifficultyEasy, Prompt: "explicit limit", MaxTimeSeconds: 90},
	})
	engine := NewInterviewEngine(bank, &stubScorer{overalls: []int{50}}, nil, InterviewConfig{
		MaxQuestions:      10,
		InitialDifficulty: models.DifficultyEasy,
		TimeLimitSeconds:  45,
	})
	sess := testSession()

	question, err := engine.Start(context.Background(), sess)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if question.TimeLimit != 45 {
		t.Errorf("time_limit = %d, expected the configured default 45", question.TimeLimit)
	}

	step, err := engine.SubmitAnswer(context.Background(), sess, "an answer", 10)
	if err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}
	if step.NextQuestion == nil || step.NextQuestion.TimeLimit != 90 {
		t.Errorf("next question kept limit %v, expected the explicit 90", step.NextQuestion)
	}
}

func TestExhaustedBankLeavesSessionConsistent(t *testing.T) {
	bank := NewQuestionBank([]models.Question{
		{ID: "q1", Type: models.QuestionTypeTechnical, Difficulty: models.DifficultyEasy, Prompt: "first"},
		{ID: "q2", Type: models.QuestionTypeConceptual, Difficulty: models.DifficultyEasy, Prompt: "second"},
	})
	engine := NewInterviewEngine(bank, &stubScorer{overalls: []int{50}}, nil, InterviewConfig{
		MaxQuestions:      10,
		InitialDifficulty: models.DifficultyEasy,
	})
	sess := testSession()

	if _, err := engine.Start(context.Background(), sess); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := engine.SubmitAnswer(context.Background(), sess, "first answer", 10); err != nil {
		t.Fatalf("SubmitAnswer() turn 1 error = %v", err)
	}

	// The bank has nothing left for question 3. The failed submission must
	// not advance the session or record a score.
	for attempt := 1; attempt <= 2; attempt++ {
		_, err := engine.SubmitAnswer(context.Background(), sess, "second answer", 10)
		if !errors.Is(err, ErrExhaustedBank) {
			t.Fatalf("attempt %d error = %v, expected ErrExhaustedBank", attempt, err)
		}
		if sess.Status != models.SessionInProgress {
			t.Errorf("attempt %d status = %q, expected in_progress", attempt, sess.Status)
		}
		if sess.QuestionNumber != 2 {
			t.Errorf("attempt %d question_number = %d, expected 2", attempt, sess.QuestionNumber)
		}
		if len(sess.ScoreHistory) != 1 {
			t.Errorf("attempt %d score history length = %d, expected 1", attempt, len(sess.ScoreHistory))
		}
		if len(sess.AnswerTimes) != 1 {
			t.Errorf("attempt %d answer times length = %d, expected 1", attempt, len(sess.AnswerTimes))
		}
	}
}

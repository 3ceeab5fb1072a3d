package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Narain-karthick/Prep2Hire/models"
	"github.com/Narain-karthick/Prep2Hire/repository"
)

// Early termination fires once at least lowStreakLength scores exist and
// their mean is strictly below lowStreakThreshold. It takes priority over
// normal completion, even on the final allowed question.
const (
	lowStreakLength    = 3
	lowStreakThreshold = 30

	terminationReasonLowPerformance = "Consistently low performance"
)

// Final score bands for the hiring-readiness verdict.
const (
	readinessHighThreshold        = 80
	readinessRecommendedThreshold = 65
	readinessConditionalThreshold = 40

	strengthThreshold = 75
	weaknessThreshold = 50
)

var metricLabels = []string{"Accuracy", "Clarity", "Depth", "Relevance", "Time Efficiency"}

// QuestionSource supplies questions for an interview.
type QuestionSource interface {
	TypeForTurn(questionNumber int) string
	NextQuestion(difficulty string, excludeIDs []string, preferredType string) (*models.Question, error)
}

// Scorer evaluates one answer against the rubric.
type Scorer interface {
	ScoreAnswer(question models.Question, answer string, timeTaken int) Score
}

// QuestionPayload is the externally rendered shape of a served question.
type QuestionPayload struct {
	QuestionID     string `json:"question_id"`
	QuestionNumber int    `json:"question_number"`
	MaxQuestions   int    `json:"max_questions"`
	Difficulty     string `json:"difficulty"`
	QuestionType   string `json:"question_type"`
	Question       string `json:"question"`
	TimeLimit      int    `json:"time_limit"`
}

// SkillBreakdown averages each rubric metric across all answers.
type SkillBreakdown struct {
	Accuracy       float64 `json:"accuracy"`
	Clarity        float64 `json:"clarity"`
	Depth          float64 `json:"depth"`
	Relevance      float64 `json:"relevance"`
	TimeEfficiency float64 `json:"time_efficiency"`
}

// FinalReport is the hiring-readiness report produced when a session reaches
// a terminal state.
type FinalReport struct {
	FinalScore        int            `json:"final_score"`
	HiringReadiness   string         `json:"hiring_readiness"`
	SkillBreakdown    SkillBreakdown `json:"skill_breakdown"`
	Strengths         []string       `json:"strengths"`
	Weaknesses        []string       `json:"weaknesses"`
	Recommendation    string         `json:"recommendation"`
	TotalQuestions    int            `json:"total_questions"`
	EarlyTermination  bool           `json:"early_termination"`
	TerminationReason string         `json:"termination_reason,omitempty"`
}

// NextStep is the outcome of one submitted answer: either the next question
// or the final report.
type NextStep struct {
	Score        Score            `json:"current_score"`
	Complete     bool             `json:"interview_complete"`
	NextQuestion *QuestionPayload `json:"next_question,omitempty"`
	FinalReport  *FinalReport     `json:"final_results,omitempty"`
}

// InterviewEngine drives one interview session at a time: it selects
// questions, adapts difficulty from scores, decides early termination and
// assembles the final report. All transition decisions are pure functions of
// the scores it receives back from the Scorer.
type InterviewEngine struct {
	bank              QuestionSource
	scorer            Scorer
	repo              *repository.GORMRepository // nil when running without a database
	initialDifficulty string
	maxQuestions      int
	defaultTimeLimit  int
}

func NewInterviewEngine(bank QuestionSource, scorer Scorer, repo *repository.GORMRepository, cfg InterviewConfig) *InterviewEngine {
	initial := cfg.InitialDifficulty
	switch initial {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
	default:
		initial = models.DifficultyEasy
	}
	maxQuestions := cfg.MaxQuestions
	if maxQuestions <= 0 {
		maxQuestions = 10
	}
	timeLimit := cfg.TimeLimitSeconds
	if timeLimit <= 0 {
		timeLimit = 60
	}
	return &InterviewEngine{
		bank:              bank,
		scorer:            scorer,
		repo:              repo,
		initialDifficulty: initial,
		maxQuestions:      maxQuestions,
		defaultTimeLimit:  timeLimit,
	}
}

// Start transitions a session from NOT_STARTED to IN_PROGRESS and serves the
// first question at the initial difficulty. Calling Start on an already
// started session returns ErrInvalidState.
func (e *InterviewEngine) Start(ctx context.Context, sess *SessionState) (*QuestionPayload, error) {
	sess.Lock()
	defer sess.Unlock()

	if sess.Status != models.SessionNotStarted {
		return nil, fmt.Errorf("%w: cannot start session in state %q", ErrInvalidState, sess.Status)
	}

	sess.CurrentDifficulty = e.initialDifficulty
	sess.MaxQuestions = e.maxQuestions
	sess.StartedAt = time.Now()

	question, err := e.serveQuestion(sess, sess.CurrentDifficulty, 1)
	if err != nil {
		return nil, err
	}

	sess.Status = models.SessionInProgress
	sess.QuestionNumber = 1

	slog.Info("Interview started", "session_id", sess.ID, "difficulty", sess.CurrentDifficulty, "max_questions", sess.MaxQuestions)
	return e.questionPayload(sess, question), nil
}

// SubmitAnswer scores the answer to the current question and advances the
// state machine: early termination is checked before normal completion, and
// only when neither applies is the next question served at the adapted
// difficulty. Returns ErrInvalidState unless the session is IN_PROGRESS.
func (e *InterviewEngine) SubmitAnswer(ctx context.Context, sess *SessionState, answer string, timeTaken int) (*NextStep, error) {
	sess.Lock()
	defer sess.Unlock()

	if sess.Status != models.SessionInProgress {
		return nil, fmt.Errorf("%w: cannot submit answer in state %q", ErrInvalidState, sess.Status)
	}

	score := e.scorer.ScoreAnswer(*sess.CurrentQuestion, answer, timeTaken)
	sess.ScoreHistory = append(sess.ScoreHistory, score)
	sess.AnswerTimes = append(sess.AnswerTimes, timeTaken)

	if e.lowStreak(sess.ScoreHistory) {
		sess.Status = models.SessionTerminatedEarly
		sess.TerminatedEarly = true
		sess.TerminationReason = terminationReasonLowPerformance
		report := e.buildFinalReport(sess)
		e.archiveSession(ctx, sess, report)
		slog.Info("Interview terminated early", "session_id", sess.ID, "question_number", sess.QuestionNumber, "reason", sess.TerminationReason)
		return &NextStep{Score: score, Complete: true, FinalReport: report}, nil
	}

	if sess.QuestionNumber >= sess.MaxQuestions {
		sess.Status = models.SessionCompleted
		report := e.buildFinalReport(sess)
		e.archiveSession(ctx, sess, report)
		slog.Info("Interview completed", "session_id", sess.ID, "total_questions", sess.QuestionNumber, "final_score", report.FinalScore)
		return &NextStep{Score: score, Complete: true, FinalReport: report}, nil
	}

	nextDifficulty := NextDifficulty(sess.CurrentDifficulty, score.Overall)
	question, err := e.serveQuestion(sess, nextDifficulty, sess.QuestionNumber+1)
	if err != nil {
		// Roll the recorded score back so the session stays consistent: the
		// submission did not advance, and a retry re-scores the same question.
		sess.ScoreHistory = sess.ScoreHistory[:len(sess.ScoreHistory)-1]
		sess.AnswerTimes = sess.AnswerTimes[:len(sess.AnswerTimes)-1]
		return nil, err
	}

	sess.QuestionNumber++
	sess.CurrentDifficulty = nextDifficulty

	slog.Info("Answer scored", "session_id", sess.ID, "question_number", sess.QuestionNumber-1, "overall", score.Overall, "next_difficulty", nextDifficulty)
	return &NextStep{Score: score, NextQuestion: e.questionPayload(sess, question)}, nil
}

// Report rebuilds the final report for a terminal session.
func (e *InterviewEngine) Report(sess *SessionState) (*FinalReport, error) {
	sess.Lock()
	defer sess.Unlock()
	if !sess.Terminal() {
		return nil, fmt.Errorf("%w: report requested for session in state %q", ErrInvalidState, sess.Status)
	}
	return e.buildFinalReport(sess), nil
}

// serveQuestion picks the next question from the bank, personalizes it for
// the session's focus skills and records it as asked and current.
func (e *InterviewEngine) serveQuestion(sess *SessionState, difficulty string, turn int) (*models.Question, error) {
	preferredType := e.bank.TypeForTurn(turn)
	question, err := e.bank.NextQuestion(difficulty, sess.AskedQuestionIDs, preferredType)
	if err != nil {
		return nil, fmt.Errorf("selecting question %d: %w", turn, err)
	}

	personalized := PersonalizeQuestion(*question, e.focusSkill(sess, turn))
	if personalized.MaxTimeSeconds <= 0 {
		personalized.MaxTimeSeconds = e.defaultTimeLimit
	}
	sess.AskedQuestionIDs = append(sess.AskedQuestionIDs, personalized.ID)
	sess.CurrentQuestion = &personalized
	return &personalized, nil
}

// focusSkill picks a skill for prompt personalization, cycling through the
// session's matched skills so repeated turns cover different ground.
func (e *InterviewEngine) focusSkill(sess *SessionState, turn int) string {
	if len(sess.FocusSkills) == 0 {
		return ""
	}
	return sess.FocusSkills[(turn-1)%len(sess.FocusSkills)]
}

func (e *InterviewEngine) questionPayload(sess *SessionState, q *models.Question) *QuestionPayload {
	return &QuestionPayload{
		QuestionID:     q.ID,
		QuestionNumber: sess.QuestionNumber,
		MaxQuestions:   sess.MaxQuestions,
		Difficulty:     q.Difficulty,
		QuestionType:   q.Type,
		Question:       q.Prompt,
		TimeLimit:      q.MaxTimeSeconds,
	}
}

// lowStreak reports whether the mean of the last three overall scores is
// strictly below the termination threshold.
func (e *InterviewEngine) lowStreak(history []Score) bool {
	if len(history) < lowStreakLength {
		return false
	}
	sum := 0
	for _, s := range history[len(history)-lowStreakLength:] {
		sum += s.Overall
	}
	return float64(sum)/lowStreakLength < lowStreakThreshold
}

// buildFinalReport aggregates the score history into the hiring-readiness
// report. Early termination forces NOT RECOMMENDED regardless of the numeric
// final score.
func (e *InterviewEngine) buildFinalReport(sess *SessionState) *FinalReport {
	history := sess.ScoreHistory
	report := &FinalReport{
		TotalQuestions:    len(history),
		EarlyTermination:  sess.TerminatedEarly,
		TerminationReason: sess.TerminationReason,
	}

	if len(history) == 0 {
		report.HiringReadiness = models.ReadinessNotRecommended
		report.Strengths = []string{"None identified"}
		report.Weaknesses = []string{"None identified"}
		report.Recommendation = "Unable to assess - no answers provided."
		return report
	}

	var sums [5]float64
	overallSum := 0
	for _, s := range history {
		sums[0] += s.Accuracy
		sums[1] += s.Clarity
		sums[2] += s.Depth
		sums[3] += s.Relevance
		sums[4] += s.TimeEfficiency
		overallSum += s.Overall
	}
	n := float64(len(history))
	averages := [5]float64{}
	for i := range sums {
		averages[i] = round2(sums[i] / n)
	}

	report.SkillBreakdown = SkillBreakdown{
		Accuracy:       averages[0],
		Clarity:        averages[1],
		Depth:          averages[2],
		Relevance:      averages[3],
		TimeEfficiency: averages[4],
	}
	report.FinalScore = int(math.Round(float64(overallSum) / n))

	weakest := 0
	for i, avg := range averages {
		if avg < averages[weakest] {
			weakest = i
		}
		if avg >= strengthThreshold {
			report.Strengths = append(report.Strengths, metricLabels[i])
		}
		if avg < weaknessThreshold {
			report.Weaknesses = append(report.Weaknesses, metricLabels[i])
		}
	}
	if len(report.Strengths) == 0 {
		report.Strengths = []string{"None identified"}
	}
	if len(report.Weaknesses) == 0 {
		report.Weaknesses = []string{"None identified"}
	}

	report.HiringReadiness = e.readiness(report.FinalScore, sess.TerminatedEarly)
	report.Recommendation = e.recommendation(report.HiringReadiness, metricLabels[weakest])
	return report
}

func (e *InterviewEngine) readiness(finalScore int, terminatedEarly bool) string {
	if terminatedEarly {
		return models.ReadinessNotRecommended
	}
	switch {
	case finalScore >= readinessHighThreshold:
		return models.ReadinessHighlyRecommended
	case finalScore >= readinessRecommendedThreshold:
		return models.ReadinessRecommended
	case finalScore >= readinessConditionalThreshold:
		return models.ReadinessConditional
	default:
		return models.ReadinessNotRecommended
	}
}

func (e *InterviewEngine) recommendation(readiness, weakestMetric string) string {
	switch readiness {
	case models.ReadinessHighlyRecommended:
		return fmt.Sprintf("Excellent - ready for real interviews. Strongest results across the rubric; keep sharpening %s.", weakestMetric)
	case models.ReadinessRecommended:
		return fmt.Sprintf("Good - minor improvements needed. Focus practice on %s.", weakestMetric)
	case models.ReadinessConditional:
		return fmt.Sprintf("Fair - needs practice. Start with %s before attempting real interviews.", weakestMetric)
	default:
		return fmt.Sprintf("Needs significant improvement. Build fundamentals, beginning with %s.", weakestMetric)
	}
}

// archiveSession persists a terminal session to the database. Runs best
// effort: the report has already been produced, so persistence failures are
// logged and do not fail the submission.
func (e *InterviewEngine) archiveSession(ctx context.Context, sess *SessionState, report *FinalReport) {
	if e.repo == nil {
		return
	}

	now := time.Now()
	var reason *string
	if sess.TerminationReason != "" {
		r := sess.TerminationReason
		reason = &r
	}
	var skillMatch float64
	if sess.SkillMatch != nil {
		skillMatch = sess.SkillMatch.MatchPercentage
	}

	record := &models.InterviewSession{
		ID:                sess.ID,
		UserID:            sess.UserID,
		Status:            sess.Status,
		CurrentDifficulty: sess.CurrentDifficulty,
		QuestionNumber:    sess.QuestionNumber,
		MaxQuestions:      sess.MaxQuestions,
		SkillMatch:        skillMatch,
		TerminatedEarly:   sess.TerminatedEarly,
		TerminationReason: reason,
		StartedAt:         sess.StartedAt,
		EndedAt:           &now,
	}
	if err := e.repo.CreateInterviewSession(ctx, record); err != nil {
		slog.Error("Failed to archive interview session", "error", err, "session_id", sess.ID)
		return
	}

	for i, s := range sess.ScoreHistory {
		questionID := ""
		if i < len(sess.AskedQuestionIDs) {
			questionID = sess.AskedQuestionIDs[i]
		}
		timeTaken := 0
		if i < len(sess.AnswerTimes) {
			timeTaken = sess.AnswerTimes[i]
		}
		row := &models.AnswerScore{
			SessionID:      sess.ID,
			QuestionID:     questionID,
			QuestionNumber: i + 1,
			Accuracy:       s.Accuracy,
			Clarity:        s.Clarity,
			Depth:          s.Depth,
			Relevance:      s.Relevance,
			TimeEfficiency: s.TimeEfficiency,
			Overall:        s.Overall,
			Feedback:       s.Feedback,
			TimeTaken:      timeTaken,
		}
		if err := e.repo.CreateAnswerScore(ctx, row); err != nil {
			slog.Error("Failed to archive answer score", "error", err, "session_id", sess.ID, "question_number", i+1)
		}
	}

	reportRow := &models.InterviewReport{
		SessionID:         sess.ID,
		FinalScore:        report.FinalScore,
		HiringReadiness:   report.HiringReadiness,
		AvgAccuracy:       report.SkillBreakdown.Accuracy,
		AvgClarity:        report.SkillBreakdown.Clarity,
		AvgDepth:          report.SkillBreakdown.Depth,
		AvgRelevance:      report.SkillBreakdown.Relevance,
		AvgTimeEfficiency: report.SkillBreakdown.TimeEfficiency,
		Strengths:         report.Strengths,
		Weaknesses:        report.Weaknesses,
		Recommendation:    report.Recommendation,
		TotalQuestions:    report.TotalQuestions,
		EarlyTermination:  report.EarlyTermination,
	}
	if err := e.repo.CreateInterviewReport(ctx, reportRow); err != nil {
		slog.Error("Failed to archive interview report", "error", err, "session_id", sess.ID)
	}
}

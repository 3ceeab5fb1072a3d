package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Narain-karthick/Prep2Hire/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SessionArchive reads and deletes archived interview data. Satisfied by
// repository.GORMRepository. Active sessions live in the SessionStore; the
// archive serves sessions that reached a terminal state, including after a
// restart.
type SessionArchive interface {
	GetInterviewSessions(ctx context.Context, userID string) ([]models.InterviewSession, error)
	GetInterviewSessionWithDetails(ctx context.Context, sessionID, userID string) (*models.InterviewSession, error)
	GetAnswerScores(ctx context.Context, sessionID, userID string) ([]models.AnswerScore, error)
	GetInterviewReport(ctx context.Context, sessionID, userID string) (*models.InterviewReport, error)
	DeleteInterviewSession(ctx context.Context, sessionID string) error
}

type InterviewEndpoints struct {
	store        *SessionStore
	engine       *InterviewEngine
	resumeParser *ResumeParser
	jdParser     *JDParser
	archive      SessionArchive // nil when running without a database
}

func NewInterviewEndpoints(store *SessionStore, engine *InterviewEngine, archive SessionArchive) *InterviewEndpoints {
	return &InterviewEndpoints{
		store:        store,
		engine:       engine,
		resumeParser: NewResumeParser(),
		jdParser:     NewJDParser(),
		archive:      archive,
	}
}

type CreateInterviewResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

type UploadResumeRequest struct {
	ResumeText string `json:"resume_text"`
}

type AnalyzeJDRequest struct {
	JDText string `json:"jd_text"`
}

type StartInterviewRequest struct {
	ResumeSummary *ResumeSummary `json:"resume_summary,omitempty"`
	JDSummary     *JDSummary     `json:"jd_summary,omitempty"`
	SkillMatch    *SkillMatch    `json:"skill_match,omitempty"`
}

type SubmitAnswerRequest struct {
	Answer    string `json:"answer"`
	TimeTaken int    `json:"time_taken"` // Seconds
}

func (e *InterviewEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/interviews", func(r chi.Router) {
		r.Post("/", e.CreateInterviewHandler)
		r.Get("/", e.ListInterviewsHandler)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", e.DetailHandler)
			r.Post("/resume", e.UploadResumeHandler)
			r.Post("/jd", e.AnalyzeJDHandler)
			r.Post("/start", e.StartInterviewHandler)
			r.Post("/answer", e.SubmitAnswerHandler)
			r.Get("/status", e.StatusHandler)
			r.Get("/report", e.ReportHandler)
			r.Delete("/", e.DeleteInterviewHandler)
		})
	})
}

func (e *InterviewEndpoints) CreateInterviewHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	session := &SessionState{
		ID:     uuid.New().String(),
		UserID: user.ID,
		Status: models.SessionNotStarted,
	}
	e.store.Put(session)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateInterviewResponse{
		SessionID: session.ID,
		Status:    session.Status,
	})

	slog.Info("Interview session created", "session_id", session.ID, "user_id", user.ID)
}

func (e *InterviewEndpoints) UploadResumeHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := e.ownedSession(w, r)
	if !ok {
		return
	}

	var req UploadResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ResumeText == "" {
		http.Error(w, "Resume text is required", http.StatusBadRequest)
		return
	}

	summary := e.resumeParser.Parse(req.ResumeText)

	session.Lock()
	session.ResumeSummary = summary
	session.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"session_id":  session.ID,
		"resume_data": summary,
	})

	slog.Info("Resume parsed", "session_id", session.ID, "total_skills", summary.TotalSkills)
}

func (e *InterviewEndpoints) AnalyzeJDHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := e.ownedSession(w, r)
	if !ok {
		return
	}

	var req AnalyzeJDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.JDText == "" {
		http.Error(w, "Job description text is required", http.StatusBadRequest)
		return
	}

	session.Lock()
	if session.ResumeSummary == nil {
		session.Unlock()
		http.Error(w, "Resume must be uploaded before analyzing the job description", http.StatusBadRequest)
		return
	}

	summary := e.jdParser.Parse(req.JDText)
	match := e.jdParser.ComputeSkillMatch(session.ResumeSummary.Skills, summary.RequiredSkills)
	session.JDSummary = summary
	session.SkillMatch = match
	session.FocusSkills = match.MatchedSkills
	session.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"session_id":  session.ID,
		"jd_analysis": summary,
		"skill_match": match,
	})

	slog.Info("Job description analyzed", "session_id", session.ID, "match_percentage", match.MatchPercentage)
}

func (e *InterviewEndpoints) StartInterviewHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := e.ownedSession(w, r)
	if !ok {
		return
	}

	// Callers that run their own parsing can supply the summaries inline
	// instead of using the resume/jd endpoints.
	var req StartInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		session.Lock()
		if req.ResumeSummary != nil {
			session.ResumeSummary = req.ResumeSummary
		}
		if req.JDSummary != nil {
			session.JDSummary = req.JDSummary
		}
		if req.SkillMatch != nil {
			session.SkillMatch = req.SkillMatch
			session.FocusSkills = req.SkillMatch.MatchedSkills
		}
		session.Unlock()
	}

	question, err := e.engine.Start(r.Context(), session)
	if err != nil {
		e.writeEngineError(w, err, session.ID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(question)
}

func (e *InterviewEndpoints) SubmitAnswerHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := e.ownedSession(w, r)
	if !ok {
		return
	}

	// Malformed or missing answer text is not an error: it scores as an
	// empty answer so the session always makes forward progress.
	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = SubmitAnswerRequest{}
	}

	step, err := e.engine.SubmitAnswer(r.Context(), session, req.Answer, req.TimeTaken)
	if err != nil {
		e.writeEngineError(w, err, session.ID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(step)
}

func (e *InterviewEndpoints) StatusHandler(w http.ResponseWriter, r *http.Request) {
	user, sessionID, ok := e.requestIdentity(w, r)
	if !ok {
		return
	}

	if session, err := e.store.Get(sessionID); err == nil && session.UserID == user.ID {
		session.Lock()
		status := map[string]interface{}{
			"session_id":         session.ID,
			"status":             session.Status,
			"resume_uploaded":    session.ResumeSummary != nil,
			"jd_analyzed":        session.JDSummary != nil,
			"question_number":    session.QuestionNumber,
			"max_questions":      session.MaxQuestions,
			"questions_answered": len(session.ScoreHistory),
			"current_difficulty": session.CurrentDifficulty,
			"terminated_early":   session.TerminatedEarly,
		}
		session.Unlock()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
		return
	}

	// Session no longer in memory: serve the archived state.
	archived, ok := e.archivedSession(w, r, sessionID, user.ID)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"session_id":         archived.ID,
		"status":             archived.Status,
		"question_number":    archived.QuestionNumber,
		"max_questions":      archived.MaxQuestions,
		"questions_answered": len(archived.AnswerScores),
		"current_difficulty": archived.CurrentDifficulty,
		"terminated_early":   archived.TerminatedEarly,
		"archived":           true,
	})
}

func (e *InterviewEndpoints) ReportHandler(w http.ResponseWriter, r *http.Request) {
	user, sessionID, ok := e.requestIdentity(w, r)
	if !ok {
		return
	}

	if session, err := e.store.Get(sessionID); err == nil && session.UserID == user.ID {
		report, err := e.engine.Report(session)
		if err != nil {
			e.writeEngineError(w, err, session.ID)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"session_id":    session.ID,
			"final_results": report,
		})
		return
	}

	if e.archive == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	report, err := e.archive.GetInterviewReport(r.Context(), sessionID, user.ID)
	if err != nil {
		slog.Error("Failed to load archived report", "error", err, "session_id", sessionID)
		http.Error(w, "Failed to load report", http.StatusInternalServerError)
		return
	}
	if report == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	scores, err := e.archive.GetAnswerScores(r.Context(), sessionID, user.ID)
	if err != nil {
		slog.Error("Failed to load archived answer scores", "error", err, "session_id", sessionID)
		http.Error(w, "Failed to load report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"session_id":    sessionID,
		"final_results": finalReportFromArchive(report),
		"answer_scores": scores,
	})
}

// DetailHandler serves the full archived record for a finished interview:
// the session row with its per-question scores and final report.
func (e *InterviewEndpoints) DetailHandler(w http.ResponseWriter, r *http.Request) {
	user, sessionID, ok := e.requestIdentity(w, r)
	if !ok {
		return
	}

	archived, ok := e.archivedSession(w, r, sessionID, user.ID)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"session": archived,
	})
}

func (e *InterviewEndpoints) ListInterviewsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return
	}

	if e.archive == nil {
		http.Error(w, "Interview history requires a database", http.StatusServiceUnavailable)
		return
	}

	sessions, err := e.archive.GetInterviewSessions(r.Context(), user.ID)
	if err != nil {
		slog.Error("Failed to list interview sessions", "error", err, "user_id", user.ID)
		http.Error(w, "Failed to list sessions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func (e *InterviewEndpoints) DeleteInterviewHandler(w http.ResponseWriter, r *http.Request) {
	user, sessionID, ok := e.requestIdentity(w, r)
	if !ok {
		return
	}

	session, err := e.store.Get(sessionID)
	if err == nil && session.UserID == user.ID {
		e.store.Delete(sessionID)
	} else if err == nil || e.archive == nil {
		// In memory but owned by someone else, or not archived anywhere.
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	} else if archived, _ := e.archive.GetInterviewSessionWithDetails(r.Context(), sessionID, user.ID); archived == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	if e.archive != nil {
		if err := e.archive.DeleteInterviewSession(r.Context(), sessionID); err != nil {
			slog.Error("Failed to delete archived session", "error", err, "session_id", sessionID)
		}
	}

	w.WriteHeader(http.StatusNoContent)
	slog.Info("Interview session deleted", "session_id", sessionID)
}

// ownedSession resolves the in-memory session from the URL and verifies it
// belongs to the authenticated user. Writes the error response itself on
// failure.
func (e *InterviewEndpoints) ownedSession(w http.ResponseWriter, r *http.Request) (*SessionState, bool) {
	user, sessionID, ok := e.requestIdentity(w, r)
	if !ok {
		return nil, false
	}

	session, err := e.store.Get(sessionID)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	if session.UserID != user.ID {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

// requestIdentity extracts the authenticated user and the session id from the
// request. Writes the error response itself on failure.
func (e *InterviewEndpoints) requestIdentity(w http.ResponseWriter, r *http.Request) (*models.User, string, bool) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "User not found in context", http.StatusInternalServerError)
		return nil, "", false
	}

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		http.Error(w, "Session ID is required", http.StatusBadRequest)
		return nil, "", false
	}
	return user, sessionID, true
}

// archivedSession loads a finished session with its scores and report from
// the archive. Writes the error response itself on failure.
func (e *InterviewEndpoints) archivedSession(w http.ResponseWriter, r *http.Request, sessionID, userID string) (*models.InterviewSession, bool) {
	if e.archive == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}

	archived, err := e.archive.GetInterviewSessionWithDetails(r.Context(), sessionID, userID)
	if err != nil {
		slog.Error("Failed to load archived session", "error", err, "session_id", sessionID)
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return nil, false
	}
	if archived == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return archived, true
}

// finalReportFromArchive rebuilds the report response shape from the stored
// report row. The termination reason lives on the session row and is omitted
// here.
func finalReportFromArchive(report *models.InterviewReport) *FinalReport {
	return &FinalReport{
		FinalScore:      report.FinalScore,
		HiringReadiness: report.HiringReadiness,
		SkillBreakdown: SkillBreakdown{
			Accuracy:       report.AvgAccuracy,
			Clarity:        report.AvgClarity,
			Depth:          report.AvgDepth,
			Relevance:      report.AvgRelevance,
			TimeEfficiency: report.AvgTimeEfficiency,
		},
		Strengths:        []string(report.Strengths),
		Weaknesses:       []string(report.Weaknesses),
		Recommendation:   report.Recommendation,
		TotalQuestions:   report.TotalQuestions,
		EarlyTermination: report.EarlyTermination,
	}
}

// writeEngineError maps engine errors onto HTTP statuses: invalid state is a
// caller error, an exhausted bank is a configuration error and must not look
// like normal completion.
func (e *InterviewEndpoints) writeEngineError(w http.ResponseWriter, err error, sessionID string) {
	switch {
	case errors.Is(err, ErrInvalidState):
		slog.Warn("Operation rejected", "error", err, "session_id", sessionID)
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrExhaustedBank):
		slog.Error("Question bank exhausted", "error", err, "session_id", sessionID)
		http.Error(w, "Question bank exhausted", http.StatusInternalServerError)
	default:
		slog.Error("Interview operation failed", "error", err, "session_id", sessionID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

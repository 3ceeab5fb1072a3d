package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/Narain-karthick/Prep2Hire/models"
	"gorm.io/gorm"
)

type GORMRepository struct {
	db *gorm.DB
}

func NewGORMRepository(db *gorm.DB) *GORMRepository {
	return &GORMRepository{db: db}
}

// AutoMigrate runs database migrations
func (r *GORMRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Question{},
		&models.InterviewSession{},
		&models.AnswerScore{},
		&models.InterviewReport{},
	)
}

// User operations
func (r *GORMRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		slog.Error("Failed to create user", "error", err)
		return err
	}
	slog.Info("User created", "user_id", user.ID, "email", user.Email)
	return nil
}

func (r *GORMRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get user by email", "error", err, "email", email)
		return nil, err
	}
	return &user, nil
}

func (r *GORMRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get user by ID", "error", err, "user_id", id)
		return nil, err
	}
	return &user, nil
}

// Token operations
func (r *GORMRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		slog.Error("Failed to create refresh token", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	if err := r.db.WithContext(ctx).Where("token = ? AND expires_at > ?", token, time.Now()).First(&refreshToken).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get refresh token", "error", err)
		return nil, err
	}
	return &refreshToken, nil
}

func (r *GORMRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	if err := r.db.WithContext(ctx).Where("token = ?", token).Delete(&models.RefreshToken{}).Error; err != nil {
		slog.Error("Failed to delete refresh token", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) DeleteAllUserTokens(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
		slog.Error("Failed to delete user refresh tokens", "error", err, "user_id", userID)
		return err
	}
	return nil
}

// Question catalogue operations
func (r *GORMRepository) CreateQuestion(ctx context.Context, question *models.Question) error {
	if err := r.db.WithContext(ctx).Create(question).Error; err != nil {
		slog.Error("Failed to create question", "error", err)
		return err
	}
	slog.Info("Question created", "question_id", question.ID, "type", question.Type, "difficulty", question.Difficulty)
	return nil
}

func (r *GORMRepository) GetQuestions(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	if err := r.db.WithContext(ctx).Order("difficulty, type, created_at").Find(&questions).Error; err != nil {
		slog.Error("Failed to get questions", "error", err)
		return nil, err
	}
	return questions, nil
}

func (r *GORMRepository) CountQuestions(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Question{}).Count(&count).Error; err != nil {
		slog.Error("Failed to count questions", "error", err)
		return 0, err
	}
	return count, nil
}

// Interview session operations
func (r *GORMRepository) CreateInterviewSession(ctx context.Context, session *models.InterviewSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		slog.Error("Failed to create interview session", "error", err)
		return err
	}
	slog.Info("Interview session created", "session_id", session.ID, "user_id", session.UserID)
	return nil
}

func (r *GORMRepository) GetInterviewSessions(ctx context.Context, userID string) ([]models.InterviewSession, error) {
	var sessions []models.InterviewSession
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("started_at DESC").Find(&sessions).Error
	if err != nil {
		slog.Error("Failed to get interview sessions", "error", err, "user_id", userID)
		return nil, err
	}
	return sessions, nil
}

func (r *GORMRepository) GetInterviewSessionWithDetails(ctx context.Context, sessionID, userID string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Preload("AnswerScores", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_scores.question_number")
		}).
		Preload("Report").
		First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get interview session with details", "error", err, "session_id", sessionID, "user_id", userID)
		return nil, err
	}
	return &session, nil
}

func (r *GORMRepository) DeleteInterviewSession(ctx context.Context, sessionID string) error {
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.AnswerScore{}).Error; err != nil {
		slog.Error("Failed to delete answer scores", "error", err, "session_id", sessionID)
		return err
	}
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.InterviewReport{}).Error; err != nil {
		slog.Error("Failed to delete interview report", "error", err, "session_id", sessionID)
		return err
	}
	if err := r.db.WithContext(ctx).Where("id = ?", sessionID).Delete(&models.InterviewSession{}).Error; err != nil {
		slog.Error("Failed to delete interview session", "error", err, "session_id", sessionID)
		return err
	}
	slog.Info("Interview session deleted", "session_id", sessionID)
	return nil
}

// Answer score operations
func (r *GORMRepository) CreateAnswerScore(ctx context.Context, score *models.AnswerScore) error {
	if err := r.db.WithContext(ctx).Create(score).Error; err != nil {
		slog.Error("Failed to create answer score", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) GetAnswerScores(ctx context.Context, sessionID, userID string) ([]models.AnswerScore, error) {
	var scores []models.AnswerScore
	err := r.db.WithContext(ctx).
		Joins("JOIN interview_sessions ON interview_sessions.id = answer_scores.session_id").
		Where("answer_scores.session_id = ? AND interview_sessions.user_id = ?", sessionID, userID).
		Order("answer_scores.question_number").
		Find(&scores).Error
	if err != nil {
		slog.Error("Failed to get answer scores", "error", err, "session_id", sessionID)
		return nil, err
	}
	return scores, nil
}

// Interview report operations
func (r *GORMRepository) CreateInterviewReport(ctx context.Context, report *models.InterviewReport) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		slog.Error("Failed to create interview report", "error", err)
		return err
	}
	slog.Info("Interview report created", "report_id", report.ID, "session_id", report.SessionID)
	return nil
}

func (r *GORMRepository) GetInterviewReport(ctx context.Context, sessionID, userID string) (*models.InterviewReport, error) {
	var report models.InterviewReport
	err := r.db.WithContext(ctx).
		Joins("JOIN interview_sessions ON interview_sessions.id = interview_reports.session_id").
		Where("interview_reports.session_id = ? AND interview_sessions.user_id = ?", sessionID, userID).
		First(&report).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get interview report", "error", err, "session_id", sessionID)
		return nil, err
	}
	return &report, nil
}

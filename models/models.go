package models

// This file serves as the central export point for all database models
// Import this package to access all model types

// All models are automatically exported from their respective files:
// - User, RefreshToken from user.go
// - Question from question.go
// - InterviewSession, AnswerScore, InterviewReport from interview.go

// Database schema overview:
// 1. users - Managed by cookie-based authentication
// 2. questions - The static question catalogue, keyed by (type, difficulty)
// 3. interview_sessions - Records each interview attempt for a user
// 4. answer_scores - One row per scored answer, ordered by question number
// 5. interview_reports - The final hiring-readiness report for a session

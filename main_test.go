package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	svc "github.com/Narain-karthick/Prep2Hire/services"
)

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		name           string
		allowedOrigins string
		requestOrigin  string
		expected       bool
	}{
		{
			name:           "Interview frontend allowed",
			allowedOrigins: "http://localhost:5173,https://app.prep2hire.dev",
			requestOrigin:  "http://localhost:5173",
			expected:       true,
		},
		{
			name:           "Deployed frontend allowed",
			allowedOrigins: "http://localhost:5173,https://app.prep2hire.dev",
			requestOrigin:  "https://app.prep2hire.dev",
			expected:       true,
		},
		{
			name:           "Unknown origin denied",
			allowedOrigins: "http://localhost:5173,https://app.prep2hire.dev",
			requestOrigin:  "https://evil.example.com",
			expected:       false,
		},
		{
			name:           "Scheme mismatch denied",
			allowedOrigins: "https://app.prep2hire.dev",
			requestOrigin:  "http://app.prep2hire.dev",
			expected:       false,
		},
		{
			name:           "Port mismatch denied",
			allowedOrigins: "http://localhost:5173",
			requestOrigin:  "http://localhost:8080",
			expected:       false,
		},
		{
			name:           "Whitespace in allowlist tolerated",
			allowedOrigins: "http://localhost:5173, https://app.prep2hire.dev",
			requestOrigin:  "https://app.prep2hire.dev",
			expected:       true,
		},
		{
			name:           "Empty allowlist denies everything",
			allowedOrigins: "",
			requestOrigin:  "http://localhost:5173",
			expected:       false,
		},
		{
			name:           "Missing Origin header denied",
			allowedOrigins: "http://localhost:5173",
			requestOrigin:  "",
			expected:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)
			if tt.requestOrigin != "" {
				req.Header.Set("Origin", tt.requestOrigin)
			}

			if got := svc.CheckOrigin(req, tt.allowedOrigins); got != tt.expected {
				t.Errorf("CheckOrigin() = %v, expected %v for origin %q with allowed origins %q",
					got, tt.expected, tt.requestOrigin, tt.allowedOrigins)
			}
		})
	}
}

// Without a database or JWT secret the server runs with the local user
// middleware. The full interview surface has to come up in that mode.
func TestServerRoutesWithoutDatabase(t *testing.T) {
	config := &svc.Config{
		Server:    svc.ServerConfig{Port: "8080"},
		WebSocket: svc.WebSocketConfig{AllowedOrigins: "http://localhost:5173"},
		Interview: svc.InterviewConfig{MaxQuestions: 10, InitialDifficulty: "easy"},
	}

	server := svc.NewServer(config)
	if err := server.InitializeServices(); err != nil {
		t.Fatalf("InitializeServices() error = %v", err)
	}
	router := server.SetupRoutes()

	t.Run("health reports no database and zero clients", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("health status = %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, `"database":"not configured"`) {
			t.Errorf("health body = %s, expected database not configured", body)
		}
		if !strings.Contains(body, `"websocket_clients":0`) {
			t.Errorf("health body = %s, expected zero websocket clients", body)
		}
	})

	t.Run("api root responds", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("api root status = %d", rec.Code)
		}
	})

	t.Run("interview creation works as the local user", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/interviews", nil))
		if rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var created svc.CreateInterviewResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("decode create response: %v", err)
		}
		if created.SessionID == "" {
			t.Error("create response has no session id")
		}
	})

	t.Run("interview history needs a database", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/interviews", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("list status = %d, expected %d", rec.Code, http.StatusServiceUnavailable)
		}
	})

	t.Run("websocket endpoint validates the session id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("missing session_id status = %d, expected %d", rec.Code, http.StatusBadRequest)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ws?session_id=nope", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("unknown session status = %d, expected %d", rec.Code, http.StatusNotFound)
		}
	})
}

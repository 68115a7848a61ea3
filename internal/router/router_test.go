package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stemsi/markbook/internal/config"
	"github.com/stemsi/markbook/internal/handler"
	"github.com/stemsi/markbook/internal/model"
	"github.com/stemsi/markbook/internal/service"
	"github.com/stretchr/testify/assert"
)

type stubVerifier map[string]*service.Claims

func (s stubVerifier) ValidateToken(token string) (*service.Claims, error) {
	if c, ok := s[token]; ok {
		return c, nil
	}
	return nil, errors.New("invalid")
}

func (stubVerifier) CheckNotRevoked(context.Context, string) error { return nil }

func testRouter(t *testing.T) *gin.Engine {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	own := 5
	verifier := stubVerifier{
		"teacher": {RegisteredClaims: jwt.RegisteredClaims{ID: "t"}, UserID: 2, Role: model.RoleTeacher, Permissions: model.PermissionCodes(model.RoleTeacher)},
		"student": {RegisteredClaims: jwt.RegisteredClaims{ID: "s"}, UserID: 3, Role: model.RoleStudent, StudentID: &own, Permissions: model.PermissionCodes(model.RoleStudent)},
	}
	handlers := &Handlers{Marks: handler.NewMarksHandler(&service.MarkSheetService{})}
	cfg := &config.Config{GinMode: gin.TestMode, AuthRateLimit: 30}
	return SetupRouter(ctx, verifier, handlers, cfg)
}

func TestSetupRouter_Access(t *testing.T) {
	r := testRouter(t)
	examID := "8d1f5a3e-2b4c-4f6a-9e7d-1c2b3a4d5e6f"

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"api needs token", http.MethodGet, "/api/v1/classes", "", http.StatusUnauthorized},
		{"students cannot list users", http.MethodGet, "/api/v1/users", "student", http.StatusForbidden},
		{"teachers cannot manage users", http.MethodGet, "/api/v1/users", "teacher", http.StatusForbidden},
		{"students cannot enter marks", http.MethodPost, "/api/v1/marks/preview", "student", http.StatusForbidden},
		{"teachers can preview", http.MethodPost, "/api/v1/marks/preview", "teacher", http.StatusBadRequest},
		{"students cannot read others", http.MethodGet, "/api/v1/reports/students/6", "student", http.StatusForbidden},
		{"students cannot print others' cards", http.MethodGet, "/api/v1/reports/students/6/exams/" + examID + "/pdf", "student", http.StatusForbidden},
		{"students cannot read class results", http.MethodGet, "/api/v1/reports/exams/" + examID + "/results", "student", http.StatusForbidden},
		{"students cannot export class results", http.MethodGet, "/api/v1/reports/exams/" + examID + "/results/export", "student", http.StatusForbidden},
		{"students cannot open the stream", http.MethodGet, "/ws/v1/marks/stream?token=student", "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestSetupRouter_NoStoreOnAPI(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/marks/preview", nil)
	req.Header.Set("Authorization", "Bearer teacher")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

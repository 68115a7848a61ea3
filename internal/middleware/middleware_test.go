package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stemsi/markbook/internal/model"
	"github.com/stemsi/markbook/internal/response"
	"github.com/stemsi/markbook/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	claims  map[string]*service.Claims
	revoked map[string]bool
}

func (f *fakeVerifier) ValidateToken(token string) (*service.Claims, error) {
	if c, ok := f.claims[token]; ok {
		return c, nil
	}
	return nil, errors.New("bad token")
}

func (f *fakeVerifier) CheckNotRevoked(_ context.Context, jti string) error {
	if f.revoked[jti] {
		return service.ErrTokenRevoked
	}
	return nil
}

func claimsFor(jti string, role model.Role, studentID *int) *service.Claims {
	return &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: jti},
		UserID:           1,
		Role:             role,
		StudentID:        studentID,
		Permissions:      model.PermissionCodes(role),
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) response.ErrCode {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error.Code
}

func TestRequireJWT(t *testing.T) {
	v := &fakeVerifier{
		claims: map[string]*service.Claims{
			"good":    claimsFor("jti-1", model.RoleTeacher, nil),
			"revoked": claimsFor("jti-2", model.RoleTeacher, nil),
		},
		revoked: map[string]bool{"jti-2": true},
	}

	r := gin.New()
	r.GET("/x", RequireJWT(v), func(c *gin.Context) {
		c.String(http.StatusOK, string(GetClaims(c).Role))
	})

	tests := []struct {
		name     string
		header   string
		query    string
		wantCode int
		wantErr  response.ErrCode
	}{
		{name: "missing", wantCode: http.StatusUnauthorized, wantErr: response.ErrTokenRequired},
		{name: "garbage", header: "Bearer nope", wantCode: http.StatusUnauthorized, wantErr: response.ErrTokenInvalid},
		{name: "revoked", header: "Bearer revoked", wantCode: http.StatusUnauthorized, wantErr: response.ErrTokenRevoked},
		{name: "header", header: "bearer good", wantCode: http.StatusOK},
		{name: "query", query: "?token=good", wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, errorCode(t, w))
			} else {
				assert.Equal(t, "teacher", w.Body.String())
			}
		})
	}
}

func withClaims(claims *service.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextKeyClaims, claims)
		}
		c.Next()
	}
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name     string
		claims   *service.Claims
		perms    []model.Permission
		wantCode int
	}{
		{"no claims", nil, []model.Permission{model.PermissionMarksWrite}, http.StatusUnauthorized},
		{"teacher writes marks", claimsFor("a", model.RoleTeacher, nil), []model.Permission{model.PermissionMarksWrite}, http.StatusOK},
		{"student cannot", claimsFor("b", model.RoleStudent, nil), []model.Permission{model.PermissionMarksWrite}, http.StatusForbidden},
		{"any of", claimsFor("c", model.RoleStudent, nil), []model.Permission{model.PermissionReportsReadAll, model.PermissionReportsReadOwn}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", withClaims(tt.claims), RequireAnyPermission(tt.perms...), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestRequireOwnStudent(t *testing.T) {
	own := 7
	tests := []struct {
		name     string
		claims   *service.Claims
		path     string
		wantCode int
	}{
		{"teacher reads any", claimsFor("a", model.RoleTeacher, nil), "/students/99", http.StatusOK},
		{"student reads own", claimsFor("b", model.RoleStudent, &own), "/students/7", http.StatusOK},
		{"student reads other", claimsFor("c", model.RoleStudent, &own), "/students/8", http.StatusForbidden},
		{"unbound student", claimsFor("d", model.RoleStudent, nil), "/students/7", http.StatusForbidden},
		{"bad id", claimsFor("e", model.RoleStudent, &own), "/students/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/students/:student_id", withClaims(tt.claims), RequireOwnStudent("student_id"), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusForbidden {
				assert.Equal(t, response.ErrNotOwnRecord, errorCode(t, w))
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 2, time.Minute)
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.2"), "buckets are per IP")

	now = now.Add(time.Minute)
	assert.True(t, rl.allow("10.0.0.1"))

	now = now.Add(10 * time.Minute)
	rl.cleanup()
	assert.Empty(t, rl.visitors)
}

func TestRateLimiter_Middleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := gin.New()
	r.POST("/login", NewRateLimiter(ctx, 1, time.Minute).Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, response.ErrRateLimitExceeded, errorCode(t, w))
}

func TestBrotli(t *testing.T) {
	large := strings.Repeat("report card ", 500)

	r := gin.New()
	r.Use(Brotli())
	r.GET("/large", func(c *gin.Context) { c.String(http.StatusOK, large) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	t.Run("compresses large bodies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/large", nil)
		req.Header.Set("Accept-Encoding", "gzip, br;q=1.0")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
		decoded, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
		require.NoError(t, err)
		assert.Equal(t, large, string(decoded))
	})

	t.Run("passes small bodies through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/small", nil)
		req.Header.Set("Accept-Encoding", "br")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("respects Accept-Encoding", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/large", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, large, w.Body.String())
	})
}

func TestNoStore(t *testing.T) {
	r := gin.New()
	r.GET("/x", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

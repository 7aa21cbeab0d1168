package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/tripplanner/internal/app/models"
	"github.com/yigit/tripplanner/internal/app/models/dto"
	"github.com/yigit/tripplanner/internal/pkg/apperrors"
	"github.com/yigit/tripplanner/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"not found", apperrors.NotFound("trip 4 not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"wrapped not found", fmt.Errorf("error loading: %w", apperrors.NotFound("x")), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"invalid field", apperrors.InvalidField("participantCount", "bad"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"duplicate stop", apperrors.DuplicateStop("destination", 3), http.StatusBadRequest, dto.ErrorCodeDuplicateStop},
		{"checked in", apperrors.AlreadyCheckedIn("event", 3), http.StatusBadRequest, dto.ErrorCodeAlreadyCheckedIn},
		{"state", apperrors.InvalidState("no"), http.StatusBadRequest, dto.ErrorCodeInvalidState},
		{"forbidden", apperrors.Forbidden("no"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"conflict", apperrors.Conflict("taken"), http.StatusConflict, dto.ErrorCodeConflict},
		{"credentials", apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "bad"), http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			resp := decodeError(t, rec)
			if resp.Success || resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.code)
			}
		})
	}
}

func TestHandleAPIErrorCarriesField(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, apperrors.InvalidField("participantCount", "participant_count for a solo trip must be exactly 1, got 2"))

	resp := decodeError(t, rec)
	if resp.Error.Field != "participantCount" {
		t.Errorf("field = %q, want participantCount", resp.Error.Field)
	}
	if resp.Error.Message != "participant_count for a solo trip must be exactly 1, got 2" {
		t.Errorf("message = %q", resp.Error.Message)
	}
}

type stubValidator struct {
	claims *auth.Claims
	err    error
}

func (s stubValidator) ValidateToken(string) (*auth.Claims, error) {
	return s.claims, s.err
}

type stubBlacklist map[string]bool

func (b stubBlacklist) Revoke(_ context.Context, jti string, _ time.Duration) error {
	b[jti] = true
	return nil
}

func (b stubBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	return b[jti], nil
}

func TestJWTAuth(t *testing.T) {
	valid := &auth.Claims{UserID: 7, Role: string(models.RoleUser), RegisteredClaims: jwt.RegisteredClaims{ID: "jti-1"}}

	tests := []struct {
		name      string
		header    string
		validator stubValidator
		revoked   bool
		status    int
		code      dto.ErrorCode
	}{
		{"missing header", "", stubValidator{claims: valid}, false, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"not bearer", "Token abc", stubValidator{claims: valid}, false, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"expired", "Bearer abc", stubValidator{err: apperrors.ErrTokenExpired}, false, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"invalid", "Bearer abc", stubValidator{err: apperrors.ErrTokenInvalid}, false, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"revoked", "Bearer abc", stubValidator{claims: valid}, true, http.StatusUnauthorized, dto.ErrorCodeRevokedToken},
		{"valid", "Bearer abc", stubValidator{claims: valid}, false, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blacklist := stubBlacklist{}
			if tt.revoked {
				blacklist["jti-1"] = true
			}
			m := NewAuthMiddleware(tt.validator, blacklist, zerolog.Nop())

			r := gin.New()
			r.GET("/me", m.JWTAuth(), func(c *gin.Context) {
				id, _ := GetUserID(c)
				c.JSON(http.StatusOK, gin.H{"userID": id})
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if tt.code != "" {
				if resp := decodeError(t, rec); resp.Error.Code != tt.code {
					t.Errorf("code = %s, want %s", resp.Error.Code, tt.code)
				}
				return
			}
			var body map[string]int64
			_ = json.Unmarshal(rec.Body.Bytes(), &body)
			if body["userID"] != 7 {
				t.Errorf("userID = %d, want 7", body["userID"])
			}
		})
	}
}

func TestRoleRequired(t *testing.T) {
	m := NewAuthMiddleware(stubValidator{}, stubBlacklist{}, zerolog.Nop())

	for role, want := range map[string]int{
		string(models.RoleAdmin): http.StatusOK,
		string(models.RoleUser):  http.StatusForbidden,
	} {
		r := gin.New()
		r.GET("/admin", func(c *gin.Context) {
			c.Set(ContextRole, role)
			c.Next()
		}, m.RoleRequired(models.RoleAdmin), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
		if rec.Code != want {
			t.Errorf("role %s: status = %d, want %d", role, rec.Code, want)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.Use(rl.Limit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", rec.Code)
	}
}

func TestRateLimiterPrunesIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.getLimiter("a")
	now = now.Add(visitorIdleTTL + 2*time.Minute)
	rl.getLimiter("b")

	if _, ok := rl.visitors["a"]; ok {
		t.Error("idle visitor was not pruned")
	}
	if len(rl.visitors) != 1 {
		t.Errorf("visitors = %d, want 1", len(rl.visitors))
	}
}

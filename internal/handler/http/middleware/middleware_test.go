package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func protected(t *testing.T, svc *jwt.JWTService, permission user.Permission) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(svc.JWTAuth()))
	r.Use(AuthRequired(svc.JWTAuth()))
	r.With(RequirePermission(permission)).Get("/", okHandler)
	return r
}

func bearer(t *testing.T, svc *jwt.JWTService, role user.Role) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken(jwt.AccessClaims{
		UserID: "0191b5a4-0000-7000-8000-000000000001",
		Email:  "hr@example.com",
		Role:   role,
	})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRequirePermission(t *testing.T) {
	svc, err := jwt.NewJWTService("test-secret", "1h", "24h", false)
	require.NoError(t, err)
	h := protected(t, svc, user.PermissionPayrollManage)

	tests := []struct {
		name string
		auth string
		want int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"employee", bearer(t, svc, user.RoleEmployee), http.StatusForbidden},
		{"hr cannot manage payroll", bearer(t, svc, user.RoleHR), http.StatusForbidden},
		{"cfo", bearer(t, svc, user.RoleCFO), http.StatusNoContent},
		{"system admin passes every gate", bearer(t, svc, user.RoleSystemAdmin), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAuthRequired_RejectsRefreshToken(t *testing.T) {
	svc, err := jwt.NewJWTService("test-secret", "1h", "24h", false)
	require.NoError(t, err)
	refresh, _, err := svc.GenerateRefreshToken("0191b5a4-0000-7000-8000-000000000001")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	protected(t, svc, user.PermissionViewOwnProfile).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 0.001, 2)
	h := rl.Middleware(okHandler)

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:5000"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5002"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:5000"))
}

func TestRateLimiter_Evict(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 1, 1)
	now := time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	rl.limiter("10.0.0.1")

	rl.evict(now.Add(-time.Minute))
	assert.Len(t, rl.visitors, 1)
	rl.evict(now.Add(time.Second))
	assert.Empty(t, rl.visitors)
}

type recordingObserver struct {
	route  string
	status int
}

func (o *recordingObserver) ObserveHTTP(_, route string, status int, _ time.Duration) {
	o.route, o.status = route, status
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	obs := &recordingObserver{}
	r := chi.NewRouter()
	r.Use(Metrics(obs))
	r.Get("/leaves/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/leaves/abc", nil))

	assert.Equal(t, "/leaves/{id}", obs.route)
	assert.Equal(t, http.StatusNotFound, obs.status)
}

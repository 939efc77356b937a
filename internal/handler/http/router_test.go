package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/document"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	auth.AuthService
	loginErr error
}

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest, _ auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if s.loginErr != nil {
		return auth.TokenResponse{}, s.loginErr
	}
	return auth.TokenResponse{
		AccessToken:           "access",
		AccessTokenExpiresIn:  time.Now().Add(time.Hour).Unix(),
		RefreshToken:          "refresh-" + req.Email,
		RefreshTokenExpiresIn: time.Now().Add(24 * time.Hour).Unix(),
	}, nil
}

type stubPayrollService struct {
	payroll.PayrollService
	exported payroll.ExportPayrollRequest
}

func (s *stubPayrollService) List(_ context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollResponse, error) {
	return payroll.ListPayrollResponse{Page: filter.Page, Limit: filter.Limit, Payrolls: []payroll.PayrollResponse{}}, nil
}

func (s *stubPayrollService) Export(_ context.Context, req payroll.ExportPayrollRequest) (payroll.ExportFile, error) {
	s.exported = req
	return payroll.ExportFile{
		FileName:    "payroll-2024-08.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     []byte("xlsx"),
	}, nil
}

type stubLeaveService struct {
	leave.LeaveService
	created bool
}

func (s *stubLeaveService) Create(_ context.Context, _ leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	s.created = true
	return leave.LeaveResponse{}, nil
}

type stubDocumentService struct {
	document.DocumentService
	uploaded document.UploadDocumentRequest
	body     string
}

func (s *stubDocumentService) Upload(_ context.Context, req document.UploadDocumentRequest, file io.Reader) (document.DocumentResponse, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	s.uploaded = req
	s.body = string(content)
	return document.DocumentResponse{ID: "doc-1", Title: req.Title, FileName: req.FileName}, nil
}

func (s *stubDocumentService) Download(_ context.Context, id string) (document.Download, error) {
	if id != "doc-1" {
		return document.Download{}, document.ErrDocumentNotFound
	}
	return document.Download{
		FileName:    "contract.pdf",
		ContentType: "application/pdf",
		SizeBytes:   int64(len("%PDF-1.7")),
		Content:     io.NopCloser(strings.NewReader("%PDF-1.7")),
	}, nil
}

type stubMetrics struct {
	routes []string
}

func (m *stubMetrics) ObserveHTTP(_, route string, _ int, _ time.Duration) {
	m.routes = append(m.routes, route)
}

func (m *stubMetrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# metrics\n"))
	})
}

type testServer struct {
	router    *chi.Mux
	jwt       *jwt.JWTService
	auth      *stubAuthService
	payrolls  *stubPayrollService
	leaves    *stubLeaveService
	documents *stubDocumentService
	metrics   *stubMetrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	jwtService, err := jwt.NewJWTService("test-secret", "1h", "24h", false)
	require.NoError(t, err)

	s := &testServer{
		jwt:       jwtService,
		auth:      &stubAuthService{},
		payrolls:  &stubPayrollService{},
		leaves:    &stubLeaveService{},
		documents: &stubDocumentService{},
		metrics:   &stubMetrics{},
	}
	s.router = NewRouter(jwtService, Handlers{
		Auth:      NewAuthHandler(jwtService, s.auth, nil, "http://localhost:3000", false),
		Payroll:   NewPayrollHandler(s.payrolls),
		Leave:     NewLeaveHandler(s.leaves),
		Document:  NewDocumentHandler(s.documents, 1<<20),
		Dashboard: NewDashboardHandler(nil),
	}, RouterOptions{
		CORSOrigins: []string{"http://localhost:3000"},
		Metrics:     s.metrics,
	})
	return s
}

func (s *testServer) do(t *testing.T, req *http.Request, role user.Role) *httptest.ResponseRecorder {
	t.Helper()
	if role != "" {
		employeeID := "0191b5a4-0000-7000-8000-0000000000e1"
		token, _, err := s.jwt.GenerateAccessToken(jwt.AccessClaims{
			UserID:     "0191b5a4-0000-7000-8000-000000000001",
			Email:      "someone@example.com",
			EmployeeID: &employeeID,
			Role:       role,
		})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/metrics", nil), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# metrics")

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/payrolls", nil), user.RoleCFO)
	assert.Contains(t, strings.Join(s.metrics.routes, " "), "/api/v1/payrolls")
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	t.Run("malformed body", func(t *testing.T) {
		rec := s.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{")), "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation failure", func(t *testing.T) {
		body := `{"email":"not-an-email","password":"short"}`
		rec := s.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body)), "")
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		resp := decodeBody(t, rec)
		assert.Contains(t, resp.Error.Details, "email")
		assert.Contains(t, resp.Error.Details, "password")
	})

	t.Run("success sets refresh cookie", func(t *testing.T) {
		body := `{"email":"jane@example.com","password":"password123"}`
		rec := s.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body)), "")
		require.Equal(t, http.StatusOK, rec.Code)

		var refresh *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == jwt.RefreshTokenCookieName {
				refresh = c
			}
		}
		require.NotNil(t, refresh)
		assert.Equal(t, "refresh-jane@example.com", refresh.Value)
		assert.True(t, refresh.HttpOnly)
	})

	t.Run("bad credentials", func(t *testing.T) {
		s.auth.loginErr = auth.ErrInvalidCredentials
		defer func() { s.auth.loginErr = nil }()
		body := `{"email":"jane@example.com","password":"password123"}`
		rec := s.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body)), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRefresh_RequiresToken(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPayrollRoutes_PermissionGates(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		role user.Role
		want int
	}{
		{"", http.StatusUnauthorized},
		{user.RoleEmployee, http.StatusForbidden},
		{user.RoleHR, http.StatusOK},
		{user.RoleCFO, http.StatusOK},
		{user.RoleSystemAdmin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			rec := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/payrolls?page=2&limit=5", nil), tt.role)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestPayrollExport(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/payrolls/export?month=8&year=2024", nil), user.RoleCFO)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, payroll.ExportPayrollRequest{Month: 8, Year: 2024}, s.payrolls.exported)
	assert.Equal(t, `attachment; filename="payroll-2024-08.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx", rec.Body.String())

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/payrolls/export?month=13&year=2024", nil), user.RoleCFO)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLeaveCreate_RequiresEmployee(t *testing.T) {
	s := newTestServer(t)
	body := `{"type":"ANNUAL","start_date":"2024-09-02","end_date":"2024-09-03","reason":"trip"}`

	rec := s.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/leaves", strings.NewReader(body)), user.RoleHR)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeBody(t, rec).Error.Details, "employee_id")
	assert.False(t, s.leaves.created)

	rec = s.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/leaves", strings.NewReader(body)), user.RoleEmployee)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func multipartUpload(t *testing.T, fields map[string]string, fileName, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestDocumentUpload(t *testing.T) {
	s := newTestServer(t)
	employeeID := uuid.Must(uuid.NewV7()).String()
	fields := map[string]string{
		"employee_id":   employeeID,
		"title":         "Employment contract",
		"document_type": "CONTRACT",
	}

	rec := s.do(t, multipartUpload(t, fields, "contract.pdf", "%PDF-1.7"), user.RoleHR)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, employeeID, s.documents.uploaded.EmployeeID)
	assert.Equal(t, "contract.pdf", s.documents.uploaded.FileName)
	assert.Equal(t, int64(len("%PDF-1.7")), s.documents.uploaded.SizeBytes)
	assert.Equal(t, "%PDF-1.7", s.documents.body)

	rec = s.do(t, multipartUpload(t, fields, "", ""), user.RoleHR)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, multipartUpload(t, fields, "contract.pdf", "%PDF-1.7"), user.RoleEmployee)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDocumentDownload(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc-1/download", nil), user.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="contract.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.7", rec.Body.String())

	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/documents/missing/download", nil), user.RoleAdmin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

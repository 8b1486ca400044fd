package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kwakhanya/internal/configs"
	"kwakhanya/internal/pkg/auth/jwt"
	"kwakhanya/internal/pkg/errs"
	"kwakhanya/internal/pkg/resp"
)

func testDeps() *AppDeps {
	return &AppDeps{
		Config: &configs.AppConfig{
			Environment:    "development",
			Port:           8080,
			AllowedOrigins: []string{},
			JWTSecret:      "test-secret",
			AdminEmail:     "admin@kwakhanyadrivers.co.za",
		},
	}
}

func jsonRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// asIdentity injects an authenticated payload the way the identity middleware
// would.
func asIdentity(r *http.Request, payload *jwt.Payload) *http.Request {
	ctx := context.WithValue(r.Context(), jwt.ContextAuthPayloadKey, payload)
	return r.WithContext(ctx)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) resp.JSONResponse {
	t.Helper()
	var body resp.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	deps := testDeps()
	handler := HandleRegister(deps)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{
			name:     "bad username",
			body:     `{"username":"ab","password":"secret1","email":"a@b.co","fullName":"A B"}`,
			wantCode: errs.ErrInvalidUsername,
		},
		{
			name:     "short password",
			body:     `{"username":"thandi","password":"abc","email":"a@b.co","fullName":"A B"}`,
			wantCode: errs.ErrInvalidPassword,
		},
		{
			name:     "bad email",
			body:     `{"username":"thandi","password":"secret1","email":"not-an-email","fullName":"A B"}`,
			wantCode: errs.ErrInvalidEmail,
		},
		{
			name:     "missing full name",
			body:     `{"username":"thandi","password":"secret1","email":"a@b.co"}`,
			wantCode: errs.ErrInvalidParams,
		},
		{
			name:     "admin role not self-assignable",
			body:     `{"username":"thandi","password":"secret1","email":"a@b.co","fullName":"A B","role":"admin"}`,
			wantCode: errs.ErrInvalidParams,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler(w, jsonRequest(http.MethodPost, "/api/auth/register", tt.body))

			body := decodeResponse(t, w)
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestRegisterRejectsNonJSONBody(t *testing.T) {
	deps := testDeps()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("username=x"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	HandleRegister(deps)(w, r)

	body := decodeResponse(t, w)
	assert.Equal(t, errs.ErrUnsupportedMediaType, body.Code)
}

func TestRegisterRejectsWhenAlreadyLoggedIn(t *testing.T) {
	deps := testDeps()

	w := httptest.NewRecorder()
	r := asIdentity(jsonRequest(http.MethodPost, "/api/auth/register", `{}`), &jwt.Payload{UserID: 1})
	HandleRegister(deps)(w, r)

	body := decodeResponse(t, w)
	assert.Equal(t, errs.ErrAlreadyLoggedIn, body.Code)
}

func TestAuthenticatedEndpointsRejectAnonymous(t *testing.T) {
	deps := testDeps()

	endpoints := map[string]http.HandlerFunc{
		"profile":        HandleGetUserProfile(deps),
		"update profile": HandleUpdateUserProfile(deps),
		"list bookings":  HandleListBookings(deps),
		"create booking": HandleCreateBooking(deps),
		"admin stats":    HandleAdminStats(deps),
		"manage school":  HandleManageSchool(deps),
		"presign upload": HandlePresignUploadURL(deps),
	}

	for name, handler := range endpoints {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler(w, jsonRequest(http.MethodPost, "/", `{}`))

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			body := decodeResponse(t, w)
			assert.Equal(t, errs.ErrUnauthorized, body.Code)
		})
	}
}

func TestRoleGatedEndpointsRejectWrongRole(t *testing.T) {
	deps := testDeps()
	student := &jwt.Payload{UserID: 5, Role: jwt.RoleStudent}

	endpoints := map[string]http.HandlerFunc{
		"create school":  HandleCreateSchool(deps),
		"create service": HandleCreateService(deps),
		"manage school":  HandleManageSchool(deps),
		"admin stats":    HandleAdminStats(deps),
		"presign upload": HandlePresignUploadURL(deps),
	}

	for name, handler := range endpoints {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler(w, asIdentity(jsonRequest(http.MethodPost, "/", `{}`), student))

			assert.Equal(t, http.StatusForbidden, w.Code)
			body := decodeResponse(t, w)
			assert.Equal(t, errs.ErrForbidden, body.Code)
		})
	}
}

func TestPresignUploadValidation(t *testing.T) {
	deps := testDeps()
	school := &jwt.Payload{UserID: 9, Role: jwt.RoleSchool}
	handler := HandlePresignUploadURL(deps)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{
			name:     "unknown category",
			body:     `{"category":"avatar","file_name":"a.png","mime_type":"image/png","file_size":100}`,
			wantCode: errs.ErrInvalidParams,
		},
		{
			name:     "oversized file",
			body:     `{"category":"school-logo","file_name":"a.png","mime_type":"image/png","file_size":99999999}`,
			wantCode: errs.ErrRequestEntityTooLarge,
		},
		{
			name:     "non-image mime type",
			body:     `{"category":"school-logo","file_name":"a.exe","mime_type":"application/octet-stream","file_size":100}`,
			wantCode: errs.ErrUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler(w, asIdentity(jsonRequest(http.MethodPost, "/api/file/presign-upload", tt.body), school))

			body := decodeResponse(t, w)
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestPresignDownloadRejectsInvoiceKeys(t *testing.T) {
	deps := testDeps()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/file/presign-download?k=invoices/KDT-202506-000001.html", nil)
	HandlePresignDownloadURL(deps)(w, r)

	body := decodeResponse(t, w)
	assert.Equal(t, errs.ErrForbidden, body.Code)
}

func TestCreateBookingRejectsPastStartDate(t *testing.T) {
	deps := testDeps()
	student := &jwt.Payload{UserID: 5, Role: jwt.RoleStudent}

	w := httptest.NewRecorder()
	r := asIdentity(jsonRequest(http.MethodPost, "/api/bookings",
		`{"schoolId":1,"serviceId":1,"startDate":"2020-01-01"}`), student)
	HandleCreateBooking(deps)(w, r)

	body := decodeResponse(t, w)
	assert.Equal(t, errs.ErrBookingDateInvalid, body.Code)
}

func TestHealthEndpoint(t *testing.T) {
	deps := testDeps()
	router := Router(deps)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeResponse(t, w)
	assert.Equal(t, 0, body.Code)
}

package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"cloudauth/internal/handlers"
	"cloudauth/internal/models"
	"cloudauth/internal/routes"
	"cloudauth/internal/services"
)

type stubVerificationService struct {
	registerErr error
	sendErr     error
	verifyErr   error
	loginToken  string
	loginErr    error
	user        *models.User
}

func (s *stubVerificationService) Register(username, email, password string) error { return s.registerErr }
func (s *stubVerificationService) SendVerification(email string) error             { return s.sendErr }
func (s *stubVerificationService) VerifyEmail(email, code string) error            { return s.verifyErr }
func (s *stubVerificationService) Login(username, password string) (string, error) {
	return s.loginToken, s.loginErr
}
func (s *stubVerificationService) GetUserByUsername(username string) (*models.User, error) {
	return s.user, nil
}

func setupRouter(stub *stubVerificationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	return routes.SetupRoutes(r, handlers.NewAuthHandler(stub), handlers.NewUserHandler(stub))
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, http.StatusOK},
		{"duplicate", services.ErrDuplicateIdentity, http.StatusConflict},
		{"delivery failed", services.ErrDeliveryFailed, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouter(&stubVerificationService{registerErr: tc.err})
			w := postJSON(r, "/api/v1/auth/register",
				`{"username":"alice","email":"a@x.com","password":"pw123456"}`)
			require.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRegisterRejectsBadPayload(t *testing.T) {
	r := setupRouter(&stubVerificationService{})

	// invalid email
	w := postJSON(r, "/api/v1/auth/register",
		`{"username":"alice","email":"not-an-email","password":"pw123456"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// short password
	w = postJSON(r, "/api/v1/auth/register",
		`{"username":"alice","email":"a@x.com","password":"pw"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendVerificationStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, http.StatusOK},
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"already verified", services.ErrAlreadyVerified, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouter(&stubVerificationService{sendErr: tc.err})
			w := postJSON(r, "/api/v1/auth/send-verification", `{"email":"a@x.com"}`)
			require.Equal(t, tc.want, w.Code)
		})
	}
}

func TestVerifyEmailStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, http.StatusOK},
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"expired", services.ErrCodeExpired, http.StatusBadRequest},
		{"invalid", services.ErrCodeInvalid, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouter(&stubVerificationService{verifyErr: tc.err})
			w := postJSON(r, "/api/v1/auth/verify-email",
				`{"email":"a@x.com","verification_code":"123456"}`)
			require.Equal(t, tc.want, w.Code)
		})
	}
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenSuccessReturnsBearer(t *testing.T) {
	r := setupRouter(&stubVerificationService{loginToken: "signed-token"})

	w := postForm(r, "/api/v1/auth/token", url.Values{
		"username": {"alice"},
		"password": {"pw123456"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "signed-token", resp.AccessToken)
	require.Equal(t, "bearer", resp.TokenType)
}

func TestTokenStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"bad credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not activated", services.ErrAccountNotActivated, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouter(&stubVerificationService{loginErr: tc.err})
			w := postForm(r, "/api/v1/auth/token", url.Values{
				"username": {"alice"},
				"password": {"pw123456"},
			})
			require.Equal(t, tc.want, w.Code)
		})
	}
}

func TestTokenMissingFields(t *testing.T) {
	r := setupRouter(&stubVerificationService{})
	w := postForm(r, "/api/v1/auth/token", url.Values{"username": {"alice"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"allo/internal/models"
)

// fakeAuthService lets each test pin the behavior of a single method.
type fakeAuthService struct {
	register        func(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error)
	login           func(ctx context.Context, email, password string) (*models.User, string, error)
	sendOTP         func(ctx context.Context, email string) error
	verifyOTP       func(ctx context.Context, email, code string) (*models.User, string, error)
	exchangeSession func(ctx context.Context, accessToken string) (*models.User, string, error)
	getUser         func(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}

func (f *fakeAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
	return f.register(ctx, req)
}
func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	return f.login(ctx, email, password)
}
func (f *fakeAuthService) SendOTP(ctx context.Context, email string) error {
	return f.sendOTP(ctx, email)
}
func (f *fakeAuthService) VerifyOTP(ctx context.Context, email, code string) (*models.User, string, error) {
	return f.verifyOTP(ctx, email, code)
}
func (f *fakeAuthService) ExchangeSession(ctx context.Context, accessToken string) (*models.User, string, error) {
	return f.exchangeSession(ctx, accessToken)
}
func (f *fakeAuthService) GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return f.getUser(ctx, userID)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestLoginHandler_Success(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Name: "Ada", Email: "ada@example.com"}
	h := NewAuthHandler(&fakeAuthService{
		login: func(ctx context.Context, email, password string) (*models.User, string, error) {
			assert.Equal(t, "ada@example.com", email)
			return user, "signed-token", nil
		},
	})

	rec := postJSON(t, h.Login, "/api/auth/login", models.LoginRequest{Email: "ada@example.com", Password: "hunter2"})

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, user.Email, resp.User.Email)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{
		login: func(ctx context.Context, email, password string) (*models.User, string, error) {
			return nil, "", models.ErrInvalidCredentials
		},
	})

	rec := postJSON(t, h.Login, "/api/auth/login", models.LoginRequest{Email: "ada@example.com", Password: "nope"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestLoginHandler_BadBody(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		h := NewAuthHandler(&fakeAuthService{
			register: func(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
				return &models.User{ID: primitive.NewObjectID(), Name: req.Name, Email: req.Email}, "tok", nil
			},
		})
		rec := postJSON(t, h.Register, "/api/auth/register", models.RegisterRequest{Name: "Ada", Email: "a@b.com", Password: "hunter2"})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("conflict", func(t *testing.T) {
		h := NewAuthHandler(&fakeAuthService{
			register: func(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
				return nil, "", models.ErrConflict
			},
		})
		rec := postJSON(t, h.Register, "/api/auth/register", models.RegisterRequest{Name: "Ada", Email: "a@b.com", Password: "hunter2"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestSendOTPHandler(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		h := NewAuthHandler(&fakeAuthService{
			sendOTP: func(ctx context.Context, email string) error { return nil },
		})
		rec := postJSON(t, h.SendOTP, "/api/auth/send-otp", models.SendOTPRequest{Email: "a@b.com"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "true")
	})

	t.Run("validation", func(t *testing.T) {
		h := NewAuthHandler(&fakeAuthService{
			sendOTP: func(ctx context.Context, email string) error {
				return models.ErrValidation
			},
		})
		rec := postJSON(t, h.SendOTP, "/api/auth/send-otp", models.SendOTPRequest{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delivery failure", func(t *testing.T) {
		h := NewAuthHandler(&fakeAuthService{
			sendOTP: func(ctx context.Context, email string) error {
				return models.ErrDeliveryFailure
			},
		})
		rec := postJSON(t, h.SendOTP, "/api/auth/send-otp", models.SendOTPRequest{Email: "a@b.com"})
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestVerifyOTPHandler_InvalidCode(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{
		verifyOTP: func(ctx context.Context, email, code string) (*models.User, string, error) {
			return nil, "", models.ErrInvalidOrExpiredCode
		},
	})

	rec := postJSON(t, h.VerifyOTP, "/api/auth/verify-otp", models.VerifyOTPRequest{Email: "a@b.com", OTP: "000000"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired code")
}

func TestExchangeSessionHandler_InvalidToken(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{
		exchangeSession: func(ctx context.Context, accessToken string) (*models.User, string, error) {
			return nil, "", models.ErrInvalidToken
		},
	})

	rec := postJSON(t, h.ExchangeSession, "/api/auth/session", models.SessionExchangeRequest{AccessToken: "junk"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutHandler_AcknowledgesOnly(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logged out successfully")
}

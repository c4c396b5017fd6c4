package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "biblioteca/internal/errors"
	"biblioteca/internal/model"
	"biblioteca/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, *model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(2) == nil {
		return args.String(0), args.String(1), nil, args.Error(3)
	}
	return args.String(0), args.String(1), args.Get(2).(*model.User), args.Error(3)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

// MockResetService is a mock implementation of service.PasswordResetService.
type MockResetService struct {
	mock.Mock
}

func (m *MockResetService) IssueReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockResetService) ConsumeReset(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

func (m *MockResetService) FindByResetToken(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func errorCode(t *testing.T, err error) (int, string) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	resp, ok := he.Message.(apperrors.ErrorResponse)
	if !ok {
		t.Fatalf("expected ErrorResponse message, got %T", he.Message)
	}
	return he.Code, resp.Code
}

func TestAuthHandler_Register_ConflictCodes(t *testing.T) {
	tests := []struct {
		name         string
		serviceError error
		wantStatus   int
		wantCode     string
	}{
		{"email conflict", apperrors.ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
		{"dni conflict", apperrors.ErrNationalIDTaken, http.StatusConflict, "DNI_TAKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			svc.On("Register", mock.Anything, mock.AnythingOfType("service.RegisterInput")).Return(nil, tt.serviceError)

			h := NewAuthHandler(svc)
			c, _ := newContext(t, http.MethodPost, "/api/auth/register",
				`{"username":"ana","email":"a@x.com","password":"secret1","national_id":"111"}`)

			err := h.Register(c)
			assert.Error(t, err)
			status, code := errorCode(t, err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Register", mock.Anything, mock.AnythingOfType("service.RegisterInput")).
		Return(&model.User{ID: 1, Username: "ana", Email: "a@x.com", Role: model.RoleUser}, nil)

	h := NewAuthHandler(svc)
	c, rec := newContext(t, http.MethodPost, "/api/auth/register",
		`{"username":"ana","email":"a@x.com","password":"secret1"}`)

	err := h.Register(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"ana"`)
	assert.NotContains(t, rec.Body.String(), "secret1")
}

func TestPasswordHandler_ResetPassword_Codes(t *testing.T) {
	tests := []struct {
		name         string
		serviceError error
		wantStatus   int
		wantCode     string
	}{
		{"invalid token", apperrors.ErrResetTokenInvalid, http.StatusBadRequest, "TOKEN_INVALID"},
		{"expired token", apperrors.ErrResetTokenExpired, http.StatusBadRequest, "TOKEN_EXPIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockResetService)
			svc.On("ConsumeReset", mock.Anything, "tok", "secret1").Return(tt.serviceError)

			h := NewPasswordHandler(svc)
			c, _ := newContext(t, http.MethodPost, "/api/auth/recover",
				`{"token":"tok","password":"secret1"}`)

			err := h.ResetPassword(c)
			assert.Error(t, err)
			status, code := errorCode(t, err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestPasswordHandler_ForgotPassword(t *testing.T) {
	svc := new(MockResetService)
	svc.On("IssueReset", mock.Anything, "a@x.com").Return(nil)

	h := NewPasswordHandler(svc)
	c, rec := newContext(t, http.MethodPost, "/api/auth/forgot-password", `{"email":"a@x.com"}`)

	err := h.ForgotPassword(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestPasswordHandler_ResolveToken(t *testing.T) {
	svc := new(MockResetService)
	svc.On("FindByResetToken", mock.Anything, "tok").Return(&model.User{ID: 5, Username: "ana", Email: "a@x.com"}, nil)

	h := NewPasswordHandler(svc)
	c, rec := newContext(t, http.MethodGet, "/api/auth/recover?token=tok", "")

	err := h.ResolveToken(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"ana"`)

	// Missing token never reaches the service.
	c2, _ := newContext(t, http.MethodGet, "/api/auth/recover", "")
	err = h.ResolveToken(c2)
	assert.Error(t, err)
	status, code := errorCode(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "TOKEN_MISSING", code)
}

func TestUserHandler_DeleteUser_AdminProtected(t *testing.T) {
	repoErrs := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"admin target", apperrors.ErrAdminProtected, http.StatusForbidden, "ADMIN_PROTECTED"},
		{"missing target", apperrors.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	}

	for _, tt := range repoErrs {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockUserService)
			svc.On("DeleteUser", mock.Anything, uint(1)).Return(tt.err)

			h := NewUserHandler(svc)
			c, _ := newContext(t, http.MethodDelete, "/api/users/1", "")
			c.SetParamNames("id")
			c.SetParamValues("1")

			err := h.DeleteUser(c)
			assert.Error(t, err)
			status, code := errorCode(t, err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) EnsureAdmin(ctx context.Context, password string) error {
	args := m.Called(ctx, password)
	return args.Error(0)
}

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mostafayousef44200444-rgb/backend/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserHandler_Register_Success(t *testing.T) {
	mockSvc := new(MockUserService)
	h := NewUserHandler(mockSvc, zerolog.Nop())

	mockSvc.On("Register", mock.Anything, &model.RegisterRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Password:  "secret123",
	}).Return(&model.AuthResponse{
		Success: true,
		Message: "Registration successful",
		Token:   "tok-123",
		User:    model.User{Email: "jane@example.com"},
	}, nil)

	body := `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp model.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "tok-123", resp.Token)

	// The password hash must never appear in the payload.
	assert.NotContains(t, rec.Body.String(), "password")

	mockSvc.AssertExpectations(t)
}

func TestUserHandler_Register_InvalidBody(t *testing.T) {
	mockSvc := new(MockUserService)
	h := NewUserHandler(mockSvc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockSvc.AssertNotCalled(t, "Register")
}

func TestUserHandler_Register_EmailTaken(t *testing.T) {
	mockSvc := new(MockUserService)
	h := NewUserHandler(mockSvc, zerolog.Nop())

	mockSvc.On("Register", mock.Anything, mock.AnythingOfType("*model.RegisterRequest")).
		Return(nil, model.ErrEmailTaken)

	body := `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Email already registered"}`, rec.Body.String())
}

func TestUserHandler_Login(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "Success",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Bad credentials",
			serviceErr: model.ErrInvalidCredential,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockUserService)
			h := NewUserHandler(mockSvc, zerolog.Nop())

			call := mockSvc.On("Login", mock.Anything, mock.AnythingOfType("*model.LoginRequest"))
			if tt.serviceErr != nil {
				call.Return(nil, tt.serviceErr)
			} else {
				call.Return(&model.AuthResponse{Success: true, Token: "tok"}, nil)
			}

			body := `{"email":"jane@example.com","password":"secret123"}`
			req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(body))
			rec := httptest.NewRecorder()

			h.Login(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestUserHandler_GetAll(t *testing.T) {
	mockSvc := new(MockUserService)
	h := NewUserHandler(mockSvc, zerolog.Nop())

	mockSvc.On("GetAll", mock.Anything).Return([]model.User{
		{FirstName: "Jane", Email: "jane@example.com", Password: "$2a$10$hash"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()

	h.GetAll(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "jane@example.com")
	assert.NotContains(t, rec.Body.String(), "$2a$10$hash")
}

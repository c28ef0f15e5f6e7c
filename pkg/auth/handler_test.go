package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthHandler() *Handler {
	service, _ := setupServiceTest()
	return NewHandler(service)
}

func postJSON(target string, body any) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandler_Login(t *testing.T) {
	handler := setupAuthHandler()

	req := postJSON("/api/auth/login", loginRequest{Email: "sues@eqstrategist.com", Password: defaultPassword})
	w := httptest.NewRecorder()
	handler.Login(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var session sessionDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&session))
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "admin", session.Role)
	assert.Empty(t, session.TrainerName)
}

func TestHandler_LoginTrainerIncludesScopingName(t *testing.T) {
	handler := setupAuthHandler()

	req := postJSON("/api/auth/login", loginRequest{Email: "doms@eqstrategist.com", Password: defaultPassword})
	w := httptest.NewRecorder()
	handler.Login(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var session sessionDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&session))
	assert.Equal(t, "trainer", session.Role)
	assert.Equal(t, "Dom", session.TrainerName)
}

func TestHandler_LoginUnknownEmail(t *testing.T) {
	handler := setupAuthHandler()

	req := postJSON("/api/auth/login", loginRequest{Email: "intruder@example.com", Password: defaultPassword})
	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_LoginWrongPassword(t *testing.T) {
	handler := setupAuthHandler()

	req := postJSON("/api/auth/login", loginRequest{Email: "sues@eqstrategist.com", Password: "wrong"})
	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_ChangePasswordValidation(t *testing.T) {
	handler := setupAuthHandler()

	req := postJSON("/api/auth/password", changePasswordRequest{
		Email:           "sues@eqstrategist.com",
		CurrentPassword: defaultPassword,
		NewPassword:     "NewSecret1",
		ConfirmPassword: "Different1",
	})
	w := httptest.NewRecorder()
	handler.ChangePassword(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_LogoutWithoutToken(t *testing.T) {
	handler := setupAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()
	handler.Logout(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

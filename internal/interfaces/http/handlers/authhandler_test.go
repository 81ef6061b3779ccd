package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sobrio/internal/application/auth"
	"sobrio/internal/domain/user"
	"sobrio/internal/infrastructure/session"
	"sobrio/internal/shared/config"
	"sobrio/internal/shared/errors"
	"sobrio/internal/shared/logger"
)

type mockCredentialService struct {
	registerResult *user.PublicUser
	registerErr    error
	loginResult    *user.PublicUser
	loginErr       error
	getResult      *user.PublicUser
	getErr         error
}

func (m *mockCredentialService) Register(ctx context.Context, input auth.RegisterInput) (*user.PublicUser, error) {
	return m.registerResult, m.registerErr
}

func (m *mockCredentialService) Login(ctx context.Context, email, password string) (*user.PublicUser, error) {
	return m.loginResult, m.loginErr
}

func (m *mockCredentialService) UpdateProfile(ctx context.Context, userID uint, input auth.UpdateProfileInput) (*user.PublicUser, error) {
	return nil, nil
}

func (m *mockCredentialService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	return nil
}

func (m *mockCredentialService) GetUserByID(ctx context.Context, id uint) (*user.PublicUser, error) {
	return m.getResult, m.getErr
}

func (m *mockCredentialService) DeleteAccount(ctx context.Context, userID uint) error {
	return nil
}

func testCookieConfig() config.CookieConfig {
	return config.CookieConfig{
		Name:     "sobrio_session",
		Path:     "/",
		SameSite: "Lax",
	}
}

func testPublicUser() *user.PublicUser {
	return &user.PublicUser{
		ID:        1,
		Email:     "marie@example.com",
		FirstName: "Marie",
		Role:      user.RolePatient,
		IsActive:  true,
		Level:     1,
	}
}

func newAuthTestRouter(svc CredentialService, sessions *session.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))

	handler := NewAuthHandler(svc, sessions, testCookieConfig(), log)

	router := gin.New()
	router.POST("/api/auth/register", handler.Register)
	router.POST("/api/auth/login", handler.Login)
	router.POST("/api/auth/logout", handler.Logout)
	router.GET("/api/auth/me", handler.Me)
	return router
}

func postJSON(router *gin.Engine, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getPath(router *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "sobrio_session" {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestRegister_SetsSessionCookie(t *testing.T) {
	sessions := session.NewStore(session.NewMemoryKV(), "", time.Hour)
	svc := &mockCredentialService{registerResult: testPublicUser()}
	router := newAuthTestRouter(svc, sessions)

	w := postJSON(router, "/api/auth/register", gin.H{
		"email":    "marie@example.com",
		"password": "azerty",
	})

	require.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	summary, err := sessions.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, uint(1), summary.UserID)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			User *user.PublicUser `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.NotNil(t, body.Data.User)
	assert.Equal(t, "marie@example.com", body.Data.User.Email)
}

func TestRegister_MissingFields(t *testing.T) {
	sessions := session.NewStore(session.NewMemoryKV(), "", time.Hour)
	router := newAuthTestRouter(&mockCredentialService{}, sessions)

	w := postJSON(router, "/api/auth/register", gin.H{"email": "marie@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_ConflictMapsTo409(t *testing.T) {
	sessions := session.NewStore(session.NewMemoryKV(), "", time.Hour)
	svc := &mockCredentialService{registerErr: errors.NewConflictError("Un compte existe déjà avec cet email")}
	router := newAuthTestRouter(svc, sessions)

	w := postJSON(router, "/api/auth/register", gin.H{
		"email":    "marie@example.com",
		"password": "azerty",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_BadCredentialsMapsTo401(t *testing.T) {
	sessions := session.NewStore(session.NewMemoryKV(), "", time.Hour)
	svc := &mockCredentialService{loginErr: errors.NewUnauthorizedError("Email ou mot de passe incorrect")}
	router := newAuthTestRouter(svc, sessions)

	w := postJSON(router, "/api/auth/login", gin.H{
		"email":    "marie@example.com",
		"password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Email ou mot de passe incorrect", body.Error.Message)
}

func TestMe_WithoutSession(t *testing.T) {
	sessions := session.NewStore(session.NewMemoryKV(), "", time.Hour)
	router := newAuthTestRouter(&mockCredentialService{}, sessions)

	w := getPath(router, "/api/auth/me")

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	userField, present := body["user"]
	assert.True(t, present)
	assert.Nil(t, userField, "anonymous caller gets an explicit null user")
	assert.Equal(t, "Non authentifié", body["message"])
}

func TestMe_WithSession(t *testing.T) {
	sessions := session.NewStore(session.NewMemoryKV(), "", time.Hour)
	svc := &mockCredentialService{
		loginResult: testPublicUser(),
		getResult:   testPublicUser(),
	}
	router := newAuthTestRouter(svc, sessions)

	login := postJSON(router, "/api/auth/login", gin.H{
		"email":    "marie@example.com",
		"password": "azerty",
	})
	require.Equal(t, http.StatusOK, login.Code)
	cookie := sessionCookie(t, login)

	w := getPath(router, "/api/auth/me", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			User *user.PublicUser `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Data.User)
	assert.Equal(t, uint(1), body.Data.User.ID)
}

func TestMe_DeletedUserDestroysSession(t *testing.T) {
	sessions := session.NewStore(session.NewMemoryKV(), "", time.Hour)
	svc := &mockCredentialService{
		loginResult: testPublicUser(),
		getErr:      errors.NewNotFoundError("Utilisateur introuvable"),
	}
	router := newAuthTestRouter(svc, sessions)

	login := postJSON(router, "/api/auth/login", gin.H{
		"email":    "marie@example.com",
		"password": "azerty",
	})
	cookie := sessionCookie(t, login)

	w := getPath(router, "/api/auth/me", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	summary, err := sessions.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Nil(t, summary, "orphaned session is destroyed lazily")
}

func TestLogout_DestroysSession(t *testing.T) {
	sessions := session.NewStore(session.NewMemoryKV(), "", time.Hour)
	svc := &mockCredentialService{
		loginResult: testPublicUser(),
		getResult:   testPublicUser(),
	}
	router := newAuthTestRouter(svc, sessions)

	login := postJSON(router, "/api/auth/login", gin.H{
		"email":    "marie@example.com",
		"password": "azerty",
	})
	cookie := sessionCookie(t, login)

	logout := postJSON(router, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, logout.Code)

	summary, err := sessions.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.Nil(t, summary)

	w := getPath(router, "/api/auth/me", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

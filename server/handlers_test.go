package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/goliatone/go-usermgmt"
	"github.com/goliatone/go-usermgmt/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSigningKey    = "test-signing-key-0123456789"
	seedAdminUsername = "admin"
	seedAdminPassword = "admin-secret"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	cfg := server.DefaultConfig()
	cfg.Auth.SigningKey = testSigningKey
	// Each test gets its own shared cache in-memory database.
	cfg.Database.DSN = "file:" + t.Name() + "?mode=memory&cache=shared"
	cfg.Seed.AdminUsername = seedAdminUsername
	cfg.Seed.AdminEmail = "admin@example.com"
	cfg.Seed.AdminPassword = seedAdminPassword

	srv, err := server.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.DB().Close() })

	return srv
}

func request(t *testing.T, srv *server.Server, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func signupBody(username, email string) map[string]string {
	return map[string]string{
		"username": username,
		"email":    email,
		"password": "abcdef",
	}
}

func signup(t *testing.T, srv *server.Server, username, email string) usermgmt.User {
	t.Helper()

	resp := request(t, srv, http.MethodPost, "/api/auth/signup", "", signupBody(username, email))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	out := struct {
		Message string        `json:"message"`
		User    usermgmt.User `json:"user"`
	}{}
	decodeBody(t, resp, &out)
	assert.Equal(t, "User registered successfully", out.Message)
	return out.User
}

func login(t *testing.T, srv *server.Server, username, password string) usermgmt.LoginResponse {
	t.Helper()

	resp := request(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := usermgmt.LoginResponse{}
	decodeBody(t, resp, &out)
	require.NotEmpty(t, out.Token)
	return out
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	out := struct {
		Error string `json:"error"`
	}{}
	decodeBody(t, resp, &out)
	return out.Error
}

func TestSignupCreatesUserAccount(t *testing.T) {
	srv := newTestServer(t)

	user := signup(t, srv, "alice", "alice@example.com")
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, usermgmt.RoleUser, user.Role, "signup never mints admins")
	assert.NotEmpty(t, user.ID)
}

func TestSignupRejectsDuplicates(t *testing.T) {
	srv := newTestServer(t)
	signup(t, srv, "alice", "alice@example.com")

	resp := request(t, srv, http.MethodPost, "/api/auth/signup", "", signupBody("alice", "other@example.com"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Username already exists", errorMessage(t, resp))

	resp = request(t, srv, http.MethodPost, "/api/auth/signup", "", signupBody("alice2", "alice@example.com"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email already exists", errorMessage(t, resp))
}

func TestSignupRejectsInvalidPayload(t *testing.T) {
	srv := newTestServer(t)

	body := signupBody("alice", "alice@example.com")
	body["password"] = "123"

	resp := request(t, srv, http.MethodPost, "/api/auth/signup", "", body)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, errorMessage(t, resp), "password")
}

func TestLoginVerifiesCredentials(t *testing.T) {
	srv := newTestServer(t)
	user := signup(t, srv, "alice", "alice@example.com")

	session := login(t, srv, "alice", "abcdef")
	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, usermgmt.RoleUser, session.Role)

	resp := request(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong-pass",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid username or password", errorMessage(t, resp))

	resp = request(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "nobody",
		"password": "abcdef",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid username or password", errorMessage(t, resp))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	resp := request(t, srv, http.MethodGet, "/api/users", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "missing or malformed JWT", errorMessage(t, resp))

	resp = request(t, srv, http.MethodGet, "/api/users", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid or expired JWT", errorMessage(t, resp))
}

func TestListUsersAndCurrentUser(t *testing.T) {
	srv := newTestServer(t)
	signup(t, srv, "alice", "alice@example.com")
	session := login(t, srv, "alice", "abcdef")

	resp := request(t, srv, http.MethodGet, "/api/users", session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var users []usermgmt.User
	decodeBody(t, resp, &users)
	require.Len(t, users, 2, "seeded admin plus alice")

	resp = request(t, srv, http.MethodGet, "/api/users/me", session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	me := usermgmt.User{}
	decodeBody(t, resp, &me)
	assert.Equal(t, session.UserID, me.ID)
	assert.Equal(t, "alice", me.Username)
}

func TestGetUserByID(t *testing.T) {
	srv := newTestServer(t)
	user := signup(t, srv, "alice", "alice@example.com")
	session := login(t, srv, "alice", "abcdef")

	resp := request(t, srv, http.MethodGet, "/api/users/"+user.ID.String(), session.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := usermgmt.User{}
	decodeBody(t, resp, &got)
	assert.Equal(t, user.ID, got.ID)

	resp = request(t, srv, http.MethodGet, "/api/users/not-a-uuid", session.Token, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid user id", errorMessage(t, resp))

	resp = request(t, srv, http.MethodGet, "/api/users/00000000-0000-0000-0000-000000000001", session.Token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", errorMessage(t, resp))
}

func TestUpdateUserOwnProfile(t *testing.T) {
	srv := newTestServer(t)
	user := signup(t, srv, "alice", "alice@example.com")
	session := login(t, srv, "alice", "abcdef")

	resp := request(t, srv, http.MethodPut, "/api/users/"+user.ID.String(), session.Token, map[string]string{
		"username": "alice",
		"email":    "alice@new.example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := struct {
		Message string        `json:"message"`
		User    usermgmt.User `json:"user"`
	}{}
	decodeBody(t, resp, &out)
	assert.Equal(t, "User updated successfully", out.Message)
	assert.Equal(t, "alice@new.example.com", out.User.Email)

	// Empty password in the payload keeps the current one.
	login(t, srv, "alice", "abcdef")
}

func TestUpdateUserRejectsOtherProfiles(t *testing.T) {
	srv := newTestServer(t)
	signup(t, srv, "alice", "alice@example.com")
	bob := signup(t, srv, "bob", "bob@example.com")
	session := login(t, srv, "alice", "abcdef")

	resp := request(t, srv, http.MethodPut, "/api/users/"+bob.ID.String(), session.Token, map[string]string{
		"username": "bob",
		"email":    "bob@example.com",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "You can only update your own profile", errorMessage(t, resp))
}

func TestUpdateUserAdminCanEditAnyone(t *testing.T) {
	srv := newTestServer(t)
	user := signup(t, srv, "alice", "alice@example.com")
	admin := login(t, srv, seedAdminUsername, seedAdminPassword)

	resp := request(t, srv, http.MethodPut, "/api/users/"+user.ID.String(), admin.Token, map[string]string{
		"username": "alice-renamed",
		"email":    "alice@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := struct {
		User usermgmt.User `json:"user"`
	}{}
	decodeBody(t, resp, &out)
	assert.Equal(t, "alice-renamed", out.User.Username)
}

func TestUpdateUserRejectsTakenIdentity(t *testing.T) {
	srv := newTestServer(t)
	user := signup(t, srv, "alice", "alice@example.com")
	signup(t, srv, "bob", "bob@example.com")
	session := login(t, srv, "alice", "abcdef")

	resp := request(t, srv, http.MethodPut, "/api/users/"+user.ID.String(), session.Token, map[string]string{
		"username": "bob",
		"email":    "alice@example.com",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Username already exists", errorMessage(t, resp))

	resp = request(t, srv, http.MethodPut, "/api/users/"+user.ID.String(), session.Token, map[string]string{
		"username": "alice",
		"email":    "bob@example.com",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email already exists", errorMessage(t, resp))
}

func TestDeleteUserRequiresAdmin(t *testing.T) {
	srv := newTestServer(t)
	signup(t, srv, "alice", "alice@example.com")
	bob := signup(t, srv, "bob", "bob@example.com")
	session := login(t, srv, "alice", "abcdef")

	resp := request(t, srv, http.MethodDelete, "/api/users/"+bob.ID.String(), session.Token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Only admins can delete accounts", errorMessage(t, resp))
}

func TestDeleteUserAdminCannotDeleteSelf(t *testing.T) {
	srv := newTestServer(t)
	admin := login(t, srv, seedAdminUsername, seedAdminPassword)

	resp := request(t, srv, http.MethodDelete, "/api/users/"+admin.UserID.String(), admin.Token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Admin cannot delete their own account", errorMessage(t, resp))
}

func TestDeleteUserAsAdmin(t *testing.T) {
	srv := newTestServer(t)
	user := signup(t, srv, "alice", "alice@example.com")
	admin := login(t, srv, seedAdminUsername, seedAdminPassword)

	resp := request(t, srv, http.MethodDelete, "/api/users/"+user.ID.String(), admin.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := struct {
		Message string `json:"message"`
	}{}
	decodeBody(t, resp, &out)
	assert.Equal(t, "User deleted successfully", out.Message)

	resp = request(t, srv, http.MethodDelete, "/api/users/"+user.ID.String(), admin.Token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", errorMessage(t, resp))
}

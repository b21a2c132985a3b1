package usermgmt

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"
)

// DefaultBaseURL matches the development deployment of the resource API.
const DefaultBaseURL = "http://localhost:8080/api"

const maxResponseBytes = 256 * 1024

// Client is the authorization gateway and session lifecycle controller in
// one outbound pipeline. Every call to the resource API passes through it:
// the bearer credential is attached before dispatch and every response is
// classified on the way back. A 401 from any authorized call collapses the
// client back to the unauthenticated state exactly once per failure burst.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      SessionStore
	navigator  Navigator
	logger     Logger
	loginPath  string
	debug      bool

	// serializes the clear+redirect pair so concurrent failures observe a
	// single logical step
	mu sync.Mutex
}

type ClientOption func(*Client) *Client

// NewClient returns a gateway bound to the given session store.
func NewClient(baseURL string, store SessionStore, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		store:     store,
		logger:    defLogger{},
		loginPath: DefaultLoginPath,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

func WithLogger(logger Logger) ClientOption {
	return func(c *Client) *Client {
		if logger != nil {
			c.logger = logger
		}
		return c
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) *Client {
		if httpClient != nil {
			c.httpClient = httpClient
		}
		return c
	}
}

// WithNavigator wires the navigation signal receiver used for forced logout
// and explicit logout.
func WithNavigator(navigator Navigator) ClientOption {
	return func(c *Client) *Client {
		c.navigator = navigator
		return c
	}
}

func WithLoginPath(path string) ClientOption {
	return func(c *Client) *Client {
		if path != "" {
			c.loginPath = path
		}
		return c
	}
}

func WithDebug(debug bool) ClientOption {
	return func(c *Client) *Client {
		c.debug = debug
		return c
	}
}

// Store exposes the underlying session store for read-only consumers.
func (c *Client) Store() SessionStore {
	return c.store
}

// Policy returns an access policy evaluator over the client's store.
func (c *Client) Policy() *Policy {
	return NewPolicy(c.store)
}

// Login dispatches credentials and, on success, persists the credential and
// claims as one atomic pair. On failure the store is left untouched: a
// rejected login never clears a still valid pre-existing session and never
// partially populates one.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	payload := LoginPayload{Username: username, Password: password}
	if err := payload.Validate(); err != nil {
		return nil, WrapValidationError(err)
	}

	resp := &LoginResponse{}
	if err := c.doPublic(ctx, http.MethodPost, "/auth/login", payload, resp); err != nil {
		return nil, err
	}

	if resp.Token == "" {
		return nil, goerrors.New("login response carried no token", goerrors.CategoryInternal)
	}

	claims := Claims{
		UserID:   resp.UserID,
		Username: resp.Username,
		Email:    resp.Email,
		Role:     resp.Role,
	}
	if err := c.store.Set(resp.Token, claims); err != nil {
		return nil, err
	}

	c.logger.Debug("session established", "user", resp.Username, "role", resp.Role)
	return resp, nil
}

// Register sends the signup payload. Registration never establishes a
// session; the user logs in explicitly afterwards. Validation failures are
// surfaced before any network round trip.
func (c *Client) Register(ctx context.Context, payload SignupPayload) (*User, error) {
	if err := payload.Validate(); err != nil {
		return nil, WrapValidationError(err)
	}

	out := &struct {
		Message string `json:"message"`
		User    *User  `json:"user"`
	}{}

	if err := c.doPublic(ctx, http.MethodPost, "/auth/signup", payload, out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Logout clears the persisted session and signals navigation to the public
// entry point. It is callable with no prior network activity and does not
// fail.
func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Clear(); err != nil {
		c.logger.Error("logout failed to clear session store", "error", err)
	}
	if c.navigator != nil {
		c.navigator.Navigate(c.loginPath)
	}
}

// UpdateProfile sends edited fields for the current user. On success the
// cached claims are overwritten with the server confirmed record while the
// credential is left unchanged: profile edits do not reissue a token.
func (c *Client) UpdateProfile(ctx context.Context, payload ProfilePayload) (*User, error) {
	if err := payload.Validate(); err != nil {
		return nil, WrapValidationError(err)
	}

	session, ok := c.store.Get()
	if !ok {
		return nil, NewUnauthorizedError("no active session")
	}

	out := &struct {
		Message string `json:"message"`
		User    *User  `json:"user"`
	}{}

	if err := c.do(ctx, http.MethodPut, "/users/"+session.Claims.UserID.String(), payload, out); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, goerrors.New("update response carried no user", goerrors.CategoryInternal)
	}

	if err := c.store.Set(session.Token, ClaimsFromUser(out.User)); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Users fetches every user record.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CurrentUser fetches the record behind the current credential.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	user := &User{}
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UserByID fetches a single user record.
func (c *Client) UserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user := &User{}
	if err := c.do(ctx, http.MethodGet, "/users/"+id.String(), nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser deletes a user record. The local CanDeleteUser gate is a UX
// convenience only; a server denial comes back as a rejection and must not
// end the session.
func (c *Client) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/users/"+id.String(), nil, nil)
}

// DeleteUserConfirmed executes a deletion gated by an explicit confirmation.
func (c *Client) DeleteUserConfirmed(ctx context.Context, confirmation *DeleteConfirmation) error {
	if confirmation == nil || confirmation.State() != ConfirmationConfirmed {
		return goerrors.New("deletion requires a confirmed confirmation", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
	return c.DeleteUser(ctx, confirmation.Target.ID)
}

// do dispatches an authorized call: a 401 response takes the forced logout
// path before the error is returned to the caller.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.dispatch(ctx, method, path, body, out, true)
}

// doPublic dispatches a session establishing call: a 401 is classified and
// passed through without touching the store.
func (c *Client) doPublic(ctx context.Context, method, path string, body, out any) error {
	return c.dispatch(ctx, method, path, body, out, false)
}

func (c *Client) dispatch(ctx context.Context, method, path string, body, out any, interceptUnauthorized bool) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode request body")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build request")
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Outbound interception: attach the credential whenever one is present,
	// dispatch unauthenticated otherwise. A request already carrying a
	// credential at dispatch time is not retroactively invalidated.
	if session, ok := c.store.Get(); ok {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	if c.debug {
		c.logger.Debug("dispatch", "method", method, "path", path, "payload", print.MaybePrettyJSON(body))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return WrapTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(respBody) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to parse api response")
		}
		return nil
	}

	message := serverErrorMessage(respBody)
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnauthorized && interceptUnauthorized {
		c.forceLogout()
		return NewUnauthorizedError(message)
	}

	return NewRejectedError(resp.StatusCode, message)
}

// forceLogout is the inbound interception for authorization failures: clear
// the store and signal navigation to the login entry point as one logical
// step. Concurrent failures observe the same net effect as a single one
// because only the call that actually finds a session navigates.
func (c *Client) forceLogout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.store.Get(); !ok {
		return
	}

	if err := c.store.Clear(); err != nil {
		c.logger.Error("forced logout failed to clear session store", "error", err)
	}

	c.logger.Info("authorization failure, session cleared", "redirect", c.loginPath)
	if c.navigator != nil {
		c.navigator.Navigate(c.loginPath)
	}
}

func serverErrorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	payload := struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}

	if payload.Error != "" {
		return payload.Error
	}
	if payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}

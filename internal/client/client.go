// Package client provides an HTTP client for the expense tracker API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"expensetracker/internal/export"
	"expensetracker/internal/models"
)

// TokenFunc returns the current auth token, or "" when signed out.
type TokenFunc func() string

// LoginResult is what a successful login returns.
type LoginResult struct {
	Token string `json:"jwtToken"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Client talks to the /auth and /expenses endpoints. Every call is
// independent: there are no retries and no shared request state.
type Client struct {
	baseURL    string
	token      TokenFunc
	httpClient *http.Client
}

// NewClient creates a client. A nil httpClient selects http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client, token TokenFunc) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

type envelope struct {
	Message string `json:"message"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type listEnvelope struct {
	Data []models.Transaction `json:"data"`
}

// List fetches every transaction of the signed-in user in server order.
func (c *Client) List(ctx context.Context) ([]models.Transaction, error) {
	var result listEnvelope
	if err := c.do(ctx, "fetching expenses", http.MethodGet, "/expenses", nil, true, &result); err != nil {
		return nil, err
	}
	return nonNil(result.Data), nil
}

// Create adds a transaction and returns the list after the insert.
func (c *Client) Create(ctx context.Context, in ExpenseInput) ([]models.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var result listEnvelope
	if err := c.do(ctx, "adding expense", http.MethodPost, "/expenses", in, true, &result); err != nil {
		return nil, err
	}
	return nonNil(result.Data), nil
}

// DeleteOne removes a transaction and returns the list after the delete.
func (c *Client) DeleteOne(ctx context.Context, id string) ([]models.Transaction, error) {
	var result listEnvelope
	path := "/expenses/" + url.PathEscape(id)
	if err := c.do(ctx, "deleting expense", http.MethodDelete, path, nil, true, &result); err != nil {
		return nil, err
	}
	return nonNil(result.Data), nil
}

// DeleteAll removes every transaction of the signed-in user.
func (c *Client) DeleteAll(ctx context.Context) error {
	return c.do(ctx, "deleting all expenses", http.MethodDelete, "/expenses", nil, true, nil)
}

// Download is an exported month file.
type Download struct {
	FileName    string
	ContentType string
	Body        []byte
}

// Export downloads the transactions of one month as a csv or xlsx file.
func (c *Client) Export(ctx context.Context, year int, month time.Month, format string) (Download, error) {
	const op = "exporting month"

	if format == "" {
		format = "csv"
	}
	q := url.Values{}
	q.Set("month", fmt.Sprintf("%04d-%02d", year, int(month)))
	q.Set("format", format)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/expenses/export?"+q.Encode(), nil)
	if err != nil {
		return Download{}, &OperationError{Op: op, Err: fmt.Errorf("creating request: %w", err)}
	}
	token := c.token()
	if token == "" {
		return Download{}, fmt.Errorf("%s: %w", op, ErrSessionExpired)
	}
	req.Header.Set("Authorization", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Download{}, &OperationError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusForbidden {
		return Download{}, fmt.Errorf("%s: %w", op, ErrSessionExpired)
	}
	if resp.StatusCode != http.StatusOK {
		return Download{}, &OperationError{Op: op, StatusCode: resp.StatusCode, Message: serverMessage(resp.Body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Download{}, &OperationError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}

	name := export.FileName(year, month, export.Format(format))
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		name = downloadName(params["filename"], name)
	}
	return Download{FileName: name, ContentType: resp.Header.Get("Content-Type"), Body: body}, nil
}

// downloadName keeps only the last element of a server-suggested file name.
// Empty, relative and hidden names fall back.
func downloadName(suggested, fallback string) string {
	name := filepath.Base(strings.ReplaceAll(suggested, `\`, "/"))
	if name == "" || name == "/" || strings.HasPrefix(name, ".") {
		return fallback
	}
	return name
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	body := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Name: name, Email: email, Password: password}
	return c.do(ctx, "signing up", http.MethodPost, "/auth/signup", body, false, nil)
}

// Login exchanges credentials for a token. A rejected login is an
// OperationError carrying the server message, not a session expiry.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var result LoginResult
	if err := c.do(ctx, "logging in", http.MethodPost, "/auth/login", body, false, &result); err != nil {
		return LoginResult{}, err
	}
	if result.Token == "" {
		return LoginResult{}, &OperationError{Op: "logging in", StatusCode: http.StatusOK, Message: "login response carried no token"}
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body any, authenticated bool, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return &OperationError{Op: op, Err: fmt.Errorf("marshaling request: %w", err)}
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &OperationError{Op: op, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		token := c.token()
		if token == "" {
			return fmt.Errorf("%s: %w", op, ErrSessionExpired)
		}
		req.Header.Set("Authorization", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &OperationError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if authenticated && resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%s: %w", op, ErrSessionExpired)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &OperationError{Op: op, StatusCode: resp.StatusCode, Message: serverMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &OperationError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// serverMessage extracts the human readable message from an error body.
func serverMessage(r io.Reader) string {
	var env envelope
	if err := json.NewDecoder(io.LimitReader(r, 1<<20)).Decode(&env); err != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	if env.Error != nil {
		return env.Error.Message
	}
	return ""
}

func nonNil(txs []models.Transaction) []models.Transaction {
	if txs == nil {
		return []models.Transaction{}
	}
	return txs
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"satang/internal/core"
	"satang/internal/log"
)

// Client talks to the finance backend. Every authenticated call takes
// the bearer token explicitly; the client never decides where tokens
// come from.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

type (
	// LoginRequest is the identity forwarded to the backend exchange
	// endpoint after the provider verified the user.
	LoginRequest struct {
		Email     string  `json:"email"`
		FirstName string  `json:"first_name"`
		LastName  string  `json:"last_name"`
		Avatar    *string `json:"avatar"`
	}

	// LoginResponse carries the backend-issued token plus the account
	// snapshot. A missing access_token means the exchange failed.
	LoginResponse struct {
		AccessToken string           `json:"access_token"`
		User        core.BackendUser `json:"user"`
	}

	// ParsedTransaction is the backend's answer to a free-text entry.
	ParsedTransaction struct {
		ID              int64   `json:"id"`
		Date            string  `json:"date"`
		Amount          float64 `json:"amount"`
		TransactionType string  `json:"transaction_type"`
		Category        string  `json:"category"`
		Description     string  `json:"description"`
	}

	transactionList struct {
		Data []core.Transaction `json:"data"`
	}

	errorBody struct {
		Detail string `json:"detail"`
	}
)

func NewClient(baseURL string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentAPI})
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: newLoggingTransport(http.DefaultTransport, logger),
		},
		logger: logger.WithComponent(log.ComponentAPI),
	}
}

// LoginGoogle exchanges a verified provider identity for a backend
// token. The caller decides what a missing access_token means.
func (c *Client) LoginGoogle(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login/google", "", req, &resp); err != nil {
		return LoginResponse{}, fmt.Errorf("login exchange: %w", err)
	}
	return resp, nil
}

// Me fetches the authenticated user's profile settings.
func (c *Client) Me(ctx context.Context, token string) (core.ProfileSettings, error) {
	var resp core.ProfileSettings
	if err := c.do(ctx, http.MethodGet, "/api/users/me", token, nil, &resp); err != nil {
		return core.ProfileSettings{}, fmt.Errorf("fetch profile: %w", err)
	}
	return resp, nil
}

// UpdateSettings applies a partial settings update and returns the
// updated profile.
func (c *Client) UpdateSettings(ctx context.Context, token string, update core.SettingsUpdate) (core.ProfileSettings, error) {
	if err := update.Validate(); err != nil {
		return core.ProfileSettings{}, err
	}
	var resp core.ProfileSettings
	if err := c.do(ctx, http.MethodPut, "/api/users/me/settings", token, update, &resp); err != nil {
		return core.ProfileSettings{}, fmt.Errorf("update settings: %w", err)
	}
	return resp, nil
}

// Overview fetches the dashboard aggregate.
func (c *Client) Overview(ctx context.Context, token string) (core.Overview, error) {
	var resp core.Overview
	if err := c.do(ctx, http.MethodGet, "/api/finance/overview", token, nil, &resp); err != nil {
		return core.Overview{}, fmt.Errorf("fetch overview: %w", err)
	}
	return resp, nil
}

// Transactions fetches the full transaction list.
func (c *Client) Transactions(ctx context.Context, token string) ([]core.Transaction, error) {
	var resp transactionList
	if err := c.do(ctx, http.MethodGet, "/api/finance/list", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("fetch transactions: response has no data array")
	}
	return resp.Data, nil
}

// DeleteTransaction removes a single transaction.
func (c *Client) DeleteTransaction(ctx context.Context, token string, id int64) error {
	path := "/api/finance/delete/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodDelete, path, token, nil, nil); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return nil
}

// ParseTransaction submits free text for the backend to turn into a
// transaction record.
func (c *Client) ParseTransaction(ctx context.Context, token, text string) (ParsedTransaction, error) {
	body := map[string]string{"text": text}
	var resp ParsedTransaction
	if err := c.do(ctx, http.MethodPost, "/api/transactions", token, body, &resp); err != nil {
		return ParsedTransaction{}, fmt.Errorf("parse transaction: %w", err)
	}
	return resp, nil
}

// do runs a single request. An empty or placeholder token on an
// authenticated call fails before anything is sent.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	authenticated := path != "/api/auth/login/google"
	if authenticated && (token == "" || token == PlaceholderToken) {
		return ErrNoToken
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var parsed errorBody
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Detail != "" {
		return &StatusError{StatusCode: resp.StatusCode, Detail: parsed.Detail}
	}
	return &StatusError{StatusCode: resp.StatusCode}
}

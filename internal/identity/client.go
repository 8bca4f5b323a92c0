// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package identity is a client for the external identity provider. The
// provider owns all credential handling; this front-end only exchanges
// email/password for an ID token and stores the token in the session.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const httpTimeout = 15 * time.Second

// Provider error taxonomy. The provider reports machine-readable codes;
// anything unrecognized surfaces as a generic error.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrUserNotFound       = errors.New("no account for this email")
	ErrTokenExpired       = errors.New("token expired")
)

// Token is an issued identity token used as the bearer token for backend calls.
type Token struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"` // seconds
	UserID       string `json:"localId"`
	Email        string `json:"email"`
}

// Client calls the identity provider's REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a Client for the given provider base URL and API key.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: httpTimeout},
	}
}

// SignIn exchanges email/password for a token.
func (c *Client) SignIn(ctx context.Context, email, password string) (Token, error) {
	var tok Token
	err := c.post(ctx, "/v1/accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &tok)
	return tok, err
}

// SignUp registers a new account and returns its first token.
func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (Token, error) {
	var tok Token
	err := c.post(ctx, "/v1/accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"displayName":       displayName,
		"returnSecureToken": true,
	}, &tok)
	return tok, err
}

// SendPasswordReset asks the provider to email a password-reset link.
func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	return c.post(ctx, "/v1/accounts:sendOobCode", map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, nil)
}

// Refresh exchanges a refresh token for a new ID token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (Token, error) {
	var tok Token
	err := c.post(ctx, "/v1/token", map[string]any{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	}, &tok)
	return tok, err
}

// providerError is the provider's error envelope.
type providerError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path+"?key="+c.apiKey, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapProviderError(respBody, resp.StatusCode)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// mapProviderError translates provider error codes into the package taxonomy.
func mapProviderError(body []byte, status int) error {
	var pe providerError
	_ = json.Unmarshal(body, &pe)

	switch pe.Error.Message {
	case "INVALID_LOGIN_CREDENTIALS", "INVALID_PASSWORD", "WRONG_PASSWORD":
		return ErrInvalidCredentials
	case "EMAIL_EXISTS":
		return ErrEmailExists
	case "EMAIL_NOT_FOUND", "USER_NOT_FOUND":
		return ErrUserNotFound
	case "TOKEN_EXPIRED", "INVALID_ID_TOKEN":
		return ErrTokenExpired
	}
	if pe.Error.Message != "" {
		return fmt.Errorf("identity provider: %s (status %d)", pe.Error.Message, status)
	}
	return fmt.Errorf("identity provider: unexpected status %d", status)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/tipstack/internal/api"
	"github.com/olegiv/tipstack/internal/favorites"
	"github.com/olegiv/tipstack/internal/identity"
	"github.com/olegiv/tipstack/internal/middleware"
	"github.com/olegiv/tipstack/internal/render"
)

// AuthHandler handles sign-in, sign-up, and password reset. Credentials are
// exchanged with the identity provider; this handler never sees a password
// beyond forwarding it.
type AuthHandler struct {
	renderer        *render.Renderer
	sessions        *scs.SessionManager
	identity        *identity.Client
	api             *api.Client
	favorites       *favorites.Manager
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(renderer *render.Renderer, sm *scs.SessionManager, idc *identity.Client, apiClient *api.Client, fav *favorites.Manager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		renderer:        renderer,
		sessions:        sm,
		identity:        idc,
		api:             apiClient,
		favorites:       fav,
		loginProtection: lp,
	}
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}
	data := baseData(r, "Sign In", h.favorites.Count(r.Context()))
	if err := h.renderer.Render(w, r, "auth/login", data); err != nil {
		logAndInternalError(w, "failed to render login", "error", err)
	}
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteLogin) {
		return
	}

	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	password := r.FormValue("password")
	if email == "" || password == "" {
		flashError(w, r, h.renderer, RouteLogin, "Email and password are required")
		return
	}

	if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
		flashError(w, r, h.renderer, RouteLogin,
			fmt.Sprintf("Too many failed attempts. Try again in %d minutes.", int(remaining.Minutes())+1))
		return
	}

	tok, err := h.identity.SignIn(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) || errors.Is(err, identity.ErrUserNotFound) {
			h.loginProtection.RecordFailedAttempt(email)
			flashError(w, r, h.renderer, RouteLogin, "Invalid email or password")
			return
		}
		slog.Error("sign-in failed", "error", err)
		flashError(w, r, h.renderer, RouteLogin, "Sign-in is unavailable right now. Please try again later.")
		return
	}

	h.loginProtection.RecordSuccessfulLogin(email)
	h.establishSession(w, r, tok)
}

// SignupForm renders the registration page.
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}
	data := baseData(r, "Create Account", h.favorites.Count(r.Context()))
	if err := h.renderer.Render(w, r, "auth/signup", data); err != nil {
		logAndInternalError(w, "failed to render signup", "error", err)
	}
}

// Signup handles the registration form submission.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteSignup) {
		return
	}

	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	password := r.FormValue("password")
	displayName := strings.TrimSpace(r.FormValue("display_name"))

	if email == "" || password == "" {
		flashError(w, r, h.renderer, RouteSignup, "Email and password are required")
		return
	}
	if len(password) < 8 {
		flashError(w, r, h.renderer, RouteSignup, "Password must be at least 8 characters")
		return
	}

	tok, err := h.identity.SignUp(r.Context(), email, password, displayName)
	if err != nil {
		if errors.Is(err, identity.ErrEmailExists) {
			flashError(w, r, h.renderer, RouteSignup, "An account with this email already exists")
			return
		}
		slog.Error("sign-up failed", "error", err)
		flashError(w, r, h.renderer, RouteSignup, "Registration is unavailable right now. Please try again later.")
		return
	}

	h.establishSession(w, r, tok)
}

// ForgotPasswordForm renders the password reset request page.
func (h *AuthHandler) ForgotPasswordForm(w http.ResponseWriter, r *http.Request) {
	data := baseData(r, "Reset Password", h.favorites.Count(r.Context()))
	if err := h.renderer.Render(w, r, "auth/forgot_password", data); err != nil {
		logAndInternalError(w, "failed to render forgot password", "error", err)
	}
}

// ForgotPassword handles the password reset request. The response is the
// same whether or not the email exists, so the form can't be used to probe
// for registered accounts.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteForgotPassword) {
		return
	}

	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	if email == "" {
		flashError(w, r, h.renderer, RouteForgotPassword, "Email is required")
		return
	}

	if err := h.identity.SendPasswordReset(r.Context(), email); err != nil && !errors.Is(err, identity.ErrUserNotFound) {
		slog.Error("password reset failed", "error", err)
	}

	flashSuccess(w, r, h.renderer, RouteLogin, "If that email is registered, a reset link is on its way.")
}

// Logout destroys the session and returns to the home page. Local favorites
// live in the session, so they are gone too; backend favorites are untouched.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		slog.Error("failed to destroy session", "error", err)
	}
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// establishSession stores the token and profile in a renewed session, merges
// any favorites collected while browsing anonymously, and redirects.
func (h *AuthHandler) establishSession(w http.ResponseWriter, r *http.Request, tok identity.Token) {
	ctx := r.Context()

	// New session token on privilege change
	if err := h.sessions.RenewToken(ctx); err != nil {
		logAndInternalError(w, "failed to renew session token", "error", err)
		return
	}

	user, err := h.api.Me(ctx, tok.IDToken)
	if err != nil {
		slog.Error("failed to load profile after sign-in", "error", err)
		flashError(w, r, h.renderer, RouteLogin, "Signed in, but your profile could not be loaded. Please try again.")
		return
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		logAndInternalError(w, "failed to encode profile", "error", err)
		return
	}

	h.sessions.Put(ctx, middleware.SessionKeyIDToken, tok.IDToken)
	h.sessions.Put(ctx, middleware.SessionKeyRefreshToken, tok.RefreshToken)
	h.sessions.Put(ctx, middleware.SessionKeyUser, string(userJSON))

	h.mergeFavorites(ctx, tok.IDToken, r)

	if user.IsAdmin() {
		http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// mergeFavorites pushes favorites collected before sign-in to the backend.
// A failed merge keeps them in the session for the next sign-in.
func (h *AuthHandler) mergeFavorites(ctx context.Context, token string, r *http.Request) {
	result, merged, err := h.favorites.Merge(ctx, h.api, token)
	if err != nil {
		slog.Warn("favorites merge failed", "error", err)
		h.renderer.SetFlash(r, "Your saved favorites could not be synced yet. They will sync next time you sign in.", flashTypeInfo)
		return
	}
	if merged {
		h.renderer.SetFlash(r, favorites.SummaryMessage(result), flashTypeSuccess)
	}
}

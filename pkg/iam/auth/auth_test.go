package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abraxas-365/vieclam/pkg/errx"
	"github.com/Abraxas-365/vieclam/pkg/httpx"
	"github.com/Abraxas-365/vieclam/pkg/iam/auth"
	"github.com/Abraxas-365/vieclam/pkg/kernel"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := auth.NewJWTService("secret", time.Hour, "vieclam")

	token, err := svc.GenerateAccessToken("user-1", "a@b.vn", kernel.RoleEmployer)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, kernel.UserID("user-1"), claims.UserID)
	assert.Equal(t, kernel.RoleEmployer, claims.Role)
	assert.Equal(t, kernel.Email("a@b.vn"), claims.Email)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	token, err := auth.NewJWTService("other", time.Hour, "vieclam").
		GenerateAccessToken("user-1", "", kernel.RoleCandidate)
	require.NoError(t, err)

	_, err = auth.NewJWTService("secret", time.Hour, "vieclam").ValidateAccessToken(token)
	assert.True(t, errx.IsCode(err, auth.CodeInvalidToken))
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := auth.NewJWTService("secret", -time.Minute, "vieclam")
	token, err := svc.GenerateAccessToken("user-1", "", kernel.RoleCandidate)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	require.Error(t, err)
	e, ok := errx.As(err)
	require.True(t, ok)
	assert.Equal(t, "expired", e.Details["reason"])
}

func TestScopeMatches(t *testing.T) {
	assert.True(t, auth.ScopeMatches("*", auth.ScopeJobsWrite))
	assert.True(t, auth.ScopeMatches("jobs:*", auth.ScopeJobsWrite))
	assert.True(t, auth.ScopeMatches(auth.ScopeJobsWrite, auth.ScopeJobsWrite))
	assert.False(t, auth.ScopeMatches("jobs:*", auth.ScopeApplicationsWrite))
	assert.False(t, auth.ScopeMatches(auth.ScopeJobsWrite, auth.ScopeJobsDelete))
}

func TestRoleScopes(t *testing.T) {
	candidate := &auth.AuthContext{Scopes: auth.ScopesForRole(kernel.RoleCandidate)}
	employer := &auth.AuthContext{Scopes: auth.ScopesForRole(kernel.RoleEmployer)}
	admin := &auth.AuthContext{Scopes: auth.ScopesForRole(kernel.RoleAdmin)}

	assert.True(t, candidate.HasScope(auth.ScopeSavedJobsWrite))
	assert.False(t, candidate.HasScope(auth.ScopeJobsWrite))
	assert.True(t, employer.HasScope(auth.ScopeJobsWrite))
	assert.False(t, employer.HasScope(auth.ScopeApplicationsWrite))
	assert.True(t, admin.HasScope(auth.ScopeSkillsWrite))
}

func newTestApp(svc auth.TokenService) *fiber.App {
	mw := auth.NewAuthMiddleware(svc)
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler})

	whoami := func(c *fiber.Ctx) error {
		if actor := auth.ActorFrom(c); actor != nil {
			return c.SendString(actor.UserID.String())
		}
		return c.SendString("anonymous")
	}
	app.Get("/private", mw.Authenticate(), mw.RequireScope(auth.ScopeJobsWrite), whoami)
	app.Get("/optional", mw.Optional(), whoami)
	return app
}

func TestMiddleware(t *testing.T) {
	svc := auth.NewJWTService("secret", time.Hour, "vieclam")
	app := newTestApp(svc)

	employerToken, err := svc.GenerateAccessToken("emp-1", "", kernel.RoleEmployer)
	require.NoError(t, err)
	candidateToken, err := svc.GenerateAccessToken("cand-1", "", kernel.RoleCandidate)
	require.NoError(t, err)

	cases := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"private without token", "/private", "", http.StatusUnauthorized},
		{"private with bad format", "/private", "Token abc", http.StatusUnauthorized},
		{"private with wrong scope", "/private", "Bearer " + candidateToken, http.StatusForbidden},
		{"private with scope", "/private", "Bearer " + employerToken, http.StatusOK},
		{"optional anonymous", "/optional", "", http.StatusOK},
		{"optional invalid token", "/optional", "Bearer garbage", http.StatusUnauthorized},
		{"optional authenticated", "/optional", "Bearer " + candidateToken, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

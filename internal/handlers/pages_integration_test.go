package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/weddingrsvp/internal/handlers/testutil"
	"github.com/charlesng35/weddingrsvp/internal/middleware"
)

func pageRequest(t *testing.T, env *testutil.Env, path, accessToken string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	if accessToken != "" {
		req.AddCookie(&http.Cookie{Name: middleware.AccessCookieName, Value: accessToken})
	}
	return env.Do(req).Result()
}

func TestPagesAnonymousWorkspaceRedirectsToLogin(t *testing.T) {
	env := testutil.NewEnv(t)

	res := pageRequest(t, env, "/dashboard/guests", "")
	require.Equal(t, http.StatusTemporaryRedirect, res.StatusCode)
	require.Equal(t, "/login?redirect=%2Fdashboard%2Fguests", res.Header.Get("Location"))

	res = pageRequest(t, env, "/dashboard", "")
	require.Equal(t, http.StatusTemporaryRedirect, res.StatusCode)
}

func TestPagesSignedInSkipsAuthPages(t *testing.T) {
	env := testutil.NewEnv(t)
	account := env.Register()

	for _, path := range []string{"/login", "/register", "/forgot-password"} {
		res := pageRequest(t, env, path, account.AccessToken)
		require.Equal(t, http.StatusTemporaryRedirect, res.StatusCode, path)
		require.Equal(t, "/dashboard", res.Header.Get("Location"), path)
	}

	res := pageRequest(t, env, "/dashboard", account.AccessToken)
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestPagesRefreshCookieRestoresSession(t *testing.T) {
	env := testutil.NewEnv(t)
	account := env.Register()

	req, err := http.NewRequest(http.MethodGet, "/dashboard/settings", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: middleware.RefreshCookieName, Value: account.RefreshToken})

	w := env.Do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, testutil.Cookie(w, middleware.AccessCookieName))
}

func TestPagesPublicHTML(t *testing.T) {
	env := testutil.NewEnv(t)

	for _, path := range []string{"/", "/features", "/pricing", "/login", "/register", "/forgot-password"} {
		w := env.Request(http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		require.Contains(t, w.Header().Get("Content-Type"), "text/html", path)
	}

	w := env.Request(http.MethodGet, "/login?redirect=%2Fdashboard%2Fevents", nil, "")
	require.Contains(t, w.Body.String(), `value="/dashboard/events"`)
}

func TestPagesResetPasswordRequiresToken(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodGet, "/reset-password", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "invalid or incomplete")

	w = env.Request(http.MethodGet, "/reset-password?token=abc", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `name="token" value="abc"`)
}

func TestPagesNotFound(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodGet, "/invitation/does-not-exist", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/html")
	require.Contains(t, w.Body.String(), "couldn&#39;t find that invitation")

	w = env.Request(http.MethodGet, "/no-such-page", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/html")

	w = env.Request(http.MethodGet, "/api/no-such-endpoint", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "NOT_FOUND", testutil.DecodeResponse(t, w).Error.Code)
}

func TestPagesStaticAssets(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodGet, "/static/app.js", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "data-api")
}

func TestHealthAndMetrics(t *testing.T) {
	env := testutil.NewEnv(t)

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		w := env.Request(http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, w.Code, path)
	}

	w := env.Request(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "weddingrsvp_api_latency_seconds")
}

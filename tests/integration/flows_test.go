package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clmblockchain/devpool/internal/models"
)

// TestFlows spins up one postgres container and runs the end-to-end flows
// against a fully wired server.
func TestFlows(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()

	testDB, err := SetupTestDatabase(ctx)
	require.NoError(t, err)
	defer testDB.Teardown(ctx)

	ts := NewTestServer(testDB.DB)
	defer ts.Close()

	reset := func(t *testing.T) {
		t.Helper()
		require.NoError(t, testDB.CleanupTables(ctx))
		require.NoError(t, SeedAdmin(ctx, testDB.Pool, "admin", "integration-test-password"))
	}

	t.Run("registration persists and notifies", func(t *testing.T) {
		reset(t)

		email := TestEmail("register")
		resp, err := ts.PostForm("/submit", RegistrationForm(email))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var payload struct {
			Developer       *models.DeveloperProfile `json:"developer"`
			TotalDevelopers int                      `json:"total_developers"`
		}
		require.NoError(t, json.Unmarshal([]byte(ReadBody(resp)), &payload))
		assert.NotEmpty(t, payload.Developer.ID)
		assert.Equal(t, email, payload.Developer.Email)
		assert.Equal(t, 1, payload.TotalDevelopers)
		assert.Equal(t, "https://example.dev/portfolio", *payload.Developer.PortfolioURL)

		assert.NotEmpty(t, ts.Notifier.ByKind("welcome"))
	})

	t.Run("duplicate email rejected with conflict", func(t *testing.T) {
		reset(t)

		email := TestEmail("duplicate")
		resp, err := ts.PostForm("/submit", RegistrationForm(email))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		ReadBody(resp)

		// Same address with different case still collides
		form := RegistrationForm(email)
		form.Set("email", "TEST-"+email[5:])
		resp, err = ts.PostForm("/submit", form)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("invalid submission rejected", func(t *testing.T) {
		reset(t)

		form := RegistrationForm(TestEmail("invalid"))
		form.Set("experience_years", "51")
		resp, err := ts.PostForm("/submit", form)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("dashboard requires a session", func(t *testing.T) {
		reset(t)

		resp, err := ts.Get("/admin/dashboard")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/admin/login", resp.Header.Get("Location"))
	})

	t.Run("admin login delete export logout", func(t *testing.T) {
		reset(t)

		developerRepo, _ := InitializeRepositories(testDB.DB)
		seeded, err := SeedDeveloper(ctx, developerRepo, TestEmail("seeded"))
		require.NoError(t, err)

		// Wrong password does not open a session
		resp, err := ts.PostForm("/admin/login", LoginForm("admin", "wrong"))
		require.NoError(t, err)
		ReadBody(resp)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Nil(t, SessionCookie(resp))

		// Correct credentials redirect to the dashboard with a cookie
		resp, err = ts.PostForm("/admin/login", LoginForm("admin", "integration-test-password"))
		require.NoError(t, err)
		ReadBody(resp)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		cookie := SessionCookie(resp)
		require.NotNil(t, cookie)

		// The dashboard lists the seeded developer
		resp, err = ts.Get("/admin/dashboard", cookie)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := ReadBody(resp)
		assert.Contains(t, body, seeded.Email)
		assert.Equal(t, "no-cache, no-store, must-revalidate", resp.Header.Get("Cache-Control"))

		// Export carries a download filename
		resp, err = ts.Get("/admin/export", cookie)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "developers_export_")
		assert.Contains(t, ReadBody(resp), seeded.ID)

		// Delete removes the record
		resp, err = ts.PostForm("/admin/delete/"+seeded.ID, nil, cookie)
		require.NoError(t, err)
		ReadBody(resp)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		_, err = developerRepo.ListAll(ctx, true)
		require.NoError(t, err)
		count, err := developerRepo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)

		// Logout clears the session
		resp, err = ts.Get("/admin/logout", cookie)
		require.NoError(t, err)
		ReadBody(resp)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		cleared := SessionCookie(resp)
		require.NotNil(t, cleared)
		assert.Negative(t, cleared.MaxAge)
	})
}

package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"panelkeeper/internal/envfile"
	"panelkeeper/internal/models"
	"panelkeeper/internal/rpc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePanel struct {
	started bool
	stopped bool
}

func (f *fakePanel) Start(ctx context.Context) error { f.started = true; return nil }
func (f *fakePanel) Stop()                           { f.stopped = true }

// mockPanel serves the registration contract with a configurable answer.
func mockPanel(t *testing.T, registerStatus int, registerBody string, gotForm *map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>panel</html>")
	})
	mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `<form><input name="_csrf" value="tok123"></form>`)
			return
		}
		require.NoError(t, r.ParseForm())
		if gotForm != nil {
			m := map[string]string{}
			for k := range r.PostForm {
				m[k] = r.PostForm.Get(k)
			}
			*gotForm = m
		}
		w.WriteHeader(registerStatus)
		fmt.Fprint(w, registerBody)
	})
	return httptest.NewServer(mux)
}

func newTestBootstrap(t *testing.T, baseURL string) (*AdminBootstrap, models.ComponentSpec, *fakePanel) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, envfile.Render(filepath.Join(dir, ".env"), []envfile.KV{
		{Key: "PORT", Value: "3000"},
		{Key: "REGISTRATION_ENABLED", Value: "false"},
	}))
	spec := models.ComponentSpec{
		Name: "panel", DisplayName: "Panel", Kind: models.KindPanel,
		Directory: dir, StartCommand: []string{"/usr/bin/npm", "run", "start"},
	}
	icfg := &models.InstallConfig{Port: 3000, AdminEmail: "a@b.c", AdminUsername: "admin", AdminPassword: "abcd1234"}
	ab := NewAdminBootstrap(spec, icfg)
	panel := &fakePanel{}
	ab.SetRunner(panel)
	ab.SetReadyDelay(0)
	cfg := rpc.DefaultHTTPConfig()
	cfg.BaseURL = baseURL
	ab.SetClient(rpc.NewHTTPClient(cfg))
	return ab, spec, panel
}

func assertRegistrationClosed(t *testing.T, spec models.ComponentSpec) {
	t.Helper()
	v, err := envfile.GetKey(EnvPath(spec), "REGISTRATION_ENABLED")
	require.NoError(t, err)
	assert.Equal(t, "false", v, "registration must end closed on every outcome")
}

func TestBootstrapSuccess(t *testing.T) {
	var form map[string]string
	srv := mockPanel(t, 200, "<html>welcome aboard</html>", &form)
	defer srv.Close()

	ab, spec, panel := newTestBootstrap(t, srv.URL)
	icfg := &models.InstallConfig{Port: 3000, AdminEmail: "a@b.c", AdminUsername: "admin", AdminPassword: "abcd1234"}

	outcome, err := ab.Bootstrap(context.Background(), icfg)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome)
	assert.True(t, panel.started)
	assert.True(t, panel.stopped, "temporary supervisor torn down")
	assertRegistrationClosed(t, spec)

	// scraped anti-forgery token travels with the form
	assert.Equal(t, "tok123", form["_csrf"])
	assert.Equal(t, "admin", form["username"])
	assert.Equal(t, "a@b.c", form["email"])
}

func TestBootstrapAlreadyExistsNonFatal(t *testing.T) {
	srv := mockPanel(t, 200, `<div class="error">An account with this email already exists</div>`, nil)
	defer srv.Close()

	ab, spec, _ := newTestBootstrap(t, srv.URL)
	outcome, err := ab.Bootstrap(context.Background(), &models.InstallConfig{Port: 3000, AdminEmail: "a@b.c", AdminUsername: "admin", AdminPassword: "abcd1234"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyExists, outcome)
	assertRegistrationClosed(t, spec)
}

func TestBootstrapInvalidUsernameFatal(t *testing.T) {
	srv := mockPanel(t, 200, `<div class="error">Invalid username supplied</div>`, nil)
	defer srv.Close()

	ab, spec, _ := newTestBootstrap(t, srv.URL)
	outcome, err := ab.Bootstrap(context.Background(), &models.InstallConfig{Port: 3000, AdminEmail: "a@b.c", AdminUsername: "admin", AdminPassword: "abcd1234"})
	require.Error(t, err)
	assert.Equal(t, OutcomeInvalidUsername, outcome)
	assertRegistrationClosed(t, spec)
}

func TestBootstrapWeakPasswordFatal(t *testing.T) {
	srv := mockPanel(t, 200, `<div class="error">Weak password: add a digit</div>`, nil)
	defer srv.Close()

	ab, spec, _ := newTestBootstrap(t, srv.URL)
	outcome, err := ab.Bootstrap(context.Background(), &models.InstallConfig{Port: 3000, AdminEmail: "a@b.c", AdminUsername: "admin", AdminPassword: "abcd1234"})
	require.Error(t, err)
	assert.Equal(t, OutcomeWeakPassword, outcome)
	assertRegistrationClosed(t, spec)
}

func TestBootstrapUnclassifiedErrorNonFatal(t *testing.T) {
	srv := mockPanel(t, 200, `<div class="alert-danger">Something odd happened</div>`, nil)
	defer srv.Close()

	ab, spec, _ := newTestBootstrap(t, srv.URL)
	outcome, err := ab.Bootstrap(context.Background(), &models.InstallConfig{Port: 3000, AdminEmail: "a@b.c", AdminUsername: "admin", AdminPassword: "abcd1234"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeOther, outcome)
	assertRegistrationClosed(t, spec)
}

func TestBootstrapBadStatusNonFatal(t *testing.T) {
	srv := mockPanel(t, 500, "internal error", nil)
	defer srv.Close()

	ab, spec, _ := newTestBootstrap(t, srv.URL)
	outcome, err := ab.Bootstrap(context.Background(), &models.InstallConfig{Port: 3000, AdminEmail: "a@b.c", AdminUsername: "admin", AdminPassword: "abcd1234"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeBadStatus, outcome)
	assertRegistrationClosed(t, spec)
}

func TestBootstrapPanelUnreachable(t *testing.T) {
	ab, spec, _ := newTestBootstrap(t, "http://127.0.0.1:1")
	outcome, err := ab.Bootstrap(context.Background(), &models.InstallConfig{Port: 3000, AdminEmail: "a@b.c", AdminUsername: "admin", AdminPassword: "abcd1234"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeBadStatus, outcome)
	assertRegistrationClosed(t, spec)
}

func TestBootstrapRedirectTreatedAsAnswer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "ok") })
	mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprint(w, `<input name="_csrf" value="tok">`)
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ab, spec, _ := newTestBootstrap(t, srv.URL)
	outcome, err := ab.Bootstrap(context.Background(), &models.InstallConfig{Port: 3000, AdminEmail: "a@b.c", AdminUsername: "admin", AdminPassword: "abcd1234"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome, "302 without error marker is success")
	assertRegistrationClosed(t, spec)
}

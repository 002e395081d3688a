package services

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"panelkeeper/internal/envfile"
	"panelkeeper/internal/logger"
	"panelkeeper/internal/models"
	"panelkeeper/internal/proc"
	"panelkeeper/internal/rpc"
)

// Registration endpoint contract with the panel:
//   GET  /register           -> HTML page embedding <input name="_csrf" value="...">
//   POST /register           -> form fields username, email, password, _csrf
// A 200/302 answer without an error marker means the account exists now.
// Error markers the panel embeds in the answer body:
//   "already exists" / "already taken"  -> account was created on an earlier run
//   "invalid username"                  -> rejected name
//   "weak password" / "password too weak" -> rejected password
const registerPath = "/register"

var csrfPattern = regexp.MustCompile(`name="_csrf"\s+value="([^"]+)"`)

// BootstrapOutcome classifies the registration attempt.
type BootstrapOutcome string

const (
	OutcomeSuccess         BootstrapOutcome = "success"
	OutcomeAlreadyExists   BootstrapOutcome = "already-exists"
	OutcomeInvalidUsername BootstrapOutcome = "invalid-username"
	OutcomeWeakPassword    BootstrapOutcome = "weak-password"
	OutcomeOther           BootstrapOutcome = "other"
	OutcomeBadStatus       BootstrapOutcome = "bad-status"
)

// panelRunner is the temporary supervisor for the panel during bootstrap.
type panelRunner interface {
	Start(ctx context.Context) error
	Stop()
}

/**
 * Admin bootstrap: create the first operator account on a fresh panel
 * @description
 * - Temporarily opens self-registration on the panel, performs one HTTP
 *   registration call, then closes self-registration again
 * - The close is unconditional (deferred) and runs on every classified
 *   outcome: an open registration page is a worse regression than a failed
 *   admin-creation attempt
 * - The panel runs under a temporary process supervisor for this step,
 *   independent of the permanent service unit
 */
type AdminBootstrap struct {
	spec       models.ComponentSpec
	client     *rpc.HTTPClient
	runner     panelRunner
	readyDelay time.Duration
}

func NewAdminBootstrap(spec models.ComponentSpec, icfg *models.InstallConfig) *AdminBootstrap {
	cfg := rpc.DefaultHTTPConfig()
	cfg.BaseURL = fmt.Sprintf("http://127.0.0.1:%d", icfg.Port)
	start := spec.StartCommand
	if len(start) == 0 {
		start = []string{"/usr/bin/npm", "run", "start"}
	}
	p := proc.NewProcessInstance("panel-bootstrap", start[0], start[1:])
	p.WorkDir = spec.Directory
	return &AdminBootstrap{
		spec:       spec,
		client:     rpc.NewHTTPClient(cfg),
		runner:     p,
		readyDelay: 6 * time.Second,
	}
}

// SetClient replaces the HTTP client (tests point it at a mock panel).
func (ab *AdminBootstrap) SetClient(c *rpc.HTTPClient) { ab.client = c }

// SetRunner replaces the temporary supervisor (tests).
func (ab *AdminBootstrap) SetRunner(r panelRunner) { ab.runner = r }

// SetReadyDelay overrides the fixed readiness delay (tests).
func (ab *AdminBootstrap) SetReadyDelay(d time.Duration) { ab.readyDelay = d }

/**
 * Run the bootstrap
 * @returns {BootstrapOutcome} Classified result
 * @returns {error} Non-nil only for the fatal classifications
 *                  (invalid-username, weak-password) and setup failures
 */
func (ab *AdminBootstrap) Bootstrap(ctx context.Context, icfg *models.InstallConfig) (BootstrapOutcome, error) {
	envPath := EnvPath(ab.spec)
	if err := envfile.SetKey(envPath, "REGISTRATION_ENABLED", "true"); err != nil {
		return OutcomeOther, fmt.Errorf("open registration: %w", err)
	}
	defer func() {
		// must run on every path: registration stays closed no matter what
		if err := envfile.SetKey(envPath, "REGISTRATION_ENABLED", "false"); err != nil {
			logger.Errorf("close registration failed: %v", err)
		}
	}()

	if err := ab.runner.Start(ctx); err != nil {
		return OutcomeOther, fmt.Errorf("start panel for bootstrap: %w", err)
	}
	defer ab.runner.Stop()

	// fixed delay plus a single liveness check, not a retry loop
	select {
	case <-time.After(ab.readyDelay):
	case <-ctx.Done():
		return OutcomeOther, ctx.Err()
	}
	if _, err := ab.client.Get(ctx, "/"); err != nil {
		logger.Warnf("Panel not reachable for admin bootstrap: %v", err)
		return OutcomeBadStatus, nil
	}

	return ab.register(ctx, icfg)
}

func (ab *AdminBootstrap) register(ctx context.Context, icfg *models.InstallConfig) (BootstrapOutcome, error) {
	page, err := ab.client.Get(ctx, registerPath)
	if err != nil {
		logger.Warnf("Fetch registration page failed: %v", err)
		return OutcomeBadStatus, nil
	}

	form := url.Values{
		"username": {icfg.AdminUsername},
		"email":    {icfg.AdminEmail},
		"password": {icfg.AdminPassword},
	}
	if m := csrfPattern.FindStringSubmatch(page.Body); m != nil {
		form.Set("_csrf", m[1])
	}

	resp, err := ab.client.PostForm(ctx, registerPath, form)
	if err != nil {
		logger.Warnf("Registration request failed: %v", err)
		return OutcomeBadStatus, nil
	}
	return ab.classify(resp)
}

func (ab *AdminBootstrap) classify(resp *rpc.HTTPResponse) (BootstrapOutcome, error) {
	if resp.StatusCode != 200 && resp.StatusCode != 302 {
		logger.Warnf("Registration answered status %d", resp.StatusCode)
		return OutcomeBadStatus, nil
	}
	body := strings.ToLower(resp.Body)
	switch {
	case strings.Contains(body, "already exists") || strings.Contains(body, "already taken"):
		logger.Warnf("Admin account already exists, keeping it")
		return OutcomeAlreadyExists, nil
	case strings.Contains(body, "invalid username"):
		return OutcomeInvalidUsername, fmt.Errorf("panel rejected the admin username")
	case strings.Contains(body, "weak password") || strings.Contains(body, "password too weak"):
		return OutcomeWeakPassword, fmt.Errorf("panel rejected the admin password")
	case strings.Contains(body, "alert-danger") || strings.Contains(body, `class="error"`):
		logger.Warnf("Registration answered with an unclassified error")
		return OutcomeOther, nil
	}
	logger.Info("Admin account created")
	return OutcomeSuccess, nil
}

package pkgmgr

import (
	"context"
	"fmt"
	"strings"

	"panelkeeper/internal/config"
	"panelkeeper/internal/logger"
	"panelkeeper/internal/models"
	"panelkeeper/internal/utils"
)

/**
 * Package provisioner: idempotently ensures system packages, Node.js and Docker
 * @description
 * - Presence is checked with executable probes (LookPath), not package-database
 *   queries, so a second run with a satisfied set issues no install commands
 * - A binary still missing after an install attempt is an error the caller
 *   treats as fatal; nothing here retries
 */
type Provisioner struct {
	profile models.HostProfile
	cfg     config.ProvisionConfig
	runner  utils.CommandRunner
	engine  EnginePinger

	updated bool // apt package index refreshed once per process
}

func NewProvisioner(profile models.HostProfile, cfg config.ProvisionConfig, runner utils.CommandRunner) *Provisioner {
	return &Provisioner{
		profile: profile,
		cfg:     cfg,
		runner:  runner,
		engine:  newDockerPinger(),
	}
}

// SetEnginePinger replaces the Docker engine probe (tests).
func (p *Provisioner) SetEnginePinger(e EnginePinger) {
	p.engine = e
}

/**
 * Ensure a set of system packages is installed
 * @param {[]string} names - Package names, probed as executables
 * @returns {error} Install command failure, nil when already satisfied
 */
func (p *Provisioner) EnsurePackages(ctx context.Context, names ...string) error {
	missing := make([]string, 0, len(names))
	for _, name := range names {
		if _, err := p.runner.LookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		logger.Infof("Packages already satisfied: %s", strings.Join(names, " "))
		return nil
	}
	logger.Infof("Installing packages: %s", strings.Join(missing, " "))
	return p.installPackages(ctx, missing...)
}

func (p *Provisioner) installPackages(ctx context.Context, names ...string) error {
	switch p.profile.Family {
	case models.FamilyDebian:
		if !p.updated {
			if err := p.runner.Run(ctx, "apt-get", "update"); err != nil {
				return err
			}
			p.updated = true
		}
		return p.runner.Run(ctx, "apt-get", append([]string{"install", "-y"}, names...)...)
	case models.FamilyRedhat:
		return p.runner.Run(ctx, "dnf", append([]string{"install", "-y"}, names...)...)
	case models.FamilyArch:
		return p.runner.Run(ctx, "pacman", append([]string{"-S", "--noconfirm"}, names...)...)
	case models.FamilyAlpine:
		return p.runner.Run(ctx, "apk", append([]string{"add"}, names...)...)
	default:
		return fmt.Errorf("unsupported family %q", p.profile.Family)
	}
}

/**
 * Ensure Node.js matches the pinned major version
 * @returns {error} Error when install fails or the binary is missing afterwards
 * @description
 * - `node --version` major == pin: no install commands at all
 * - Mismatch or absence: full reinstall through the family's upstream setup
 *   channel, because distribution repositories lag the pinned version
 */
func (p *Provisioner) EnsureNode(ctx context.Context) error {
	if _, err := p.runner.LookPath("node"); err == nil {
		out, err := p.runner.Output(ctx, "node", "--version")
		if err == nil {
			major, perr := parseNodeMajor(out)
			if perr == nil && major == p.cfg.NodeMajor {
				logger.Infof("Node.js v%d already installed", major)
				return nil
			}
			if perr == nil {
				logger.Warnf("Node.js major v%d found, pinned v%d: reinstalling", major, p.cfg.NodeMajor)
			}
		}
	}
	if err := p.installNode(ctx); err != nil {
		return fmt.Errorf("node install failed: %w", err)
	}
	if _, err := p.runner.LookPath("node"); err != nil {
		return fmt.Errorf("node binary not found after install attempt")
	}
	return nil
}

func (p *Provisioner) installNode(ctx context.Context) error {
	setupURL := fmt.Sprintf(p.cfg.NodeSetupURL, p.cfg.NodeMajor)
	switch p.profile.Family {
	case models.FamilyDebian:
		if err := p.runner.Run(ctx, "bash", "-c", fmt.Sprintf("curl -fsSL %s | bash -", setupURL)); err != nil {
			return err
		}
		return p.runner.Run(ctx, "apt-get", "install", "-y", "nodejs")
	case models.FamilyRedhat:
		rpmURL := strings.Replace(setupURL, "deb.", "rpm.", 1)
		if err := p.runner.Run(ctx, "bash", "-c", fmt.Sprintf("curl -fsSL %s | bash -", rpmURL)); err != nil {
			return err
		}
		return p.runner.Run(ctx, "dnf", "install", "-y", "nodejs")
	case models.FamilyArch:
		return p.runner.Run(ctx, "pacman", "-S", "--noconfirm", "nodejs", "npm")
	case models.FamilyAlpine:
		return p.runner.Run(ctx, "apk", "add", "nodejs", "npm")
	default:
		return fmt.Errorf("unsupported family %q", p.profile.Family)
	}
}

/**
 * Ensure the Docker engine is installed and enabled at boot
 * @description
 * - debian/redhat install via the vendor bootstrap script, arch/alpine via
 *   native packages
 * - After install the engine is pinged through the Docker API client; a failed
 *   ping is a warning (the daemon may still be warming up), a missing binary
 *   is an error
 */
func (p *Provisioner) EnsureDocker(ctx context.Context) error {
	if _, err := p.runner.LookPath("docker"); err == nil {
		logger.Info("Docker already installed")
		return nil
	}
	switch p.profile.Family {
	case models.FamilyDebian, models.FamilyRedhat:
		if err := p.runner.Run(ctx, "bash", "-c", fmt.Sprintf("curl -fsSL %s | sh", p.cfg.DockerScriptURL)); err != nil {
			return err
		}
	case models.FamilyArch:
		if err := p.runner.Run(ctx, "pacman", "-S", "--noconfirm", "docker"); err != nil {
			return err
		}
	case models.FamilyAlpine:
		if err := p.runner.Run(ctx, "apk", "add", "docker"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported family %q", p.profile.Family)
	}
	if err := p.enableDockerService(ctx); err != nil {
		return err
	}
	if _, err := p.runner.LookPath("docker"); err != nil {
		return fmt.Errorf("docker binary not found after install attempt")
	}
	if p.engine != nil {
		if err := p.engine.Ping(ctx); err != nil {
			logger.Warnf("Docker engine not reachable yet: %v", err)
		}
	}
	return nil
}

func (p *Provisioner) enableDockerService(ctx context.Context) error {
	if p.profile.Family == models.FamilyAlpine {
		// alpine默认不是systemd
		if err := p.runner.Run(ctx, "rc-update", "add", "docker", "boot"); err != nil {
			return err
		}
		return p.runner.Run(ctx, "service", "docker", "start")
	}
	return p.runner.Run(ctx, "systemctl", "enable", "--now", "docker")
}

/**
 * Parse the major version out of `node --version` output ("v20.11.0")
 */
func parseNodeMajor(out string) (int, error) {
	out = strings.TrimSpace(out)
	out = strings.TrimPrefix(out, "v")
	parts := strings.Split(out, ".")
	if len(parts) == 0 || parts[0] == "" {
		return 0, fmt.Errorf("unparsable node version %q", out)
	}
	var major int
	if _, err := fmt.Sscanf(parts[0], "%d", &major); err != nil {
		return 0, fmt.Errorf("unparsable node version %q", out)
	}
	return major, nil
}

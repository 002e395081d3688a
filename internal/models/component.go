package models

// ComponentKind distinguishes the two core components from addons.
type ComponentKind string

const (
	KindPanel  ComponentKind = "panel"
	KindDaemon ComponentKind = "daemon"
	KindAddon  ComponentKind = "addon"
)

/**
 * Installable component description (panel/daemon/addon)
 * @property {string} name - Component name, also the systemd unit base name
 * @property {string} displayName - Human readable name for menus and tables
 * @property {string} repoUrl - git-over-HTTPS source of the component
 * @property {string} branch - Optional branch pin for the shallow clone
 * @property {string} directory - Target directory the component lives in
 * @property {string} serviceUser - System user the unit runs as
 * @property {[]string} startCommand - ExecStart argv of the service unit
 * @property {[][]string} buildCommands - Build/migrate/seed steps, run in order
 * @description
 * - Addons are pure data: appending an entry to the addons list in config.yaml
 *   is enough, no code changes
 */
type ComponentSpec struct {
	Name          string        `json:"name" mapstructure:"name"`
	DisplayName   string        `json:"displayName" mapstructure:"display_name"`
	Kind          ComponentKind `json:"kind" mapstructure:"kind"`
	RepoURL       string        `json:"repoUrl" mapstructure:"repo_url"`
	Branch        string        `json:"branch,omitempty" mapstructure:"branch"`
	Directory     string        `json:"directory" mapstructure:"directory"`
	ServiceUser   string        `json:"serviceUser" mapstructure:"service_user"`
	StartCommand  []string      `json:"startCommand" mapstructure:"start_command"`
	BuildCommands [][]string    `json:"buildCommands,omitempty" mapstructure:"build_commands"`
}

// ServiceName returns the systemd unit name for the component.
func (s ComponentSpec) ServiceName() string {
	return s.Name + ".service"
}

/**
 * Component state as reported by status/API endpoints
 * @property {bool} installed - Target directory exists on disk
 * @property {string} unitState - systemctl is-active output (active/inactive/unknown)
 */
type ComponentDetail struct {
	Name      string        `json:"name"`
	Kind      ComponentKind `json:"kind"`
	Directory string        `json:"directory"`
	Installed bool          `json:"installed"`
	UnitState string        `json:"unitState"`
}

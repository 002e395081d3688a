package models

import (
	"fmt"
	"strings"
)

/**
 * Persisted supervision descriptor (one systemd unit per installed component)
 * @property {string} name - Unit base name (without .service)
 * @property {string} description - Unit Description= line
 * @property {string} user - Run user
 * @property {string} workingDirectory - WorkingDirectory= of the service
 * @property {[]string} execStart - ExecStart argv
 * @property {[]string} after - Ordering dependencies (network.target, docker.service)
 * @description
 * - Created on install, removed on uninstall, always Restart=always
 */
type ServiceUnit struct {
	Name             string
	Description      string
	User             string
	WorkingDirectory string
	ExecStart        []string
	After            []string
}

// FileName returns the unit file name.
func (u ServiceUnit) FileName() string {
	return u.Name + ".service"
}

/**
 * Render the unit file content
 * @returns {string} systemd unit text
 * @description
 * - After= always carries network.target first, extra targets follow
 */
func (u ServiceUnit) Render() string {
	after := append([]string{"network.target"}, u.After...)
	var b strings.Builder
	b.WriteString("[Unit]\n")
	fmt.Fprintf(&b, "Description=%s\n", u.Description)
	fmt.Fprintf(&b, "After=%s\n", strings.Join(after, " "))
	b.WriteString("\n[Service]\n")
	b.WriteString("Type=simple\n")
	fmt.Fprintf(&b, "User=%s\n", u.User)
	fmt.Fprintf(&b, "WorkingDirectory=%s\n", u.WorkingDirectory)
	fmt.Fprintf(&b, "ExecStart=%s\n", strings.Join(u.ExecStart, " "))
	b.WriteString("Restart=always\n")
	b.WriteString("RestartSec=5\n")
	b.WriteString("\n[Install]\n")
	b.WriteString("WantedBy=multi-user.target\n")
	return b.String()
}

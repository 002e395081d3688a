package config

import (
	"path/filepath"

	"panelkeeper/internal/models"

	"github.com/spf13/viper"
)

/**
 * Component catalogue (panel, daemon, addons)
 * @description
 * - Panel and daemon specs carry built-in defaults that config.yaml can override
 * - Addons are a statically declared list of {name, display_name, repo_url,
 *   branch, directory} tuples; a new addon is a new list entry, no code changes
 */
type ComponentCatalog struct {
	Panel  models.ComponentSpec   `mapstructure:"panel"`
	Daemon models.ComponentSpec   `mapstructure:"daemon"`
	Addons []models.ComponentSpec `mapstructure:"addons"`
}

var catalog *ComponentCatalog

func defaultPanel() models.ComponentSpec {
	return models.ComponentSpec{
		Name:         "panel",
		DisplayName:  "Panel",
		Kind:         models.KindPanel,
		RepoURL:      "https://github.com/panelkeeper/panel",
		Directory:    "/var/www/panel",
		ServiceUser:  "www-data",
		StartCommand: []string{"/usr/bin/npm", "run", "start"},
		BuildCommands: [][]string{
			{"npm", "run", "build"},
			{"npx", "sequelize-cli", "db:migrate"},
			{"npm", "run", "seed"},
		},
	}
}

func defaultDaemon() models.ComponentSpec {
	return models.ComponentSpec{
		Name:         "daemon",
		DisplayName:  "Daemon",
		Kind:         models.KindDaemon,
		RepoURL:      "https://github.com/panelkeeper/daemon",
		Directory:    "/var/www/daemon",
		ServiceUser:  "root",
		StartCommand: []string{"/usr/bin/npm", "run", "start"},
		BuildCommands: [][]string{
			{"npm", "run", "build"},
		},
	}
}

func defaultAddons() []models.ComponentSpec {
	return []models.ComponentSpec{
		{
			Name:        "subdomains",
			DisplayName: "Subdomain Manager",
			Kind:        models.KindAddon,
			RepoURL:     "https://github.com/panelkeeper/addon-subdomains",
			Branch:      "main",
			Directory:   "subdomains",
		},
		{
			Name:        "announcements",
			DisplayName: "Announcements",
			Kind:        models.KindAddon,
			RepoURL:     "https://github.com/panelkeeper/addon-announcements",
			Branch:      "main",
			Directory:   "announcements",
		},
	}
}

func collectCatalog(c *ComponentCatalog) {
	def := defaultPanel()
	if c.Panel.Name == "" {
		c.Panel = def
	} else {
		fillSpec(&c.Panel, def)
	}
	def = defaultDaemon()
	if c.Daemon.Name == "" {
		c.Daemon = def
	} else {
		fillSpec(&c.Daemon, def)
	}
	if len(c.Addons) == 0 {
		c.Addons = defaultAddons()
	}
	for i := range c.Addons {
		c.Addons[i].Kind = models.KindAddon
		// 插件目录统一挂在面板目录下
		if !filepath.IsAbs(c.Addons[i].Directory) {
			c.Addons[i].Directory = filepath.Join(c.Panel.Directory, "addons", c.Addons[i].Directory)
		}
	}
}

func fillSpec(spec *models.ComponentSpec, def models.ComponentSpec) {
	spec.Kind = def.Kind
	if spec.DisplayName == "" {
		spec.DisplayName = def.DisplayName
	}
	if spec.RepoURL == "" {
		spec.RepoURL = def.RepoURL
	}
	if spec.Directory == "" {
		spec.Directory = def.Directory
	}
	if spec.ServiceUser == "" {
		spec.ServiceUser = def.ServiceUser
	}
	if len(spec.StartCommand) == 0 {
		spec.StartCommand = def.StartCommand
	}
	if len(spec.BuildCommands) == 0 {
		spec.BuildCommands = def.BuildCommands
	}
}

/**
 * Get the component catalogue
 * @returns {*ComponentCatalog} Catalogue with defaults applied
 */
func Catalog() *ComponentCatalog {
	if catalog != nil {
		return catalog
	}
	c := &ComponentCatalog{}
	viper.UnmarshalKey("components", c)
	collectCatalog(c)
	catalog = c
	return catalog
}

// ResetCatalog drops the cached catalogue (tests).
func ResetCatalog() {
	catalog = nil
}

/**
 * Find a component by name across panel/daemon/addons
 * @param {string} name - Component name
 * @returns {models.ComponentSpec} Matching spec
 * @returns {error} ErrComponentNotFound when no entry matches
 */
func FindComponent(name string) (models.ComponentSpec, error) {
	c := Catalog()
	if name == c.Panel.Name {
		return c.Panel, nil
	}
	if name == c.Daemon.Name {
		return c.Daemon, nil
	}
	for _, a := range c.Addons {
		if a.Name == name {
			return a, nil
		}
	}
	return models.ComponentSpec{}, ErrComponentNotFound
}

package osprobe

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"panelkeeper/internal/models"
)

// osReleasePath is the single platform identification source.
const osReleasePath = "/etc/os-release"

// familyByID maps distribution identifiers to their family. Closed table:
// an identifier missing here is an unsupported host, never a default.
var familyByID = map[string]models.Family{
	"debian":      models.FamilyDebian,
	"ubuntu":      models.FamilyDebian,
	"raspbian":    models.FamilyDebian,
	"linuxmint":   models.FamilyDebian,
	"pop":         models.FamilyDebian,
	"rhel":        models.FamilyRedhat,
	"centos":      models.FamilyRedhat,
	"fedora":      models.FamilyRedhat,
	"rocky":       models.FamilyRedhat,
	"almalinux":   models.FamilyRedhat,
	"arch":        models.FamilyArch,
	"manjaro":     models.FamilyArch,
	"endeavouros": models.FamilyArch,
	"alpine":      models.FamilyAlpine,
}

var packageManagerByFamily = map[models.Family]string{
	models.FamilyDebian: "apt",
	models.FamilyRedhat: "dnf",
	models.FamilyArch:   "pacman",
	models.FamilyAlpine: "apk",
}

/**
 * Probe the host platform
 * @returns {*models.HostProfile} Host classification, immutable afterwards
 * @returns {error} Error when /etc/os-release is absent or the ID is unknown
 * @description
 * - Read once at startup; there is no transient-failure mode and no retry
 * - Callers treat any error as fatal (unsupported host)
 */
func Probe() (*models.HostProfile, error) {
	return ProbeFile(osReleasePath)
}

/**
 * Probe a specific os-release file (tests point this at a fixture)
 */
func ProbeFile(path string) (*models.HostProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot identify host OS: %w", err)
	}
	defer f.Close()

	id, versionID := parseOSRelease(f)
	return Classify(id, versionID)
}

/**
 * Classify a distribution identifier into exactly one family
 * @param {string} id - ID= value of os-release (e.g. "ubuntu")
 * @param {string} versionID - VERSION_ID= value
 * @returns {*models.HostProfile} Profile with family and package manager
 * @returns {error} Error for empty or unrecognized identifiers
 */
func Classify(id, versionID string) (*models.HostProfile, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return nil, fmt.Errorf("os-release carries no ID field")
	}
	family, ok := familyByID[id]
	if !ok {
		return nil, fmt.Errorf("unsupported distribution %q (supported families: debian/redhat/arch/alpine)", id)
	}
	return &models.HostProfile{
		DistributionID: id,
		VersionID:      versionID,
		Family:         family,
		PackageManager: packageManagerByFamily[family],
	}, nil
}

func parseOSRelease(f *os.File) (id, versionID string) {
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "ID=") {
			id = strings.Trim(strings.TrimPrefix(line, "ID="), `"`)
		}
		if strings.HasPrefix(line, "VERSION_ID=") {
			versionID = strings.Trim(strings.TrimPrefix(line, "VERSION_ID="), `"`)
		}
	}
	return id, versionID
}

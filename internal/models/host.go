package models

import "fmt"

/**
 * OS家族枚举（封闭集合）
 * @description
 * - Every per-family dispatch switches over this set and rejects anything else
 */
type Family string

const (
	FamilyDebian Family = "debian"
	FamilyRedhat Family = "redhat"
	FamilyArch   Family = "arch"
	FamilyAlpine Family = "alpine"
)

// AllFamilies lists every supported family, in documentation order.
var AllFamilies = []Family{FamilyDebian, FamilyRedhat, FamilyArch, FamilyAlpine}

/**
 * Host platform classification, derived once at startup
 * @property {string} distributionId - ID= field of /etc/os-release (e.g. "ubuntu")
 * @property {string} versionId - VERSION_ID= field (e.g. "24.04")
 * @property {Family} family - Classification bucket used to select command templates
 * @property {string} packageManager - Package manager front-end (apt/dnf/pacman/apk)
 * @description
 * - Immutable for the process lifetime; every provisioning step receives it by value
 */
type HostProfile struct {
	DistributionID string `json:"distributionId"`
	VersionID      string `json:"versionId"`
	Family         Family `json:"family"`
	PackageManager string `json:"packageManager"`
}

func (p HostProfile) String() string {
	return fmt.Sprintf("%s %s (%s/%s)", p.DistributionID, p.VersionID, p.Family, p.PackageManager)
}

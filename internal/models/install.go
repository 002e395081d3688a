package models

import (
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// DefaultAdminUsername is substituted when the supplied username is rejected.
const DefaultAdminUsername = "admin"

var validate *validator.Validate

func init() {
	validate = validator.New()
	// 密码规则：至少8位，必须同时含有字母和数字
	validate.RegisterValidation("panelpassword", func(fl validator.FieldLevel) bool {
		return isStrongPassword(fl.Field().String())
	})
}

func isStrongPassword(pw string) bool {
	if len(pw) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

/**
 * User-collected installation settings
 * @property {string} component - Component being installed (panel/daemon/all)
 * @property {int} port - Panel listen port
 * @property {string} adminEmail - First operator account email
 * @property {string} adminUsername - First operator account name (3-20 alphanumeric)
 * @property {string} adminPassword - First operator password (>=8 chars, letter+digit)
 * @property {[]string} addons - Selected addon names
 * @description
 * - Collected once up front, held in memory for the install run, discarded after
 * - Validate() must pass before the config reaches any provisioning step
 */
type InstallConfig struct {
	Component     string   `json:"component"`
	Port          int      `json:"port" validate:"min=1,max=65535"`
	AdminEmail    string   `json:"adminEmail" validate:"required,email"`
	AdminUsername string   `json:"adminUsername"`
	AdminPassword string   `json:"-" validate:"required,panelpassword"`
	Addons        []string `json:"addons,omitempty"`
}

/**
 * Validate install configuration before use
 * @returns {bool} true when the username had to be replaced by the default
 * @returns {error} Validation error for port/email/password, nil on success
 * @description
 * - An unacceptable username is not an error: it is replaced by "admin" and the
 *   caller logs a warning (the run continues)
 * - Password and email problems are hard errors
 */
func (c *InstallConfig) Validate() (bool, error) {
	substituted := false
	if err := validate.Var(c.AdminUsername, "required,alphanum,min=3,max=20"); err != nil {
		c.AdminUsername = DefaultAdminUsername
		substituted = true
	}
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			switch e.Field() {
			case "AdminPassword":
				return substituted, fmt.Errorf("password must be at least 8 characters and contain a letter and a digit")
			case "AdminEmail":
				return substituted, fmt.Errorf("invalid admin email %q", c.AdminEmail)
			case "Port":
				return substituted, fmt.Errorf("invalid port %d", c.Port)
			}
		}
		return substituted, err
	}
	return substituted, nil
}

// ValidUsername reports whether name passes the 3-20 alphanumeric rule.
func ValidUsername(name string) bool {
	return validate.Var(name, "required,alphanum,min=3,max=20") == nil
}

// ValidPassword reports whether pw passes the password rule.
func ValidPassword(pw string) bool {
	return isStrongPassword(pw)
}

package envfile

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

/**
 * KV is one KEY=value line of an environment-configuration file.
 * Rendering keeps declaration order so the file stays diffable across runs.
 */
type KV struct {
	Key   string
	Value string
}

/**
 * Render an environment file from ordered key/value pairs
 * @param {string} path - Target file (component working directory/.env)
 * @param {[]KV} pairs - Recognized options in output order
 * @returns {error} Write failure
 */
func Render(path string, pairs []KV) error {
	var b strings.Builder
	for _, kv := range pairs {
		fmt.Fprintf(&b, "%s=%s\n", kv.Key, kv.Value)
	}
	return os.WriteFile(path, []byte(b.String()), 0640)
}

/**
 * Set or replace one key in an existing environment file
 * @description
 * - Used by the admin bootstrap to flip the registration flag and, critically,
 *   to flip it back on every outcome
 */
func SetKey(path, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	found := false
	for i, line := range lines {
		if strings.HasPrefix(line, key+"=") {
			lines[i] = key + "=" + value
			found = true
		}
	}
	if !found {
		lines = append(lines, key+"="+value)
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0640)
}

/**
 * Get one key from an environment file ("" when absent)
 */
func GetKey(path, key string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, key+"=") {
			return strings.TrimPrefix(line, key+"="), nil
		}
	}
	return "", nil
}

/**
 * Generate a fresh secret from a cryptographically strong source
 * @param {int} bytes - Entropy size; the hex string is twice as long
 * @description
 * - Secrets are generated per install and never reused across runs
 */
func GenerateSecret(bytes int) string {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform RNG is broken; nothing
		// sensible to fall back to
		panic(fmt.Sprintf("secret generation failed: %v", err))
	}
	return hex.EncodeToString(buf)
}

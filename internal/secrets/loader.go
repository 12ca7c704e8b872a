// Package secrets resolves credentials that may be given inline or kept in a file.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotConfigured is returned by Load when a secret has neither a value nor a file.
var ErrNotConfigured = errors.New("not configured")

// Source describes where a secret comes from.
type Source struct {
	// Name is used in error messages.
	Name string
	// Value is given inline, through the config file, the environment or a flag.
	Value string
	// File holds the secret. It takes precedence over Value.
	File string
}

// Configured reports whether the source points at anything.
func (s Source) Configured() bool {
	return strings.TrimSpace(s.File) != "" || strings.TrimSpace(s.Value) != ""
}

// Load returns the trimmed secret. A configured but empty file is an error,
// and so is a source with nothing configured (wrapping ErrNotConfigured).
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}

		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		return "", fmt.Errorf("%s is %w", name, ErrNotConfigured)
	}

	return secret, nil
}

// Lookup is Load for optional secrets: an unconfigured source yields "" and no error.
func Lookup(src Source) (string, error) {
	if !src.Configured() {
		return "", nil
	}
	return Load(src)
}

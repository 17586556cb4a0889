package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultConnectSIDFile returns ~/.config/sbc/connect.sid, or "" when the
// home directory is unknown.
func DefaultConnectSIDFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sbc", "connect.sid")
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ReadConnectSIDFile returns the trimmed contents of a connect.sid file.
// A missing file is not an error and yields "".
func ReadConnectSIDFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(ExpandHome(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read connect.sid file %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ResolveConnectSID picks the session credential by priority: an explicit
// value, then an explicit file, then the configured value, then the
// configured file. The result is whitespace-trimmed; "" means anonymous.
func ResolveConnectSID(flagValue, flagFile string, auth AuthConfig) (string, error) {
	if sid := strings.TrimSpace(flagValue); sid != "" {
		return sid, nil
	}
	if flagFile != "" {
		return ReadConnectSIDFile(flagFile)
	}
	if sid := strings.TrimSpace(auth.ConnectSID); sid != "" {
		return sid, nil
	}
	return ReadConnectSIDFile(auth.ConnectSIDFile)
}

package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// AppDir returns ~/.acc, or $ACC_HOME when set.
func AppDir() string {
	if custom := os.Getenv("ACC_HOME"); custom != "" {
		return ExpandPath(custom)
	}
	return filepath.Join(UserHomeDir(), ".acc")
}

// ExpandPath resolves "~/" prefixes and relative paths against the home directory.
// An empty path stays empty.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return ""
	case filepath.IsAbs(path):
		return path
	case path == "~":
		return UserHomeDir()
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(UserHomeDir(), path[2:])
	default:
		return filepath.Clean(path)
	}
}

package config

import (
	"path/filepath"
)

// AppName is used in generating file system paths for file-based logging.
var AppName = "taxhier"

// LogDir returns the directory path for log files when Log.Destination
// is "file". Returns ~/.local/share/taxhier/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

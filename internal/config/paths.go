// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the global devlink directory.
	GlobalDirName = ".devlink"

	// ConnectionsFileName is the durable device record.
	ConnectionsFileName = "connections.yaml"

	// DaemonFileName records the running daemon's PID.
	DaemonFileName = "daemon.yaml"
)

// GlobalDir returns the path to the global devlink directory (~/.devlink/).
func GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

// ConnectionsFile returns the path to the connections.yaml file.
func ConnectionsFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConnectionsFileName), nil
}

// GlobalDaemonFile returns the path to the daemon.yaml file.
func GlobalDaemonFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DaemonFileName), nil
}

// EnsureGlobalDir creates the global devlink directory if needed.
func EnsureGlobalDir() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

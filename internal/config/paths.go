package config

import (
	"os"
	"path/filepath"

	"github.com/deepwrite/deepwrite/internal/constants"
	"github.com/deepwrite/deepwrite/internal/errors"
)

// GlobalConfigDir returns the absolute path to the global configuration
// directory (~/.deepwrite).
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.DeepWriteHome), nil
}

// GlobalConfigPath returns the absolute path to the global config file.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the path to the project-level config file,
// relative to the working directory.
func ProjectConfigPath() string {
	return constants.ProjectConfigName
}

// LogFilePath returns the absolute path of the CLI log file
// (~/.deepwrite/logs/deepwrite.log).
func LogFilePath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LogsDir, constants.CLILogFileName), nil
}

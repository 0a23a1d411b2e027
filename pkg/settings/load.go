package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/ajxudir/pacwatch/pkg/constants"
	pkgerrors "github.com/ajxudir/pacwatch/pkg/errors"
	"github.com/ajxudir/pacwatch/pkg/verbose"
)

// MaxFileSize is the largest settings file Load accepts.
const MaxFileSize = 1 << 20

// FileName is the settings file name inside the pacwatch config directory.
const FileName = "settings.yml"

// Path returns the settings file location.
//
// Parameters:
//   - override: explicit path from --config, or empty for the default
//
// Returns:
//   - string: override when set, otherwise $XDG_CONFIG_HOME/pacwatch/settings.yml
func Path(override string) string {
	if override != "" {
		return override
	}
	return filepath.Join(xdg.ConfigHome, constants.AppName, FileName)
}

// Load reads and validates the settings file at path.
//
// When the file does not exist the embedded defaults are written to path and
// returned. The schema version is checked before the strict decode so that an
// old file is reported as a version mismatch rather than as unknown keys.
//
// Parameters:
//   - path: settings file location, usually from Path
//
// Returns:
//   - *Settings: the loaded settings
//   - bool: true when the defaults were just written
//   - error: *errors.ConfigVersionError, *errors.ValidationError, YAML or I/O errors
func Load(path string) (*Settings, bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := Reset(path); err != nil {
			return nil, false, err
		}
		verbose.SettingsLoaded(path, true)
		return Default(), true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read settings: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, false, fmt.Errorf("settings file too large: %d bytes (max %d bytes)", info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read settings: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		if ve, ok := pkgerrors.IsConfigVersionError(err); ok {
			ve.Path = path
		}
		return nil, false, err
	}

	verbose.SettingsLoaded(path, false)
	return s, false, nil
}

// Parse decodes and validates settings YAML.
//
// Parameters:
//   - data: raw YAML
//
// Returns:
//   - *Settings: the decoded settings
//   - error: the first problem found
func Parse(data []byte) (*Settings, error) {
	s, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Decode reads settings YAML without running Validate.
//
// It performs the following operations:
//   - Step 1: Reads settings_version leniently and rejects a mismatch
//   - Step 2: Decodes the document rejecting unknown keys
//
// Returns:
//   - *Settings: the decoded settings
//   - error: *errors.ConfigVersionError or a YAML error
func Decode(data []byte) (*Settings, error) {
	var probe struct {
		Version int `yaml:"settings_version"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if probe.Version != CurrentVersion {
		return nil, &pkgerrors.ConfigVersionError{Found: probe.Version, Expected: CurrentVersion}
	}

	var s Settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return &s, nil
}

// Save writes s to path, creating parent directories as needed.
func Save(path string, s *Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return writeFile(path, data)
}

// Reset overwrites path with the embedded default settings.
func Reset(path string) error {
	return writeFile(path, []byte(defaultSettingsYAML))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	verbose.Infof("Wrote settings: %s", path)
	return nil
}

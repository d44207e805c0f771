package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Profile holds the compression defaults applied when a flag is not given
// explicitly on the command line.
type Profile struct {
	Mode                 string `json:"mode,omitempty"`
	BlockType            string `json:"block_type,omitempty"` //nolint:tagliatelle // snake_case for config file
	ParallelizableOutput bool   `json:"parallelizable_output,omitempty"`
}

// ProfileFileName is the default profile file name, searched for in the
// current working directory.
const ProfileFileName = ".density.json"

var errProfileFileNotFound = errors.New("profile file not found")

// DefaultProfile returns the built-in defaults used when no profile file
// is present and no CLI overrides were given.
func DefaultProfile() Profile {
	return Profile{Mode: "chameleon", BlockType: "default"}
}

// LoadProfile loads a JSONC profile with the following precedence
// (highest wins): built-in defaults, then the project profile file
// (.density.json in workDir, if present), then an explicit path via
// configPath (must exist if given).
func LoadProfile(workDir, configPath string) (Profile, error) {
	profile := DefaultProfile()

	path := configPath
	mustExist := path != ""

	if path == "" {
		path = filepath.Join(workDir, ProfileFileName)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is user-controlled by design
	switch {
	case err == nil:
		// fall through to parse below
	case os.IsNotExist(err) && !mustExist:
		return profile, nil
	case os.IsNotExist(err):
		return Profile{}, fmt.Errorf("%w: %s", errProfileFileNotFound, configPath)
	default:
		return Profile{}, fmt.Errorf("reading profile %s: %w", path, err)
	}

	overlay, err := parseProfile(data)
	if err != nil {
		return Profile{}, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	return mergeProfile(profile, overlay), nil
}

func parseProfile(data []byte) (Profile, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Profile{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var p Profile

	if err := json.Unmarshal(standardized, &p); err != nil {
		return Profile{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return p, nil
}

func mergeProfile(base, overlay Profile) Profile {
	if overlay.Mode != "" {
		base.Mode = overlay.Mode
	}

	if overlay.BlockType != "" {
		base.BlockType = overlay.BlockType
	}

	if overlay.ParallelizableOutput {
		base.ParallelizableOutput = true
	}

	return base
}

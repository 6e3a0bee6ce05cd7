package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment overrides for the default locations.
const (
	envConfigPath = "VAGAS_CONFIG_PATH" // config file, default ~/.config/vagas.toml
	envHome       = "VAGAS_HOME"        // data dir, default ~/.local/share/vagas
	envOutputDir  = "VAGAS_OUTPUT_DIR"  // exported cards and carousels, default <home>/out
)

// GetDefaults returns the default locations of vagas files:
//
//	config_path   the TOML config read by every command
//	base_dir      root of the local database, image store and secrets
//	log_dir       vagas.log, one line per log record
//	output_dir    where card and carousel exports are saved
//	secrets_path  the age-encrypted secrets file
func GetDefaults() (map[string]string, error) {
	home, err := os.UserHomeDir()
	if err != nil && (os.Getenv(envConfigPath) == "" || os.Getenv(envHome) == "") {
		return nil, fmt.Errorf("cannot determine home directory: %w", err)
	}

	baseDir := envOr(envHome, filepath.Join(home, ".local", "share", "vagas"))
	return map[string]string{
		"config_path":  envOr(envConfigPath, filepath.Join(home, ".config", "vagas.toml")),
		"base_dir":     baseDir,
		"log_dir":      filepath.Join(baseDir, "log"),
		"output_dir":   envOr(envOutputDir, filepath.Join(baseDir, "out")),
		"secrets_path": filepath.Join(baseDir, "secrets.age"),
	}, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

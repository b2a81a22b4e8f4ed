package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/subosito/gotenv"
)

// ENV_DIR is where per-environment files live, one per APP_ENV.
const ENV_DIR = "config/envs"

// LoadEnv loads ENV_DIR/.env.<env> into the process environment. Variables
// already set in the environment win. A missing file is not an error, the
// run simply uses the OS environment.
func LoadEnv(env string) {
	envFile := EnvFile(env)
	if _, err := os.Stat(envFile); err != nil {
		slog.Warn("[Config] No .env file found, using OS environment", slog.String("file", envFile))
		return
	}
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("[Config] Unable to parse .env file, using OS environment",
			slog.String("file", envFile),
			slog.String("error", err.Error()))
		return
	}
	slog.Info("[Config] Loaded environment file", slog.String("file", envFile))
}

func EnvFile(env string) string {
	if env == "" {
		env = "dev"
	}
	return filepath.Join(ENV_DIR, ".env."+env)
}

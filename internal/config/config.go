package config

import (
	"os"

	"gitaudit/internal/common"
)

// Default animation shown while an audit runs. Loading it is best-effort;
// the dashboard renders fine without it.
const DefaultAnimationURL = "https://assets9.lottiefiles.com/packages/lf20_w51pcehl.json"

// Config holds everything read from the environment. It is constructed once
// at process start and read-only afterwards.
type Config struct {
	// GitHubToken authenticates every repository-host call. Without it the
	// fetcher refuses to make any network call at all.
	GitHubToken string

	// GeminiAPIKey enables the AI assessment. Its absence is not fatal: the
	// audit runs without the AI-derived sections.
	GeminiAPIKey string

	ListenAddr   string
	AnimationURL string
}

// Load reads the configuration from environment variables. Credentials are
// detected, never defaulted: callers decide whether a missing one is fatal.
func Load() *Config {
	cfg := &Config{
		GitHubToken:  os.Getenv("GITHUB_TOKEN"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		ListenAddr:   os.Getenv("LISTEN_ADDR"),
		AnimationURL: os.Getenv("ANIMATION_URL"),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.AnimationURL == "" {
		cfg.AnimationURL = DefaultAnimationURL
	}

	return cfg
}

// RequireGitHubToken returns a coded error when the repository-host
// credential is missing.
func (c *Config) RequireGitHubToken() error {
	if c.GitHubToken == "" {
		return common.NewError(common.ErrCodeNoCredential, "GITHUB_TOKEN environment variable is not configured")
	}
	return nil
}

// HasGeminiKey reports whether the AI assessment can run at all.
func (c *Config) HasGeminiKey() bool {
	return c.GeminiAPIKey != ""
}

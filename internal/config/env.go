package config

import "os"

// applyEnv overlays TASKLY_* environment variables on the loaded config.
// Unset variables leave file values alone.
func applyEnv(cfg *Config) {
	if v := os.Getenv("TASKLY_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TASKLY_FIREBASE_PROJECT_ID"); v != "" {
		cfg.Firebase.ProjectID = v
	}
	if v := os.Getenv("TASKLY_FIREBASE_CREDENTIALS"); v != "" {
		cfg.Firebase.CredentialsFile = v
	}
	if v := os.Getenv("TASKLY_ALLOW_DUPLICATE_INVITES"); v != "" {
		cfg.Sharing.AllowDuplicateInvites = envBool(v)
	}
	if v := os.Getenv("TASKLY_OPENAI_API_KEY"); v != "" {
		cfg.Suggest.APIKey = v
	}
	if v := os.Getenv("TASKLY_OPENAI_BASE_URL"); v != "" {
		cfg.Suggest.BaseURL = v
	}
	if v := os.Getenv("TASKLY_OPENAI_MODEL"); v != "" {
		cfg.Suggest.Model = v
	}
}

func envBool(v string) bool {
	switch v {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

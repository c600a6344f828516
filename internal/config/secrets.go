package config

// RedactedConfig returns a copy of cfg with credentials replaced by "***",
// suitable for logging.
func RedactedConfig(cfg *Config) Config {
	out := *cfg

	redact(&out.Postgres.DSN)
	redact(&out.Postgres.Password)
	redact(&out.Redis.Password)
	redact(&out.S3.AccessKey)
	redact(&out.S3.SecretKey)

	if cfg.Desk.Books != nil {
		out.Desk.Books = append([]string(nil), cfg.Desk.Books...)
	}

	return out
}

const redacted = "***"

func redact(s *string) {
	if *s != "" {
		*s = redacted
	}
}

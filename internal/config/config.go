package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Auth
		Uploads
		Audit
		Tasks
		Maintenance
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}

	Database struct {
		Path string
	}

	Auth struct {
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS
		CSRFSecret      string

		// Login throttling
		MaxLoginAttempts int           // Max failed attempts before lockout
		RateLimitWindow  time.Duration // Time window for counting attempts
		LockoutDuration  time.Duration // How long to lock out
	}

	Uploads struct {
		Dir        string
		MaxBytes   int64
		PublicPath string // URL prefix the files are served under
	}

	Audit struct {
		RetentionDays int // Days to keep audit events
	}

	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}

	Maintenance struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", 5000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_path", "./kaamkrao.db")

	// Auth defaults. The session lifetime is fixed at issue time; there is
	// no sliding expiration.
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("auth_csrf_secret", "")
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_lockout_duration", "30m")

	// Upload defaults
	v.SetDefault("uploads_dir", "./uploads")
	v.SetDefault("uploads_max_bytes", 5<<20)
	v.SetDefault("uploads_public_path", "/uploads")

	// Audit defaults
	v.SetDefault("audit_retention_days", 30)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Maintenance defaults
	v.SetDefault("maintenance_enabled", true)
	v.SetDefault("maintenance_schedule", "0 3 * * *")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("port"),
			Host: v.GetString("host"),
		},
		Database: Database{
			Path: v.GetString("database_path"),
		},
		Auth: Auth{
			SessionLifetime:  v.GetDuration("auth_session_lifetime"),
			BcryptCost:       v.GetInt("auth_bcrypt_cost"),
			SecureCookies:    v.GetBool("auth_secure_cookies"),
			CSRFSecret:       v.GetString("auth_csrf_secret"),
			MaxLoginAttempts: v.GetInt("auth_max_login_attempts"),
			RateLimitWindow:  v.GetDuration("auth_rate_limit_window"),
			LockoutDuration:  v.GetDuration("auth_lockout_duration"),
		},
		Uploads: Uploads{
			Dir:        v.GetString("uploads_dir"),
			MaxBytes:   v.GetInt64("uploads_max_bytes"),
			PublicPath: v.GetString("uploads_public_path"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("audit_retention_days"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("tasks_enabled"),
			Workers:         v.GetInt("task_workers"),
			ReleaseAfter:    v.GetDuration("task_release_after"),
			CleanupInterval: v.GetDuration("task_cleanup_interval"),
		},
		Maintenance: Maintenance{
			Enabled:  v.GetBool("maintenance_enabled"),
			Schedule: v.GetString("maintenance_schedule"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("shutdown_timeout_in_seconds"),
		},
	}
}

package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// PaginationMode selects how the load-more endpoint turns a page number into a query window.
type PaginationMode string

const (
	// PaginationCumulative re-fetches the leading perPage*page books on every request.
	PaginationCumulative PaginationMode = "cumulative"
	// PaginationOffset fetches the perPage books of the requested page only.
	PaginationOffset PaginationMode = "offset"
)

// ParsePaginationMode reads a pagination mode case-insensitively.
// Empty input is the cumulative default.
func ParsePaginationMode(s string) (PaginationMode, error) {
	switch mode := PaginationMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return PaginationCumulative, nil
	case PaginationCumulative, PaginationOffset:
		return mode, nil
	default:
		return PaginationCumulative, fmt.Errorf("unknown pagination mode %q (want %q or %q)", s, PaginationCumulative, PaginationOffset)
	}
}

type (
	Config struct {
		HTTP
		Global
		Database
		UI
		Gallery
		Thumbnails
		Session
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	UI struct {
		TemplatesPath string // Empty uses the embedded templates
		StaticPath    string // Empty uses the embedded static assets
	}
	Gallery struct {
		PerPage    int
		Pagination PaginationMode
		PageBody   string // Content body of the front page, shortcodes expanded
	}
	Thumbnails struct {
		CacheDir      string
		PruneSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Session struct {
		Secret        string // Hex or raw; auto-generated if empty
		Lifetime      time.Duration
		SecureCookies bool // Set to false for local dev without HTTPS
		NonceLifetime time.Duration
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
)

// loadDotEnv reads a .env file into the process environment if one exists.
// Variables already set in the environment win.
func loadDotEnv() {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("WARNING: could not load %s: %v", path, err)
	}
}

func paginationMode(raw string) PaginationMode {
	mode, err := ParsePaginationMode(raw)
	if err != nil {
		log.Printf("WARNING: GALLERY_PAGINATION: %v, using %s", err, mode)
	}
	return mode
}

func NewConfig() *Config {
	loadDotEnv()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("templates_path", "")
	v.SetDefault("static_path", "")

	// Gallery defaults
	v.SetDefault("gallery_per_page", DefaultPerPage)
	v.SetDefault("gallery_pagination", string(PaginationCumulative))
	v.SetDefault("gallery_page_body", DefaultPageBody)

	// Thumbnail cache defaults
	v.SetDefault("thumbnail_cache_dir", "./thumbnails")
	v.SetDefault("thumbnail_prune_schedule", "0 3 * * *") // Daily at 03:00

	// Session defaults
	v.SetDefault("session_secret", "")      // Auto-generated if empty
	v.SetDefault("session_lifetime", "24h") // 24 hours
	v.SetDefault("secure_cookies", true)    // HTTPS-only cookies
	v.SetDefault("nonce_lifetime", "24h")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Gallery: Gallery{
			PerPage:    v.GetInt("GALLERY_PER_PAGE"),
			Pagination: PaginationMode(v.GetString("GALLERY_PAGINATION")),
			PageBody:   v.GetString("GALLERY_PAGE_BODY"),
		},
		Thumbnails: Thumbnails{
			CacheDir:      v.GetString("THUMBNAIL_CACHE_DIR"),
			PruneSchedule: v.GetString("THUMBNAIL_PRUNE_SCHEDULE"),
		},
		Session: Session{
			Secret:        v.GetString("SESSION_SECRET"),
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
			NonceLifetime: v.GetDuration("NONCE_LIFETIME"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
	}
}

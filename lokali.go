// Package lokali is an embeddable translation management core: browse,
// search, paginate, create, edit, delete, import and export a flat set of
// key -> {locale: text} records over a pluggable storage backend, or against
// a remote API.
package lokali

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"golang.org/x/text/language"

	csvexp "lokali/adapters/exporter/csv"
	jsonexp "lokali/adapters/exporter/localejson"
	expreg "lokali/adapters/exporter/registry"
	"lokali/adapters/localefiles"
	csvparser "lokali/adapters/parser/csv"
	jsonparser "lokali/adapters/parser/localejson"
	parreg "lokali/adapters/parser/registry"
	"lokali/adapters/storage/apiclient"
	"lokali/adapters/storage/memory"
	"lokali/adapters/storage/redisstore"
	"lokali/adapters/storage/sqlite"
	"lokali/ports"
	"lokali/usecase/translations"
)

// Backend selects the storage adapter.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
	BackendSQLite Backend = "sqlite"
)

// Permissions is the static capability set the host application passes in.
// It is carried for the host's display logic only; the core never enforces it.
type Permissions struct {
	Create bool
	Update bool
	Delete bool
	Import bool
	Export bool
}

// Config is supplied by the owning application as in-process parameters;
// nothing is read from the environment.
type Config struct {
	// Locales lists the supported locale codes; every code must be a valid
	// BCP 47 tag. Required.
	Locales []string

	// DefaultLocale must be one of Locales; defaults to the first.
	DefaultLocale string

	PageSize int

	Backend Backend

	// SQLitePath is the database file for BackendSQLite.
	SQLitePath string

	// Redis is the injected client for BackendRedis; its lifecycle belongs
	// to the caller. RedisPrefix namespaces the collection key.
	Redis       redis.UniversalClient
	RedisPrefix string

	// MessagesDir is the base path for per-locale JSON files
	// (<dir>/<locale>.json). Empty disables file export.
	MessagesDir string

	// AutoExport rewrites the locale files after every successful mutation.
	AutoExport bool

	Permissions Permissions

	Logger *slog.Logger
}

// ErrBadConfig wraps every configuration validation failure.
var ErrBadConfig = errors.New("lokali: bad config")

func (c *Config) validate() error {
	if len(c.Locales) == 0 {
		return fmt.Errorf("%w: at least one locale is required", ErrBadConfig)
	}
	for _, l := range c.Locales {
		if _, err := language.Parse(l); err != nil {
			return fmt.Errorf("%w: invalid locale %q: %v", ErrBadConfig, l, err)
		}
	}
	if c.DefaultLocale == "" {
		c.DefaultLocale = c.Locales[0]
	}
	found := false
	for _, l := range c.Locales {
		if l == c.DefaultLocale {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: default locale %q is not among the supported locales", ErrBadConfig, c.DefaultLocale)
	}
	switch c.Backend {
	case "", BackendMemory:
		c.Backend = BackendMemory
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite backend needs SQLitePath", ErrBadConfig)
		}
	case BackendRedis:
		if c.Redis == nil {
			return fmt.Errorf("%w: redis backend needs a client", ErrBadConfig)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrBadConfig, c.Backend)
	}
	return nil
}

// Manager is the assembled local-mode service plus the resources it owns.
type Manager struct {
	*translations.Service

	Permissions   Permissions
	DefaultLocale string

	db *sql.DB
}

// Close releases backend resources owned by the manager (the sqlite handle).
// Injected clients are left to their owners.
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// New wires the configured storage backend, the JSON/CSV codecs and the
// locale-files collaborator into a ready service.
func New(cfg Config) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	m := &Manager{Permissions: cfg.Permissions, DefaultLocale: cfg.DefaultLocale}

	var store ports.Storage
	switch cfg.Backend {
	case BackendMemory:
		store = memory.New()
	case BackendRedis:
		store = redisstore.New(cfg.Redis, cfg.RedisPrefix)
	case BackendSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		m.db = db
		store = sqlite.New(db)
	}

	parsers := parreg.New()
	parsers.Register(jsonparser.New(cfg.Locales))
	parsers.Register(csvparser.New(cfg.Locales))

	exporters := expreg.New()
	exporters.Register(jsonexp.New(cfg.Locales))
	exporters.Register(csvexp.New(cfg.Locales))

	var files ports.LocaleFiles
	if cfg.MessagesDir != "" {
		files = localefiles.New(cfg.MessagesDir, cfg.Locales)
	}

	m.Service = translations.New(translations.Deps{
		Storage:    store,
		Parsers:    parsers,
		Exporters:  exporters,
		Files:      files,
		Locales:    cfg.Locales,
		PageSize:   cfg.PageSize,
		AutoExport: cfg.AutoExport,
		Logger:     cfg.Logger,
	})
	return m, nil
}

// NewRemote returns the API-backed client for the given endpoint, e.g.
// "https://example.com/api/translations".
func NewRemote(endpoint string) (*apiclient.Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("%w: remote mode needs an endpoint", ErrBadConfig)
	}
	return apiclient.New(endpoint), nil
}

package postgres

import (
	"context"
	"embed"
	"fmt"
	"net"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

type DB struct {
	Host     string `yaml:"host" envconfig:"DB_HOST" default:"localhost"`
	Port     string `yaml:"port" envconfig:"DB_PORT" default:"5432"`
	Username string `yaml:"user" envconfig:"DB_USER" default:"postgres"`
	Password string `yaml:"password" envconfig:"DB_PASSWORD" json:"-"`
	NameDB   string `yaml:"dbname" envconfig:"DB_NAME" default:"library"`
	SSLMode  string `yaml:"sslmode" envconfig:"DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"8"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
}

func (cfg *DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, cfg.Port),
		Path:     cfg.NameDB,
		RawQuery: "sslmode=" + cfg.SSLMode,
	}
	return u.String()
}

// NewPostgresDB connects and applies every pending migration from migrations.
func NewPostgresDB(ctx context.Context, cfg *DB, migrations embed.FS) (*sqlx.DB, error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db, migrations, "up"); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func Connect(ctx context.Context, cfg *DB) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "sqlx.Connect")
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// Migrate runs a goose command ("up", "down" or "status") over the embedded files.
func Migrate(db *sqlx.DB, migrations embed.FS, command string) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	switch command {
	case "up":
		err := goose.Up(db.DB, ".")
		return errors.Wrap(err, "goose up")
	case "down":
		err := goose.Down(db.DB, ".")
		return errors.Wrap(err, "goose down")
	case "status":
		err := goose.Status(db.DB, ".")
		return errors.Wrap(err, "goose status")
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
}

// Package pgutil opens Postgres connections configured by PG_* environment
// variables.
package pgutil

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

type Params struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ParamsFromEnv reads PG_HOST, PG_PORT, PG_USER, PG_PASS, PG_DB_NAME and
// PG_SSL_MODE, defaulting to a local, passwordless `postgres` database.
func ParamsFromEnv() Params {
	return Params{
		Host:     getEnv("PG_HOST", "localhost"),
		Port:     getEnv("PG_PORT", "5432"),
		User:     getEnv("PG_USER", "postgres"),
		Password: getEnv("PG_PASS", ""),
		DBName:   getEnv("PG_DB_NAME", "postgres"),
		SSLMode:  getEnv("PG_SSL_MODE", "disable"),
	}
}

func (p *Params) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host,
		p.Port,
		p.User,
		p.Password,
		p.DBName,
		p.SSLMode,
	)
}

func Open(p *Params) (*sql.DB, error) {
	db, err := sql.Open("postgres", p.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening postgres database: %w", err)
	}
	return db, nil
}

func OpenPing(p *Params) (*sql.DB, error) {
	db, err := Open(p)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres database: %w", err)
	}
	return db, nil
}

func OpenEnvPing() (*sql.DB, error) {
	p := ParamsFromEnv()
	return OpenPing(&p)
}

func getEnv(env, def string) string {
	x := os.Getenv(env)
	if x == "" {
		return def
	}
	return x
}

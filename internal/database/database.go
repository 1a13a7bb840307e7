// Package database provisions one MySQL test database per partition so that
// partitions running in parallel never share state.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"ptsplit/internal/config"
	"ptsplit/internal/logging"
)

var validDatabaseName = regexp.MustCompile(`^[A-Za-z0-9_$]{1,64}$`)

// Manager manages per-partition test databases
type Manager struct {
	config *config.Config
	open   func(dsn string) (*sql.DB, error)
}

// NewManager creates a new Manager
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config: cfg,
		open: func(dsn string) (*sql.DB, error) {
			return sql.Open("mysql", dsn)
		},
	}
}

// LoadEnv loads the project's .env file into the process environment.
// A missing file is not an error; variables already set win.
func LoadEnv(projectPath string) {
	envPath := filepath.Join(projectPath, ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		logging.Warn("database", "Could not load %s: %v", envPath, err)
	}
}

// ServerDSN builds the DSN of the MySQL server (without a database) from
// DB_HOST, DB_PORT, DB_USERNAME and DB_PASSWORD.
func ServerDSN() string {
	dbHost := getenv("DB_HOST", "127.0.0.1")
	dbPort := getenv("DB_PORT", "3306")
	dbUser := getenv("DB_USERNAME", "root")
	dbPassword := os.Getenv("DB_PASSWORD")
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/", dbUser, dbPassword, dbHost, dbPort)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnsureDatabases creates the databases of partitions 1..count that do not
// exist yet and returns their names in partition order.
func (m *Manager) EnsureDatabases(count int) ([]string, error) {
	LoadEnv(m.config.ProjectPath)

	names := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		name := m.config.GetDatabaseName(i)
		if !IsValidName(name) {
			return nil, fmt.Errorf("invalid database name: %s", name)
		}
		names = append(names, name)
	}
	if count == 0 {
		return names, nil
	}

	db, err := m.open(ServerDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database server: %w", err)
	}

	var created int
	for _, name := range names {
		exists, err := databaseExists(db, name)
		if err != nil {
			return nil, fmt.Errorf("failed to check database %s: %w", name, err)
		}
		if exists {
			continue
		}
		if _, err := db.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name)); err != nil {
			return nil, fmt.Errorf("failed to create database %s: %w", name, err)
		}
		created++
	}
	logging.Info("database", "%d partition database(s) ready, %d created", len(names), created)
	return names, nil
}

// databaseExists checks if a database exists
func databaseExists(db *sql.DB, name string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRow(query, name).Scan(&exists)
	return exists, err
}

// IsValidName reports whether name is safe to interpolate as an identifier
func IsValidName(name string) bool {
	return validDatabaseName.MatchString(name)
}

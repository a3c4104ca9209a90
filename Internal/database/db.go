package datafeed

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

var DB *sql.DB

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func InitDatabase() error {
	config := DatabaseConfig{
		Host:     getEnvOrDefault("DB_HOST", "localhost"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: os.Getenv("DB_PASSWORD"), // Required - no default
		DBName:   getEnvOrDefault("DB_NAME", "orbwatch"),
		SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err = initializeSchema(); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

func initializeSchema() error {
	schemaSQL := `
	CREATE TABLE IF NOT EXISTS scan_log (
		id SERIAL PRIMARY KEY,
		scanned_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		symbols_scanned INTEGER NOT NULL,
		setups_found INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS setups (
		id SERIAL PRIMARY KEY,
		symbol TEXT NOT NULL,
		score REAL NOT NULL,
		direction TEXT NOT NULL,
		has_breakout BOOLEAN NOT NULL,
		vwap_confirmed BOOLEAN NOT NULL,
		volume_confirmed BOOLEAN NOT NULL,
		orb_high TEXT NOT NULL,
		orb_low TEXT NOT NULL,
		current_price TEXT NOT NULL,
		vwap TEXT,
		volume_ratio REAL,
		bar_count INTEGER,
		recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_setups_symbol ON setups(symbol);
	CREATE INDEX IF NOT EXISTS idx_setups_recorded_at ON setups(recorded_at);
	`

	_, err := DB.Exec(schemaSQL)
	return err
}

func CloseDatabase() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func HealthCheck() error {
	if DB == nil {
		return fmt.Errorf("database connection is nil")
	}
	return DB.Ping()
}

package database

import (
	"fmt"

	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/config"
)

// Config holds database connection settings.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewConfig derives the database settings from the application configuration.
func NewConfig(app *config.Config) *Config {
	return &Config{
		Host:     app.DBHost,
		Port:     app.DBPort,
		User:     app.DBUser,
		Password: app.DBPassword,
		DBName:   app.DBName,
		SSLMode:  app.DBSSLMode,
	}
}

// DSN returns the PostgreSQL connection string used by gorm.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the postgres:// form expected by golang-migrate.
func (c *Config) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

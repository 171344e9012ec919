// Package config loads server configuration from the environment.
//
// Each binary has its own settings struct and loader. A .env file in the
// working directory is merged in first when present, so local setups do not
// need to export anything.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Error reports a missing or malformed environment variable.
type Error struct {
	Var    string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s %s", e.Var, e.Reason)
}

func missing(name string) error {
	return &Error{Var: name, Reason: "environment variable is required"}
}

// LoadDotenv merges a .env file from the working directory into the
// environment if one exists. Variables already set take precedence.
func LoadDotenv() {
	_ = godotenv.Load()
}

// OCP holds the connection settings for an OCP deployment.
type OCP struct {
	// URL is the base address of the OCP API, e.g. "http://1.2.3.4:8080".
	URL string
	// AccessKeyID identifies the OCP access key used for request signing.
	AccessKeyID string
	// AccessKeySecret is the HMAC secret paired with AccessKeyID.
	AccessKeySecret string
}

// LoadOCP reads OCP settings from OCP_URL, OCP_ACCESS_KEY_ID and
// OCP_ACCESS_KEY_SECRET. All three are required.
func LoadOCP() (*OCP, error) {
	cfg := &OCP{
		URL:             os.Getenv("OCP_URL"),
		AccessKeyID:     os.Getenv("OCP_ACCESS_KEY_ID"),
		AccessKeySecret: os.Getenv("OCP_ACCESS_KEY_SECRET"),
	}
	if cfg.URL == "" {
		return nil, missing("OCP_URL")
	}
	if cfg.AccessKeyID == "" {
		return nil, missing("OCP_ACCESS_KEY_ID")
	}
	if cfg.AccessKeySecret == "" {
		return nil, missing("OCP_ACCESS_KEY_SECRET")
	}
	return cfg, nil
}

// SeekDB holds the connection settings for a seekdb instance, which speaks
// the MySQL wire protocol.
type SeekDB struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// DSN returns the go-sql-driver/mysql data source name.
func (c *SeekDB) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&interpolateParams=true",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// LoadSeekDB reads seekdb settings from SEEKDB_HOST, SEEKDB_PORT,
// SEEKDB_USER, SEEKDB_PASSWORD and SEEKDB_DATABASE. Host, user and database
// are required; port defaults to 2881 and the password may be empty.
func LoadSeekDB() (*SeekDB, error) {
	cfg := &SeekDB{
		Host:     os.Getenv("SEEKDB_HOST"),
		Port:     2881,
		User:     os.Getenv("SEEKDB_USER"),
		Password: os.Getenv("SEEKDB_PASSWORD"),
		Database: os.Getenv("SEEKDB_DATABASE"),
	}
	if cfg.Host == "" {
		return nil, missing("SEEKDB_HOST")
	}
	if cfg.User == "" {
		return nil, missing("SEEKDB_USER")
	}
	if cfg.Database == "" {
		return nil, missing("SEEKDB_DATABASE")
	}
	if raw := os.Getenv("SEEKDB_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return nil, &Error{Var: "SEEKDB_PORT", Reason: fmt.Sprintf("is not a valid port: %q", raw)}
		}
		cfg.Port = port
	}
	return cfg, nil
}

// PowerMem holds the settings for the local memory store.
type PowerMem struct {
	// DBPath is the SQLite database file backing the store.
	DBPath string
}

// LoadPowerMem reads POWERMEM_DB_PATH, defaulting to "powermem.db" in the
// working directory.
func LoadPowerMem() (*PowerMem, error) {
	cfg := &PowerMem{DBPath: os.Getenv("POWERMEM_DB_PATH")}
	if cfg.DBPath == "" {
		cfg.DBPath = "powermem.db"
	}
	return cfg, nil
}

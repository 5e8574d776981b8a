package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"sigs.k8s.io/yaml"
)

// Config agrega todas as configurações do console.
type Config struct {
	APIURL            string        `json:"apiUrl"`
	Timeout           time.Duration `json:"-"`
	TimeoutSeconds    int           `json:"timeoutSeconds"`
	StateDir          string        `json:"stateDir"`
	Storage           string        `json:"storage"` // file, sqlite, postgres
	SessionPassphrase string        `json:"sessionPassphrase"`
	ListenAddr        string        `json:"listen"`
	LogLevel          string        `json:"logLevel"`
	LogFormat         string        `json:"logFormat"`
	DBHost            string        `json:"dbHost"`
	DBPort            string        `json:"dbPort"`
	DBUser            string        `json:"dbUser"`
	DBPassword        string        `json:"dbPassword"`
	DBName            string        `json:"dbName"`
}

// LoadEnv tenta carregar variáveis de ambiente de um arquivo .env (modo dev).
func LoadEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}

// New cria a Config: defaults, depois o arquivo YAML (CONSOLE_CONFIG) e por fim as env vars.
func New() (*Config, error) {
	cfg := defaults()
	if path := os.Getenv("CONSOLE_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	return cfg, nil
}

func defaults() *Config {
	stateDir := ".tenant-console"
	if home, err := os.UserHomeDir(); err == nil {
		stateDir = filepath.Join(home, ".tenant-console")
	}
	return &Config{
		APIURL:         "http://localhost:8080/api",
		TimeoutSeconds: 20,
		StateDir:       stateDir,
		Storage:        "file",
		ListenAddr:     "127.0.0.1:3000",
		LogLevel:       "info",
		LogFormat:      "console",
		DBHost:         "localhost",
		DBPort:         "5432",
		DBUser:         "console",
		DBPassword:     "console",
		DBName:         "console",
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("erro ao ler arquivo de configuração: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("erro ao interpretar %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.APIURL = getEnv("CONSOLE_API_URL", c.APIURL)
	c.TimeoutSeconds = getEnvInt("CONSOLE_TIMEOUT_SECONDS", c.TimeoutSeconds)
	c.StateDir = getEnv("CONSOLE_STATE_DIR", c.StateDir)
	c.Storage = getEnv("CONSOLE_STORAGE", c.Storage)
	c.SessionPassphrase = getEnv("CONSOLE_SESSION_PASSPHRASE", c.SessionPassphrase)
	c.ListenAddr = getEnv("CONSOLE_LISTEN", c.ListenAddr)
	c.LogLevel = getEnv("CONSOLE_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("CONSOLE_LOG_FORMAT", c.LogFormat)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)
}

// SQLitePath é o arquivo usado quando Storage == "sqlite".
func (c *Config) SQLitePath() string {
	return filepath.Join(c.StateDir, "session.db")
}

// SessionFile é o arquivo usado quando Storage == "file".
func (c *Config) SessionFile() string {
	return filepath.Join(c.StateDir, "session.json")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var val int
		_, err := fmt.Sscanf(v, "%d", &val)
		if err == nil {
			return val
		}
	}
	return def
}

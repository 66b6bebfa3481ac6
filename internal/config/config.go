package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config armazena as configurações da aplicação
type Config struct {
	Port         string
	GinMode      string
	TokenAPI     string
	LogLevel     string
	LogJSON      bool
	Timezone     string
	CalendarPath string

	// Limiar de extrapolação da estimativa de esforço (%).
	ExtrapolationMin int

	// Limite de relatórios por minuto por cliente.
	ReportsPerMinute int

	// Usuário e hash bcrypt para o painel de histórico.
	DashboardUser string
	DashboardHash string

	// Banco de dados (histórico de relatórios). Opcional: sem DB_HOST o
	// serviço roda sem persistência.
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
}

// ErrMissingToken indica que o token da API não foi configurado
var ErrMissingToken = errors.New("TOKEN_API não configurado")

// Load carrega as configurações do ambiente
func Load() (*Config, error) {
	// Tenta carregar .env de múltiplos locais
	_ = godotenv.Load()          // ./backend/.env
	_ = godotenv.Load("../.env") // ./.env (raiz do projeto)

	cfg := &Config{
		Port:             os.Getenv("PORT"),
		GinMode:          os.Getenv("GIN_MODE"),
		TokenAPI:         os.Getenv("TOKEN_API"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		LogJSON:          os.Getenv("LOG_JSON") == "true",
		Timezone:         os.Getenv("TIMEZONE"),
		CalendarPath:     os.Getenv("CALENDAR_PATH"),
		ExtrapolationMin: envInt("EXTRAPOLATION_MIN", 30),
		ReportsPerMinute: envInt("REPORTS_PER_MINUTE", 10),
		DashboardUser:    os.Getenv("DASHBOARD_USER"),
		DashboardHash:    os.Getenv("DASHBOARD_PASSWORD_HASH"),
		DBHost:           os.Getenv("DB_HOST"),
		DBPort:           os.Getenv("DB_PORT"),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           os.Getenv("DB_NAME"),
		DBSSLMode:        os.Getenv("DB_SSLMODE"),
	}

	if cfg.TokenAPI == "" {
		return nil, ErrMissingToken
	}

	// Defaults
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.GinMode == "" {
		cfg.GinMode = "debug"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "America/Sao_Paulo"
	}
	if cfg.CalendarPath == "" {
		cfg.CalendarPath = "calendario.yml"
	}
	if cfg.DBPort == "" {
		cfg.DBPort = "5432"
	}
	if cfg.DBSSLMode == "" {
		cfg.DBSSLMode = "disable"
	}

	if cfg.ExtrapolationMin < 1 || cfg.ExtrapolationMin > 100 {
		return nil, errors.New("EXTRAPOLATION_MIN deve estar entre 1 e 100")
	}

	return cfg, nil
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

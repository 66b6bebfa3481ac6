package main

import (
	"context"
	"database/sql"
	stdlog "log"
	"os"
	"time"

	"github.com/cleberrangel/progresso-api/internal/calendar"
	"github.com/cleberrangel/progresso-api/internal/config"
	"github.com/cleberrangel/progresso-api/internal/database"
	"github.com/cleberrangel/progresso-api/internal/handler"
	"github.com/cleberrangel/progresso-api/internal/logger"
	"github.com/cleberrangel/progresso-api/internal/middleware"
	"github.com/cleberrangel/progresso-api/internal/repository"
	"github.com/cleberrangel/progresso-api/internal/service"
	"github.com/cleberrangel/progresso-api/internal/task"
	"github.com/cleberrangel/progresso-api/internal/websocket"
	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

func main() {
	// Carrega configurações
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Erro ao carregar configurações: %v", err)
	}

	// Inicializa logger estruturado
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	log := logger.Global()
	log.Info().
		Str("version", Version).
		Str("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Bool("log_json", cfg.LogJSON).
		Msg("Progresso API iniciando")

	// Calendário de trabalho do período
	cal, err := calendar.Load(cfg.CalendarPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CalendarPath).Msg("Erro ao carregar calendário")
	}
	log.Info().
		Str("first", cal.First().String()).
		Str("last", cal.Last().String()).
		Str("timezone", cal.Location().String()).
		Msg("Calendário carregado")

	// Persistência opcional do histórico
	var db *sql.DB
	var historyRepo *repository.HistoryRepository
	var history service.History
	if cfg.DBHost != "" {
		db, err = database.Connect(database.Config{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Erro ao conectar no banco")
		}
		defer database.Close(db)

		historyRepo = repository.NewHistoryRepository(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := historyRepo.EnsureSchema(ctx); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("Erro ao preparar o schema do histórico")
		}
		cancel()
		history = historyRepo
	} else {
		log.Warn().Msg("DB_HOST ausente, rodando sem histórico de relatórios")
	}

	// Hub de notificações em tempo real
	hub := websocket.NewHub()
	go hub.Run()

	// Serviço de relatórios
	policy := task.Policy{
		ExtrapolationMin: cfg.ExtrapolationMin,
		Widen:            time.Second,
	}
	reportService := service.NewReportService(cal, policy, history, hub)

	reportHandler := handler.NewReportHandler(reportService, cal.Location())
	healthHandler := handler.NewHealthHandler(Version, db)

	// Configura modo do Gin
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(gin.Recovery())

	// Health check (público)
	r.GET("/health", healthHandler.Check)

	// Notificações em tempo real (público)
	r.GET("/ws", hub.Serve)

	// Grupo de rotas protegidas por token
	limiter := middleware.NewRateLimiter(cfg.ReportsPerMinute)
	api := r.Group("/api/v1")
	api.Use(middleware.BearerAuth(middleware.AuthConfig{
		TokenAPI: cfg.TokenAPI,
	}))
	{
		api.POST("/reports", limiter.Handle(), reportHandler.Generate)
	}

	// Histórico protegido por basic auth, disponível apenas com banco
	if historyRepo != nil && cfg.DashboardUser != "" && cfg.DashboardHash != "" {
		historyHandler := handler.NewHistoryHandler(historyRepo)
		dash := r.Group("/api/v1/history")
		dash.Use(middleware.BasicAuth(cfg.DashboardUser, cfg.DashboardHash))
		{
			dash.GET("", historyHandler.List)
			dash.GET("/:id", historyHandler.Get)
		}
	}

	// Inicia servidor
	log.Info().Str("port", cfg.Port).Msg("Servidor iniciando")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Erro ao iniciar servidor")
		os.Exit(1)
	}
}

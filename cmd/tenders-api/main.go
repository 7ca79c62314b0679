package main

import (
	"fmt"
	"os"

	"github.com/licitaperu/tenders-api/internal/auth"
	"github.com/licitaperu/tenders-api/internal/config"
	"github.com/licitaperu/tenders-api/internal/db"
	"github.com/licitaperu/tenders-api/internal/excel"
	httphandler "github.com/licitaperu/tenders-api/internal/http"
	"github.com/licitaperu/tenders-api/internal/http/middleware"
	"github.com/licitaperu/tenders-api/internal/logger"
	"github.com/licitaperu/tenders-api/internal/normalizer"
	"github.com/licitaperu/tenders-api/internal/pdf"
	"github.com/licitaperu/tenders-api/internal/repository"
	"github.com/licitaperu/tenders-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	norm := normalizer.New(normalizer.DefaultTable())

	tenderRepo := repository.NewTenderRepository(database)
	aggregateRepo := repository.NewAggregateRepository(database)
	suggestionRepo := repository.NewSuggestionRepository(database)

	tenderService := service.NewTenderService(tenderRepo, norm, cfg)
	aggregateService := service.NewAggregateService(aggregateRepo, norm)
	suggestionService := service.NewSuggestionService(suggestionRepo)
	exportService := service.NewExportService(tenderRepo, excel.NewGenerator(), pdf.NewGenerator())

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	authEnabled := cfg.Auth.AccessSecret != ""
	if !authEnabled {
		log.Warn().Msg("JWT_ACCESS_SECRET not set, write endpoints are unprotected")
	}

	handler := httphandler.NewHandler(tenderService, aggregateService, suggestionService, exportService, log)
	authMiddleware := middleware.Auth(tokenParser, authEnabled)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting tenders api")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

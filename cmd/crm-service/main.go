package main

import (
	"fmt"
	"os"

	"github.com/propline/crm-service/internal/auth"
	"github.com/propline/crm-service/internal/config"
	"github.com/propline/crm-service/internal/db"
	"github.com/propline/crm-service/internal/excel"
	httphandler "github.com/propline/crm-service/internal/http"
	"github.com/propline/crm-service/internal/http/middleware"
	"github.com/propline/crm-service/internal/logger"
	"github.com/propline/crm-service/internal/pdf"
	"github.com/propline/crm-service/internal/repository"
	"github.com/propline/crm-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg.DB.DSN, cfg.DB.MaxOpenConns, cfg.DB.MaxIdleConns, cfg.DB.ConnMaxLifetime, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	leadRepo := repository.NewLeadRepository(database)
	projectRepo := repository.NewProjectRepository(database)
	unitRepo := repository.NewUnitRepository(database)
	orgRepo := repository.NewOrganizationRepository(database)
	employeeRepo := repository.NewEmployeeRepository(database)

	excelGenerator := excel.NewGenerator()
	pdfGenerator, err := pdf.NewGenerator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}

	leadService := service.NewLeadService(leadRepo, projectRepo, excelGenerator, pdfGenerator, cfg, log)
	projectService := service.NewProjectService(projectRepo, cfg)
	unitService := service.NewUnitService(unitRepo, projectRepo)
	adminService := service.NewAdminService(orgRepo, employeeRepo)
	profileService := service.NewProfileService(employeeRepo)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(leadService, projectService, unitService, adminService, profileService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, log, cfg.Environment, cfg.HTTP.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting crm service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

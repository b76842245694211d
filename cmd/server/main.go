package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/blue-farid/DrugBox/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/blue-farid/DrugBox/internal/cache"
	"github.com/blue-farid/DrugBox/internal/config"
	"github.com/blue-farid/DrugBox/internal/db"
	"github.com/blue-farid/DrugBox/internal/handler"
	"github.com/blue-farid/DrugBox/internal/model"
	"github.com/blue-farid/DrugBox/internal/queue"
	"github.com/blue-farid/DrugBox/internal/repository"
	"github.com/blue-farid/DrugBox/internal/router"
	"github.com/blue-farid/DrugBox/internal/service"
)

// @title Drug Box API
// @version 1.0
// @description Backend for RFID and fingerprint based medication dispensing devices.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.EventLog{},
			&model.DosageSchedule{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.DosageSchedule{},
		&model.EventLog{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	scheduleRepo := repository.NewScheduleRepository(gormDB)
	eventLogRepo := repository.NewEventLogRepository(gormDB)

	// Dispense events go to the broker only when one is configured
	var publisher queue.Publisher
	if cfg.RabbitURL != "" {
		publisher = queue.NewPublisher(cfg.RabbitURL)
	}

	// Initialize services
	auditLogger := service.NewAuditLogger(eventLogRepo)
	enrollmentService := service.NewEnrollmentService(userRepo, auditLogger, cacheClient)
	dispenseService := service.NewDispenseService(userRepo, scheduleRepo, auditLogger, cacheClient, publisher)
	userService := service.NewUserService(userRepo, cacheClient)
	scheduleService := service.NewScheduleService(scheduleRepo, userRepo)
	eventLogService := service.NewEventLogService(eventLogRepo)

	// Initialize handlers
	deviceHandler := handler.NewDeviceHandler(enrollmentService, dispenseService)
	adminHandler := handler.NewAdminHandler(userService, scheduleService, eventLogService)

	// Register routes
	router.Register(e, cfg, cacheClient, deviceHandler, adminHandler)

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "localhost:" + cfg.ServerPort
	}
	log.Printf("Swagger documentation available at: http://%s/swagger/index.html", swaggerHost)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/blue-farid/DrugBox/internal/cache"
	"github.com/blue-farid/DrugBox/internal/config"
	"github.com/blue-farid/DrugBox/internal/handler"
	appmw "github.com/blue-farid/DrugBox/internal/middleware"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	cacheClient *cache.Client,
	deviceHandler *handler.DeviceHandler,
	adminHandler *handler.AdminHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	v1 := api.Group("/v1")

	// Device routes. The trailing slashes match what the firmware calls.
	device := v1.Group("", appmw.RateLimit(cfg.RateLimit, cacheClient))
	device.POST("/add-user/", deviceHandler.AddUser)
	device.POST("/handle-request/", deviceHandler.HandleRequest)

	// Admin routes
	admin := v1.Group("/admin")
	admin.POST("/schedules/", adminHandler.CreateSchedule)
	admin.POST("/schedules/:id/reset", adminHandler.ResetSchedule)
	admin.GET("/users/", adminHandler.ListUsers)
	admin.PATCH("/users/:id", adminHandler.RenameUser)
	admin.GET("/event-logs/", adminHandler.ListEventLogs)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

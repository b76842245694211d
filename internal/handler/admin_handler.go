package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/blue-farid/DrugBox/internal/errors"
	"github.com/blue-farid/DrugBox/internal/model"
	"github.com/blue-farid/DrugBox/internal/repository"
	"github.com/blue-farid/DrugBox/internal/service"
)

// AdminHandler handles the back-office endpoints used by caregivers.
type AdminHandler struct {
	users     service.UserService
	schedules service.ScheduleService
	eventLogs service.EventLogService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(users service.UserService, schedules service.ScheduleService, eventLogs service.EventLogService) *AdminHandler {
	return &AdminHandler{users: users, schedules: schedules, eventLogs: eventLogs}
}

// CreateScheduleRequest represents a schedule creation request.
type CreateScheduleRequest struct {
	UserID uint    `json:"user_id" validate:"required"`
	Date   string  `json:"date" validate:"required,datetime=2006-01-02"`
	Dosage float64 `json:"dosage" validate:"required,gt=0"`
}

// RenameUserRequest represents a user rename request.
type RenameUserRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// ScheduleResponse represents a dosage schedule.
type ScheduleResponse struct {
	ID       uint    `json:"id"`
	UserID   uint    `json:"user_id"`
	Date     string  `json:"date"`
	Dosage   float64 `json:"dosage"`
	Consumed bool    `json:"consumed"`
}

func toScheduleResponse(schedule *model.DosageSchedule) ScheduleResponse {
	return ScheduleResponse{
		ID:       schedule.ID,
		UserID:   schedule.UserID,
		Date:     schedule.Date.Format(model.DateLayout),
		Dosage:   schedule.Dosage.InexactFloat64(),
		Consumed: schedule.Consumed,
	}
}

// CreateSchedule godoc
// @Summary Create a dosage schedule for a user and date
// @Tags admin
// @Accept json
// @Produce json
// @Param request body CreateScheduleRequest true "Schedule data"
// @Success 201 {object} ScheduleResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /v1/admin/schedules/ [post]
func (h *AdminHandler) CreateSchedule(c echo.Context) error {
	var req CreateScheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	date, err := time.Parse(model.DateLayout, req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
	}

	schedule, err := h.schedules.CreateSchedule(
		c.Request().Context(),
		req.UserID,
		date,
		decimal.NewFromFloat(req.Dosage),
	)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}

	return c.JSON(http.StatusCreated, toScheduleResponse(schedule))
}

// ResetSchedule godoc
// @Summary Clear the consumed flag of a schedule
// @Tags admin
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} ScheduleResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /v1/admin/schedules/{id}/reset [post]
func (h *AdminHandler) ResetSchedule(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid schedule id")
	}

	schedule, err := h.schedules.ResetSchedule(c.Request().Context(), uint(id))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}

	return c.JSON(http.StatusOK, toScheduleResponse(schedule))
}

// ListUsers godoc
// @Summary List enrolled users
// @Tags admin
// @Produce json
// @Success 200 {array} model.User
// @Failure 500 {object} errors.ErrorResponse
// @Router /v1/admin/users/ [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}
	return c.JSON(http.StatusOK, users)
}

// RenameUser godoc
// @Summary Set the display name of an enrolled user
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body RenameUserRequest true "New name"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /v1/admin/users/{id} [patch]
func (h *AdminHandler) RenameUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req RenameUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.RenameUser(c.Request().Context(), uint(id), req.Name)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}
	return c.JSON(http.StatusOK, user)
}

// ListEventLogs godoc
// @Summary List audit trail entries
// @Tags admin
// @Produce json
// @Param event_type query string false "Filter by event type (ADD_USER or HANDLE_REQUEST)"
// @Param status query string false "Filter by status (Success or Failed)"
// @Param limit query int false "Maximum entries to return"
// @Success 200 {array} model.EventLog
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /v1/admin/event-logs/ [get]
func (h *AdminHandler) ListEventLogs(c echo.Context) error {
	filter := repository.EventLogFilter{
		EventType: c.QueryParam("event_type"),
		Status:    c.QueryParam("status"),
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		filter.Limit = limit
	}

	entries, err := h.eventLogs.ListEventLogs(c.Request().Context(), filter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}
	return c.JSON(http.StatusOK, entries)
}

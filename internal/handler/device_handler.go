package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blue-farid/DrugBox/internal/errors"
	"github.com/blue-farid/DrugBox/internal/service"
)

// DeviceHandler handles the endpoints called by dispensing devices.
type DeviceHandler struct {
	enrollment service.EnrollmentService
	dispense   service.DispenseService
}

// NewDeviceHandler creates a new device handler.
func NewDeviceHandler(enrollment service.EnrollmentService, dispense service.DispenseService) *DeviceHandler {
	return &DeviceHandler{enrollment: enrollment, dispense: dispense}
}

// AddUserRequest represents a device enrollment request.
type AddUserRequest struct {
	RFIDCode      string `json:"rfid_code"`
	FingerprintID int64  `json:"fingerprint_id"`
	Name          string `json:"name,omitempty"`
}

// AddUserResponse represents a successful enrollment response.
type AddUserResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DispenseRequest represents a dispense authorization request.
type DispenseRequest struct {
	RFIDCode      string `json:"rfid_code"`
	FingerprintID int64  `json:"fingerprint_id"`
	Timestamp     string `json:"timestamp"`
}

// DispenseResponse represents a granted dispense authorization.
type DispenseResponse struct {
	Status string  `json:"status"`
	Dosage float64 `json:"dosage"`
}

// AddUser godoc
// @Summary Enroll a user reported by a device
// @Tags device
// @Accept json
// @Produce json
// @Param request body AddUserRequest true "Enrollment data"
// @Success 201 {object} AddUserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /v1/add-user/ [post]
func (h *DeviceHandler) AddUser(c echo.Context) error {
	var req AddUserRequest
	// A bind failure is not returned here: the service audits and rejects
	// whatever fields are missing, keeping one event log entry per request.
	_ = c.Bind(&req)

	_, err := h.enrollment.EnrollUser(c.Request().Context(), req.RFIDCode, req.FingerprintID, req.Name)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}

	return c.JSON(http.StatusCreated, AddUserResponse{
		Status:  "success",
		Message: "User added successfully",
	})
}

// HandleRequest godoc
// @Summary Authorize a dosage dispense
// @Tags device
// @Accept json
// @Produce json
// @Param request body DispenseRequest true "Dispense request data"
// @Success 200 {object} DispenseResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /v1/handle-request/ [post]
func (h *DeviceHandler) HandleRequest(c echo.Context) error {
	var req DispenseRequest
	_ = c.Bind(&req)

	dosage, err := h.dispense.Authorize(c.Request().Context(), req.RFIDCode, req.FingerprintID, req.Timestamp)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}

	return c.JSON(http.StatusOK, DispenseResponse{
		Status: "success",
		Dosage: dosage.InexactFloat64(),
	})
}

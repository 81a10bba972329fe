package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/skill-eureka/backend/internal/repositories"
)

// AdminHandler reviews creator applications. Approval issues the single-use
// confirmation code that gates creator registration.
type AdminHandler struct {
	applicationRepository repositories.ApplicationRepository
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(appRepo repositories.ApplicationRepository) *AdminHandler {
	return &AdminHandler{applicationRepository: appRepo}
}

// RegisterAdminRoutes registers review routes. The group must be gated by
// AdminKeyMiddleware.
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/applications", h.ListApplications)
	g.POST("/applications/:id/approve", h.ApproveApplication)
	g.POST("/applications/:id/reject", h.RejectApplication)
}

// ListApplications returns applications, optionally filtered by status.
func (h *AdminHandler) ListApplications(c echo.Context) error {
	apps, err := h.applicationRepository.ListApplications(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return mapRepoError(err, "Applications not found")
	}
	return c.JSON(http.StatusOK, apps)
}

// ApproveApplication flips the application to approved and issues the
// confirmation code for the applicant's email.
func (h *AdminHandler) ApproveApplication(c echo.Context) error {
	appID, err := parseObjectID(c, "id")
	if err != nil {
		return err
	}

	code, err := newConfirmationCode()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate confirmation code")
	}

	app, err := h.applicationRepository.ApproveApplication(c.Request().Context(), appID, code)
	if err != nil {
		return mapRepoError(err, "Application not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"application": app, "confirmationCode": code})
}

// RejectApplication flips the application to rejected.
func (h *AdminHandler) RejectApplication(c echo.Context) error {
	appID, err := parseObjectID(c, "id")
	if err != nil {
		return err
	}

	app, err := h.applicationRepository.RejectApplication(c.Request().Context(), appID)
	if err != nil {
		return mapRepoError(err, "Application not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"application": app})
}

// newConfirmationCode returns an 8-character uppercase hex code.
func newConfirmationCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

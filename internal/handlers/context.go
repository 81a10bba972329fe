package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/skill-eureka/backend/internal/logger"
	"github.com/skill-eureka/backend/internal/models"
	"github.com/skill-eureka/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// getClaims extracts the principal claims stored by the auth middleware.
func getClaims(c echo.Context) *models.JwtCustomClaims {
	claims, _ := c.Get("principal").(*models.JwtCustomClaims)
	return claims
}

// getPrincipalID returns the authenticated principal's ObjectID, or an
// error suitable for returning from a handler.
func getPrincipalID(c echo.Context) (primitive.ObjectID, error) {
	claims := getClaims(c)
	if claims == nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	id, err := primitive.ObjectIDFromHex(claims.PrincipalID)
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "Invalid principal ID")
	}
	return id, nil
}

// parseObjectID parses a path parameter as an ObjectID.
func parseObjectID(c echo.Context, param string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+param)
	}
	return id, nil
}

// mapRepoError translates repository sentinels into the HTTP error
// taxonomy. Unexpected errors are logged for operators and surface as a
// generic 500 so driver internals never reach the response body.
func mapRepoError(err error, notFoundMessage string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, notFoundMessage)
	case errors.Is(err, repositories.ErrDuplicate):
		return echo.NewHTTPError(http.StatusConflict, "Username or email already in use")
	case errors.Is(err, repositories.ErrAlreadyFollowing):
		return echo.NewHTTPError(http.StatusConflict, "Already following this creator")
	case errors.Is(err, repositories.ErrCodeUsed):
		return echo.NewHTTPError(http.StatusConflict, "Confirmation code already used")
	case errors.Is(err, repositories.ErrCodeInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid confirmation code")
	case errors.Is(err, repositories.ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, "Not the owner of this resource")
	default:
		logger.L().Error("unexpected repository error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong")
	}
}

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/skill-eureka/backend/internal/models"
	"github.com/skill-eureka/backend/internal/realtime"
	"github.com/skill-eureka/backend/internal/repositories"
)

// FollowHandler handles follow/unfollow HTTP requests.
type FollowHandler struct {
	followRepository repositories.FollowRepository
	hub              *realtime.Hub
}

// NewFollowHandler creates a new FollowHandler. hub may be nil when no
// realtime channel is available.
func NewFollowHandler(followRepo repositories.FollowRepository, hub *realtime.Hub) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		hub:              hub,
	}
}

// RegisterFollowRoutes registers follow-related routes on the user group.
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/follow/:creatorId", h.FollowCreator)
	g.DELETE("/follow/:creatorId", h.UnfollowCreator)
}

// FollowCreator records the follow edge on both sides and the follow
// notification in one transaction, then pushes an ephemeral event to the
// creator's realtime channel best-effort.
func (h *FollowHandler) FollowCreator(c echo.Context) error {
	userID, err := getPrincipalID(c)
	if err != nil {
		return err
	}
	creatorID, err := parseObjectID(c, "creatorId")
	if err != nil {
		return err
	}

	notif, err := h.followRepository.Follow(c.Request().Context(), userID, creatorID)
	if err != nil {
		return mapRepoError(err, "User or creator not found")
	}

	if h.hub != nil {
		h.hub.Push(creatorID.Hex(), realtime.Event{
			Type:   models.NotificationTypeFollow,
			Sender: userID.Hex(),
			Data:   notif.Data,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

// UnfollowCreator removes the edge from both sides. Unfollowing a creator
// that was never followed is a no-op.
func (h *FollowHandler) UnfollowCreator(c echo.Context) error {
	userID, err := getPrincipalID(c)
	if err != nil {
		return err
	}
	creatorID, err := parseObjectID(c, "creatorId")
	if err != nil {
		return err
	}

	if err := h.followRepository.Unfollow(c.Request().Context(), userID, creatorID); err != nil {
		return mapRepoError(err, "User or creator not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/skill-eureka/backend/internal/models"
	"github.com/skill-eureka/backend/internal/repositories"
)

// CreatorHandler handles creator discovery and profile HTTP requests.
type CreatorHandler struct {
	creatorRepository repositories.CreatorRepository
	videoRepository   repositories.VideoRepository
}

// NewCreatorHandler creates a new CreatorHandler.
func NewCreatorHandler(creatorRepo repositories.CreatorRepository, videoRepo repositories.VideoRepository) *CreatorHandler {
	return &CreatorHandler{
		creatorRepository: creatorRepo,
		videoRepository:   videoRepo,
	}
}

// RegisterPublicRoutes registers unauthenticated discovery routes.
func (h *CreatorHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("", h.ListCreators)
	g.GET("/:id", h.GetCreator)
	g.GET("/:id/videos", h.GetCreatorVideos)
}

// RegisterProfileRoutes registers creator-role routes.
func (h *CreatorHandler) RegisterProfileRoutes(g *echo.Group) {
	g.PUT("/profile", h.UpdateProfile)
	g.GET("/profile", h.GetOwnProfile)
}

// ListCreators returns verified creators that have published at least one
// video, optionally filtered by a search term on name or bio.
func (h *CreatorHandler) ListCreators(c echo.Context) error {
	creators, err := h.creatorRepository.SearchVerified(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return mapRepoError(err, "Creators not found")
	}

	summaries := make([]models.CreatorSummary, 0, len(creators))
	for i := range creators {
		if len(creators[i].Videos) == 0 {
			continue
		}
		summaries = append(summaries, creators[i].Summary())
	}
	return c.JSON(http.StatusOK, summaries)
}

// GetCreator returns one creator's public profile, verified or not.
func (h *CreatorHandler) GetCreator(c echo.Context) error {
	creatorID, err := parseObjectID(c, "id")
	if err != nil {
		return err
	}

	creator, err := h.creatorRepository.GetCreatorByID(c.Request().Context(), creatorID)
	if err != nil {
		return mapRepoError(err, "Creator not found")
	}
	return c.JSON(http.StatusOK, creator.Summary())
}

// GetCreatorVideos returns the creator's videos, newest first.
func (h *CreatorHandler) GetCreatorVideos(c echo.Context) error {
	creatorID, err := parseObjectID(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.creatorRepository.GetCreatorByID(c.Request().Context(), creatorID); err != nil {
		return mapRepoError(err, "Creator not found")
	}
	videos, err := h.videoRepository.ListByCreator(c.Request().Context(), creatorID)
	if err != nil {
		return mapRepoError(err, "Videos not found")
	}
	return c.JSON(http.StatusOK, videos)
}

// GetOwnProfile returns the authenticated creator's full profile.
func (h *CreatorHandler) GetOwnProfile(c echo.Context) error {
	creatorID, err := getPrincipalID(c)
	if err != nil {
		return err
	}

	creator, err := h.creatorRepository.GetCreatorByID(c.Request().Context(), creatorID)
	if err != nil {
		return mapRepoError(err, "Creator not found")
	}
	return c.JSON(http.StatusOK, creator)
}

// UpdateProfile applies partial profile changes for the authenticated
// creator.
func (h *CreatorHandler) UpdateProfile(c echo.Context) error {
	creatorID, err := getPrincipalID(c)
	if err != nil {
		return err
	}

	var req models.UpdateCreatorProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	creator, err := h.creatorRepository.UpdateProfile(c.Request().Context(), creatorID, &req)
	if err != nil {
		return mapRepoError(err, "Creator not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Profile updated successfully", "creator": creator})
}

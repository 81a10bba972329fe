package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/skill-eureka/backend/internal/events"
	"github.com/skill-eureka/backend/internal/logger"
	"github.com/skill-eureka/backend/internal/models"
	"github.com/skill-eureka/backend/internal/repositories"
	"github.com/skill-eureka/backend/internal/storage"
)

// VideoHandler handles catalog and upload HTTP requests.
type VideoHandler struct {
	videoRepository   repositories.VideoRepository
	creatorRepository repositories.CreatorRepository
	store             *storage.LocalStore
	bus               *events.Bus
}

// NewVideoHandler creates a new VideoHandler. bus may be nil; uploads then
// skip fan-out.
func NewVideoHandler(videoRepo repositories.VideoRepository, creatorRepo repositories.CreatorRepository, store *storage.LocalStore, bus *events.Bus) *VideoHandler {
	return &VideoHandler{
		videoRepository:   videoRepo,
		creatorRepository: creatorRepo,
		store:             store,
		bus:               bus,
	}
}

// RegisterPublicRoutes registers the unauthenticated catalog route.
func (h *VideoHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("", h.ListVideos)
}

// RegisterCreatorRoutes registers creator-role routes.
func (h *VideoHandler) RegisterCreatorRoutes(g *echo.Group) {
	g.POST("/upload", h.UploadVideo)
	g.DELETE("/:id", h.DeleteVideo)
}

// ListVideos returns the catalog newest first, optionally filtered by
// category.
func (h *VideoHandler) ListVideos(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 24
	}

	videos, err := h.videoRepository.ListVideos(c.Request().Context(), c.QueryParam("category"), int64((page-1)*limit), int64(limit))
	if err != nil {
		return mapRepoError(err, "Videos not found")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"videos": videos,
		"meta":   echo.Map{"currentPage": page, "itemsPerPage": limit},
	})
}

// UploadVideo accepts a multipart request with video and thumbnail files
// plus title/category/description fields. Both files and both required
// fields must be present. On success the video record is persisted and a
// fan-out event is published best-effort.
func (h *VideoHandler) UploadVideo(c echo.Context) error {
	creatorID, err := getPrincipalID(c)
	if err != nil {
		return err
	}

	var req models.UploadVideoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	videoFile, err := c.FormFile("video")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Video file is required")
	}
	thumbnailFile, err := c.FormFile("thumbnail")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Thumbnail file is required")
	}

	creator, err := h.creatorRepository.GetCreatorByID(c.Request().Context(), creatorID)
	if err != nil {
		return mapRepoError(err, "Creator not found")
	}

	videoURL, thumbnailURL, err := h.storeFiles(videoFile, thumbnailFile)
	if err != nil {
		logger.L().Error("store upload", "creator_id", creatorID.Hex(), "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store upload")
	}

	video := &models.Video{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		VideoURL:    videoURL,
		Thumbnail:   thumbnailURL,
		CreatorID:   creatorID,
	}
	if err := h.videoRepository.CreateVideo(c.Request().Context(), video); err != nil {
		h.removeFiles(videoURL, thumbnailURL)
		return mapRepoError(err, "Creator not found")
	}

	if h.bus != nil {
		event := events.VideoPublished{
			VideoID:     video.ID.Hex(),
			Title:       video.Title,
			CreatorID:   creatorID.Hex(),
			CreatorName: creator.Name,
		}
		if err := h.bus.PublishVideoPublished(event); err != nil {
			logger.L().Error("publish video event", "video_id", video.ID.Hex(), "error", err)
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Video uploaded", "video": video})
}

// DeleteVideo removes an owned video and its media files. Only the owning
// creator may delete.
func (h *VideoHandler) DeleteVideo(c echo.Context) error {
	creatorID, err := getPrincipalID(c)
	if err != nil {
		return err
	}
	videoID, err := parseObjectID(c, "id")
	if err != nil {
		return err
	}

	video, err := h.videoRepository.DeleteVideo(c.Request().Context(), videoID, creatorID)
	if err != nil {
		return mapRepoError(err, "Video not found")
	}

	h.removeFiles(video.VideoURL, video.Thumbnail)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (h *VideoHandler) storeFiles(videoFile, thumbnailFile *multipart.FileHeader) (string, string, error) {
	videoURL, err := h.store.Save(videoFile)
	if err != nil {
		return "", "", err
	}
	thumbnailURL, err := h.store.Save(thumbnailFile)
	if err != nil {
		h.removeFiles(videoURL)
		return "", "", err
	}
	return videoURL, thumbnailURL, nil
}

// removeFiles is best-effort cleanup.
func (h *VideoHandler) removeFiles(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := h.store.Remove(path); err != nil {
			logger.L().Error("remove stored file", "path", path, "error", err)
		}
	}
}

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/skill-eureka/backend/internal/logger"
	"github.com/skill-eureka/backend/internal/models"
	"github.com/skill-eureka/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler handles profile and engagement-set HTTP requests.
type UserHandler struct {
	userRepository  repositories.UserRepository
	videoRepository repositories.VideoRepository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo repositories.UserRepository, videoRepo repositories.VideoRepository) *UserHandler {
	return &UserHandler{
		userRepository:  userRepo,
		videoRepository: videoRepo,
	}
}

// RegisterUserRoutes registers profile and engagement routes. The group is
// gated to the user role.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.POST("/like/:videoId", h.LikeVideo)
	g.DELETE("/like/:videoId", h.UnlikeVideo)
	g.POST("/save/:videoId", h.SaveVideo)
	g.DELETE("/save/:videoId", h.UnsaveVideo)
	g.POST("/watch-later/:videoId", h.AddWatchLater)
	g.DELETE("/watch-later/:videoId", h.RemoveWatchLater)
	g.POST("/history/:videoId", h.RecordWatch)
}

// GetProfile returns the authenticated user's profile.
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := getPrincipalID(c)
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return mapRepoError(err, "User not found")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile applies partial profile changes.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := getPrincipalID(c)
	if err != nil {
		return err
	}

	var req models.UpdateUserProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.UpdateProfile(c.Request().Context(), userID, &req)
	if err != nil {
		return mapRepoError(err, "User not found")
	}
	return c.JSON(http.StatusOK, user)
}

// engage resolves the video, applies the set mutation and keeps the
// video's derived counter in step. Adding twice is a no-op, not an error.
func (h *UserHandler) engage(c echo.Context,
	mutate func(ctx echo.Context, userID, videoID primitive.ObjectID) (bool, error),
	counter func(ctx echo.Context, videoID primitive.ObjectID, changed bool),
) error {
	userID, err := getPrincipalID(c)
	if err != nil {
		return err
	}
	videoID, err := parseObjectID(c, "videoId")
	if err != nil {
		return err
	}

	if _, err := h.videoRepository.GetVideoByID(c.Request().Context(), videoID); err != nil {
		return mapRepoError(err, "Video not found")
	}

	changed, err := mutate(c, userID, videoID)
	if err != nil {
		return mapRepoError(err, "User not found")
	}
	if counter != nil {
		counter(c, videoID, changed)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// adjustCounter is best-effort: a failed counter update is logged, never
// surfaced.
func (h *UserHandler) adjustCounter(c echo.Context, videoID primitive.ObjectID, changed bool, delta int, kind string) {
	if !changed {
		return
	}
	var err error
	switch kind {
	case "likes":
		err = h.videoRepository.AdjustLikes(c.Request().Context(), videoID, delta)
	case "saves":
		err = h.videoRepository.AdjustSaves(c.Request().Context(), videoID, delta)
	}
	if err != nil {
		logger.L().Error("adjust video counter", "video_id", videoID.Hex(), "kind", kind, "error", err)
	}
}

func (h *UserHandler) LikeVideo(c echo.Context) error {
	return h.engage(c,
		func(c echo.Context, userID, videoID primitive.ObjectID) (bool, error) {
			return h.userRepository.AddLikedVideo(c.Request().Context(), userID, videoID)
		},
		func(c echo.Context, videoID primitive.ObjectID, changed bool) {
			h.adjustCounter(c, videoID, changed, 1, "likes")
		})
}

func (h *UserHandler) UnlikeVideo(c echo.Context) error {
	return h.engage(c,
		func(c echo.Context, userID, videoID primitive.ObjectID) (bool, error) {
			return h.userRepository.RemoveLikedVideo(c.Request().Context(), userID, videoID)
		},
		func(c echo.Context, videoID primitive.ObjectID, changed bool) {
			h.adjustCounter(c, videoID, changed, -1, "likes")
		})
}

func (h *UserHandler) SaveVideo(c echo.Context) error {
	return h.engage(c,
		func(c echo.Context, userID, videoID primitive.ObjectID) (bool, error) {
			return h.userRepository.AddSavedVideo(c.Request().Context(), userID, videoID)
		},
		func(c echo.Context, videoID primitive.ObjectID, changed bool) {
			h.adjustCounter(c, videoID, changed, 1, "saves")
		})
}

func (h *UserHandler) UnsaveVideo(c echo.Context) error {
	return h.engage(c,
		func(c echo.Context, userID, videoID primitive.ObjectID) (bool, error) {
			return h.userRepository.RemoveSavedVideo(c.Request().Context(), userID, videoID)
		},
		func(c echo.Context, videoID primitive.ObjectID, changed bool) {
			h.adjustCounter(c, videoID, changed, -1, "saves")
		})
}

func (h *UserHandler) AddWatchLater(c echo.Context) error {
	return h.engage(c,
		func(c echo.Context, userID, videoID primitive.ObjectID) (bool, error) {
			return h.userRepository.AddWatchLaterVideo(c.Request().Context(), userID, videoID)
		}, nil)
}

func (h *UserHandler) RemoveWatchLater(c echo.Context) error {
	return h.engage(c,
		func(c echo.Context, userID, videoID primitive.ObjectID) (bool, error) {
			return h.userRepository.RemoveWatchLaterVideo(c.Request().Context(), userID, videoID)
		}, nil)
}

// RecordWatch appends a history entry and bumps the view counter.
func (h *UserHandler) RecordWatch(c echo.Context) error {
	userID, err := getPrincipalID(c)
	if err != nil {
		return err
	}
	videoID, err := parseObjectID(c, "videoId")
	if err != nil {
		return err
	}

	if _, err := h.videoRepository.GetVideoByID(c.Request().Context(), videoID); err != nil {
		return mapRepoError(err, "Video not found")
	}
	if err := h.userRepository.AppendHistory(c.Request().Context(), userID, videoID); err != nil {
		return mapRepoError(err, "User not found")
	}
	if err := h.videoRepository.IncrementViews(c.Request().Context(), videoID); err != nil {
		logger.L().Error("increment views", "video_id", videoID.Hex(), "error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

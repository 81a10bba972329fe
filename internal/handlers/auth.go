package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/skill-eureka/backend/internal/models"
	"github.com/skill-eureka/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles registration, login and the creator application flow.
type AuthHandler struct {
	userRepository        repositories.UserRepository
	creatorRepository     repositories.CreatorRepository
	applicationRepository repositories.ApplicationRepository
	jwtSecret             string
	tokenTTL              time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userRepo repositories.UserRepository, creatorRepo repositories.CreatorRepository, appRepo repositories.ApplicationRepository, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		userRepository:        userRepo,
		creatorRepository:     creatorRepo,
		applicationRepository: appRepo,
		jwtSecret:             jwtSecret,
		tokenTTL:              tokenTTL,
	}
}

// RegisterAuthRoutes registers authentication-related routes.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register/user", h.RegisterUser)
	g.POST("/login/user", h.LoginUser)
	g.POST("/forgot-password", h.ForgotPassword)
	g.POST("/register/creator", h.RegisterCreator)
	g.POST("/login/creator", h.LoginCreator)
	g.POST("/forgot-password/creator", h.ForgotPassword)
	g.POST("/apply/creator", h.ApplyCreator)
	g.POST("/verify/creator", h.VerifyCreator)
}

// RegisterUser handles viewer registration with email and password.
func (h *AuthHandler) RegisterUser(c echo.Context) error {
	var req models.RegisterUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := models.NewUser(req.Username, req.Email, string(hashedPassword), req.Name)
	if err := h.userRepository.CreateUser(c.Request().Context(), user); err != nil {
		return mapRepoError(err, "User not found")
	}

	token, err := h.generateJWT(user.ID.Hex(), models.RoleUser)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(http.StatusCreated, echo.Map{"token": token, "user": user})
}

// LoginUser authenticates a viewer. Unknown email and wrong password get
// the same answer so accounts cannot be enumerated.
func (h *AuthHandler) LoginUser(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), normalizeEmail(req.Email))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.generateJWT(user.ID.Hex(), models.RoleUser)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user})
}

// LoginCreator authenticates a creator.
func (h *AuthHandler) LoginCreator(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	creator, err := h.creatorRepository.GetCreatorByEmail(c.Request().Context(), normalizeEmail(req.Email))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creator.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.generateJWT(creator.ID.Hex(), models.RoleCreator)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token, "creator": creator})
}

// ForgotPassword always answers the same way regardless of whether the
// email exists.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req models.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "If this email exists, a reset link has been sent."})
}

// ApplyCreator records a pending creator application.
func (h *AuthHandler) ApplyCreator(c echo.Context) error {
	var req models.ApplyCreatorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	app := models.NewCreatorApplication(req.Name, req.Email, req.YoutubeChannel, req.Bio, req.Reason)
	if err := h.applicationRepository.CreateApplication(c.Request().Context(), app); err != nil {
		if err == repositories.ErrDuplicate {
			return echo.NewHTTPError(http.StatusConflict, "Application already exists for this email")
		}
		return mapRepoError(err, "Application not found")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":     "Application received. Our team will review and contact you.",
		"application": app,
	})
}

// VerifyCreator checks a confirmation code without consuming it, so the
// client can validate before submitting full registration details.
func (h *AuthHandler) VerifyCreator(c echo.Context) error {
	var req models.VerifyCreatorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.applicationRepository.VerifyCode(c.Request().Context(), normalizeEmail(req.Email), req.Code); err != nil {
		return mapRepoError(err, "Confirmation code not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"valid": true})
}

// RegisterCreator completes creator registration by consuming the
// confirmation code issued at approval. The code flip and the creator
// insert commit together, so a duplicate registration leaves the store
// unchanged.
func (h *AuthHandler) RegisterCreator(c echo.Context) error {
	var req models.RegisterCreatorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	creator := models.NewCreator(req.Username, req.Email, string(hashedPassword), req.Name, req.ConfirmationCode)
	creator.Bio = req.Bio
	creator.YoutubeChannel = req.YoutubeChannel
	creator.InstagramHandle = req.InstagramHandle
	creator.LinkedinProfile = req.LinkedinProfile

	if err := h.applicationRepository.ConsumeCodeAndCreate(c.Request().Context(), creator); err != nil {
		return mapRepoError(err, "Creator not found")
	}

	token, err := h.generateJWT(creator.ID.Hex(), models.RoleCreator)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(http.StatusCreated, echo.Map{"token": token, "creator": creator})
}

// generateJWT creates and signs a token for the principal.
func (h *AuthHandler) generateJWT(principalID, role string) (string, error) {
	claims := &models.JwtCustomClaims{
		PrincipalID: principalID,
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

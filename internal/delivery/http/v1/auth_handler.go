package v1

import (
	"errors"
	"net/http"

	"talent-pool-backend/internal/delivery/http/response"
	"talent-pool-backend/internal/domain"
	"talent-pool-backend/pkg/logger"
	"talent-pool-backend/pkg/security"
	"talent-pool-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC  domain.AuthUsecase
	tracker *security.LoginTracker
}

func NewAuthHandler(public, protected *gin.RouterGroup, authUC domain.AuthUsecase, tracker *security.LoginTracker, authLimit gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC, tracker: tracker}

	publicAuth := public.Group("/auth", authLimit)
	{
		publicAuth.POST("/register", handler.Register)
		publicAuth.POST("/login", handler.Login)
	}

	protected.GET("/auth/me", handler.Me)
}

type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required,max=50,valid_name"`
	LastName  string `json:"lastName" binding:"required,max=50,valid_name"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6,max=128"`
	Role      string `json:"role" binding:"omitempty,oneof=talent recruiter admin"`
	Country   string `json:"country" binding:"required,max=100"`
	Company   string `json:"company" binding:"required_if=Role recruiter,max=200"`
	Position  string `json:"position" binding:"required_if=Role recruiter,max=200"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=talent recruiter admin"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// Register godoc
// @Summary      Register a user
// @Description  Creates a talent, recruiter or (when enabled) admin account and returns a token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      RegisterRequest  true  "Registration details"
// @Success      201       {object}  response.Response{data=TokenResponse}
// @Failure      400       {object}  response.Response
// @Failure      403       {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validation.FormatValidationErrors(err))
		return
	}

	session, err := h.authUC.Register(c.Request.Context(), domain.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		Country:   req.Country,
		Company:   req.Company,
		Position:  req.Position,
	})
	if err != nil {
		c.Error(err)
		return
	}

	security.DefaultLogger().LogRegistered(c.Request.Context(), session.User.Email, session.User.Role,
		c.ClientIP(), c.GetString(response.RequestIDKey))
	response.Success(c, http.StatusCreated, "Registration successful", TokenResponse{Token: session.Token})
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges email and password for a token. The optional role must match the account.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "Credentials"
// @Success      200    {object}  response.Response{data=TokenResponse}
// @Failure      400    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, validation.FormatValidationErrors(err))
		return
	}

	ctx := c.Request.Context()
	reqID := c.GetString(response.RequestIDKey)

	blocked, err := h.tracker.IsBlocked(ctx, req.Email)
	if err != nil {
		logger.Log.Warn("login tracker unavailable", "error", err)
	}
	if blocked {
		security.DefaultLogger().LogLoginBlocked(ctx, req.Email, c.ClientIP(), c.Request.UserAgent(), reqID)
		response.Error(c, http.StatusTooManyRequests, "Too many failed login attempts. Please try again later.", nil)
		return
	}

	session, err := h.authUC.Login(ctx, domain.LoginInput{Email: req.Email, Password: req.Password, Role: req.Role})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			if _, trackErr := h.tracker.RecordFailedAttempt(ctx, req.Email, c.ClientIP(), c.Request.UserAgent(), reqID); trackErr != nil {
				logger.Log.Warn("failed to record login attempt", "error", trackErr)
			}
		}
		c.Error(err)
		return
	}

	if err := h.tracker.ClearAttempts(ctx, req.Email); err != nil {
		logger.Log.Warn("failed to clear login attempts", "error", err)
	}
	security.DefaultLogger().LogLoginSuccess(ctx, session.User.ID, c.ClientIP(), reqID)
	response.Success(c, http.StatusOK, "Login successful", TokenResponse{Token: session.Token})
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /auth/me [get]
// @Security     TokenAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Current user", user)
}

package v1

import (
	"net/http"

	"talent-pool-backend/internal/delivery/http/response"
	"talent-pool-backend/internal/domain"
	"talent-pool-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(public, protected *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{profileUC: profileUC}

	publicProfile := public.Group("/profile")
	{
		publicProfile.GET("", handler.ListProfiles)
		publicProfile.GET("/user/:userId", handler.GetByUserID)
	}

	protectedProfile := protected.Group("/profile")
	{
		protectedProfile.GET("/me", handler.GetMyProfile)
		protectedProfile.POST("", handler.UpsertProfile)
	}
}

// ListProfiles godoc
// @Summary      All profiles
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Profile}
// @Router       /profile [get]
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.profileUC.ListProfiles(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profiles", profiles)
}

// UpsertProfile godoc
// @Summary      Create or update the caller's profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        profile  body      domain.ProfileInput  true  "Profile fields"
// @Success      200      {object}  response.Response{data=domain.Profile}
// @Failure      400      {object}  response.Response
// @Router       /profile [post]
// @Security     TokenAuth
func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	var in domain.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.ValidationFailed(c, validation.FormatValidationErrors(err))
		return
	}

	profile, err := h.profileUC.UpsertProfile(c.Request.Context(), c.GetString(string(domain.KeyUserID)), in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile saved", profile)
}

// GetMyProfile godoc
// @Summary      The caller's profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      404  {object}  response.Response
// @Router       /profile/me [get]
// @Security     TokenAuth
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	profile, err := h.profileUC.GetMyProfile(c.Request.Context(), c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile", profile)
}

// GetByUserID godoc
// @Summary      Profile by user ID
// @Tags         profile
// @Produce      json
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  response.Response{data=domain.Profile}
// @Failure      404     {object}  response.Response
// @Router       /profile/user/{userId} [get]
func (h *ProfileHandler) GetByUserID(c *gin.Context) {
	profile, err := h.profileUC.GetByUserID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile", profile)
}

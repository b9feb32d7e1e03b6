package v1

import (
	"errors"
	"net/http"

	"talent-pool-backend/internal/delivery/http/middleware"
	"talent-pool-backend/internal/delivery/http/response"
	"talent-pool-backend/internal/domain"
	"talent-pool-backend/pkg/apperror"
	"talent-pool-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type TalentHandler struct {
	talentUC domain.TalentUsecase
}

func NewTalentHandler(protected *gin.RouterGroup, talentUC domain.TalentUsecase, upload ...gin.HandlerFunc) {
	handler := &TalentHandler{talentUC: talentUC}

	talent := protected.Group("/talent", middleware.RequireRole(domain.RoleTalent))
	{
		talent.GET("/me", handler.GetMyProfile)
		talent.POST("", handler.UpsertProfile)
		talent.POST("/me", handler.UpsertProfile)
		talent.POST("/education", handler.AddEducation)
		talent.DELETE("/education/:id", handler.DeleteEducation)
		talent.POST("/experience", handler.AddExperience)
		talent.DELETE("/experience/:id", handler.DeleteExperience)
		talent.POST("/upload-resume", append(upload, handler.UploadResume)...)
	}

	// any signed-in role may view a talent profile
	protected.GET("/talent/:id", handler.GetProfileByID)
}

// GetMyProfile godoc
// @Summary      Current talent profile
// @Tags         talent
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.TalentProfile}
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /talent/me [get]
// @Security     TokenAuth
func (h *TalentHandler) GetMyProfile(c *gin.Context) {
	profile, err := h.talentUC.GetMyProfile(c.Request.Context(), c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Talent profile", profile)
}

// UpsertProfile godoc
// @Summary      Create or update the talent profile
// @Description  Only supplied fields are changed. Skills may be an array or a comma separated string.
// @Tags         talent
// @Accept       json
// @Produce      json
// @Param        profile  body      domain.TalentProfileInput  true  "Profile fields"
// @Success      200      {object}  response.Response{data=domain.TalentProfile}
// @Failure      400      {object}  response.Response
// @Router       /talent/me [post]
// @Security     TokenAuth
func (h *TalentHandler) UpsertProfile(c *gin.Context) {
	var in domain.TalentProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.ValidationFailed(c, validation.FormatValidationErrors(err))
		return
	}

	profile, err := h.talentUC.UpsertProfile(c.Request.Context(), c.GetString(string(domain.KeyUserID)), in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile saved", profile)
}

// AddEducation godoc
// @Summary      Add an education entry
// @Tags         talent
// @Accept       json
// @Produce      json
// @Param        education  body      domain.EducationInput  true  "Education entry"
// @Success      200        {object}  response.Response{data=domain.TalentProfile}
// @Failure      400        {object}  response.Response
// @Failure      404        {object}  response.Response
// @Router       /talent/education [post]
// @Security     TokenAuth
func (h *TalentHandler) AddEducation(c *gin.Context) {
	var in domain.EducationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.ValidationFailed(c, validation.FormatValidationErrors(err))
		return
	}

	profile, err := h.talentUC.AddEducation(c.Request.Context(), c.GetString(string(domain.KeyUserID)), in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Education added", profile)
}

// DeleteEducation godoc
// @Summary      Delete an education entry
// @Tags         talent
// @Produce      json
// @Param        id   path      string  true  "Entry ID"
// @Success      200  {object}  response.Response{data=domain.TalentProfile}
// @Failure      404  {object}  response.Response
// @Router       /talent/education/{id} [delete]
// @Security     TokenAuth
func (h *TalentHandler) DeleteEducation(c *gin.Context) {
	profile, err := h.talentUC.DeleteEducation(c.Request.Context(), c.GetString(string(domain.KeyUserID)), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Education removed", profile)
}

// AddExperience godoc
// @Summary      Add a work experience entry
// @Tags         talent
// @Accept       json
// @Produce      json
// @Param        experience  body      domain.ExperienceInput  true  "Experience entry"
// @Success      200         {object}  response.Response{data=domain.TalentProfile}
// @Failure      400         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Router       /talent/experience [post]
// @Security     TokenAuth
func (h *TalentHandler) AddExperience(c *gin.Context) {
	var in domain.ExperienceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.ValidationFailed(c, validation.FormatValidationErrors(err))
		return
	}

	profile, err := h.talentUC.AddExperience(c.Request.Context(), c.GetString(string(domain.KeyUserID)), in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Experience added", profile)
}

// DeleteExperience godoc
// @Summary      Delete a work experience entry
// @Tags         talent
// @Produce      json
// @Param        id   path      string  true  "Entry ID"
// @Success      200  {object}  response.Response{data=domain.TalentProfile}
// @Failure      404  {object}  response.Response
// @Router       /talent/experience/{id} [delete]
// @Security     TokenAuth
func (h *TalentHandler) DeleteExperience(c *gin.Context) {
	profile, err := h.talentUC.DeleteExperience(c.Request.Context(), c.GetString(string(domain.KeyUserID)), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Experience removed", profile)
}

// UploadResume godoc
// @Summary      Upload a resume
// @Description  Accepts PDF, DOC or DOCX up to the configured size. Replaces the previous resume.
// @Tags         talent
// @Accept       multipart/form-data
// @Produce      json
// @Param        resume  formData  file  true  "Resume document"
// @Success      200     {object}  response.Response{data=domain.TalentProfile}
// @Failure      400     {object}  response.Response
// @Failure      429     {object}  response.Response
// @Failure      503     {object}  response.Response
// @Router       /talent/upload-resume [post]
// @Security     TokenAuth
func (h *TalentHandler) UploadResume(c *gin.Context) {
	header, err := c.FormFile("resume")
	if err != nil {
		c.Error(formFileError(err))
		return
	}

	file, err := header.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer file.Close()

	profile, err := h.talentUC.UploadResume(c.Request.Context(), c.GetString(string(domain.KeyUserID)), &domain.ResumeUpload{
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Content:  file,
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume uploaded", profile)
}

// GetProfileByID godoc
// @Summary      Talent profile by ID
// @Description  Every read counts as a profile view.
// @Tags         talent
// @Produce      json
// @Param        id   path      string  true  "Talent profile ID"
// @Success      200  {object}  response.Response{data=domain.TalentProfile}
// @Failure      404  {object}  response.Response
// @Router       /talent/{id} [get]
// @Security     TokenAuth
func (h *TalentHandler) GetProfileByID(c *gin.Context) {
	profile, err := h.talentUC.GetProfileByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Talent profile", profile)
}

// formFileError maps a failed multipart read to the client-facing error.
func formFileError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domain.ErrFileTooLarge
	}
	return domain.ErrNoFileProvided
}

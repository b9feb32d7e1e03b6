package v1

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"talent-pool-backend/internal/delivery/http/middleware"
	"talent-pool-backend/internal/delivery/http/response"
	"talent-pool-backend/internal/domain"
	"talent-pool-backend/pkg/apperror"
	"talent-pool-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RecruiterHandler struct {
	recruiterUC domain.RecruiterUsecase
}

func NewRecruiterHandler(protected *gin.RouterGroup, recruiterUC domain.RecruiterUsecase, upload ...gin.HandlerFunc) {
	handler := &RecruiterHandler{recruiterUC: recruiterUC}

	recruiter := protected.Group("/recruiter", middleware.RequireRole(domain.RoleRecruiter))
	{
		recruiter.GET("/me", handler.GetMyProfile)
		recruiter.POST("", handler.UpsertProfile)
		recruiter.POST("/me", handler.UpsertProfile)
		recruiter.POST("/logo", append(upload, handler.UploadLogo)...)
		recruiter.GET("/search", handler.SearchTalent)
		recruiter.POST("/shortlist", handler.ShortlistTalent)
		recruiter.DELETE("/shortlist/:id", handler.RemoveFromShortlist)
		recruiter.GET("/shortlist", handler.GetShortlist)
		recruiter.GET("/shortlist/export", handler.ExportShortlist)
	}
}

// GetMyProfile godoc
// @Summary      Current recruiter profile
// @Tags         recruiter
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.RecruiterProfile}
// @Failure      404  {object}  response.Response
// @Router       /recruiter/me [get]
// @Security     TokenAuth
func (h *RecruiterHandler) GetMyProfile(c *gin.Context) {
	profile, err := h.recruiterUC.GetMyProfile(c.Request.Context(), c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Recruiter profile", profile)
}

// UpsertProfile godoc
// @Summary      Create or update the recruiter profile
// @Tags         recruiter
// @Accept       json
// @Produce      json
// @Param        profile  body      domain.RecruiterProfileInput  true  "Profile fields"
// @Success      200      {object}  response.Response{data=domain.RecruiterProfile}
// @Failure      400      {object}  response.Response
// @Router       /recruiter/me [post]
// @Security     TokenAuth
func (h *RecruiterHandler) UpsertProfile(c *gin.Context) {
	var in domain.RecruiterProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.ValidationFailed(c, validation.FormatValidationErrors(err))
		return
	}

	profile, err := h.recruiterUC.UpsertProfile(c.Request.Context(), c.GetString(string(domain.KeyUserID)), in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile saved", profile)
}

// UploadLogo godoc
// @Summary      Upload a company logo
// @Description  JPEG or PNG. Stored as a JPEG no larger than 256 px on either side.
// @Tags         recruiter
// @Accept       multipart/form-data
// @Produce      json
// @Param        logo  formData  file  true  "Logo image"
// @Success      200   {object}  response.Response{data=domain.RecruiterProfile}
// @Failure      400   {object}  response.Response
// @Failure      503   {object}  response.Response
// @Router       /recruiter/logo [post]
// @Security     TokenAuth
func (h *RecruiterHandler) UploadLogo(c *gin.Context) {
	header, err := c.FormFile("logo")
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

	profile, err := h.recruiterUC.UploadLogo(c.Request.Context(), c.GetString(string(domain.KeyUserID)), &domain.LogoUpload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Logo uploaded", profile)
}

// SearchTalent godoc
// @Summary      Search talent
// @Description  Results are ordered by profile completeness, then newest first.
// @Tags         recruiter
// @Produce      json
// @Param        skills             query     string  false  "Comma separated skills, any match"
// @Param        location           query     string  false  "Country"
// @Param        yearsOfExperience  query     int     false  "Minimum years of experience"
// @Param        availability       query     string  false  "immediate, two_weeks, month or negotiable"
// @Param        isOpenToWork       query     string  false  "true or false"
// @Param        keyword            query     string  false  "Matches headline, biography or resume text"
// @Param        page               query     int     false  "Page, 1-based"
// @Param        limit              query     int     false  "Page size, at most 100"
// @Success      200                {object}  response.Response{data=domain.TalentSearchResult}
// @Failure      400                {object}  response.Response
// @Router       /recruiter/search [get]
// @Security     TokenAuth
func (h *RecruiterHandler) SearchTalent(c *gin.Context) {
	filter, err := parseSearchFilter(c)
	if err != nil {
		c.Error(err)
		return
	}

	raw := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}

	result, err := h.recruiterUC.SearchTalent(c.Request.Context(), middleware.CurrentIdentity(c), filter, raw)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Search results", result)
}

func parseSearchFilter(c *gin.Context) (domain.TalentSearchFilter, error) {
	filter := domain.TalentSearchFilter{
		Country:      strings.TrimSpace(c.Query("location")),
		Availability: strings.TrimSpace(c.Query("availability")),
		Keyword:      strings.TrimSpace(c.Query("keyword")),
	}

	if skills := c.Query("skills"); skills != "" {
		filter.Skills = domain.NormalizeSkills(strings.Split(skills, ","))
	}
	if v, ok := c.GetQuery("isOpenToWork"); ok {
		open := v == "true"
		filter.IsOpenToWork = &open
	}

	var err error
	if filter.Page, _, err = queryInt(c, "page"); err != nil {
		return filter, err
	}
	if filter.Limit, _, err = queryInt(c, "limit"); err != nil {
		return filter, err
	}
	years, ok, err := queryInt(c, "yearsOfExperience")
	if err != nil {
		return filter, err
	}
	if ok {
		filter.YearsOfExperience = &years
	}
	return filter, nil
}

// queryInt reads a non-negative integer query parameter and reports whether it was present.
func queryInt(c *gin.Context, name string) (int, bool, error) {
	v := c.Query(name)
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false, apperror.BadRequest(name + " must be a non-negative integer")
	}
	return n, true, nil
}

// ShortlistTalent godoc
// @Summary      Shortlist a talent
// @Tags         recruiter
// @Accept       json
// @Produce      json
// @Param        entry  body      domain.ShortlistInput  true  "Talent to shortlist"
// @Success      200    {object}  response.Response{data=[]domain.ShortlistEntry}
// @Failure      400    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /recruiter/shortlist [post]
// @Security     TokenAuth
func (h *RecruiterHandler) ShortlistTalent(c *gin.Context) {
	var in domain.ShortlistInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.ValidationFailed(c, validation.FormatValidationErrors(err))
		return
	}

	list, err := h.recruiterUC.ShortlistTalent(c.Request.Context(), c.GetString(string(domain.KeyUserID)), in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Talent shortlisted", list)
}

// RemoveFromShortlist godoc
// @Summary      Remove a shortlist entry
// @Tags         recruiter
// @Produce      json
// @Param        id   path      string  true  "Shortlist entry ID"
// @Success      200  {object}  response.Response{data=[]domain.ShortlistEntry}
// @Failure      404  {object}  response.Response
// @Router       /recruiter/shortlist/{id} [delete]
// @Security     TokenAuth
func (h *RecruiterHandler) RemoveFromShortlist(c *gin.Context) {
	list, err := h.recruiterUC.RemoveFromShortlist(c.Request.Context(), c.GetString(string(domain.KeyUserID)), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Shortlist entry removed", list)
}

// GetShortlist godoc
// @Summary      Shortlisted talent
// @Tags         recruiter
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.ShortlistedTalent}
// @Failure      404  {object}  response.Response
// @Router       /recruiter/shortlist [get]
// @Security     TokenAuth
func (h *RecruiterHandler) GetShortlist(c *gin.Context) {
	list, err := h.recruiterUC.GetShortlist(c.Request.Context(), c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Shortlisted talent", list)
}

// ExportShortlist godoc
// @Summary      Export the shortlist
// @Tags         recruiter
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    binary
// @Failure      404  {object}  response.Response
// @Router       /recruiter/shortlist/export [get]
// @Security     TokenAuth
func (h *RecruiterHandler) ExportShortlist(c *gin.Context) {
	data, err := h.recruiterUC.ExportShortlist(c.Request.Context(), c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	filename := fmt.Sprintf("shortlist_%s.xlsx", time.Now().Format("20060102"))
	response.Attachment(c, filename, xlsxContentType, data)
}

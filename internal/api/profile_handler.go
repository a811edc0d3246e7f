package api

import (
	"net/http"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/service"

	"github.com/gin-gonic/gin"
)

// avatarFormField is the multipart field carrying the avatar image.
const avatarFormField = "avatar"

type ProfileHandler struct {
	profileService service.ProfileService
	planService    service.PlanService
}

func NewProfileHandler(profileService service.ProfileService, planService service.PlanService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, planService: planService}
}

// ProfileResponse is the settings view: the profile plus its resolved plan.
type ProfileResponse struct {
	Profile *domain.User `json:"profile"`
	Plan    *domain.Plan `json:"plan,omitempty"`
	Notice  string       `json:"notice,omitempty"`
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load profile.")
		return
	}
	resp := ProfileResponse{Profile: user}
	if plan, err := h.planService.ForUser(c.Request.Context(), user); err == nil {
		resp.Plan = plan
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req service.ProfileInput
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.profileService.Update(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to update profile.")
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{Profile: user, Notice: "Profile updated"})
}

// UploadAvatar godoc
// @Summary Upload a new avatar
// @Description Multipart upload, field "avatar", images up to 5 MB.
// @Tags Profile
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} gin.H "Missing file, not an image, or too large"
// @Failure 502 {object} gin.H "Object storage failure"
// @Router /profile/avatar [post]
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxAvatarSize+(1<<20))

	fileHeader, err := c.FormFile(avatarFormField)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Avatar file is required in field '"+avatarFormField+"'.")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Could not read uploaded file.")
		return
	}
	defer file.Close()

	user, err := h.profileService.UploadAvatar(c.Request.Context(), userID, fileHeader.Header.Get("Content-Type"), fileHeader.Size, file)
	if err != nil {
		respondError(c, err, "Failed to upload avatar.")
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{Profile: user, Notice: "Avatar updated"})
}

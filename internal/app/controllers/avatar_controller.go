package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/school/internal/app/models/dto"
	"github.com/yigit/school/internal/app/services"
	"github.com/yigit/school/internal/pkg/apperrors"
	"github.com/yigit/school/internal/pkg/helpers"
	"github.com/yigit/school/internal/middleware"
)

// AvatarController handles avatar uploads and downloads
type AvatarController struct {
	avatarService services.AvatarService
	maxUploadSize int64
}

// NewAvatarController creates a new AvatarController
func NewAvatarController(avatarService services.AvatarService, maxUploadSize int64) *AvatarController {
	return &AvatarController{
		avatarService: avatarService,
		maxUploadSize: maxUploadSize,
	}
}

// UploadAvatar stores a student's avatar on disk and in the database
// @Summary Upload avatar
// @Description Replaces the student's avatar if one exists
// @Tags avatar
// @Accept multipart/form-data
// @Produce json
// @Param studentId formData int true "Student ID"
// @Param file formData file true "Avatar image"
// @Success 201 {object} dto.APIResponse{data=dto.AvatarResponse} "Avatar uploaded successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid upload"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to store file"
// @Router /avatar/upload [post]
func (c *AvatarController) UploadAvatar(ctx *gin.Context) {
	studentID, err := strconv.ParseInt(ctx.PostForm("studentId"), 10, 64)
	if err != nil || studentID <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("studentId form field must be a positive number"))
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("file form field is required"))
		return
	}
	if c.maxUploadSize > 0 && fileHeader.Size > c.maxUploadSize {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(
			fmt.Sprintf("avatar exceeds the maximum size of %d bytes", c.maxUploadSize)))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, fmt.Errorf("failed to open uploaded file: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		middleware.HandleAPIError(ctx, fmt.Errorf("failed to read uploaded file: %w", err))
		return
	}

	avatar, err := c.avatarService.SaveAvatar(ctx, data, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromAvatar(avatar)))
}

// GetAvatarByID serves the avatar bytes stored in the database
// @Summary Get avatar from database
// @Tags avatar
// @Produce image/jpeg,image/png,image/webp,application/octet-stream
// @Param id path int true "Avatar ID" Format(int64) minimum(1)
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse "Avatar not found"
// @Router /avatar/{id} [get]
func (c *AvatarController) GetAvatarByID(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	avatar, err := c.avatarService.GetAvatarByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Data(http.StatusOK, avatar.MediaType, avatar.Data)
}

// GetAvatarPreview serves a downscaled copy of the avatar
// @Summary Get avatar preview
// @Tags avatar
// @Produce image/jpeg,image/webp
// @Param id path int true "Avatar ID" Format(int64) minimum(1)
// @Param width query int false "Maximum width in pixels" default(128)
// @Param format query string false "jpeg or webp" default(jpeg)
// @Success 200 {file} binary
// @Failure 400 {object} dto.ErrorResponse "Avatar is not a supported image"
// @Failure 404 {object} dto.ErrorResponse "Avatar not found"
// @Router /avatar/{id}/preview [get]
func (c *AvatarController) GetAvatarPreview(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	width, err := strconv.Atoi(ctx.DefaultQuery("width", "0"))
	if err != nil || width < 0 {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("width must be a non-negative number"))
		return
	}

	preview, mediaType, err := c.avatarService.GetAvatarPreview(ctx, id, width, ctx.Query("format"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Data(http.StatusOK, mediaType, preview)
}

// GetAvatarFromFileSystem serves the avatar file written to disk
// @Summary Get avatar from disk
// @Tags avatar
// @Produce image/jpeg,image/png,image/webp,application/octet-stream
// @Param studentId path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse "Avatar file not found"
// @Router /avatar/file/{studentId} [get]
func (c *AvatarController) GetAvatarFromFileSystem(ctx *gin.Context) {
	studentID, ok := middleware.ParseIDParam(ctx, "studentId")
	if !ok {
		return
	}

	data, mediaType, err := c.avatarService.GetAvatarFromFileSystem(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Data(http.StatusOK, mediaType, data)
}

// GetAvatars lists avatar metadata page by page
// @Summary List avatars
// @Tags avatar
// @Produce json
// @Param page query int false "Page number, 1-based" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]dto.AvatarResponse}}
// @Router /avatar [get]
func (c *AvatarController) GetAvatars(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	result, err := c.avatarService.GetAvatarsPage(ctx, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      dto.FromAvatars(result.Items),
		Pagination: helpers.NewPaginationInfo(result.Total, result.Page, result.Size),
	}))
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/school/internal/app/models/dto"
	"github.com/yigit/school/internal/app/services"
	"github.com/yigit/school/internal/pkg/apperrors"
	"github.com/yigit/school/internal/middleware"
)

// FacultyController handles faculty-related operations
type FacultyController struct {
	facultyService services.FacultyService
}

// NewFacultyController creates a new FacultyController
func NewFacultyController(facultyService services.FacultyService) *FacultyController {
	return &FacultyController{
		facultyService: facultyService,
	}
}

// CreateFaculty handles faculty creation
// @Summary Create a new faculty
// @Description Creates a new faculty with the provided name and color
// @Tags faculty
// @Accept json
// @Produce json
// @Param request body dto.CreateFacultyRequest true "Faculty information"
// @Success 201 {object} dto.APIResponse{data=dto.FacultyResponse} "Faculty created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /faculty [post]
func (c *FacultyController) CreateFaculty(ctx *gin.Context) {
	var req dto.CreateFacultyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	faculty, err := c.facultyService.CreateFaculty(ctx, req.Name, req.Color)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromFaculty(faculty)))
}

// GetFacultyByID retrieves a faculty by ID
// @Summary Get faculty details
// @Tags faculty
// @Produce json
// @Param id path int true "Faculty ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.FacultyResponse} "Faculty retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid faculty ID format"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /faculty/{id} [get]
func (c *FacultyController) GetFacultyByID(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	faculty, err := c.facultyService.GetFacultyByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromFaculty(faculty)))
}

// GetAllFaculties retrieves all faculties
// @Summary Get all faculties
// @Tags faculty
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.FacultyResponse} "Faculties retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /faculty [get]
func (c *FacultyController) GetAllFaculties(ctx *gin.Context) {
	faculties, err := c.facultyService.GetAllFaculties(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromFaculties(faculties)))
}

// UpdateFaculty overwrites a faculty's name and color
// @Summary Update faculty
// @Tags faculty
// @Accept json
// @Produce json
// @Param id path int true "Faculty ID" Format(int64) minimum(1)
// @Param request body dto.UpdateFacultyRequest true "Updated faculty information"
// @Success 200 {object} dto.APIResponse{data=dto.FacultyResponse} "Faculty updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /faculty/{id} [put]
func (c *FacultyController) UpdateFaculty(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateFacultyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	updated, err := c.facultyService.UpdateFaculty(ctx, id, req.Name, req.Color)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !updated {
		middleware.HandleAPIError(ctx, apperrors.ErrFacultyNotFound)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FacultyResponse{ID: id, Name: req.Name, Color: req.Color}))
}

// DeleteFaculty deletes a faculty; its students are left without a faculty
// @Summary Delete faculty
// @Tags faculty
// @Produce json
// @Param id path int true "Faculty ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse} "Faculty deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /faculty/{id} [delete]
func (c *FacultyController) DeleteFaculty(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	deleted, err := c.facultyService.DeleteFaculty(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !deleted {
		middleware.HandleAPIError(ctx, apperrors.ErrFacultyNotFound)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Faculty deleted successfully"}))
}

// GetFacultiesByColor lists faculties of one color
// @Summary Get faculties by color
// @Tags faculty
// @Produce json
// @Param color path string true "Color, case-insensitive"
// @Success 200 {object} dto.APIResponse{data=[]dto.FacultyResponse}
// @Router /faculty/color/{color} [get]
func (c *FacultyController) GetFacultiesByColor(ctx *gin.Context) {
	faculties, err := c.facultyService.GetFacultiesByColor(ctx, ctx.Param("color"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromFaculties(faculties)))
}

// SearchFaculties finds faculties by a fragment of their name or color
// @Summary Search faculties
// @Tags faculty
// @Produce json
// @Param searchTerm query string true "Fragment of name or color, case-insensitive"
// @Success 200 {object} dto.APIResponse{data=[]dto.FacultyResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing search term"
// @Router /faculty/search [get]
func (c *FacultyController) SearchFaculties(ctx *gin.Context) {
	term, ok := ctx.GetQuery("searchTerm")
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("searchTerm query parameter is required"))
		return
	}

	faculties, err := c.facultyService.SearchFaculties(ctx, term)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromFaculties(faculties)))
}

// GetStudentsOfFaculty lists the students of a faculty
// @Summary Get students of faculty
// @Tags faculty
// @Produce json
// @Param id path int true "Faculty ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Router /faculty/{id}/students [get]
func (c *FacultyController) GetStudentsOfFaculty(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	students, err := c.facultyService.GetStudentsOfFaculty(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromStudents(students)))
}

// GetLongestFacultyName returns the longest faculty name
// @Summary Get longest faculty name
// @Tags faculty
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.LongestNameResponse}
// @Router /faculty/longest-name [get]
func (c *FacultyController) GetLongestFacultyName(ctx *gin.Context) {
	name, err := c.facultyService.GetLongestFacultyName(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.LongestNameResponse{Name: name}))
}

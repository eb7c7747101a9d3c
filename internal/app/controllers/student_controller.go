package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/school/internal/app/models/dto"
	"github.com/yigit/school/internal/app/services"
	"github.com/yigit/school/internal/pkg/apperrors"
	"github.com/yigit/school/internal/middleware"
)

// StudentController handles student-related operations
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// CreateStudent handles student creation
// @Summary Create a new student
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse} "Student created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.CreateStudent(ctx, req.Name, req.Age)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromStudent(student)))
}

// GetStudentByID retrieves a student by ID
// @Summary Get student details
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	student, err := c.studentService.GetStudentByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromStudent(student)))
}

// GetAllStudents retrieves all students
// @Summary Get all students
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Router /students [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	students, err := c.studentService.GetAllStudents(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromStudents(students)))
}

// UpdateStudent overwrites a student's name and age
// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Param request body dto.UpdateStudentRequest true "Updated student information"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	updated, err := c.studentService.UpdateStudent(ctx, id, req.Name, req.Age)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !updated {
		middleware.HandleAPIError(ctx, apperrors.ErrStudentNotFound)
		return
	}

	student, err := c.studentService.GetStudentByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromStudent(student)))
}

// DeleteStudent deletes a student and its avatar record
// @Summary Delete student
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	deleted, err := c.studentService.DeleteStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !deleted {
		middleware.HandleAPIError(ctx, apperrors.ErrStudentNotFound)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Student deleted successfully"}))
}

// GetStudentsByAge lists students of exactly one age
// @Summary Get students by age
// @Tags students
// @Produce json
// @Param age path int true "Age"
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Router /students/age/{age} [get]
func (c *StudentController) GetStudentsByAge(ctx *gin.Context) {
	age, ok := middleware.ParseIntParam(ctx, "age")
	if !ok {
		return
	}

	students, err := c.studentService.GetStudentsByAge(ctx, age)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromStudents(students)))
}

// GetStudentsByAgeRange lists students with min <= age <= max
// @Summary Get students by age range
// @Tags students
// @Produce json
// @Param min query int true "Minimum age, inclusive"
// @Param max query int true "Maximum age, inclusive"
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid range"
// @Router /students/age/range [get]
func (c *StudentController) GetStudentsByAgeRange(ctx *gin.Context) {
	var query dto.AgeRangeQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	students, err := c.studentService.GetStudentsByAgeRange(ctx, *query.Min, *query.Max)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromStudents(students)))
}

// AssignFaculty puts a student into a faculty
// @Summary Assign faculty to student
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Param facultyId path int true "Faculty ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse}
// @Failure 404 {object} dto.ErrorResponse "Student or faculty not found"
// @Router /students/{id}/faculty/{facultyId} [put]
func (c *StudentController) AssignFaculty(ctx *gin.Context) {
	studentID, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	facultyID, ok := middleware.ParseIDParam(ctx, "facultyId")
	if !ok {
		return
	}

	student, err := c.studentService.AssignFaculty(ctx, studentID, facultyID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromStudent(student)))
}

// GetFacultyOfStudent returns the faculty a student belongs to
// @Summary Get faculty of student
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.FacultyResponse}
// @Failure 404 {object} dto.ErrorResponse "Student missing or not assigned"
// @Router /students/{id}/faculty [get]
func (c *StudentController) GetFacultyOfStudent(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	faculty, err := c.studentService.GetFacultyOfStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromFaculty(faculty)))
}

// CountStudents returns the number of students
// @Summary Count students
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Router /students/count [get]
func (c *StudentController) CountStudents(ctx *gin.Context) {
	count, err := c.studentService.CountStudents(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CountResponse{Count: count}))
}

// GetAverageAge returns the mean student age
// @Summary Average student age
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AverageResponse}
// @Router /students/average-age [get]
func (c *StudentController) GetAverageAge(ctx *gin.Context) {
	avg, err := c.studentService.GetAverageAge(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AverageResponse{Average: avg}))
}

// GetLastFiveStudents returns the five most recently created students
// @Summary Last five students
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.StudentResponse}
// @Router /students/last-five [get]
func (c *StudentController) GetLastFiveStudents(ctx *gin.Context) {
	students, err := c.studentService.GetLastStudents(ctx, services.LastStudentsLimit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromStudents(students)))
}

// GetNamesStartingWithA lists upper-cased student names starting with "A"
// @Summary Student names starting with A
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]string}
// @Router /students/names-starting-with-a [get]
func (c *StudentController) GetNamesStartingWithA(ctx *gin.Context) {
	names, err := c.studentService.GetNamesStartingWith(ctx, "A")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(names))
}

// PrintParallel prints student names from two background goroutines
// @Summary Print student names in parallel
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Router /students/print-parallel [get]
func (c *StudentController) PrintParallel(ctx *gin.Context) {
	if err := c.studentService.PrintParallel(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Printing started"}))
}

// PrintSynchronized prints student names from two background goroutines sharing one lock
// @Summary Print student names synchronized
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Router /students/print-synchronized [get]
func (c *StudentController) PrintSynchronized(ctx *gin.Context) {
	if err := c.studentService.PrintSynchronized(ctx); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Printing started"}))
}

package dto

import "github.com/yigit/school/internal/app/models"

// CreateStudentRequest represents student creation data
type CreateStudentRequest struct {
	Name string `json:"name" binding:"required,notblank,max=255"`
	Age  int    `json:"age" binding:"gte=0,lte=200"`
}

// UpdateStudentRequest represents student update data
type UpdateStudentRequest struct {
	Name string `json:"name" binding:"required,notblank,max=255"`
	Age  int    `json:"age" binding:"gte=0,lte=200"`
}

// AgeRangeQuery binds /students/age/range?min=&max=
type AgeRangeQuery struct {
	Min *int `form:"min" binding:"required"`
	Max *int `form:"max" binding:"required"`
}

// StudentResponse represents student information
type StudentResponse struct {
	ID        int64  `json:"id" example:"1"`
	Name      string `json:"name" example:"Harry Potter"`
	Age       int    `json:"age" example:"17"`
	FacultyID *int64 `json:"facultyId" example:"1"`
}

// FromStudent converts a models.Student into its response shape
func FromStudent(s *models.Student) StudentResponse {
	if s == nil {
		return StudentResponse{}
	}
	return StudentResponse{ID: s.ID, Name: s.Name, Age: s.Age, FacultyID: s.FacultyID}
}

// FromStudents converts a student list, never returning nil
func FromStudents(students []*models.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, FromStudent(s))
	}
	return out
}

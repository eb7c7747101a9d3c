package dto

import "github.com/yigit/school/internal/app/models"

// FacultyResponse represents faculty information
type FacultyResponse struct {
	ID    int64  `json:"id" example:"1"`
	Name  string `json:"name" example:"Gryffindor"`
	Color string `json:"color" example:"red"`
}

// CreateFacultyRequest represents faculty creation data
type CreateFacultyRequest struct {
	Name  string `json:"name" binding:"required,notblank,max=255"`
	Color string `json:"color" binding:"required,notblank,max=64"`
}

// UpdateFacultyRequest represents faculty update data
type UpdateFacultyRequest struct {
	Name  string `json:"name" binding:"required,notblank,max=255"`
	Color string `json:"color" binding:"required,notblank,max=64"`
}

// LongestNameResponse carries the longest faculty name
type LongestNameResponse struct {
	Name string `json:"name" example:"Hufflepuff"`
}

// FromFaculty converts a models.Faculty into its response shape
func FromFaculty(f *models.Faculty) FacultyResponse {
	if f == nil {
		return FacultyResponse{}
	}
	return FacultyResponse{ID: f.ID, Name: f.Name, Color: f.Color}
}

// FromFaculties converts a faculty list, never returning nil
func FromFaculties(faculties []*models.Faculty) []FacultyResponse {
	out := make([]FacultyResponse, 0, len(faculties))
	for _, f := range faculties {
		out = append(out, FromFaculty(f))
	}
	return out
}

package models

// Student defines the student model based on the 'students' table
type Student struct {
	ID        int64  `json:"id" db:"id" example:"1"`
	Name      string `json:"name" db:"name" example:"Harry Potter"`
	Age       int    `json:"age" db:"age" example:"17"`
	FacultyID *int64 `json:"facultyId,omitempty" db:"faculty_id" example:"1"` // nil when the student is unassigned
}

// HasFaculty reports whether the student is assigned to a faculty
func (s *Student) HasFaculty() bool {
	return s.FacultyID != nil
}

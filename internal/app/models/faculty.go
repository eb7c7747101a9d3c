package models

// Faculty represents a school faculty (house). Students reference it through Student.FacultyID.
type Faculty struct {
	ID    int64  `json:"id" db:"id" example:"1"`
	Name  string `json:"name" db:"name" example:"Gryffindor"`
	Color string `json:"color" db:"color" example:"red"`
}

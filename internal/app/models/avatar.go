package models

// Avatar is a student's picture. The bytes live both in Data and in the file at FilePath.
type Avatar struct {
	ID        int64  `json:"id" db:"id"`
	StudentID int64  `json:"studentId" db:"student_id"`
	FilePath  string `json:"filePath" db:"file_path"`
	FileSize  int64  `json:"fileSize" db:"file_size"`
	MediaType string `json:"mediaType" db:"media_type"`
	Data      []byte `json:"-" db:"data"`
}

package filestorage

import "errors"

// ErrFileNotFound is returned when no avatar file exists for a student
var ErrFileNotFound = errors.New("avatar file not found")

// StoredFile describes a file written by AvatarStorage
type StoredFile struct {
	Path     string // Full filesystem path
	FileName string // Base name, see AvatarFileName
	FileSize int64  // Size in bytes
}

// AvatarStorage keeps at most one avatar file per student on disk
type AvatarStorage interface {
	// Lock serializes changes to one student's avatar; call the returned func to release it.
	// Save, Remove and DeleteFile expect the caller to hold it.
	Lock(studentID int64) func()

	// Save writes data as the avatar of studentID, replacing any earlier file of that student
	Save(studentID int64, ext string, data []byte) (*StoredFile, error)

	// Remove deletes every avatar file of studentID
	Remove(studentID int64) error

	// Find returns the path of the student's avatar file or ErrFileNotFound
	Find(studentID int64) (string, error)

	// Read returns the content of the student's avatar file or ErrFileNotFound
	Read(studentID int64) ([]byte, string, error)

	// DeleteFile removes a file; a missing file is not an error
	DeleteFile(path string) error
}

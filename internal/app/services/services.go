package services

import (
	"io"

	"github.com/yigit/school/internal/app/repositories"
	"github.com/yigit/school/internal/pkg/filestorage"
)

// Services holds all the service instances
type Services struct {
	FacultyService FacultyService
	StudentService StudentService
	AvatarService  AvatarService
	InfoService    InfoService
}

// NewServices wires every service to the given repositories. printOut receives the student print
// demo output.
func NewServices(repos *repositories.Repositories, storage filestorage.AvatarStorage, port string, printOut io.Writer) *Services {
	return &Services{
		FacultyService: NewFacultyService(repos.FacultyRepository, repos.StudentRepository),
		StudentService: NewStudentService(repos.StudentRepository, repos.FacultyRepository, storage, printOut),
		AvatarService:  NewAvatarService(repos.AvatarRepository, repos.StudentRepository, storage),
		InfoService:    NewInfoService(port),
	}
}

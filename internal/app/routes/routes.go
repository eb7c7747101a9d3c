package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/school/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	facultyController *controllers.FacultyController,
	studentController *controllers.StudentController,
	avatarController *controllers.AvatarController,
	infoController *controllers.InfoController,
) {
	faculty := router.Group("/faculty")
	{
		faculty.POST("", facultyController.CreateFaculty)
		faculty.GET("", facultyController.GetAllFaculties)
		faculty.GET("/search", facultyController.SearchFaculties)
		faculty.GET("/longest-name", facultyController.GetLongestFacultyName)
		faculty.GET("/color/:color", facultyController.GetFacultiesByColor)
		faculty.GET("/:id", facultyController.GetFacultyByID)
		faculty.PUT("/:id", facultyController.UpdateFaculty)
		faculty.DELETE("/:id", facultyController.DeleteFaculty)
		faculty.GET("/:id/students", facultyController.GetStudentsOfFaculty)
	}

	students := router.Group("/students")
	{
		students.POST("", studentController.CreateStudent)
		students.GET("", studentController.GetAllStudents)

		students.GET("/count", studentController.CountStudents)
		students.GET("/average-age", studentController.GetAverageAge)
		students.GET("/last-five", studentController.GetLastFiveStudents)
		students.GET("/names-starting-with-a", studentController.GetNamesStartingWithA)
		students.GET("/print-parallel", studentController.PrintParallel)
		students.GET("/print-synchronized", studentController.PrintSynchronized)

		students.GET("/age/range", studentController.GetStudentsByAgeRange)
		students.GET("/age/:age", studentController.GetStudentsByAge)

		students.GET("/:id", studentController.GetStudentByID)
		students.PUT("/:id", studentController.UpdateStudent)
		students.DELETE("/:id", studentController.DeleteStudent)
		students.GET("/:id/faculty", studentController.GetFacultyOfStudent)
		students.PUT("/:id/faculty/:facultyId", studentController.AssignFaculty)
	}

	avatar := router.Group("/avatar")
	{
		avatar.POST("/upload", avatarController.UploadAvatar)
		avatar.GET("", avatarController.GetAvatars)
		avatar.GET("/file/:studentId", avatarController.GetAvatarFromFileSystem)
		avatar.GET("/:id", avatarController.GetAvatarByID)
		avatar.GET("/:id/preview", avatarController.GetAvatarPreview)
	}

	router.GET("/port", infoController.GetPort)
	router.GET("/sum-parallel", infoController.SumParallel)
}

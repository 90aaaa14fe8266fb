package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all course, lesson and progress routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Discovery and details
	courseGroup.Get("/explore", middleware.JWTMiddleware, controllers.ExploreCourses)
	courseGroup.Get("/purchased", middleware.JWTMiddleware, controllers.GetPurchasedCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Purchase
	courseGroup.Post("/:id/purchase", middleware.JWTMiddleware, validators.CourseID(), controllers.PurchaseCourse)

	// Lessons (viewing requires access, editing requires ownership)
	courseGroup.Get("/:id/lessons", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseLessons)

	// Discussion thread (reading is open, writing is checked in the service)
	courseGroup.Get("/:id/comments", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseComments)
	courseGroup.Post("/:id/comments", middleware.JWTMiddleware, validators.CourseID(), validators.Comment(), controllers.AddComment)
	courseGroup.Put("/:id/comments/:comment_id", middleware.JWTMiddleware, validators.CourseID(), validators.CommentID(), validators.Comment(), controllers.UpdateComment)
	courseGroup.Delete("/:id/comments/:comment_id", middleware.JWTMiddleware, validators.CourseID(), validators.CommentID(), controllers.DeleteComment)

	// Ratings
	courseGroup.Post("/:id/rating", middleware.JWTMiddleware, validators.CourseID(), validators.Rating(), controllers.RateCourse)
	courseGroup.Get("/:id/rating/average", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseRating)
	courseGroup.Get("/:id/rating/mine", middleware.JWTMiddleware, validators.CourseID(), controllers.GetMyRating)

	// Progress tracking
	courseGroup.Post("/:id/lessons/:lesson_id/complete", middleware.JWTMiddleware, validators.CourseID(), validators.LessonID(), controllers.CompleteLesson)
	courseGroup.Post("/:id/lessons/:lesson_id/uncomplete", middleware.JWTMiddleware, validators.CourseID(), validators.LessonID(), controllers.UncompleteLesson)
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseProgress)
	courseGroup.Get("/:id/lesson-progress", middleware.JWTMiddleware, validators.CourseID(), controllers.GetLessonStates)

	userGroup := app.Group("/user")
	userGroup.Get("/progress", middleware.JWTMiddleware, controllers.GetMyProgress)
}

// SetupTeacherCourseRoutes sets up authoring routes for teachers
func SetupTeacherCourseRoutes(app *fiber.App) {
	teacherGroup := app.Group("/teacher", middleware.JWTMiddleware, middleware.RequireRole(models.RoleTeacher, models.RoleAdmin))

	teacherGroup.Post("/course", validators.Course(), controllers.CreateCourse)
	teacherGroup.Put("/course/:id", validators.CourseID(), validators.Course(), controllers.UpdateCourse)
	teacherGroup.Patch("/course/:id/visibility", validators.CourseID(), controllers.SetCourseVisibility)
	teacherGroup.Get("/courses", controllers.GetCreatedCourses)

	teacherGroup.Post("/course/:id/lessons", validators.CourseID(), validators.Lesson(), controllers.CreateLesson)
	teacherGroup.Put("/course/:id/lessons/:lesson_id", validators.CourseID(), validators.LessonID(), validators.Lesson(), controllers.UpdateLesson)
	teacherGroup.Delete("/course/:id/lessons/:lesson_id", validators.CourseID(), validators.LessonID(), controllers.DeleteLesson)

	teacherGroup.Get("/dashboard", controllers.GetTeacherDashboard)
}

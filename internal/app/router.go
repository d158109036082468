package app

import (
	"sahayak_backend/docs"
	"sahayak_backend/internal/config"
	"sahayak_backend/internal/middleware"
	"sahayak_backend/internal/model"
	"sahayak_backend/internal/util"
	"sahayak_backend/pkg/monitoring"
	"sahayak_backend/pkg/security"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	loginLimit := security.NewLimiter(cfg.RateLimit.LoginPerMinute, time.Minute).Middleware(security.ByClientIP)
	aiLimit := security.NewLimiter(cfg.RateLimit.AIPerMinute, time.Minute).
		Middleware(security.ByContextKey(util.ContextSessionKey, sessionID))

	// 1. public
	a.registerPublicRoutes(router, c, loginLimit)

	// 2. everything else needs a token
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, a.services.auth))
	{
		authGroup.GET("/profile", c.auth.Profile)
		authGroup.PUT("/profile/password", c.auth.ChangePassword)

		a.registerStudentRoutes(authGroup, c, aiLimit)
		a.registerTeacherRoutes(authGroup, c, aiLimit)
		a.registerAdminRoutes(authGroup, c)
	}
}

// sessionID keys the AI limiter by signed-in user.
func sessionID(v interface{}) string {
	if s, ok := v.(model.Session); ok {
		return s.UserID()
	}
	return ""
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, loginLimit gin.HandlerFunc) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", loginLimit, c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers, aiLimit gin.HandlerFunc) {
	student := rg.Group("/student")
	student.Use(middleware.RoleMiddleware(model.RoleStudent))
	{
		student.GET("/courses", c.course.StudentCourses)
		student.GET("/courses/:id/quiz", c.quiz.StudentQuiz)
		student.POST("/courses/:id/quiz/submit", c.quiz.Submit)
		student.GET("/courses/:id/result", c.quiz.LatestResult)

		student.POST("/ai/tutor", aiLimit, c.ai.Tutor)
		student.POST("/ai/flashcards", aiLimit, c.ai.Flashcards)
	}
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers, aiLimit gin.HandlerFunc) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.RoleTeacher))
	{
		teacher.GET("/students", c.student.List)
		teacher.POST("/students", c.student.Create)
		teacher.GET("/students/lookup", c.student.Lookup)
		teacher.GET("/students/:id", c.student.Get)
		teacher.PUT("/students/:id", c.student.Update)
		teacher.DELETE("/students/:id", c.student.Delete)

		teacher.GET("/courses", c.course.List)
		teacher.POST("/courses", c.course.Create)
		teacher.GET("/courses/lookup", c.course.Lookup)
		teacher.GET("/courses/:id", c.course.Get)
		teacher.PUT("/courses/:id", c.course.Update)
		teacher.DELETE("/courses/:id", c.course.Delete)

		// quiz lifecycle
		teacher.GET("/courses/:id/quiz", c.quiz.GetQuiz)
		teacher.PUT("/courses/:id/quiz", c.quiz.SaveQuiz)
		teacher.POST("/courses/:id/quiz/generate", aiLimit, c.quiz.GenerateQuiz)
		teacher.GET("/courses/:id/results", c.grading.CourseResults)
		teacher.GET("/courses/:id/results/students/:studentId", c.grading.Review)
		teacher.GET("/courses/:id/statuses", c.grading.StudentStatuses)
		teacher.POST("/results/:id/grade", c.grading.Grade)
		teacher.GET("/analytics/courses", c.grading.CourseAverages)
		teacher.POST("/courses/:id/students/:studentId/certificate", aiLimit, c.certificate.Issue)

		teacher.POST("/ai/lesson-plan", aiLimit, c.ai.LessonPlan)
		teacher.POST("/ai/flashcards", aiLimit, c.ai.Flashcards)
		teacher.POST("/ai/assignment", aiLimit, c.ai.Assignment)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.GET("/teachers", c.teacher.List)
		admin.POST("/teachers", c.teacher.Create)
		admin.GET("/teachers/lookup", c.teacher.Lookup)
		admin.GET("/teachers/:id", c.teacher.Get)
		admin.PUT("/teachers/:id", c.teacher.Update)
		admin.DELETE("/teachers/:id", c.teacher.Delete)
	}
}

package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/markbook/internal/config"
	"github.com/stemsi/markbook/internal/handler"
	"github.com/stemsi/markbook/internal/middleware"
	"github.com/stemsi/markbook/internal/model"
	"github.com/stemsi/markbook/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Class     *handler.ClassHandler
	Student   *handler.StudentHandler
	Subject   *handler.SubjectHandler
	Exam      *handler.ExamHandler
	Marks     *handler.MarksHandler
	Report    *handler.ReportHandler
	Dashboard *handler.DashboardHandler
	WS        *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work such as rate limiter eviction.
func SetupRouter(
	ctx context.Context,
	verifier middleware.TokenVerifier,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	requireJWT := middleware.RequireJWT(verifier)
	authLimiter := middleware.NewRateLimiter(ctx, cfg.AuthRateLimit, time.Minute)

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/logout", requireJWT, handlers.Auth.Logout)
		auth.GET("/me", requireJWT, handlers.Auth.Me)
	}

	// ─── 2. WebSocket Group (token via query) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(requireJWT, middleware.RequirePermission(model.PermissionMarksWrite))
	{
		ws.GET("/marks/stream", handlers.WS.MarksStream)
	}

	// ─── 3. API Group (JWT + RBAC) ─────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(requireJWT, middleware.NoStore())
	{
		// Users
		users := api.Group("/users", middleware.RequirePermission(model.PermissionUsersManage))
		{
			users.GET("", handlers.User.ListUsers)
			users.POST("", handlers.User.CreateUser)
			users.DELETE("/:id", handlers.User.DeleteUser)
		}

		// Classes
		api.GET("/classes", middleware.RequirePermission(model.PermissionClassesRead), handlers.Class.ListClasses)
		api.POST("/classes", middleware.RequirePermission(model.PermissionClassesWrite), handlers.Class.CreateClass)
		api.PUT("/classes/:id", middleware.RequirePermission(model.PermissionClassesWrite), handlers.Class.UpdateClass)
		api.DELETE("/classes/:id", middleware.RequirePermission(model.PermissionClassesWrite), handlers.Class.DeleteClass)

		// Students
		api.GET("/students", middleware.RequirePermission(model.PermissionStudentsRead), handlers.Student.ListStudents)
		api.GET("/students/:id", middleware.RequirePermission(model.PermissionStudentsRead), handlers.Student.GetStudent)
		api.POST("/students", middleware.RequirePermission(model.PermissionStudentsWrite), handlers.Student.CreateStudent)
		api.PUT("/students/:id", middleware.RequirePermission(model.PermissionStudentsWrite), handlers.Student.UpdateStudent)
		api.DELETE("/students/:id", middleware.RequirePermission(model.PermissionStudentsWrite), handlers.Student.DeleteStudent)

		// Subjects
		api.GET("/subjects", middleware.RequirePermission(model.PermissionSubjectsRead), handlers.Subject.ListSubjects)
		api.POST("/subjects", middleware.RequirePermission(model.PermissionSubjectsWrite), handlers.Subject.CreateSubject)
		api.PUT("/subjects/:id", middleware.RequirePermission(model.PermissionSubjectsWrite), handlers.Subject.UpdateSubject)
		api.DELETE("/subjects/:id", middleware.RequirePermission(model.PermissionSubjectsWrite), handlers.Subject.DeleteSubject)

		// Exams
		api.GET("/exams", middleware.RequirePermission(model.PermissionExamsRead), handlers.Exam.ListExams)
		api.GET("/exams/:id", middleware.RequirePermission(model.PermissionExamsRead), handlers.Exam.GetExam)
		api.POST("/exams", middleware.RequirePermission(model.PermissionExamsWrite), handlers.Exam.CreateExam)
		api.PUT("/exams/:id", middleware.RequirePermission(model.PermissionExamsWrite), handlers.Exam.UpdateExam)
		api.DELETE("/exams/:id", middleware.RequirePermission(model.PermissionExamsWrite), handlers.Exam.DeleteExam)

		// Marks
		marks := api.Group("/marks", middleware.RequirePermission(model.PermissionMarksWrite))
		{
			marks.GET("", handlers.Marks.GetMarkSheet)
			marks.POST("", handlers.Marks.SubmitMarks)
			marks.POST("/preview", handlers.Marks.PreviewReport)
			marks.GET("/queue", handlers.Marks.GetQueue)
		}

		// Reports
		reports := api.Group("/reports/students/:student_id",
			middleware.RequireAnyPermission(model.PermissionReportsReadAll, model.PermissionReportsReadOwn),
			middleware.RequireOwnStudent("student_id"),
		)
		{
			reports.GET("", handlers.Report.ListResults)
			reports.GET("/exams/:exam_id", handlers.Report.GetReportCard)
			reports.GET("/exams/:exam_id/pdf", handlers.Report.GetReportCardPDF)
		}

		examResults := api.Group("/reports/exams/:exam_id", middleware.RequirePermission(model.PermissionReportsReadAll))
		{
			examResults.GET("/results", handlers.Report.GetExamResults)
			examResults.GET("/results/export", handlers.Report.ExportExamResults)
		}

		// Dashboard
		api.GET("/dashboard", middleware.RequirePermission(model.PermissionDashboardRead), handlers.Dashboard.GetSummary)
	}

	return router
}

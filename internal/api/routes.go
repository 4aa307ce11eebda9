package api

import (
	"coachplan/fitness-app/internal/domain"
	"coachplan/fitness-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	shareBaseURL string,
	authService service.AuthService,
	questionService service.QuestionService,
	interviewService service.InterviewService,
	planService service.PlanService,
	workoutService service.WorkoutService,
	shareService service.ShareService,
	mediaService service.MediaService,
) {

	authHandler := NewAuthHandler(authService)
	questionHandler := NewQuestionHandler(questionService)
	interviewHandler := NewInterviewHandler(interviewService)
	planHandler := NewPlanHandler(planService)
	workoutHandler := NewWorkoutHandler(workoutService)
	shareHandler := NewShareHandler(shareService, shareBaseURL)
	mediaHandler := NewMediaHandler(mediaService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Public: the interview can be previewed without an account.
		apiV1.GET("/questions", interviewHandler.GetQuestions)

		// Public: shared session surface, authorized by token alone.
		sharedGroup := apiV1.Group("/shared")
		{
			sharedGroup.GET("/:token", shareHandler.GetSharedSession)
			sharedGroup.POST("/:token/exercises/:exerciseId", shareHandler.CheckOffSharedExercise)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Interview Routes ---
		interviewGroup := protected.Group("/interview")
		{
			interviewGroup.POST("/responses", interviewHandler.SubmitInterview)
			interviewGroup.GET("/responses", interviewHandler.GetResponses)
		}

		// --- Plan Routes ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("/generate", planHandler.GeneratePlan)
			planGroup.GET("", planHandler.ListPlans)
			planGroup.GET("/:planId", planHandler.GetPlan)
		}

		// --- Template Routes ---
		templateGroup := protected.Group("/templates")
		{
			templateGroup.POST("", workoutHandler.CreateTemplate)
			templateGroup.GET("", workoutHandler.ListTemplates)
			templateGroup.GET("/:templateId", workoutHandler.GetTemplate)
			templateGroup.PUT("/:templateId", workoutHandler.UpdateTemplate)
			templateGroup.DELETE("/:templateId", workoutHandler.DeleteTemplate)
			templateGroup.POST("/:templateId/sessions", workoutHandler.StartSession)
		}

		// --- Session Routes ---
		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.GET("/:sessionId", workoutHandler.GetSession)
			sessionGroup.PUT("/:sessionId/exercises/:exerciseId", workoutHandler.SetExerciseCompletion)
			sessionGroup.POST("/:sessionId/finish", workoutHandler.FinishSession)
			sessionGroup.POST("/:sessionId/reset", workoutHandler.ResetSession)
			sessionGroup.POST("/:sessionId/share", shareHandler.IssueShareLink)
			sessionGroup.DELETE("/:sessionId/share", shareHandler.RevokeShareLinks)
		}

		// --- Calendar Routes ---
		calendarGroup := protected.Group("/calendar")
		{
			calendarGroup.GET("", workoutHandler.CalendarMonth)
			calendarGroup.GET("/:date", workoutHandler.CalendarDay)
		}

		// --- Media Routes ---
		mediaGroup := protected.Group("/media")
		{
			mediaGroup.POST("/upload", mediaHandler.RequestUpload)
			mediaGroup.GET("/:mediaId/download", mediaHandler.GetDownloadURL)
		}

		// --- Admin Routes ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.GET("/questions", questionHandler.ListAll)
			adminGroup.POST("/questions", questionHandler.Create)
			adminGroup.PUT("/questions/:questionId", questionHandler.Update)
			adminGroup.PATCH("/questions/:questionId/enabled", questionHandler.SetEnabled)
		}
	}
}

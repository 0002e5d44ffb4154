package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/NutriFlow-2025/coaching-service/internal/models"
	"github.com/NutriFlow-2025/coaching-service/internal/services"
	"github.com/NutriFlow-2025/coaching-service/internal/utils"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	checkinHandler      *CheckinHandler
	reviewHandler       *ReviewHandler
	outreachHandler     *OutreachHandler
	userHandler         *UserHandler
	questionHandler     *QuestionHandler
	contentHandler      *ContentHandler
	checklistHandler    *ChecklistHandler
	financialHandler    *FinancialHandler
	substitutionHandler *SubstitutionHandler
	sessions            *SessionStore
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	sessions := NewSessionStore()

	return &HandlerManager{
		authHandler:         NewAuthHandler(serviceManager.User(), sessions, logger),
		checkinHandler:      NewCheckinHandler(serviceManager.Checkin(), serviceManager.SnackLog(), logger),
		reviewHandler:       NewReviewHandler(serviceManager.Review(), logger),
		outreachHandler:     NewOutreachHandler(serviceManager.Outreach(), logger),
		userHandler:         NewUserHandler(serviceManager.User(), logger),
		questionHandler:     NewQuestionHandler(serviceManager.Question(), logger),
		contentHandler:      NewContentHandler(serviceManager.Content(), logger),
		checklistHandler:    NewChecklistHandler(serviceManager.Checklist(), logger),
		financialHandler:    NewFinancialHandler(serviceManager.Financial(), logger),
		substitutionHandler: NewSubstitutionHandler(serviceManager.Substitution(), logger),
		sessions:            sessions,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Login is the only open API route
	router.POST("/api/v1/auth/login", hm.authHandler.Login)

	v1 := router.Group("/api/v1")
	v1.Use(AuthMiddleware(hm.sessions))
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/logout", hm.authHandler.Logout)
			auth.GET("/me", hm.authHandler.Me)
			auth.PUT("/password", hm.userHandler.ChangePassword)
		}

		// Patient surfaces
		checkins := v1.Group("/checkins")
		{
			checkins.GET("/gate", hm.checkinHandler.Gate)
			checkins.POST("", hm.checkinHandler.Submit)
			checkins.GET("", hm.checkinHandler.History)
			checkins.GET("/heatmap", hm.checkinHandler.Heatmap)
			checkins.GET("/reminder", hm.outreachHandler.Reminder)
		}

		snackLogs := v1.Group("/snack-logs")
		{
			snackLogs.POST("", hm.checkinHandler.SubmitSnackLog)
			snackLogs.GET("", hm.checkinHandler.SnackLogHistory)
		}

		checklist := v1.Group("/checklist")
		{
			checklist.GET("/today", hm.checklistHandler.Today)
			checklist.PUT("/today", hm.checklistHandler.Save)
		}

		course := v1.Group("/course")
		{
			course.GET("/videos", hm.contentHandler.ListVideos)
			course.GET("/progress", hm.contentHandler.Progress)
			course.PUT("/videos/:id/completion", hm.contentHandler.SetLessonCompleted)
		}

		substitutions := v1.Group("/substitutions")
		{
			substitutions.GET("/groups", hm.substitutionHandler.Groups)
			substitutions.GET("/foods", hm.substitutionHandler.Foods)
			substitutions.POST("/calculate", hm.substitutionHandler.Calculate)
		}

		v1.GET("/notices", hm.contentHandler.ActiveNotices)
		v1.GET("/partners", hm.contentHandler.ListPartners)
		v1.GET("/questions", hm.questionHandler.ListActive)

		// Coach surfaces
		admin := v1.Group("/admin")
		admin.Use(RequireRoleMiddleware(models.RoleAdmin))
		{
			patients := admin.Group("/patients")
			{
				patients.GET("", hm.userHandler.ListUsers)
				patients.POST("", hm.userHandler.Register)
				patients.GET("/:username", hm.userHandler.GetUser)
				patients.PUT("/:username", hm.userHandler.UpdateUser)
				patients.PUT("/:username/active", hm.userHandler.SetActive)
				patients.DELETE("/:username", hm.userHandler.DeleteUser)
				patients.GET("/:username/checkins", hm.checkinHandler.HistoryFor)
				patients.GET("/:username/heatmap", hm.checkinHandler.HeatmapFor)
				patients.POST("/:username/rescore", hm.checkinHandler.Rescore)
			}

			review := admin.Group("/review")
			{
				review.GET("/pending", hm.reviewHandler.PendingQueue)
				review.GET("/pending-usernames", hm.reviewHandler.PendingUsernames)
				review.POST("/checkins/:id", hm.reviewHandler.MarkCheckinReviewed)
				review.POST("/checkins/:username/:date", hm.reviewHandler.MarkCheckinReviewedByKey)
				review.POST("/snack-logs/:username", hm.reviewHandler.MarkAllSnackLogsReviewed)
			}

			outreach := admin.Group("/outreach")
			{
				outreach.GET("/due", hm.outreachHandler.DueToday)
				outreach.POST("/dispatch", hm.outreachHandler.Dispatch)
			}

			questions := admin.Group("/questions")
			{
				questions.GET("", hm.questionHandler.List)
				questions.POST("", hm.questionHandler.Create)
				questions.PUT("/reorder", hm.questionHandler.Reorder)
				questions.PUT("/:id", hm.questionHandler.Update)
				questions.DELETE("/:id", hm.questionHandler.Deactivate)
			}

			notices := admin.Group("/notices")
			{
				notices.POST("", hm.contentHandler.PublishNotice)
				notices.DELETE("", hm.contentHandler.ClearNotices)
			}

			videos := admin.Group("/videos")
			{
				videos.POST("", hm.contentHandler.CreateVideo)
				videos.PUT("/:id", hm.contentHandler.UpdateVideo)
				videos.DELETE("/:id", hm.contentHandler.DeleteVideo)
			}

			partners := admin.Group("/partners")
			{
				partners.POST("", hm.contentHandler.CreatePartner)
				partners.PUT("/:id", hm.contentHandler.UpdatePartner)
				partners.DELETE("/:id", hm.contentHandler.DeletePartner)
			}

			financial := admin.Group("/financial")
			{
				financial.GET("/entries", hm.financialHandler.List)
				financial.POST("/entries", hm.financialHandler.Create)
				financial.PUT("/entries/:id", hm.financialHandler.Update)
				financial.DELETE("/entries/:id", hm.financialHandler.Delete)
				financial.GET("/summary", hm.financialHandler.Summary)
				financial.GET("/export", hm.financialHandler.Export)
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "coaching-service",
		})
	})
}

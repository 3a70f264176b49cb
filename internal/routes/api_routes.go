// taskhive/internal/routes/api_routes.go
package routes

import (
	"taskhive/internal/handlers"
	"taskhive/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все маршруты API, требующие аутентификации.
func RegisterAPIRoutes(api *gin.RouterGroup) {
	// Группа для всех API-запросов с префиксом /api
	apiGroup := api.Group("/api")
	{
		// --- ПРОФИЛЬ ---
		profile := apiGroup.Group("/profile")
		{
			profile.GET("", handlers.GetProfileHandler)
			profile.PUT("", handlers.UpdateProfileHandler)
		}

		// --- ПОЛЬЗОВАТЕЛИ ---
		apiGroup.GET("/users", handlers.ListUsersHandler)

		// --- УВЕДОМЛЕНИЯ ---
		notifications := apiGroup.Group("/notifications")
		{
			// WebSocket эндпоинт для push-уведомлений
			notifications.GET("/ws", func(c *gin.Context) {
				handlers.NotificationsWSEndpoint(c)
			})
			notifications.GET("", handlers.ListNotificationsHandler)
			notifications.PUT("/:id/read", handlers.MarkNotificationReadHandler)
		}

		// --- ПРОЕКТЫ ---
		projects := apiGroup.Group("/projects")
		{
			projects.GET("", handlers.ListProjectsHandler)
			projects.POST("", handlers.CreateProjectHandler)

			project := projects.Group("/:projectId")
			project.Use(middleware.ProjectMemberMiddleware("projectId"))
			{
				project.GET("", handlers.GetProjectHandler)
				project.PUT("", handlers.UpdateProjectHandler)
				project.DELETE("", handlers.DeleteProjectHandler)
				project.POST("/members", handlers.AddProjectMemberHandler)
				project.DELETE("/members/:userId", handlers.RemoveProjectMemberHandler)
				project.GET("/invite/qr", handlers.ProjectInviteQRHandler)

				// Задачи проекта
				project.GET("/tasks", handlers.ListTasksHandler)
				project.POST("/tasks", handlers.CreateTaskHandler)

				// Спринты проекта
				project.GET("/sprints", handlers.ListSprintsHandler)
				project.GET("/sprints/active", handlers.ListActiveSprintsHandler)
				project.POST("/sprints", handlers.CreateSprintHandler) // создает спринт вместе с церемониями

				// Бэклоги проекта
				project.POST("/backlogs", handlers.CreateBacklogHandler)

				// Календарь проекта
				project.GET("/events", handlers.ListProjectEventsHandler)
				project.POST("/events", handlers.CreateEventHandler)

				// Форум проекта
				project.GET("/forum/threads", handlers.ListThreadsHandler)
				project.POST("/forum/threads", handlers.CreateThreadHandler)

				// Q&A проекта
				project.GET("/questions", handlers.ListQuestionsHandler)
				project.POST("/questions", handlers.CreateQuestionHandler)
			}
		}

		// Вступление в проект по коду приглашения
		apiGroup.POST("/join/:code", handlers.JoinByInviteHandler)

		// --- СПРИНТЫ ---
		sprints := apiGroup.Group("/sprints")
		{
			sprints.GET("/:id", handlers.GetSprintHandler)
			sprints.PUT("/:id", handlers.UpdateSprintHandler)
			sprints.DELETE("/:id", handlers.DeleteSprintHandler)
			sprints.PUT("/:id/start", handlers.StartSprintHandler)
			sprints.PUT("/:id/complete", handlers.CompleteSprintHandler)
			sprints.GET("/:id/late", handlers.SprintLatenessHandler)
			sprints.GET("/:id/report.xlsx", handlers.SprintReportHandler)
			sprints.POST("/:id/userstories/:userStoryId", handlers.AddUserStoryToSprintHandler)
		}

		// --- ПОЛЬЗОВАТЕЛЬСКИЕ ИСТОРИИ ---
		userStories := apiGroup.Group("/userstories")
		{
			userStories.POST("", handlers.CreateUserStoryHandler)
			userStories.GET("/:id", handlers.GetUserStoryHandler)
			userStories.PUT("/:id", handlers.UpdateUserStoryHandler)
			userStories.DELETE("/:id", handlers.DeleteUserStoryHandler)
			userStories.DELETE("/:id/sprint", handlers.RemoveUserStoryFromSprintHandler)
			userStories.DELETE("/:id/backlog", handlers.RemoveUserStoryFromBacklogHandler)
		}

		// --- БЭКЛОГИ ---
		backlogs := apiGroup.Group("/backlogs")
		{
			backlogs.GET("/:id", handlers.GetBacklogHandler)
			backlogs.POST("/:id/userstories/:userStoryId", handlers.AddUserStoryToBacklogHandler)
		}

		// --- ЗАДАЧИ ---
		tasks := apiGroup.Group("/tasks")
		{
			tasks.GET("/:id", handlers.GetTaskHandler)
			tasks.PUT("/:id", handlers.UpdateTaskHandler)
			tasks.DELETE("/:id", handlers.DeleteTaskHandler)
		}

		// --- СОБЫТИЯ ---
		events := apiGroup.Group("/events")
		{
			events.PUT("/:id", handlers.UpdateEventHandler)
			events.DELETE("/:id", handlers.DeleteEventHandler)
		}

		// --- ФОРУМ ---
		forum := apiGroup.Group("/forum")
		{
			forum.GET("/threads/:id", handlers.GetThreadHandler)
			forum.DELETE("/threads/:id", handlers.DeleteThreadHandler)
			forum.POST("/threads/:id/posts", handlers.CreatePostHandler)
			forum.GET("/posts/:id/sentiment", handlers.PostSentimentHandler)
		}

		// --- Q&A ---
		questions := apiGroup.Group("/questions")
		{
			questions.GET("/:id", handlers.GetQuestionHandler)
			questions.DELETE("/:id", handlers.DeleteQuestionHandler)
			questions.POST("/:id/answers", handlers.CreateAnswerHandler)
		}
		answers := apiGroup.Group("/answers")
		{
			answers.POST("/:id/vote", handlers.VoteAnswerHandler)
			answers.POST("/:id/accept", handlers.AcceptAnswerHandler)
		}

		// --- КАЛЕНДАРНАЯ СИНХРОНИЗАЦИЯ ---
		calendarGroup := apiGroup.Group("/calendar")
		{
			calendarGroup.GET("/google/url", handlers.GoogleAuthURLHandler)
			calendarGroup.GET("/google/callback", handlers.GoogleCallbackHandler)
			calendarGroup.POST("/sync", handlers.SyncCalendarHandler)
		}
	}
}

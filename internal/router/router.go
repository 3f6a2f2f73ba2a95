package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/projectpulse/backend/api/handler"
)

type Handlers struct {
	Task    *apiHandler.TaskHandler
	Comment *apiHandler.CommentHandler
	Search  *apiHandler.SearchHandler
	Project *apiHandler.ProjectHandler
	User    *apiHandler.UserHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Tasks
	r.GET("/api/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/api/tasks", authMiddleware(handlers.Task.CreateTask))
	r.GET("/api/tasks/user/{userId}", authMiddleware(handlers.Task.GetUserTasks))
	r.PATCH("/api/tasks/{taskId}/status", authMiddleware(handlers.Task.UpdateTaskStatus))
	r.GET("/api/tasks/{taskId}/activity", authMiddleware(handlers.Task.GetActivity))

	// Comments
	r.POST("/api/tasks/{taskId}/comments", authMiddleware(handlers.Comment.AddComment))
	r.GET("/api/tasks/{taskId}/comments", authMiddleware(handlers.Comment.GetComments))

	// Search
	r.GET("/api/search", authMiddleware(handlers.Search.Search))

	// Projects
	r.GET("/api/projects", authMiddleware(handlers.Project.GetProjects))
	r.POST("/api/projects", authMiddleware(handlers.Project.CreateProject))
	r.GET("/api/projects/{id}", authMiddleware(handlers.Project.GetProject))

	// Users and teams
	r.GET("/api/users", authMiddleware(handlers.User.GetUsers))
	r.GET("/api/users/{userSub}", authMiddleware(handlers.User.GetUserBySubject))
	r.GET("/api/teams", authMiddleware(handlers.User.GetTeams))

	return r
}

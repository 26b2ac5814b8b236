package http

import (
	"github.com/gin-gonic/gin"

	"gopherai-interview/internal/bootstrap"
	"gopherai-interview/internal/transport/http/handler"
	"gopherai-interview/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := newEngine()

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	registerInterviewRoutes(router, handler.NewInterviewHandler(app.Interview))
	return router
}

func newEngine() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), gin.Logger(), gin.Recovery())
	return router
}

func registerInterviewRoutes(router *gin.Engine, interviewHandler *handler.InterviewHandler) {
	v1 := router.Group("/api/v1")
	v1.POST("/sessions", interviewHandler.StartSession)
	v1.POST("/answers", interviewHandler.SubmitAnswer)
	v1.POST("/summary", interviewHandler.EndSession)

	// legacy browser client paths
	router.POST("/start-session", interviewHandler.StartSession)
	router.POST("/answer", interviewHandler.SubmitAnswer)
	router.POST("/summary", interviewHandler.EndSession)
}

package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gopkg.in/alexcesaro/statsd.v2"

	"trivia_api/function"
	"trivia_api/service"
)

type Options struct {
	// CORSOrigins defaults to every origin.
	CORSOrigins []string
	// Stats may be nil, metrics are then dropped.
	Stats *statsd.Client
}

// New builds the gin engine serving the trivia API.
func New(svc *service.QuestionService, opts Options) *gin.Engine {
	stats := opts.Stats
	if stats == nil {
		stats, _ = statsd.New(statsd.Mute(true))
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		gin.Recovery(),
		function.RequestID(),
		function.AccessLog(),
		function.Metrics(stats),
		cors.New(cors.Config{
			AllowOrigins: origins,
			AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Content-Type", "Authorization"},
		}),
	)

	r.NoRoute(func(c *gin.Context) { function.RespondWithError(http.StatusNotFound, c) })
	r.NoMethod(func(c *gin.Context) { function.RespondWithError(http.StatusMethodNotAllowed, c) })

	h := &handler{svc: svc}

	r.GET("/health", h.health)
	r.GET("/categories", h.listCategories)

	// the category listing and the delete route share the :id segment,
	// gin does not allow two wildcard names in one position
	r.GET("/questions", h.listQuestions)
	r.GET("/questions/:id", h.listQuestionsByCategory)
	r.DELETE("/questions/:id/delete", h.deleteQuestion)
	r.POST("/questions/add", h.createQuestion)
	r.POST("/questions/search", h.searchQuestions)

	r.POST("/quizzes", h.drawQuiz)

	return r
}

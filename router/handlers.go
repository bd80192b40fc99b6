package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trivia_api/function"
	"trivia_api/logger"
	"trivia_api/service"
)

type handler struct {
	svc *service.QuestionService
}

type searchRequest struct {
	SearchTerm *string `json:"searchTerm"`
}

type quizRequest struct {
	QuizCategoryID    int   `json:"quiz_category_id"`
	PreviousQuestions []int `json:"previous_questions"`
}

func (h *handler) health(c *gin.Context) {
	if err := h.svc.Healthy(); err != nil {
		logger.Log.Printf("[%s] health: %v", c.GetString("request_id"), err)
		function.RespondWithError(http.StatusServiceUnavailable, c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handler) listCategories(c *gin.Context) {
	categories, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"categories":       categories,
		"total_categories": len(categories),
	})
}

func (h *handler) listQuestions(c *gin.Context) {
	page, err := h.svc.ListQuestions(c.Request.Context(), function.CheckPage(c.Query("page")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"questions":       page.Questions,
		"total_questions": page.Total,
		"categories":      page.Categories,
	})
}

// postOnly are the /questions/<segment> routes that only exist for POST and
// would otherwise be read as a category id.
var postOnly = map[string]bool{"add": true, "search": true}

func (h *handler) listQuestionsByCategory(c *gin.Context) {
	if postOnly[c.Param("id")] {
		c.Header("Allow", http.MethodPost)
		function.RespondWithError(http.StatusMethodNotAllowed, c)
		return
	}

	categoryID, ok := function.CheckID(c.Param("id"))
	if !ok {
		function.RespondWithError(http.StatusNotFound, c)
		return
	}

	page, err := h.svc.QuestionsByCategory(categoryID, function.CheckPage(c.Query("page")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"questions":       page.Questions,
		"total_questions": page.Total,
	})
}

func (h *handler) deleteQuestion(c *gin.Context) {
	logger.Log.Printf("Delete a question is starting...")

	id, ok := function.CheckID(c.Param("id"))
	if !ok {
		function.RespondWithError(http.StatusNotFound, c)
		return
	}

	remaining, err := h.svc.DeleteQuestion(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"deleted":         id,
		"total_questions": remaining,
	})
	logger.Log.Printf("Delete a question is done...")
}

func (h *handler) createQuestion(c *gin.Context) {
	logger.Log.Printf("POST a question is starting...")

	var req service.NewQuestion
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errors.Join(service.ErrValidation, err))
		return
	}

	id, err := h.svc.CreateQuestion(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"created": id,
	})
	logger.Log.Printf("POST a question is done...")
}

func (h *handler) searchQuestions(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errors.Join(service.ErrValidation, err))
		return
	}
	if req.SearchTerm == nil {
		fail(c, errors.Join(service.ErrValidation, errors.New("searchTerm is required")))
		return
	}

	page, err := h.svc.Search(*req.SearchTerm, function.CheckPage(c.Query("page")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"questions":       page.Questions,
		"total_questions": page.Total,
	})
}

func (h *handler) drawQuiz(c *gin.Context) {
	var req quizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errors.Join(service.ErrValidation, err))
		return
	}

	question, err := h.svc.DrawQuiz(req.QuizCategoryID, req.PreviousQuestions)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"question": question,
	})
}

// fail logs err and answers with the status its kind maps to.
func fail(c *gin.Context, err error) {
	code := StatusFor(err)
	logger.Log.Printf("[%s] %s %s: %d: %v", c.GetString("request_id"), c.Request.Method, c.Request.URL.Path, code, err)
	function.RespondWithError(code, c)
}

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	default:
		// ErrPersistence, ErrSampling and anything unexpected
		return http.StatusUnprocessableEntity
	}
}

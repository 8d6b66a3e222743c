package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/moyinmi/trivia-api/internal/domain/entity"
	"github.com/moyinmi/trivia-api/internal/handler/dto"
	apperrors "github.com/moyinmi/trivia-api/internal/pkg/errors"
	"github.com/moyinmi/trivia-api/internal/service"
)

// QuestionHandler обрабатывает запросы к банку вопросов
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler создает новый обработчик вопросов
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// pageParam извлекает номер страницы из query-параметра "page".
// Некорректное или отсутствующее значение — страница 1, как в исходном API.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// GetCategories возвращает справочник категорий
// GET /api/categories
func (h *QuestionHandler) GetCategories(c *gin.Context) {
	categories, err := h.questionService.ListCategories()
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": categories,
	})
}

// GetQuestions возвращает страницу вопросов со справочником категорий
// GET /api/questions?page=N
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	page, categories, err := h.questionService.ListQuestions(pageParam(c))
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"questions":       dto.NewQuestionListResponse(page.Items),
		"total_questions": page.Total,
		"categories":      categories,
	})
}

// CreateQuestionRequest представляет запрос на создание вопроса.
// Категория принимается и числом, и строкой — клиенты шлют оба варианта.
type CreateQuestionRequest struct {
	Question   string      `json:"question"`
	Answer     string      `json:"answer"`
	Category   interface{} `json:"category"`
	Difficulty int         `json:"difficulty"`
}

// CreateQuestion создает новый вопрос
// POST /api/questions
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	categoryID, err := service.NormalizeCategoryID(req.Category)
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	question := &entity.Question{
		Text:       req.Question,
		Answer:     req.Answer,
		CategoryID: categoryID,
		Difficulty: req.Difficulty,
	}

	page, err := h.questionService.CreateQuestion(question, pageParam(c))
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"created":         question.ID,
		"questions":       dto.NewQuestionListResponse(page.Items),
		"total_questions": page.Total,
	})
}

// DeleteQuestion удаляет вопрос по ID
// DELETE /api/questions/:id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint) // Извлечено middleware

	if err := h.questionService.DeleteQuestion(questionID); err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"deleted": questionID,
	})
}

// SearchRequest представляет запрос поиска по подстроке
type SearchRequest struct {
	SearchTerm string `json:"searchTerm"`
}

// SearchQuestions ищет вопросы по подстроке текста
// POST /api/search
func (h *QuestionHandler) SearchQuestions(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "search term is required"})
		return
	}

	page, err := h.questionService.SearchQuestions(req.SearchTerm, pageParam(c))
	if err != nil {
		// Отсутствующий term и ноль совпадений исходный API отдаёт как 404
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
			return
		}
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"questions":       dto.NewQuestionListResponse(page.Items),
		"total_questions": page.Total,
	})
}

// GetQuestionsByCategory возвращает вопросы одной категории
// GET /api/categories/:id/questions
func (h *QuestionHandler) GetQuestionsByCategory(c *gin.Context) {
	categoryID := c.MustGet("categoryID").(uint) // Извлечено middleware

	page, label, err := h.questionService.QuestionsByCategory(categoryID, pageParam(c))
	if err != nil {
		h.handleQuestionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"questions":        dto.NewQuestionListResponse(page.Items),
		"total_questions":  page.Total,
		"current_category": label,
	})
}

// handleQuestionError переводит ошибки сервисов в HTTP-ответы:
// NotFound — 404, Validation и Store — 422 (generic unprocessable),
// всё прочее — 500 без деталей для клиента.
func (h *QuestionHandler) handleQuestionError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
	} else if errors.Is(err, apperrors.ErrStore) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": "unprocessable"})
	} else {
		log.Printf("ERROR: Internal server error in QuestionHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
	}
}

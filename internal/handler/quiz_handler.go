package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyinmi/trivia-api/internal/handler/dto"
	apperrors "github.com/moyinmi/trivia-api/internal/pkg/errors"
	"github.com/moyinmi/trivia-api/internal/service"
	"github.com/moyinmi/trivia-api/internal/service/quizplay"
)

// QuizHandler обрабатывает запросы режима игры
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler создает новый обработчик квиза
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// QuizCategoryRequest — область игры, присланная клиентом.
// id принимается и числом, и строкой; id 0 означает "все категории".
type QuizCategoryRequest struct {
	ID   interface{} `json:"id"`
	Type string      `json:"type"`
}

// PlayQuizRequest представляет запрос на следующий вопрос квиза.
// previous_questions — ID уже заданных вопросов; историю ведёт клиент,
// сервер между запросами ничего не хранит.
type PlayQuizRequest struct {
	QuizCategory      *QuizCategoryRequest `json:"quiz_category"`
	PreviousQuestions []uint               `json:"previous_questions"`
}

// PlayQuiz возвращает один случайный незаданный вопрос либо сигнал
// исчерпания пула
// POST /api/quizzes
func (h *QuizHandler) PlayQuiz(c *gin.Context) {
	var req PlayQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "malformed quiz request"})
		return
	}

	// Область игры обязательна; её отсутствие — некорректный запрос (404,
	// как в исходном API), а не исчерпание
	if req.QuizCategory == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "quiz_category is required"})
		return
	}

	categoryID, err := service.NormalizeCategoryID(req.QuizCategory.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}

	question, err := h.quizService.NextQuestion(quizplay.Scope(categoryID), req.PreviousQuestions)
	if err != nil {
		h.handlePlayError(c, err)
		return
	}

	// Пул исчерпан — штатный конец квиза, клиент завершает игру
	if question == nil {
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"question": nil,
			"message":  "no more questions available",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"question": dto.NewQuestionResponse(question),
	})
}

// handlePlayError обрабатывает ошибки сервиса квиза
func (h *QuizHandler) handlePlayError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return
	}
	log.Printf("ERROR: Internal server error in QuizHandler: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
}

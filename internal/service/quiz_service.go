package service

import (
	"fmt"
	"log"

	"github.com/moyinmi/trivia-api/internal/domain/entity"
	"github.com/moyinmi/trivia-api/internal/domain/repository"
	"github.com/moyinmi/trivia-api/internal/service/quizplay"
)

// QuizService отвечает за режим игры: выдаёт по одному случайному
// незаданному вопросу за запрос. Состояние квиза (список уже заданных
// вопросов) живёт у клиента и приходит в каждом запросе.
type QuizService struct {
	questionRepo repository.QuestionRepository
	selector     *quizplay.Selector
}

// NewQuizService создает новый сервис квиза
func NewQuizService(questionRepo repository.QuestionRepository, selector *quizplay.Selector) *QuizService {
	return &QuizService{
		questionRepo: questionRepo,
		selector:     selector,
	}
}

// NextQuestion возвращает случайный вопрос из области scope, не входящий
// в askedIDs. Возвращает (nil, nil), когда незаданных вопросов не осталось —
// штатный конец квиза, клиент завершает игру.
// Категория, на которую не заведено ни одного вопроса, ведёт себя так же:
// пул пуст с самого начала.
func (s *QuizService) NextQuestion(scope quizplay.Scope, askedIDs []uint) (*entity.Question, error) {
	var pool []entity.Question
	var err error

	if scope.All() {
		pool, err = s.questionRepo.ListAll()
	} else {
		pool, err = s.questionRepo.FindByCategory(scope.CategoryID())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz pool: %w", err)
	}

	question := s.selector.Pick(pool, askedIDs)
	if question == nil {
		log.Printf("[QuizService] Пул исчерпан: scope=%d, asked=%d", scope, len(askedIDs))
		return nil, nil
	}

	return question, nil
}

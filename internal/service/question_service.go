package service

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/moyinmi/trivia-api/internal/domain/entity"
	"github.com/moyinmi/trivia-api/internal/domain/repository"
	apperrors "github.com/moyinmi/trivia-api/internal/pkg/errors"
	"github.com/moyinmi/trivia-api/internal/pkg/paging"
)

// categoryCacheKey — ключ, под которым справочник категорий лежит в Redis
const categoryCacheKey = "categories:all"

// QuestionService предоставляет операции над банком вопросов:
// листинг с пагинацией, поиск, фильтр по категории, создание и удаление.
type QuestionService struct {
	questionRepo  repository.QuestionRepository
	categoryRepo  repository.CategoryRepository
	cacheRepo     repository.CacheRepository
	pageSize      int
	maxDifficulty int
	cacheTTL      time.Duration
}

// NewQuestionService создает новый сервис вопросов.
// pageSize и maxDifficulty фиксируются на время жизни процесса (из конфигурации),
// per-request переопределения не поддерживаются.
func NewQuestionService(
	questionRepo repository.QuestionRepository,
	categoryRepo repository.CategoryRepository,
	cacheRepo repository.CacheRepository,
	pageSize int,
	maxDifficulty int,
	cacheTTL time.Duration,
) *QuestionService {
	return &QuestionService{
		questionRepo:  questionRepo,
		categoryRepo:  categoryRepo,
		cacheRepo:     cacheRepo,
		pageSize:      pageSize,
		maxDifficulty: maxDifficulty,
		cacheTTL:      cacheTTL,
	}
}

// PageSize возвращает размер страницы, с которым работает сервис
func (s *QuestionService) PageSize() int {
	return s.pageSize
}

// ListCategories возвращает справочник категорий в виде id -> название.
// Справочник неизменяемый, поэтому отдаётся через Redis-кеш с TTL;
// при промахе или недоступности кеша читаем из Postgres и кладём обратно.
func (s *QuestionService) ListCategories() (map[uint]string, error) {
	if s.cacheRepo != nil {
		var cached map[uint]string
		err := s.cacheRepo.GetJSON(categoryCacheKey, &cached)
		if err == nil && len(cached) > 0 {
			return cached, nil
		}
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[QuestionService] Ошибка чтения категорий из кеша: %v", err)
		}
	}

	categories, err := s.categoryRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: no categories exist", apperrors.ErrNotFound)
	}

	result := make(map[uint]string, len(categories))
	for _, cat := range categories {
		result[cat.ID] = cat.Type
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(categoryCacheKey, result, s.cacheTTL); err != nil {
			log.Printf("[QuestionService] Ошибка записи категорий в кеш: %v", err)
		}
	}

	return result, nil
}

// ListQuestions возвращает страницу вопросов (нумерация с 1) вместе
// со справочником категорий. Пустая страница трактуется как ErrNotFound —
// так ведёт себя листинг вопросов на уровне API.
func (s *QuestionService) ListQuestions(page int) (paging.Page, map[uint]string, error) {
	questions, err := s.questionRepo.ListAll()
	if err != nil {
		return paging.Page{}, nil, fmt.Errorf("failed to list questions: %w", err)
	}

	current := paging.Paginate(questions, page, s.pageSize)
	if current.IsEmpty() {
		return paging.Page{}, nil, fmt.Errorf("%w: page %d is empty", apperrors.ErrNotFound, page)
	}

	categories, err := s.ListCategories()
	if err != nil {
		return paging.Page{}, nil, err
	}

	// Вопрос со ссылкой на несуществующую категорию — повреждённые данные
	for _, q := range current.Items {
		if _, ok := categories[q.CategoryID]; !ok {
			log.Printf("[QuestionService] Вопрос %d ссылается на неизвестную категорию %d", q.ID, q.CategoryID)
			return paging.Page{}, nil, fmt.Errorf("%w: question %d references unknown category %d",
				apperrors.ErrStore, q.ID, q.CategoryID)
		}
	}

	return current, categories, nil
}

// CreateQuestion валидирует и сохраняет новый вопрос, затем возвращает
// запрошенную страницу обновлённого списка (поведение исходного API:
// клиент сразу видит, куда попал созданный вопрос).
func (s *QuestionService) CreateQuestion(question *entity.Question, page int) (paging.Page, error) {
	if err := question.Validate(s.maxDifficulty); err != nil {
		return paging.Page{}, err
	}

	// Категория — внешний ключ на справочник, проверяем до записи
	if _, err := s.categoryRepo.GetByID(question.CategoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return paging.Page{}, fmt.Errorf("%w: unknown category %d", apperrors.ErrValidation, question.CategoryID)
		}
		return paging.Page{}, fmt.Errorf("failed to check category %d: %w", question.CategoryID, err)
	}

	if err := s.questionRepo.Create(question); err != nil {
		log.Printf("[QuestionService] Ошибка создания вопроса: %v", err)
		return paging.Page{}, fmt.Errorf("%w: %v", apperrors.ErrStore, err)
	}

	questions, err := s.questionRepo.ListAll()
	if err != nil {
		return paging.Page{}, fmt.Errorf("failed to list questions after create: %w", err)
	}

	return paging.Paginate(questions, page, s.pageSize), nil
}

// DeleteQuestion удаляет вопрос по ID.
// Отсутствующий ID — ErrNotFound, сбой хранилища при удалении — ErrStore.
func (s *QuestionService) DeleteQuestion(id uint) error {
	if _, err := s.questionRepo.GetByID(id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: question %d", apperrors.ErrNotFound, id)
		}
		return fmt.Errorf("failed to load question %d: %w", id, err)
	}

	if err := s.questionRepo.Delete(id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Гонка с параллельным удалением: запись успела исчезнуть
			return fmt.Errorf("%w: question %d", apperrors.ErrNotFound, id)
		}
		log.Printf("[QuestionService] Ошибка удаления вопроса %d: %v", id, err)
		return fmt.Errorf("%w: %v", apperrors.ErrStore, err)
	}

	return nil
}

// SearchQuestions ищет вопросы, текст которых содержит term (без учёта
// регистра; текст ответа в поиске не участвует), и возвращает страницу
// результата. Пустой term — ошибка входных данных, а не "найти всё".
// Ноль совпадений на уровне операции трактуется как ErrNotFound.
func (s *QuestionService) SearchQuestions(term string, page int) (paging.Page, error) {
	if strings.TrimSpace(term) == "" {
		return paging.Page{}, fmt.Errorf("%w: search term is required", apperrors.ErrValidation)
	}

	questions, err := s.questionRepo.ListAll()
	if err != nil {
		return paging.Page{}, fmt.Errorf("failed to list questions: %w", err)
	}

	matched := make([]entity.Question, 0)
	for _, q := range questions {
		if q.MatchesText(term) {
			matched = append(matched, q)
		}
	}

	if len(matched) == 0 {
		return paging.Page{}, fmt.Errorf("%w: no questions match %q", apperrors.ErrNotFound, term)
	}

	return paging.Paginate(matched, page, s.pageSize), nil
}

// QuestionsByCategory возвращает страницу вопросов категории и её название.
// Неизвестная категория — ErrNotFound. Пустая категория — это пустой список,
// не ошибка (в отличие от общего листинга).
func (s *QuestionService) QuestionsByCategory(categoryID uint, page int) (paging.Page, string, error) {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return paging.Page{}, "", fmt.Errorf("%w: category %d", apperrors.ErrNotFound, categoryID)
		}
		return paging.Page{}, "", fmt.Errorf("failed to load category %d: %w", categoryID, err)
	}

	questions, err := s.questionRepo.FindByCategory(categoryID)
	if err != nil {
		return paging.Page{}, "", fmt.Errorf("failed to find questions in category %d: %w", categoryID, err)
	}

	return paging.Paginate(questions, page, s.pageSize), category.Type, nil
}

// NormalizeCategoryID приводит идентификатор категории к числовому виду.
// Клиенты исторически присылают id и числом, и строкой ("2" и 2 — одна и
// та же категория), поэтому нормализация выполняется на границе сервиса,
// а дальше сравнение всегда числовое.
func NormalizeCategoryID(value interface{}) (uint, error) {
	switch v := value.(type) {
	case uint:
		return v, nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("%w: negative category id %d", apperrors.ErrValidation, v)
		}
		return uint(v), nil
	case int64:
		if v < 0 {
			return 0, fmt.Errorf("%w: negative category id %d", apperrors.ErrValidation, v)
		}
		return uint(v), nil
	case float64:
		// encoding/json декодирует числа в float64
		if v < 0 || v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: invalid category id %v", apperrors.ErrValidation, v)
		}
		return uint(v), nil
	case string:
		id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid category id %q", apperrors.ErrValidation, v)
		}
		return uint(id), nil
	case nil:
		return 0, fmt.Errorf("%w: category id is required", apperrors.ErrValidation)
	default:
		return 0, fmt.Errorf("%w: unsupported category id type %T", apperrors.ErrValidation, value)
	}
}

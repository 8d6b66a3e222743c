package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/moyinmi/trivia-api/internal/domain/entity"
	apperrors "github.com/moyinmi/trivia-api/internal/pkg/errors"
)

// ============================================================================
// Моки репозиториев (общие для question_service_test.go и quiz_service_test.go)
// ============================================================================

// MockQuestionRepo реализует repository.QuestionRepository
type MockQuestionRepo struct {
	mock.Mock
}

func (m *MockQuestionRepo) Create(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepo) GetByID(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockQuestionRepo) ListAll() ([]entity.Question, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) FindByCategory(categoryID uint) ([]entity.Question, error) {
	args := m.Called(categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockCategoryRepo реализует repository.CategoryRepository
type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) List() ([]entity.Category, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

func (m *MockCategoryRepo) GetByID(id uint) (*entity.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

// MockCacheRepo реализует repository.CacheRepository
type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepo) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepo) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

// ============================================================================
// Фикстуры
// ============================================================================

func fixtureQuestions(n int) []entity.Question {
	questions := make([]entity.Question, 0, n)
	for i := 1; i <= n; i++ {
		questions = append(questions, entity.Question{
			ID:         uint(i),
			Text:       fmt.Sprintf("Question number %d?", i),
			Answer:     fmt.Sprintf("Answer %d", i),
			CategoryID: uint(i%3 + 1),
			Difficulty: i%5 + 1,
		})
	}
	return questions
}

func fixtureCategories() []entity.Category {
	return []entity.Category{
		{ID: 1, Type: "Science"},
		{ID: 2, Type: "Art"},
		{ID: 3, Type: "Geography"},
	}
}

// newQuestionService собирает сервис с дефолтными для тестов параметрами
// (страница 10, сложность до 5, без кеша)
func newQuestionService(qr *MockQuestionRepo, cr *MockCategoryRepo) *QuestionService {
	return NewQuestionService(qr, cr, nil, 10, 5, time.Minute)
}

// ============================================================================
// ListCategories
// ============================================================================

func TestQuestionService_ListCategories(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	categoryRepo.On("List").Return(fixtureCategories(), nil)

	svc := newQuestionService(questionRepo, categoryRepo)

	categories, err := svc.ListCategories()

	require.NoError(t, err)
	assert.Equal(t, map[uint]string{1: "Science", 2: "Art", 3: "Geography"}, categories)
	categoryRepo.AssertExpectations(t)
}

func TestQuestionService_ListCategories_Empty(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	categoryRepo.On("List").Return([]entity.Category{}, nil)

	svc := newQuestionService(questionRepo, categoryRepo)

	_, err := svc.ListCategories()

	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "пустой справочник должен давать ErrNotFound")
}

func TestQuestionService_ListCategories_CacheHit(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	cacheRepo := new(MockCacheRepo)

	// Кеш наполняет dest и возвращает nil — репозиторий не должен вызываться
	cacheRepo.On("GetJSON", categoryCacheKey, mock.Anything).
		Run(func(args mock.Arguments) {
			dest := args.Get(1).(*map[uint]string)
			*dest = map[uint]string{1: "Science"}
		}).
		Return(nil)

	svc := NewQuestionService(questionRepo, categoryRepo, cacheRepo, 10, 5, time.Minute)

	categories, err := svc.ListCategories()

	require.NoError(t, err)
	assert.Equal(t, map[uint]string{1: "Science"}, categories)
	categoryRepo.AssertNotCalled(t, "List")
}

func TestQuestionService_ListCategories_CacheMissPopulatesCache(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	cacheRepo := new(MockCacheRepo)

	cacheRepo.On("GetJSON", categoryCacheKey, mock.Anything).Return(apperrors.ErrNotFound)
	categoryRepo.On("List").Return(fixtureCategories(), nil)
	cacheRepo.On("SetJSON", categoryCacheKey, mock.Anything, time.Minute).Return(nil)

	svc := NewQuestionService(questionRepo, categoryRepo, cacheRepo, 10, 5, time.Minute)

	categories, err := svc.ListCategories()

	require.NoError(t, err)
	assert.Len(t, categories, 3)
	cacheRepo.AssertCalled(t, "SetJSON", categoryCacheKey, mock.Anything, time.Minute)
}

// ============================================================================
// ListQuestions
// ============================================================================

func TestQuestionService_ListQuestions_FirstPage(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	questionRepo.On("ListAll").Return(fixtureQuestions(25), nil)
	categoryRepo.On("List").Return(fixtureCategories(), nil)

	svc := newQuestionService(questionRepo, categoryRepo)

	page, categories, err := svc.ListQuestions(1)

	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, 25, page.Total)
	assert.Len(t, categories, 3)
}

func TestQuestionService_ListQuestions_EmptyPageIsNotFound(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	questionRepo.On("ListAll").Return(fixtureQuestions(25), nil)

	svc := newQuestionService(questionRepo, categoryRepo)

	_, _, err := svc.ListQuestions(100)

	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "страница за пределами списка — NotFound")
}

func TestQuestionService_ListQuestions_OrphanCategoryIsStoreError(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	questionRepo.On("ListAll").Return([]entity.Question{
		{ID: 1, Text: "q1", Answer: "a1", CategoryID: 77, Difficulty: 1},
	}, nil)
	categoryRepo.On("List").Return(fixtureCategories(), nil)

	svc := newQuestionService(questionRepo, categoryRepo)

	_, _, err := svc.ListQuestions(1)

	assert.True(t, errors.Is(err, apperrors.ErrStore), "ссылка на несуществующую категорию — повреждённые данные")
}

// ============================================================================
// CreateQuestion
// ============================================================================

func TestQuestionService_CreateQuestion(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)

	categoryRepo.On("GetByID", uint(1)).Return(&entity.Category{ID: 1, Type: "Science"}, nil)

	// Репозиторий присваивает свежий ID, как это делает БД
	questionRepo.On("Create", mock.AnythingOfType("*entity.Question")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*entity.Question).ID = 26
		}).
		Return(nil)
	questionRepo.On("ListAll").Return(fixtureQuestions(26), nil)

	svc := newQuestionService(questionRepo, categoryRepo)

	question := &entity.Question{Text: "New question?", Answer: "Yes", CategoryID: 1, Difficulty: 3}
	page, err := svc.CreateQuestion(question, 1)

	require.NoError(t, err)
	assert.Equal(t, uint(26), question.ID, "созданному вопросу присваивается свежий ID")
	assert.Equal(t, 26, page.Total, "общий счётчик увеличился")
	questionRepo.AssertExpectations(t)
}

func TestQuestionService_CreateQuestion_EmptyFields(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	svc := newQuestionService(questionRepo, categoryRepo)

	for _, q := range []*entity.Question{
		{Text: "", Answer: "a", CategoryID: 1, Difficulty: 1},
		{Text: "q", Answer: "", CategoryID: 1, Difficulty: 1},
		{Text: "q", Answer: "a", CategoryID: 1, Difficulty: 0},
		{Text: "q", Answer: "a", CategoryID: 1, Difficulty: 9},
	} {
		_, err := svc.CreateQuestion(q, 1)
		assert.True(t, errors.Is(err, apperrors.ErrValidation), "ожидается ErrValidation для %+v", q)
	}

	questionRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestQuestionService_CreateQuestion_UnknownCategory(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	categoryRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)

	svc := newQuestionService(questionRepo, categoryRepo)

	_, err := svc.CreateQuestion(&entity.Question{Text: "q", Answer: "a", CategoryID: 99, Difficulty: 1}, 1)

	assert.True(t, errors.Is(err, apperrors.ErrValidation), "неизвестная категория нарушает FK и даёт ErrValidation")
	questionRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestQuestionService_CreateQuestion_StoreFailure(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	categoryRepo.On("GetByID", uint(1)).Return(&entity.Category{ID: 1, Type: "Science"}, nil)
	questionRepo.On("Create", mock.Anything).Return(errors.New("connection reset"))

	svc := newQuestionService(questionRepo, categoryRepo)

	_, err := svc.CreateQuestion(&entity.Question{Text: "q", Answer: "a", CategoryID: 1, Difficulty: 1}, 1)

	assert.True(t, errors.Is(err, apperrors.ErrStore), "сбой хранилища должен оборачиваться в ErrStore")
}

// ============================================================================
// DeleteQuestion
// ============================================================================

func TestQuestionService_DeleteQuestion(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	questionRepo.On("GetByID", uint(5)).Return(&entity.Question{ID: 5}, nil)
	questionRepo.On("Delete", uint(5)).Return(nil)

	svc := newQuestionService(questionRepo, categoryRepo)

	require.NoError(t, svc.DeleteQuestion(5))
	questionRepo.AssertExpectations(t)
}

func TestQuestionService_DeleteQuestion_NotFound(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	questionRepo.On("GetByID", uint(404)).Return(nil, apperrors.ErrNotFound)

	svc := newQuestionService(questionRepo, categoryRepo)

	err := svc.DeleteQuestion(404)

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	questionRepo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestQuestionService_DeleteQuestion_StoreFailure(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	questionRepo.On("GetByID", uint(5)).Return(&entity.Question{ID: 5}, nil)
	questionRepo.On("Delete", uint(5)).Return(errors.New("deadlock detected"))

	svc := newQuestionService(questionRepo, categoryRepo)

	err := svc.DeleteQuestion(5)

	assert.True(t, errors.Is(err, apperrors.ErrStore))
}

// ============================================================================
// SearchQuestions
// ============================================================================

func TestQuestionService_SearchQuestions_CaseInsensitive(t *testing.T) {
	questions := []entity.Question{
		{ID: 1, Text: "What is the title of the book?", Answer: "Dune"},
		{ID: 2, Text: "Name the capital of France", Answer: "Paris"},
		{ID: 3, Text: "The TITLE track of the album?", Answer: "Thriller"},
	}

	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	questionRepo.On("ListAll").Return(questions, nil)

	svc := newQuestionService(questionRepo, categoryRepo)

	// Верхний и нижний регистр дают одинаковый результат
	upper, err := svc.SearchQuestions("TITLE", 1)
	require.NoError(t, err)
	lower, err := svc.SearchQuestions("title", 1)
	require.NoError(t, err)

	assert.Equal(t, upper.Items, lower.Items)
	assert.Equal(t, 2, upper.Total)
	assert.Equal(t, uint(1), upper.Items[0].ID)
	assert.Equal(t, uint(3), upper.Items[1].ID)
}

func TestQuestionService_SearchQuestions_AnswerNotSearched(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	questionRepo.On("ListAll").Return([]entity.Question{
		{ID: 1, Text: "Who painted this?", Answer: "Van Gogh"},
	}, nil)

	svc := newQuestionService(questionRepo, categoryRepo)

	_, err := svc.SearchQuestions("gogh", 1)

	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "совпадение только в ответе не считается")
}

func TestQuestionService_SearchQuestions_NoMatches(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	questionRepo.On("ListAll").Return(fixtureQuestions(5), nil)

	svc := newQuestionService(questionRepo, categoryRepo)

	_, err := svc.SearchQuestions("nonexistent term", 1)

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestQuestionService_SearchQuestions_EmptyTerm(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	svc := newQuestionService(questionRepo, categoryRepo)

	for _, term := range []string{"", "   "} {
		_, err := svc.SearchQuestions(term, 1)
		assert.True(t, errors.Is(err, apperrors.ErrValidation), "пустой term — ошибка входных данных, не match-all")
	}

	questionRepo.AssertNotCalled(t, "ListAll")
}

// ============================================================================
// QuestionsByCategory
// ============================================================================

func TestQuestionService_QuestionsByCategory(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	categoryRepo.On("GetByID", uint(2)).Return(&entity.Category{ID: 2, Type: "Art"}, nil)
	questionRepo.On("FindByCategory", uint(2)).Return([]entity.Question{
		{ID: 4, Text: "q4", CategoryID: 2},
		{ID: 8, Text: "q8", CategoryID: 2},
	}, nil)

	svc := newQuestionService(questionRepo, categoryRepo)

	page, label, err := svc.QuestionsByCategory(2, 1)

	require.NoError(t, err)
	assert.Equal(t, "Art", label)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Total)
}

func TestQuestionService_QuestionsByCategory_Unknown(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	categoryRepo.On("GetByID", uint(77)).Return(nil, apperrors.ErrNotFound)

	svc := newQuestionService(questionRepo, categoryRepo)

	_, _, err := svc.QuestionsByCategory(77, 1)

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestQuestionService_QuestionsByCategory_EmptyCategoryIsNotError(t *testing.T) {
	questionRepo := new(MockQuestionRepo)
	categoryRepo := new(MockCategoryRepo)
	categoryRepo.On("GetByID", uint(3)).Return(&entity.Category{ID: 3, Type: "Geography"}, nil)
	questionRepo.On("FindByCategory", uint(3)).Return([]entity.Question{}, nil)

	svc := newQuestionService(questionRepo, categoryRepo)

	page, label, err := svc.QuestionsByCategory(3, 1)

	require.NoError(t, err)
	assert.Equal(t, "Geography", label)
	assert.True(t, page.IsEmpty())
}

// ============================================================================
// NormalizeCategoryID
// ============================================================================

func TestNormalizeCategoryID(t *testing.T) {
	// "2" и 2 — одна и та же категория независимо от представления
	fromString, err := NormalizeCategoryID("2")
	require.NoError(t, err)
	fromFloat, err := NormalizeCategoryID(float64(2))
	require.NoError(t, err)
	fromInt, err := NormalizeCategoryID(2)
	require.NoError(t, err)

	assert.Equal(t, uint(2), fromString)
	assert.Equal(t, fromString, fromFloat)
	assert.Equal(t, fromString, fromInt)
}

func TestNormalizeCategoryID_Invalid(t *testing.T) {
	for _, value := range []interface{}{"abc", "", "-1", -1, float64(2.5), nil, []int{1}} {
		_, err := NormalizeCategoryID(value)
		assert.True(t, errors.Is(err, apperrors.ErrValidation), "значение %v должно быть невалидным", value)
	}
}

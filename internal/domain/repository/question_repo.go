package repository

import "github.com/moyinmi/trivia-api/internal/domain/entity"

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	// Create создаёт новый вопрос и присваивает ему ID
	Create(question *entity.Question) error

	// GetByID возвращает вопрос по ID
	GetByID(id uint) (*entity.Question, error)

	// Delete удаляет вопрос по ID
	Delete(id uint) error

	// ListAll возвращает все вопросы в стабильном порядке (по ID).
	// Порядок детерминирован, на него опирается пагинация.
	ListAll() ([]entity.Question, error)

	// FindByCategory возвращает вопросы указанной категории (по ID, упорядочено)
	FindByCategory(categoryID uint) ([]entity.Question, error)

	// Count возвращает общее количество вопросов
	Count() (int64, error)
}

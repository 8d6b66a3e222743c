package repository

import "github.com/moyinmi/trivia-api/internal/domain/entity"

// CategoryRepository определяет методы для работы со справочником категорий.
// Категории создаются миграциями, поэтому интерфейс только читающий.
type CategoryRepository interface {
	// List возвращает все категории, упорядоченные по ID
	List() ([]entity.Category, error)

	// GetByID возвращает категорию по ID
	GetByID(id uint) (*entity.Category, error)
}

package entity

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/moyinmi/trivia-api/internal/pkg/errors"
)

// Question представляет вопрос в банке вопросов викторины
type Question struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Text       string    `gorm:"column:question;size:500;not null" json:"question"`
	Answer     string    `gorm:"size:500;not null" json:"answer"`
	CategoryID uint      `gorm:"column:category;not null;index" json:"category"`
	Difficulty int       `gorm:"not null;default:1" json:"difficulty"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// Validate проверяет обязательные поля вопроса перед сохранением.
// maxDifficulty — верхняя граница сложности из конфигурации (нижняя всегда 1).
func (q *Question) Validate(maxDifficulty int) error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: question text is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(q.Answer) == "" {
		return fmt.Errorf("%w: answer text is required", apperrors.ErrValidation)
	}
	if q.CategoryID == 0 {
		return fmt.Errorf("%w: category is required", apperrors.ErrValidation)
	}
	if q.Difficulty < 1 || q.Difficulty > maxDifficulty {
		return fmt.Errorf("%w: difficulty must be between 1 and %d", apperrors.ErrValidation, maxDifficulty)
	}
	return nil
}

// MatchesText проверяет, содержит ли текст вопроса подстроку term.
// Сравнение регистронезависимое и затрагивает только текст вопроса,
// текст ответа не участвует в поиске.
func (q *Question) MatchesText(term string) bool {
	return strings.Contains(strings.ToLower(q.Text), strings.ToLower(term))
}

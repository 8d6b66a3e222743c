package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/moyinmi/trivia-api/internal/pkg/errors"
)

func TestQuestion_Validate_Valid(t *testing.T) {
	// Arrange
	question := &Question{
		Text:       "Какая планета ближе всех к Солнцу?",
		Answer:     "Меркурий",
		CategoryID: 1,
		Difficulty: 3,
	}

	// Act & Assert
	assert.NoError(t, question.Validate(5), "валидный вопрос не должен давать ошибку")
}

func TestQuestion_Validate_RequiredFields(t *testing.T) {
	tests := []struct {
		name     string
		question Question
	}{
		{"пустой текст вопроса", Question{Text: "", Answer: "a", CategoryID: 1, Difficulty: 1}},
		{"текст вопроса из пробелов", Question{Text: "   ", Answer: "a", CategoryID: 1, Difficulty: 1}},
		{"пустой ответ", Question{Text: "q", Answer: "", CategoryID: 1, Difficulty: 1}},
		{"нет категории", Question{Text: "q", Answer: "a", CategoryID: 0, Difficulty: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.question.Validate(5)
			assert.True(t, errors.Is(err, apperrors.ErrValidation), "ожидается ErrValidation, получено: %v", err)
		})
	}
}

func TestQuestion_Validate_DifficultyBounds(t *testing.T) {
	base := Question{Text: "q", Answer: "a", CategoryID: 1}

	for _, d := range []int{1, 2, 3, 4, 5} {
		q := base
		q.Difficulty = d
		assert.NoError(t, q.Validate(5), "сложность %d должна быть валидной", d)
	}

	for _, d := range []int{0, -1, 6, 100} {
		q := base
		q.Difficulty = d
		err := q.Validate(5)
		assert.True(t, errors.Is(err, apperrors.ErrValidation), "сложность %d должна быть невалидной", d)
	}
}

func TestQuestion_MatchesText_CaseInsensitive(t *testing.T) {
	question := &Question{Text: "What is the title of Tom Hanks' first movie?"}

	assert.True(t, question.MatchesText("title"))
	assert.True(t, question.MatchesText("TITLE"))
	assert.True(t, question.MatchesText("Title"))
	assert.True(t, question.MatchesText("tom hanks"))
	assert.False(t, question.MatchesText("palindrome"))
}

func TestQuestion_MatchesText_IgnoresAnswer(t *testing.T) {
	// Поиск идёт только по тексту вопроса, ответ не учитывается
	question := &Question{
		Text:   "Who discovered penicillin?",
		Answer: "Alexander Fleming",
	}

	assert.False(t, question.MatchesText("fleming"))
	assert.True(t, question.MatchesText("penicillin"))
}

package paging

import "github.com/moyinmi/trivia-api/internal/domain/entity"

// Page представляет одну страницу результата вместе с общим количеством
// записей в исходной выборке, из которой она была вырезана.
type Page struct {
	Items []entity.Question
	Total int
}

// IsEmpty сообщает, что на странице нет ни одного вопроса
func (p Page) IsEmpty() bool {
	return len(p.Items) == 0
}

// Paginate вырезает из selection страницу номер pageNumber (нумерация с 1).
// Страница за пределами выборки — это пустая страница, а не ошибка:
// решение о том, считать ли её "not found", принимает вызывающая сторона.
// Исходный срез не модифицируется.
func Paginate(selection []entity.Question, pageNumber, pageSize int) Page {
	page := Page{Items: []entity.Question{}, Total: len(selection)}
	if pageNumber < 1 || pageSize < 1 {
		return page
	}

	start := (pageNumber - 1) * pageSize
	if start >= len(selection) {
		return page
	}

	end := start + pageSize
	if end > len(selection) {
		end = len(selection)
	}

	page.Items = selection[start:end]
	return page
}

package quizplay

import (
	"math/rand"
	"sync"
	"time"

	"github.com/moyinmi/trivia-api/internal/domain/entity"
)

// Scope задаёт область выбора вопросов для квиза:
// конкретная категория либо AllCategories — все категории сразу.
type Scope uint

// AllCategories — сентинел "играть по всем категориям" (id 0 в протоколе клиента)
const AllCategories Scope = 0

// All сообщает, что область не ограничена одной категорией
func (s Scope) All() bool {
	return s == AllCategories
}

// CategoryID возвращает ID категории для ограниченной области
func (s Scope) CategoryID() uint {
	return uint(s)
}

// Selector выбирает следующий вопрос квиза.
// Выбор одношаговый: сначала из пула убираются уже заданные вопросы,
// затем из оставшихся берётся один равновероятно. Никаких повторных
// бросков "пока не попадётся незаданный" — кандидат по построению
// не встречался игроку, а пустой остаток означает исчерпание пула.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector создаёт селектор со случайным зерном
func NewSelector() *Selector {
	return NewSelectorWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewSelectorWithSource создаёт селектор с заданным источником случайности.
// Используется в тестах для воспроизводимости.
func NewSelectorWithSource(src rand.Source) *Selector {
	return &Selector{rng: rand.New(src)}
}

// Pick возвращает один ещё не заданный вопрос из pool, равновероятно
// среди всех подходящих. Возвращает nil, когда незаданных вопросов
// не осталось — это штатное завершение квиза, а не ошибка.
// Дубликаты в askedIDs допустимы и схлопываются.
func (s *Selector) Pick(pool []entity.Question, askedIDs []uint) *entity.Question {
	asked := make(map[uint]struct{}, len(askedIDs))
	for _, id := range askedIDs {
		asked[id] = struct{}{}
	}

	eligible := make([]entity.Question, 0, len(pool))
	for _, q := range pool {
		if _, ok := asked[q.ID]; !ok {
			eligible = append(eligible, q)
		}
	}

	if len(eligible) == 0 {
		return nil
	}

	// rand.Rand не потокобезопасен, запросы могут идти параллельно
	s.mu.Lock()
	idx := s.rng.Intn(len(eligible))
	s.mu.Unlock()

	question := eligible[idx]
	return &question
}

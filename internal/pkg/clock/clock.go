package clock

import (
	"fmt"
	"time"

	"github.com/atlasrent/backend/internal/domain"
)

// Clock - источник "делового сейчас": текущее время по часам агентства.
// Все решения об истечении броней и окнах уведомлений проходят через него,
// серверное локальное время нигде не используется напрямую.
type Clock interface {
	Now() domain.DateTime
}

// businessClock читает системные часы и переводит их в часовой пояс агентства
type businessClock struct {
	location *time.Location
}

// New создает Clock для указанного IANA часового пояса (например "Africa/Casablanca")
func New(timezone string) (Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("unable to load business timezone %q: %w", timezone, err)
	}
	return &businessClock{location: loc}, nil
}

// Now возвращает текущее wall-clock время в поясе агентства.
// Результат пересобирается через domain.NewDateTime, чтобы совпадать
// по представлению с датами броней.
func (c *businessClock) Now() domain.DateTime {
	return domain.NewDateTime(time.Now().In(c.location))
}

// Fixed - часы, всегда возвращающие одно и то же время. Для тестов.
type Fixed struct {
	Time domain.DateTime
}

// NewFixed создает фиксированные часы из строковой даты
func NewFixed(value string) (*Fixed, error) {
	dt, err := domain.ParseDateTime(value)
	if err != nil {
		return nil, err
	}
	return &Fixed{Time: dt}, nil
}

// Now возвращает зафиксированное время
func (f *Fixed) Now() domain.DateTime {
	return f.Time
}

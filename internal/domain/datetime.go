package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Форматы дат на проводе. Внутри системы даты аренды живут как time.Time
// с точностью до минуты, строковая форма - только сериализация.
const (
	DateTimeLayout = "2006-01-02T15:04" // формат input type="datetime-local"
	DateLayout     = "2006-01-02"
)

// DateTime - момент времени в часовом поясе агентства с точностью до минуты.
// Все значения хранятся как wall-clock время с меткой UTC, поэтому обычное
// сравнение time.Time совпадает со сравнением по местным часам агентства.
type DateTime struct {
	time.Time
}

// NewDateTime создает DateTime из компонент времени
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: time.Date(
		t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), 0, 0,
		time.UTC,
	)}
}

// ParseDateTime парсит дату из одной из двух поддерживаемых форм:
// "YYYY-MM-DDTHH:mm" или "YYYY-MM-DD" (нормализуется к полуночи)
func ParseDateTime(s string) (DateTime, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateTimeLayout, s, time.UTC); err == nil {
		return DateTime{Time: t}, nil
	}
	if t, err := time.ParseInLocation(DateLayout, s, time.UTC); err == nil {
		return DateTime{Time: t}, nil
	}
	return DateTime{}, fmt.Errorf("invalid date %q: expected %s or %s", s, DateTimeLayout, DateLayout)
}

// StartOfDay возвращает полночь того же дня
func (d DateTime) StartOfDay() DateTime {
	y, m, day := d.Date()
	return DateTime{Time: time.Date(y, m, day, 0, 0, 0, 0, time.UTC)}
}

// AddDays возвращает момент через указанное количество суток
func (d DateTime) AddDays(days int) DateTime {
	return DateTime{Time: d.Time.AddDate(0, 0, days)}
}

// String возвращает каноническую строковую форму
func (d DateTime) String() string {
	return d.Format(DateTimeLayout)
}

// MarshalJSON сериализует дату в каноническом формате
func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.Format(DateTimeLayout) + `"`), nil
}

// UnmarshalJSON принимает обе поддерживаемые формы
func (d *DateTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = DateTime{}
		return nil
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan реализует sql.Scanner для чтения из колонок timestamp
func (d *DateTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = DateTime{}
		return nil
	case time.Time:
		*d = NewDateTime(v.UTC())
		return nil
	case string:
		parsed, err := ParseDateTime(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into DateTime", src)
	}
}

// Value реализует driver.Valuer для записи в колонки timestamp
func (d DateTime) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

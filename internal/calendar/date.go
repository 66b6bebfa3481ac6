package calendar

import (
	"fmt"
	"time"
)

// Date identifica um dia de calendário, sem horário nem fuso.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extrai a data de calendário de um instante.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// At retorna o instante correspondente à hora do dia no fuso dado.
func (d Date) At(hour int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, 0, 0, 0, loc)
}

// AddDays retorna a data deslocada em dias (aceita valores negativos).
func (d Date) AddDays(days int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+days, 0, 0, 0, 0, time.UTC))
}

// Before indica se d antecede other na ordem de calendário.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// After indica se d sucede other na ordem de calendário.
func (d Date) After(other Date) bool {
	return other.Before(d)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

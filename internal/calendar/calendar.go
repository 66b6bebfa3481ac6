package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/cleberrangel/progresso-api/internal/timespan"
)

// ErrCalendarGap indica consulta a um dia fora do período conhecido
var ErrCalendarGap = errors.New("dia fora do período coberto pelo calendário")

// ErrEmptyCalendar indica que nenhum dia útil foi definido
var ErrEmptyCalendar = errors.New("calendário sem dias definidos")

// Shift define o expediente diário. Horas inteiras no fuso do calendário.
type Shift struct {
	DayStart   int `yaml:"day_start"`
	LunchStart int `yaml:"lunch_start"`
	LunchEnd   int `yaml:"lunch_end"`
	DayEnd     int `yaml:"day_end"`
}

// DefaultShift é o expediente padrão: 09:00–17:00 com almoço 12:00–13:00.
var DefaultShift = Shift{DayStart: 9, LunchStart: 12, LunchEnd: 13, DayEnd: 17}

// WorkCalendar materializa os períodos de folga (noites, almoços e dias
// não úteis) de um período de relatório. Imutável depois de construído,
// pode ser compartilhado entre qualquer número de leitores concorrentes.
type WorkCalendar struct {
	days   map[Date]bool
	breaks timespan.RangeSet
	loc    *time.Location
	shift  Shift
	first  Date
	last   Date
}

// New constrói o calendário a partir do mapa dia→útil. Para cada dia do
// período é gerada a folga noturna (fim do expediente da véspera até o
// início do expediente do dia), o almoço e, para dias não úteis, o dia
// inteiro. Folgas consecutivas são fundidas num único intervalo.
func New(days map[Date]bool, loc *time.Location, shift Shift) (*WorkCalendar, error) {
	if len(days) == 0 {
		return nil, ErrEmptyCalendar
	}
	if loc == nil {
		loc = time.Local
	}
	if shift == (Shift{}) {
		shift = DefaultShift
	}

	var first, last Date
	started := false
	for d := range days {
		if !started || d.Before(first) {
			first = d
		}
		if !started || d.After(last) {
			last = d
		}
		started = true
	}

	owned := make(map[Date]bool, len(days))
	for d, working := range days {
		owned[d] = working
	}

	var breaks timespan.RangeSet
	for d := first; !d.After(last); d = d.AddDays(1) {
		// noite: véspera DayEnd → dia DayStart
		breaks.Insert(timespan.Range{
			Start: d.AddDays(-1).At(shift.DayEnd, loc),
			End:   d.At(shift.DayStart, loc),
		})
		// almoço
		breaks.Insert(timespan.Range{
			Start: d.At(shift.LunchStart, loc),
			End:   d.At(shift.LunchEnd, loc),
		})
		if !days[d] {
			breaks.Insert(timespan.Range{
				Start: d.At(0, loc),
				End:   d.AddDays(1).At(0, loc),
			})
		}
	}
	// noite de fechamento do período
	breaks.Insert(timespan.Range{
		Start: last.At(shift.DayEnd, loc),
		End:   last.AddDays(1).At(shift.DayStart, loc),
	})

	return &WorkCalendar{
		days:   owned,
		breaks: breaks,
		loc:    loc,
		shift:  shift,
		first:  first,
		last:   last,
	}, nil
}

// IsWorkingDay consulta o mapa de dias. Dias fora do período conhecido
// retornam ErrCalendarGap: a tarefa que os toca deve ser rejeitada, nunca
// assumida como útil ou não útil.
func (c *WorkCalendar) IsWorkingDay(d Date) (bool, error) {
	working, ok := c.days[d]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrCalendarGap, d)
	}
	return working, nil
}

// Covers indica se o dia pertence ao período conhecido do calendário.
func (c *WorkCalendar) Covers(d Date) bool {
	_, ok := c.days[d]
	return ok
}

// Breaks retorna o conjunto de folgas do período.
func (c *WorkCalendar) Breaks() timespan.RangeSet {
	return c.breaks
}

// Location retorna o fuso horário do calendário.
func (c *WorkCalendar) Location() *time.Location {
	return c.loc
}

// First retorna o primeiro dia do período coberto.
func (c *WorkCalendar) First() Date {
	return c.first
}

// Last retorna o último dia do período coberto.
func (c *WorkCalendar) Last() Date {
	return c.last
}

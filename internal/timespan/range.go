package timespan

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidRange indica que o início não é anterior ao fim
	ErrInvalidRange = errors.New("início do intervalo deve ser anterior ao fim")

	// ErrTimezoneMismatch indica fusos horários diferentes entre início e fim
	ErrTimezoneMismatch = errors.New("fuso horário do início difere do fim")
)

// Range representa um intervalo de tempo semiaberto [Start, End).
// É um tipo valor: construído via NewRange e nunca modificado depois.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange cria um intervalo validado. O início deve ser estritamente
// anterior ao fim e ambos os instantes devem usar o mesmo fuso horário.
func NewRange(start, end time.Time) (Range, error) {
	if !start.Before(end) {
		return Range{}, fmt.Errorf("%w: %s >= %s",
			ErrInvalidRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	if start.Location().String() != end.Location().String() {
		return Range{}, fmt.Errorf("%w: %s vs %s",
			ErrTimezoneMismatch, start.Location(), end.Location())
	}
	return Range{Start: start, End: end}, nil
}

// Overlaps verifica sobreposição com semântica semiaberta:
// extremos que apenas se tocam não contam como sobreposição.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Subtract remove other de r e retorna os restos: o conjunto vazio,
// o próprio r quando não há sobreposição, ou até dois sub-intervalos
// (resto à esquerda e resto à direita da máscara).
func (r Range) Subtract(other Range) RangeSet {
	var rc RangeSet
	if !r.Overlaps(other) {
		rc.Insert(r)
		return rc
	}
	if r.Start.Before(other.Start) {
		rc.Insert(Range{Start: r.Start, End: minTime(r.End, other.Start)})
	}
	if other.End.Before(r.End) {
		rc.Insert(Range{Start: maxTime(r.Start, other.End), End: r.End})
	}
	return rc
}

// Duration retorna a duração do intervalo, sempre positiva.
func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

func (r Range) String() string {
	return fmt.Sprintf("[%s, %s)",
		r.Start.Format("2006-01-02 15:04:05"), r.End.Format("2006-01-02 15:04:05"))
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

package timespan

import (
	"sort"
	"time"
)

// RangeSet é uma coleção normalizada de intervalos: ordenada por início,
// sem sobreposições e sem intervalos adjacentes que se tocam (são fundidos).
// O conjunto vazio é válido e representa duração zero.
type RangeSet struct {
	ranges []Range
}

// NewRangeSet cria um conjunto já normalizado a partir dos intervalos dados.
func NewRangeSet(ranges ...Range) RangeSet {
	var s RangeSet
	for _, r := range ranges {
		s.Insert(r)
	}
	return s
}

// Insert adiciona um intervalo e renormaliza a coleção. O resultado é
// função canônica do conjunto inserido, independente da ordem de inserção.
func (s *RangeSet) Insert(r Range) {
	s.ranges = normalize(append(s.ranges, r))
}

// Subtract remove a máscara de cada intervalo do conjunto e retorna um
// novo conjunto normalizado com os restos. Subtrair o conjunto vazio é
// identidade; uma máscara que cobre tudo produz o conjunto vazio.
//
// A avaliação é par a par (quadrática no número de intervalos), o que é
// aceitável: os conjuntos têm granularidade de dias dentro de uma janela
// de relatório limitada.
func (s RangeSet) Subtract(mask RangeSet) RangeSet {
	var rc RangeSet
	for _, r := range s.ranges {
		remainder := []Range{r}
		for _, m := range mask.ranges {
			var next []Range
			for _, piece := range remainder {
				next = append(next, piece.Subtract(m).ranges...)
			}
			remainder = next
		}
		for _, piece := range remainder {
			rc.Insert(piece)
		}
	}
	return rc
}

// TotalDuration soma as durações de todos os intervalos do conjunto.
func (s RangeSet) TotalDuration() time.Duration {
	var total time.Duration
	for _, r := range s.ranges {
		total += r.Duration()
	}
	return total
}

// Ranges retorna uma cópia dos intervalos em ordem canônica.
func (s RangeSet) Ranges() []Range {
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Len retorna o número de intervalos do conjunto.
func (s RangeSet) Len() int {
	return len(s.ranges)
}

// IsEmpty indica se o conjunto não contém intervalos.
func (s RangeSet) IsEmpty() bool {
	return len(s.ranges) == 0
}

// normalize ordena por início e funde intervalos que se sobrepõem ou se
// tocam. Aplicar sobre um resultado já normalizado não altera nada.
func normalize(ranges []Range) []Range {
	if len(ranges) == 0 {
		return ranges
	}
	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	result := sorted[:1]
	for _, r := range sorted[1:] {
		last := &result[len(result)-1]
		if !last.End.Before(r.Start) {
			last.End = maxTime(last.End, r.End)
		} else {
			result = append(result, r)
		}
	}
	return result
}

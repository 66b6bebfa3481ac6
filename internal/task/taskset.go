package task

import (
	"sort"
	"time"
	"unicode/utf8"
)

// Totals agrega as quatro durações derivadas de um conjunto de tarefas.
type Totals struct {
	PlannedTotal time.Duration
	PlannedDone  time.Duration
	ActualTotal  time.Duration
	ActualDone   time.Duration
}

// Set é uma coleção ordenada de tarefas, sem duplicatas por nome, com
// agregados mantidos incrementalmente a cada inserção: período coberto
// e largura máxima de nome (para alinhamento na exibição).
type Set struct {
	tasks        []*Task
	byName       map[string]bool
	periodStart  time.Time
	periodEnd    time.Time
	maxNameWidth int
}

// NewSet cria um conjunto vazio.
func NewSet() *Set {
	return &Set{byName: make(map[string]bool)}
}

// Add insere a tarefa preservando a ordem de chegada. Uma tarefa com nome
// já presente é ignorada. Retorna se a tarefa foi de fato inserida.
func (s *Set) Add(t *Task) bool {
	if s.byName[t.Name] {
		return false
	}
	s.byName[t.Name] = true
	s.tasks = append(s.tasks, t)

	start := t.PlanStart
	if t.ActualStart != nil && t.ActualStart.Before(start) {
		start = *t.ActualStart
	}
	end := t.PlanEnd
	if t.ActualEnd != nil && t.ActualEnd.After(end) {
		end = *t.ActualEnd
	}
	if s.periodStart.IsZero() || start.Before(s.periodStart) {
		s.periodStart = start
	}
	if s.periodEnd.IsZero() || end.After(s.periodEnd) {
		s.periodEnd = end
	}
	if w := utf8.RuneCountInString(t.Name); w > s.maxNameWidth {
		s.maxNameWidth = w
	}
	return true
}

// AddAll insere todas as tarefas de other, mantendo a regra de nomes únicos.
func (s *Set) AddAll(other *Set) {
	for _, t := range other.tasks {
		s.Add(t)
	}
}

// Filter retorna um novo conjunto apenas com as tarefas aprovadas pelo
// predicado, com os agregados recalculados para o subconjunto.
func (s *Set) Filter(keep func(*Task) bool) *Set {
	out := NewSet()
	for _, t := range s.tasks {
		if keep(t) {
			out.Add(t)
		}
	}
	return out
}

// Tasks retorna as tarefas na ordem de inserção.
func (s *Set) Tasks() []*Task {
	out := make([]*Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len retorna o número de tarefas do conjunto.
func (s *Set) Len() int {
	return len(s.tasks)
}

// Names retorna os nomes das tarefas na ordem de inserção.
func (s *Set) Names() []string {
	names := make([]string, len(s.tasks))
	for i, t := range s.tasks {
		names[i] = t.Name
	}
	return names
}

// PeriodStart retorna o menor início efetivo entre as tarefas.
func (s *Set) PeriodStart() time.Time {
	return s.periodStart
}

// PeriodEnd retorna o maior fim efetivo entre as tarefas.
func (s *Set) PeriodEnd() time.Time {
	return s.periodEnd
}

// MaxNameWidth retorna a largura (em runas) do maior nome de tarefa.
func (s *Set) MaxNameWidth() int {
	return s.maxNameWidth
}

// Totals soma as durações derivadas de todas as tarefas. Conjunto vazio
// produz zeros.
func (s *Set) Totals() Totals {
	var total Totals
	for _, t := range s.tasks {
		total.PlannedTotal += t.PlannedTotal
		total.PlannedDone += t.PlannedDone
		total.ActualTotal += t.ActualTotal
		total.ActualDone += t.ActualDone
	}
	return total
}

// CalcBase limita a data de referência ao período coberto pelo conjunto
// e retorna os limites do dia resultante [início, fim). Evita avaliar
// responsabilidade em relação a um dia fora da linha do tempo real.
func (s *Set) CalcBase(ref time.Time) (time.Time, time.Time) {
	clamped := ref
	if !s.periodStart.IsZero() {
		if clamped.Before(s.periodStart) {
			clamped = s.periodStart
		}
		if clamped.After(s.periodEnd) {
			clamped = s.periodEnd
		}
	}
	y, m, d := clamped.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, clamped.Location())
	dayEnd := time.Date(y, m, d+1, 0, 0, 0, 0, clamped.Location())
	return dayStart, dayEnd
}

// NamesResponsible lista, em ordem de início previsto, os nomes das
// tarefas sob responsabilidade no dia da data de referência.
func (s *Set) NamesResponsible(ref time.Time) []string {
	dayStart, dayEnd := s.CalcBase(ref)
	sorted := make([]*Task, len(s.tasks))
	copy(sorted, s.tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PlanStart.Before(sorted[j].PlanStart)
	})
	var names []string
	for _, t := range sorted {
		if t.IsResponsible(dayStart, dayEnd) {
			names = append(names, t.Name)
		}
	}
	return names
}

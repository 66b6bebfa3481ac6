package task

import (
	"fmt"
	"time"

	"github.com/cleberrangel/progresso-api/internal/calendar"
	"github.com/cleberrangel/progresso-api/internal/timespan"
)

// Warning descreve um reparo aplicado aos campos de uma tarefa. É dado
// estruturado: a apresentação (console, log, UI) fica com quem consome.
type Warning struct {
	Task    string `json:"task"`
	Message string `json:"message"`
}

// Policy reúne as constantes de estimativa e reparo. O limiar de
// extrapolação e o alargamento de intervalos degenerados são valores de
// ajuste, não literais fixos.
type Policy struct {
	// ExtrapolationMin é o progresso mínimo (%) a partir do qual o
	// esforço total é extrapolado do tempo já gasto. Abaixo disso o
	// número reportado é ruidoso demais e vale o plano.
	ExtrapolationMin int

	// Widen é o quanto alargar um intervalo de duração zero.
	Widen time.Duration
}

// DefaultPolicy é a política padrão de estimativa.
var DefaultPolicy = Policy{ExtrapolationMin: 30, Widen: time.Second}

// Raw são os campos de uma tarefa como chegam da ingestão, antes de
// qualquer validação. Progress nil significa coluna vazia.
type Raw struct {
	Name        string
	Line        int
	Progress    *int
	PlanStart   time.Time
	PlanEnd     time.Time
	ActualStart *time.Time
	ActualEnd   *time.Time
}

// Task é uma tarefa validada com a contabilidade derivada. Construída por
// New e imutável depois disso.
type Task struct {
	Name        string
	PlanStart   time.Time
	PlanEnd     time.Time
	ActualStart *time.Time
	ActualEnd   *time.Time
	Progress    int
	Now         time.Time

	// Durações líquidas de folga, derivadas uma única vez na construção.
	PlannedTotal time.Duration
	PlannedDone  time.Duration
	ActualTotal  time.Duration
	ActualDone   time.Duration

	Warnings []Warning
}

// Validate aplica as regras de reparo sobre os campos crus e retorna os
// campos corrigidos junto com os avisos gerados. Nunca falha: campos
// contraditórios são reconciliados, não rejeitados. É idempotente —
// revalidar um resultado já reparado não gera mudanças nem novos avisos.
func Validate(raw Raw, now time.Time, policy Policy) (Raw, []Warning) {
	r := raw
	if r.ActualStart != nil {
		v := *r.ActualStart
		r.ActualStart = &v
	}
	if r.ActualEnd != nil {
		v := *r.ActualEnd
		r.ActualEnd = &v
	}
	if r.Progress != nil {
		v := *r.Progress
		r.Progress = &v
	}

	var warnings []Warning
	warn := func(format string, args ...interface{}) {
		warnings = append(warnings, Warning{Task: r.Name, Message: fmt.Sprintf(format, args...)})
	}

	if r.PlanStart.Equal(r.PlanEnd) {
		r.PlanEnd = r.PlanEnd.Add(policy.Widen)
		warn("início previsto igual ao fim previsto; fim ajustado em %s", policy.Widen)
	} else if r.PlanStart.After(r.PlanEnd) {
		r.PlanStart, r.PlanEnd = r.PlanEnd, r.PlanStart
		warn("início previsto posterior ao fim previsto; datas invertidas")
	}

	if r.ActualStart == nil && r.ActualEnd != nil {
		r.ActualStart = r.ActualEnd
		r.ActualEnd = nil
		warn("fim real sem início real; valor tratado como início real")
	}
	if r.ActualStart != nil && r.ActualEnd != nil {
		if r.ActualStart.Equal(*r.ActualEnd) {
			widened := r.ActualEnd.Add(policy.Widen)
			r.ActualEnd = &widened
			warn("início real igual ao fim real; fim ajustado em %s", policy.Widen)
		} else if r.ActualStart.After(*r.ActualEnd) {
			r.ActualStart, r.ActualEnd = r.ActualEnd, r.ActualStart
			warn("início real posterior ao fim real; datas invertidas")
		}
	}

	progress := 0
	if r.Progress != nil {
		progress = *r.Progress
		if progress < 0 {
			progress = 0
			warn("progresso abaixo de 0%%; ajustado para 0%%")
		} else if progress > 100 {
			progress = 100
			warn("progresso acima de 100%% (%d%%); ajustado para 100%%", *r.Progress)
		}
	}

	if progress > 0 && r.ActualStart == nil {
		start := r.PlanStart
		r.ActualStart = &start
		warn("há progresso (%d%%) sem início real; início previsto assumido", progress)
	}

	if r.ActualEnd != nil && progress != 100 {
		progress = 100
		warn("fim real informado; progresso ajustado para 100%%")
	}

	if r.ActualStart != nil && r.ActualEnd == nil && r.ActualStart.After(now) && progress > 0 {
		r.ActualStart = nil
		progress = 0
		warn("início real no futuro com progresso; início real descartado")
	}

	if r.ActualEnd != nil && r.ActualEnd.After(now) {
		warn("fim real no futuro; verifique o apontamento")
	}

	r.Progress = &progress
	return r, warnings
}

// New valida os campos crus e deriva a contabilidade de tempo útil,
// subtraindo as folgas do calendário. Todo dia do período previsto deve
// existir no calendário; um dia ausente é erro estrutural
// (calendar.ErrCalendarGap), não um aviso.
func New(raw Raw, now time.Time, cal *calendar.WorkCalendar, policy Policy) (*Task, error) {
	repaired, warnings := Validate(raw, now, policy)

	first := calendar.DateOf(repaired.PlanStart)
	last := calendar.DateOf(repaired.PlanEnd)
	for d := first; !d.After(last); d = d.AddDays(1) {
		if !cal.Covers(d) {
			return nil, fmt.Errorf("tarefa %s: %w: %s", repaired.Name, calendar.ErrCalendarGap, d)
		}
	}

	t := &Task{
		Name:        repaired.Name,
		PlanStart:   repaired.PlanStart,
		PlanEnd:     repaired.PlanEnd,
		ActualStart: repaired.ActualStart,
		ActualEnd:   repaired.ActualEnd,
		Progress:    *repaired.Progress,
		Now:         now,
		Warnings:    warnings,
	}
	if err := t.derive(cal.Breaks(), policy); err != nil {
		return nil, err
	}
	return t, nil
}

// derive calcula as quatro durações líquidas de folga.
func (t *Task) derive(breaks timespan.RangeSet, policy Policy) error {
	plan, err := timespan.NewRange(t.PlanStart, t.PlanEnd)
	if err != nil {
		return fmt.Errorf("tarefa %s: período previsto: %w", t.Name, err)
	}
	t.PlannedTotal = timespan.NewRangeSet(plan).Subtract(breaks).TotalDuration()

	if t.PlanStart.Before(t.Now) {
		end := t.PlanEnd
		if t.Now.Before(end) {
			end = t.Now
		}
		done, err := timespan.NewRange(t.PlanStart, end)
		if err != nil {
			return fmt.Errorf("tarefa %s: período decorrido: %w", t.Name, err)
		}
		t.PlannedDone = timespan.NewRangeSet(done).Subtract(breaks).TotalDuration()
	}

	// Três regimes de estimativa, em confiança decrescente nos
	// apontamentos conforme o progresso cai.
	switch {
	case t.Progress == 100 && t.ActualEnd != nil:
		span, err := timespan.NewRange(*t.ActualStart, *t.ActualEnd)
		if err != nil {
			return fmt.Errorf("tarefa %s: período real: %w", t.Name, err)
		}
		measured := timespan.NewRangeSet(span).Subtract(breaks).TotalDuration()
		t.ActualDone = measured
		t.ActualTotal = measured

	case t.Progress >= policy.ExtrapolationMin:
		t.ActualDone = t.elapsedActual(breaks)
		t.ActualTotal = time.Duration(int64(t.ActualDone) * 100 / int64(t.Progress))

	default:
		t.ActualTotal = t.PlannedTotal
		t.ActualDone = time.Duration(int64(t.ActualTotal) * int64(t.Progress) / 100)
	}
	return nil
}

// elapsedActual mede o tempo útil entre o início real e o agora.
func (t *Task) elapsedActual(breaks timespan.RangeSet) time.Duration {
	if t.ActualStart == nil || !t.ActualStart.Before(t.Now) {
		return 0
	}
	span := timespan.Range{Start: *t.ActualStart, End: t.Now}
	return timespan.NewRangeSet(span).Subtract(breaks).TotalDuration()
}

// Overlaps indica se os períodos previstos das duas tarefas se sobrepõem.
// Usado pelo controle de agenda por membro, não pela própria tarefa.
func (t *Task) Overlaps(other *Task) bool {
	a := timespan.Range{Start: t.PlanStart, End: t.PlanEnd}
	b := timespan.Range{Start: other.PlanStart, End: other.PlanEnd}
	return a.Overlaps(b)
}

// IsResponsible indica se a tarefa conta como "sob responsabilidade" no
// dia delimitado por [dayStart, dayEnd): ainda não iniciada mas prevista
// para começar até o fim do dia, em andamento, ou concluída dentro ou
// depois do dia.
func (t *Task) IsResponsible(dayStart, dayEnd time.Time) bool {
	if t.ActualStart == nil {
		return t.PlanStart.Before(dayEnd)
	}
	if t.ActualEnd == nil {
		return true
	}
	return !t.ActualEnd.Before(dayStart)
}

// IsUnstarted indica tarefa sem início real cujo início previsto já passou.
func (t *Task) IsUnstarted(ref time.Time) bool {
	return t.ActualStart == nil && t.PlanStart.Before(ref)
}

// IsUnfinished indica tarefa iniciada, sem fim real, cujo fim previsto
// já passou: deveria estar concluída.
func (t *Task) IsUnfinished(ref time.Time) bool {
	return t.ActualStart != nil && t.ActualEnd == nil && !t.PlanEnd.After(ref)
}

// IsOverrun indica tarefa em andamento cujo tempo decorrido já excede a
// duração bruta (sem descontar folgas) do período previsto.
func (t *Task) IsOverrun(ref time.Time) bool {
	if t.ActualStart == nil || t.ActualEnd != nil {
		return false
	}
	return ref.Sub(*t.ActualStart) > t.PlanEnd.Sub(t.PlanStart)
}

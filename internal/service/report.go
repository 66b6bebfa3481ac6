package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cleberrangel/progresso-api/internal/calendar"
	"github.com/cleberrangel/progresso-api/internal/logger"
	"github.com/cleberrangel/progresso-api/internal/member"
	"github.com/cleberrangel/progresso-api/internal/model"
	"github.com/cleberrangel/progresso-api/internal/task"
	"github.com/google/uuid"
)

// Notifier recebe o relatório pronto para distribuição em tempo real.
type Notifier interface {
	ReportCompleted(report *model.Report)
}

// History persiste relatórios gerados.
type History interface {
	SaveReport(ctx context.Context, report *model.Report) error
}

// ReportService orquestra a geração de relatórios: ingestão da planilha,
// validação das tarefas, agregação por membro e montagem do resultado.
type ReportService struct {
	cal      *calendar.WorkCalendar
	policy   task.Policy
	history  History
	notifier Notifier
}

// NewReportService cria o serviço. history e notifier podem ser nil.
func NewReportService(cal *calendar.WorkCalendar, policy task.Policy, history History, notifier Notifier) *ReportService {
	return &ReportService{cal: cal, policy: policy, history: history, notifier: notifier}
}

// Generate processa a planilha e devolve o relatório completo. Tarefas
// estruturalmente inválidas (dia fora do calendário, período impossível)
// são puladas com aviso; os demais reparos seguem como avisos normais.
func (s *ReportService) Generate(ctx context.Context, src io.Reader, now time.Time) (*model.Report, error) {
	reportID := uuid.New().String()
	ctx = logger.WithReportID(ctx, reportID)
	log := logger.Get(ctx)

	wb, err := NewIngestor(s.cal.Location()).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("ingestão: %w", err)
	}
	log.Info().
		Str("team", wb.Team).
		Int("members", len(wb.Members)).
		Int("task_rows", len(wb.Tasks)).
		Msg("Planilha carregada")

	members := member.NewSet()
	for _, entry := range wb.Members {
		members.Add(member.New(entry.Name, entry.Role))
	}

	warnings := append([]task.Warning{}, wb.Warnings...)
	all := task.NewSet()
	skipped := 0
	for _, row := range wb.Tasks {
		tk, err := task.New(row.Raw, now, s.cal, s.policy)
		if err != nil {
			skipped++
			warnings = append(warnings, task.Warning{
				Task:    row.Raw.Name,
				Message: fmt.Sprintf("registro descartado: %v", err),
			})
			log.Warn().Err(err).Str("task", row.Raw.Name).Msg("Tarefa descartada")
			continue
		}
		warnings = append(warnings, tk.Warnings...)
		all.Add(tk)

		for _, who := range row.Assignees {
			m := members.FindByName(who)
			if m == nil {
				warnings = append(warnings, task.Warning{
					Task:    tk.Name,
					Message: fmt.Sprintf("responsável %q não está definido na planilha", who),
				})
				continue
			}
			warnings = append(warnings, m.AddTask(tk)...)
		}
	}

	report := s.assemble(reportID, wb, members, all, warnings, now)
	log.Info().
		Int("tasks", report.TaskCount).
		Int("skipped", skipped).
		Int("warnings", len(report.Warnings)).
		Msg("Relatório montado")

	if s.history != nil {
		if err := s.history.SaveReport(ctx, report); err != nil {
			log.Error().Err(err).Msg("Falha ao persistir relatório")
		}
	}
	if s.notifier != nil {
		s.notifier.ReportCompleted(report)
	}
	return report, nil
}

func (s *ReportService) assemble(id string, wb *Workbook, members *member.Set, all *task.Set, warnings []task.Warning, now time.Time) *model.Report {
	var teamTotals task.Totals
	for _, m := range members.Members() {
		t := m.Tasks.Totals()
		teamTotals.PlannedTotal += t.PlannedTotal
		teamTotals.PlannedDone += t.PlannedDone
		teamTotals.ActualTotal += t.ActualTotal
		teamTotals.ActualDone += t.ActualDone
	}
	teamDetail := progressDetail(teamTotals)

	report := &model.Report{
		ID:            id,
		Team:          wb.Team,
		Baseline:      wb.Baseline,
		GeneratedAt:   time.Now().In(s.cal.Location()),
		ReferenceTime: now,
		Schedule:      s.schedule(now),
		TeamProgress:  teamDetail,
		TaskCount:     all.Len(),
		Warnings:      warnings,
	}

	for _, m := range members.Members() {
		block := model.MemberReport{
			Name:             m.Name,
			Role:             m.Role,
			Leader:           m.IsLeader(),
			ResponsibleTasks: m.Tasks.NamesResponsible(now),
			UnstartedTasks:   m.Tasks.Filter(func(t *task.Task) bool { return t.IsUnstarted(now) }).Names(),
			UnfinishedTasks:  m.Tasks.Filter(func(t *task.Task) bool { return t.IsUnfinished(now) }).Names(),
			OverrunTasks:     m.Tasks.Filter(func(t *task.Task) bool { return t.IsOverrun(now) }).Names(),
			ScheduleConflict: m.Warned,
			Progress:         progressDetail(m.Tasks.Totals()),
		}
		if m.IsLeader() {
			team := teamDetail
			block.Team = &team
		}
		report.Members = append(report.Members, block)
	}
	return report
}

// schedule mede o andamento do cronograma em dias corridos do período
// coberto pelo calendário.
func (s *ReportService) schedule(now time.Time) model.ScheduleDetail {
	loc := s.cal.Location()
	first := s.cal.First().At(0, loc)
	end := s.cal.Last().AddDays(1).At(0, loc)

	total := int(end.Sub(first).Hours() / 24)
	passed := 0
	if now.After(first) {
		nowDay := calendar.DateOf(now.In(loc)).AddDays(1).At(0, loc)
		passed = int(nowDay.Sub(first).Hours() / 24)
		if passed > total {
			passed = total
		}
	}

	pct := 0.0
	if total > 0 {
		pct = 100 * float64(passed) / float64(total)
	}
	return model.ScheduleDetail{Pct: pct, DaysPassed: passed, DaysTotal: total}
}

// progressDetail converte os totais de um conjunto de tarefas nos
// percentuais exibidos, com o comentário por faixa de ritmo.
func progressDetail(t task.Totals) model.ProgressDetail {
	d := model.ProgressDetail{
		RatioPct:          -1,
		PlannedDoneHours:  t.PlannedDone.Hours(),
		PlannedTotalHours: t.PlannedTotal.Hours(),
		ActualDoneHours:   t.ActualDone.Hours(),
		ActualTotalHours:  t.ActualTotal.Hours(),
	}
	if t.PlannedTotal > 0 {
		d.PlannedPct = 100 * float64(t.PlannedDone) / float64(t.PlannedTotal)
	}
	if t.ActualTotal > 0 {
		d.ActualPct = 100 * float64(t.ActualDone) / float64(t.ActualTotal)
	}
	if d.PlannedPct > 0 {
		d.RatioPct = 100 * d.ActualPct / d.PlannedPct
	}
	d.Comment = paceComment(d.RatioPct)
	return d
}

// paceComment devolve o comentário da faixa de ritmo (realizado sobre
// previsto, em %).
func paceComment(ratioPct float64) string {
	switch {
	case ratioPct < 0:
		return "sem previsão para comparar"
	case ratioPct < 50:
		return "vamos nos esforçar mais"
	case ratioPct < 90:
		return "pegando o ritmo"
	case ratioPct < 120:
		return "andamento dentro do previsto"
	default:
		return "adiantado demais, confira os apontamentos"
	}
}

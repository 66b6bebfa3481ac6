package model

import (
	"time"

	"github.com/cleberrangel/progresso-api/internal/task"
)

// ProgressDetail é o bloco de progresso exibido por membro e para a
// equipe: percentuais previstos/realizados e as horas por trás deles.
type ProgressDetail struct {
	PlannedPct        float64 `json:"planned_pct"`
	ActualPct         float64 `json:"actual_pct"`
	RatioPct          float64 `json:"ratio_pct"` // -1 quando o previsto é zero
	PlannedDoneHours  float64 `json:"planned_done_hours"`
	PlannedTotalHours float64 `json:"planned_total_hours"`
	ActualDoneHours   float64 `json:"actual_done_hours"`
	ActualTotalHours  float64 `json:"actual_total_hours"`
	Comment           string  `json:"comment"`
}

// ScheduleDetail resume o andamento do cronograma em dias corridos.
type ScheduleDetail struct {
	Pct        float64 `json:"pct"`
	DaysPassed int     `json:"days_passed"`
	DaysTotal  int     `json:"days_total"`
}

// MemberReport é o bloco do relatório dedicado a um membro.
type MemberReport struct {
	Name             string          `json:"name"`
	Role             string          `json:"role"`
	Leader           bool            `json:"leader"`
	ResponsibleTasks []string        `json:"responsible_tasks"`
	UnstartedTasks   []string        `json:"unstarted_tasks,omitempty"`
	UnfinishedTasks  []string        `json:"unfinished_tasks,omitempty"`
	OverrunTasks     []string        `json:"overrun_tasks,omitempty"`
	ScheduleConflict bool            `json:"schedule_conflict"`
	Progress         ProgressDetail  `json:"progress"`
	Team             *ProgressDetail `json:"team,omitempty"` // anexado ao líder
}

// Report é o relatório completo de uma planilha processada.
type Report struct {
	ID            string         `json:"id"`
	Team          string         `json:"team"`
	Baseline      string         `json:"baseline"`
	GeneratedAt   time.Time      `json:"generated_at"`
	ReferenceTime time.Time      `json:"reference_time"`
	Schedule      ScheduleDetail `json:"schedule"`
	Members       []MemberReport `json:"members"`
	TeamProgress  ProgressDetail `json:"team_progress"`
	TaskCount     int            `json:"task_count"`
	Warnings      []task.Warning `json:"warnings"`
}

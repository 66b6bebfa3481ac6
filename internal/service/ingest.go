package service

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cleberrangel/progresso-api/internal/task"
	"github.com/xuri/excelize/v2"
)

// Erros de ingestão da planilha
var (
	ErrEmptySheet     = errors.New("planilha vazia")
	ErrNoTaskHeader   = errors.New("célula 'Tarefa' não encontrada na planilha")
	ErrMissingColumn  = errors.New("coluna obrigatória ausente")
	ErrNoMembers      = errors.New("nenhum responsável definido na planilha")
	ErrMissingField   = errors.New("campo obrigatório ausente")
	ErrInvalidPayload = errors.New("arquivo inválido ou corrompido")
)

// Rótulos esperados na planilha de acompanhamento.
const (
	labelTeam      = "Equipe"
	labelBaseline  = "Baseline"
	labelTask      = "Tarefa"
	labelProgress  = "Progresso (%)"
	labelPlanStart = "Início Previsto"
	labelPlanEnd   = "Fim Previsto"
	labelActStart  = "Início Real"
	labelActEnd    = "Fim Real"
	labelAssignee  = "Responsável"
	maxAssignees   = 9
)

// dateLayouts são os formatos aceitos nas células de data/hora.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
	"02/01/2006",
	"01-02-06 15:04", // formato de exibição padrão do excelize
}

// MemberEntry é um responsável declarado no cabeçalho da planilha.
type MemberEntry struct {
	Name string
	Role string
}

// TaskRow é uma linha de tarefa crua com seus responsáveis.
type TaskRow struct {
	Raw       task.Raw
	Assignees []string
}

// Workbook é o conteúdo extraído de uma planilha de acompanhamento:
// o bloco de membros, as linhas de tarefa e os avisos de ingestão.
type Workbook struct {
	Team     string
	Baseline string
	Members  []MemberEntry
	Tasks    []TaskRow
	Warnings []task.Warning
}

// Ingestor lê a planilha de acompanhamento. A resolução de rótulos de
// coluna fica toda aqui: o núcleo só recebe instantes e inteiros já
// interpretados.
type Ingestor struct {
	loc *time.Location
}

// NewIngestor cria um ingestor que interpreta datas no fuso dado.
func NewIngestor(loc *time.Location) *Ingestor {
	if loc == nil {
		loc = time.Local
	}
	return &Ingestor{loc: loc}
}

// Parse lê o arquivo xlsx e extrai o bloco de membros e as tarefas.
//
// Layout esperado: linha 1 com os rótulos do bloco de membros (Equipe,
// Baseline, Responsável 1..9), linha 2 com os valores, linha 3 com os
// papéis; mais abaixo, uma linha contendo "Tarefa" abre a tabela de
// tarefas e as linhas seguintes são os registros.
func (g *Ingestor) Parse(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("ler linhas: %w", err)
	}
	if len(rows) < 3 {
		return nil, ErrEmptySheet
	}

	wb := &Workbook{}
	if err := g.parseMemberBlock(rows, wb); err != nil {
		return nil, err
	}
	if err := g.parseTaskTable(rows, wb); err != nil {
		return nil, err
	}
	return wb, nil
}

func (g *Ingestor) parseMemberBlock(rows [][]string, wb *Workbook) error {
	labels := indexLabels(rows[0])

	if col, ok := labels[labelTeam]; ok {
		wb.Team = cell(rows, 1, col)
	}
	if col, ok := labels[labelBaseline]; ok {
		wb.Baseline = cell(rows, 1, col)
	}
	if wb.Team == "" {
		return fmt.Errorf("%w: %s", ErrMissingField, labelTeam)
	}
	if wb.Baseline == "" {
		return fmt.Errorf("%w: %s", ErrMissingField, labelBaseline)
	}

	for i := 1; i <= maxAssignees; i++ {
		col, ok := labels[fmt.Sprintf("%s %d", labelAssignee, i)]
		if !ok {
			continue
		}
		name := cell(rows, 1, col)
		if name == "" {
			continue
		}
		wb.Members = append(wb.Members, MemberEntry{
			Name: name,
			Role: cell(rows, 2, col),
		})
	}
	if len(wb.Members) == 0 {
		return ErrNoMembers
	}
	return nil
}

func (g *Ingestor) parseTaskTable(rows [][]string, wb *Workbook) error {
	headerRow := -1
	var labels map[string]int
	for i := 3; i < len(rows); i++ {
		candidate := indexLabels(rows[i])
		if _, ok := candidate[labelTask]; ok {
			headerRow = i
			labels = candidate
			break
		}
	}
	if headerRow < 0 {
		return ErrNoTaskHeader
	}

	// variante com quebra de linha dentro da célula
	if _, ok := labels[labelProgress]; !ok {
		if col, ok := labels["Progresso\n(%)"]; ok {
			labels[labelProgress] = col
		}
	}

	required := []string{
		labelTask, labelProgress, labelPlanStart, labelPlanEnd,
		labelActStart, labelActEnd, labelAssignee + " 1",
	}
	for _, label := range required {
		if _, ok := labels[label]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, label)
		}
	}

	for i := headerRow + 1; i < len(rows); i++ {
		line := i + 1 // numeração humana da planilha
		name := cell(rows, i, labels[labelTask])
		if name == "" {
			continue
		}
		name = fmt.Sprintf("%s-linha%d", name, line)

		planStart, ok := g.parseTime(cell(rows, i, labels[labelPlanStart]))
		if !ok {
			continue
		}
		planEnd, ok := g.parseTime(cell(rows, i, labels[labelPlanEnd]))
		if !ok {
			wb.warn(name, "fim previsto ausente ou ilegível; linha ignorada")
			continue
		}

		raw := task.Raw{
			Name:      name,
			Line:      line,
			PlanStart: planStart,
			PlanEnd:   planEnd,
		}
		if v, ok := g.parseTime(cell(rows, i, labels[labelActStart])); ok {
			raw.ActualStart = &v
		}
		if v, ok := g.parseTime(cell(rows, i, labels[labelActEnd])); ok {
			raw.ActualEnd = &v
		}
		if p, err := strconv.Atoi(cell(rows, i, labels[labelProgress])); err == nil {
			raw.Progress = &p
		}

		var assignees []string
		for j := 1; j <= maxAssignees; j++ {
			col, ok := labels[fmt.Sprintf("%s %d", labelAssignee, j)]
			if !ok {
				continue
			}
			if who := cell(rows, i, col); who != "" {
				assignees = append(assignees, who)
			}
		}
		if len(assignees) == 0 {
			wb.warn(name, "tarefa sem nenhum responsável")
		}

		wb.Tasks = append(wb.Tasks, TaskRow{Raw: raw, Assignees: assignees})
	}
	return nil
}

// parseTime tenta os formatos aceitos, no fuso do ingestor.
func (g *Ingestor) parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, g.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (wb *Workbook) warn(taskName, message string) {
	wb.Warnings = append(wb.Warnings, task.Warning{Task: taskName, Message: message})
}

// indexLabels mapeia rótulo→coluna de uma linha de cabeçalho.
func indexLabels(row []string) map[string]int {
	labels := make(map[string]int, len(row))
	for i, label := range row {
		label = strings.TrimSpace(label)
		if label != "" {
			labels[label] = i
		}
	}
	return labels
}

// cell retorna a célula aparada, tolerando linhas curtas.
func cell(rows [][]string, row, col int) string {
	if row >= len(rows) || col >= len(rows[row]) {
		return ""
	}
	return strings.TrimSpace(rows[row][col])
}

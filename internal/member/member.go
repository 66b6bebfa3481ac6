package member

import (
	"fmt"

	"github.com/cleberrangel/progresso-api/internal/task"
)

// Papéis reconhecidos no relatório. Qualquer outro texto é aceito como
// classificação livre; apenas o líder recebe tratamento especial.
const (
	RoleDefault = "programador"
	RoleLeader  = "líder"
)

// Member associa uma pessoa ao conjunto de tarefas sob sua
// responsabilidade. Warned é levantado quando duas tarefas previstas da
// mesma pessoa se sobrepõem.
type Member struct {
	Name   string
	Role   string
	Tasks  *task.Set
	Warned bool
}

// New cria um membro. Papel vazio assume RoleDefault.
func New(name, role string) *Member {
	if role == "" {
		role = RoleDefault
	}
	return &Member{Name: name, Role: role, Tasks: task.NewSet()}
}

// IsLeader indica se o membro recebe também o bloco da equipe no relatório.
func (m *Member) IsLeader() bool {
	return m.Role == RoleLeader
}

// AddTask adiciona a tarefa à agenda do membro, sinalizando conflito com
// qualquer tarefa prevista já existente. Retorna os avisos de conflito.
func (m *Member) AddTask(t *task.Task) []task.Warning {
	var warnings []task.Warning
	for _, existing := range m.Tasks.Tasks() {
		if existing.Overlaps(t) {
			m.Warned = true
			warnings = append(warnings, task.Warning{
				Task: t.Name,
				Message: fmt.Sprintf(
					"tarefa de %s sobrepõe a tarefa %q; divida ou reagende",
					m.Name, existing.Name),
			})
		}
	}
	m.Tasks.Add(t)
	return warnings
}

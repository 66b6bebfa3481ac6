package member

// Set é uma coleção ordenada de membros, sem duplicatas por nome.
type Set struct {
	members []*Member
	byName  map[string]*Member
}

// NewSet cria um conjunto vazio de membros.
func NewSet() *Set {
	return &Set{byName: make(map[string]*Member)}
}

// Add insere o membro preservando a ordem de chegada; nomes repetidos
// são ignorados. Retorna se o membro foi inserido.
func (s *Set) Add(m *Member) bool {
	if _, ok := s.byName[m.Name]; ok {
		return false
	}
	s.byName[m.Name] = m
	s.members = append(s.members, m)
	return true
}

// FindByName retorna o membro com o nome dado, ou nil.
func (s *Set) FindByName(name string) *Member {
	return s.byName[name]
}

// Members retorna os membros na ordem de inserção.
func (s *Set) Members() []*Member {
	out := make([]*Member, len(s.members))
	copy(out, s.members)
	return out
}

// Names retorna os nomes na ordem de inserção.
func (s *Set) Names() []string {
	names := make([]string, len(s.members))
	for i, m := range s.members {
		names[i] = m.Name
	}
	return names
}

// Len retorna o número de membros.
func (s *Set) Len() int {
	return len(s.members)
}

package calendar

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// File é o formato YAML do calendário de trabalho.
//
//	timezone: America/Sao_Paulo
//	period:
//	  start: 2025-09-16
//	  end: 2025-10-01
//	weekend: [saturday, sunday]
//	holidays:
//	  - 2025-09-23
//	shift:
//	  day_start: 9
//	  lunch_start: 12
//	  lunch_end: 13
//	  day_end: 17
type File struct {
	Timezone string `yaml:"timezone"`
	Period   struct {
		Start string `yaml:"start"`
		End   string `yaml:"end"`
	} `yaml:"period"`
	Weekend  []string `yaml:"weekend"`
	Holidays []string `yaml:"holidays"`
	Shift    *Shift   `yaml:"shift"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Load lê o arquivo YAML e constrói o WorkCalendar correspondente:
// todos os dias do período são úteis, exceto fins de semana e feriados.
func Load(path string) (*WorkCalendar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ler calendário: %w", err)
	}
	return Parse(data)
}

// Parse constrói o WorkCalendar a partir do conteúdo YAML.
func Parse(data []byte) (*WorkCalendar, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("interpretar calendário: %w", err)
	}

	if f.Timezone == "" {
		f.Timezone = "America/Sao_Paulo"
	}
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", f.Timezone, err)
	}

	first, err := parseDate(f.Period.Start)
	if err != nil {
		return nil, fmt.Errorf("period.start: %w", err)
	}
	last, err := parseDate(f.Period.End)
	if err != nil {
		return nil, fmt.Errorf("period.end: %w", err)
	}
	if last.Before(first) {
		return nil, fmt.Errorf("período invertido: %s > %s", first, last)
	}

	weekend := make(map[time.Weekday]bool, len(f.Weekend))
	for _, name := range f.Weekend {
		wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("dia da semana desconhecido: %q", name)
		}
		weekend[wd] = true
	}

	holidays := make(map[Date]bool, len(f.Holidays))
	for _, h := range f.Holidays {
		d, err := parseDate(h)
		if err != nil {
			return nil, fmt.Errorf("feriado %q: %w", h, err)
		}
		holidays[d] = true
	}

	days := make(map[Date]bool)
	for d := first; !d.After(last); d = d.AddDays(1) {
		working := !weekend[d.At(0, loc).Weekday()] && !holidays[d]
		days[d] = working
	}

	shift := DefaultShift
	if f.Shift != nil {
		shift = *f.Shift
	}
	return New(days, loc, shift)
}

func parseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

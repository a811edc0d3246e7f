// Package export renders a workout to a printable preview, a raster image of
// that preview, and a single-page PDF embedding the image.
package export

import (
	"strconv"
	"strings"

	"fitpro/manager/internal/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const noNotes = "No notes."

// Preview is the laid-out content of an exported workout.
type Preview struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Type         string   `json:"type"`
	MuscleGroups []string `json:"muscleGroups"`
	Notes        string   `json:"notes"`
	Tables       []Table  `json:"tables"`
}

// Table is one exercise block.
type Table struct {
	Position    int    `json:"position"`
	Exercise    string `json:"exercise"`
	Description string `json:"description,omitempty"`
	Rows        []Row  `json:"rows"`
}

// Row is one set as displayed: weight 0 shows as "-", rest as "<n>s".
type Row struct {
	Set    string `json:"set"`
	Reps   string `json:"reps"`
	Weight string `json:"weight"`
	Rest   string `json:"rest"`
}

var title = cases.Title(language.Und)

func NewPreview(w *domain.Workout) Preview {
	p := Preview{
		Name:         w.Name,
		Description:  w.Description,
		Type:         title.String(string(w.Type)),
		MuscleGroups: make([]string, 0, len(w.TargetMuscleGroups)),
		Notes:        w.Notes,
		Tables:       make([]Table, 0, len(w.Exercises)),
	}
	if strings.TrimSpace(p.Notes) == "" {
		p.Notes = noNotes
	}
	for _, g := range w.TargetMuscleGroups {
		p.MuscleGroups = append(p.MuscleGroups, title.String(g))
	}
	for i, we := range w.Exercises {
		t := Table{
			Position:    i + 1,
			Exercise:    we.Exercise.Name,
			Description: we.Exercise.Description,
			Rows:        make([]Row, 0, len(we.Sets)),
		}
		for j, s := range we.Sets {
			t.Rows = append(t.Rows, NewRow(j+1, s))
		}
		p.Tables = append(p.Tables, t)
	}
	return p
}

func NewRow(n int, s domain.Set) Row {
	weight := "-"
	if s.Weight != 0 {
		weight = strconv.Itoa(s.Weight)
	}
	return Row{
		Set:    strconv.Itoa(n),
		Reps:   s.Reps.String(),
		Weight: weight,
		Rest:   strconv.Itoa(s.RestTime) + "s",
	}
}

// FileName is the download name for a workout export.
func FileName(workoutName string) string {
	name := strings.TrimSpace(workoutName)
	if name == "" {
		name = "workout"
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', '\n', '\r':
			return '_'
		}
		return r
	}, name)
	return name + ".pdf"
}

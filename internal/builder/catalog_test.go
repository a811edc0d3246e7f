package builder

import (
	"testing"

	"fitpro/manager/internal/domain"
)

func TestFilterCatalog(t *testing.T) {
	catalog := []domain.Exercise{benchPress, squat, pullUp, rows, treadmill}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"Bench Press", "Squat", "Pull-up", "Dumbbell Row", "Treadmill"}},
		{"all is no constraint", Filter{MuscleGroup: All, Equipment: All}, []string{"Bench Press", "Squat", "Pull-up", "Dumbbell Row", "Treadmill"}},
		{"muscle group", Filter{MuscleGroup: "back"}, []string{"Pull-up", "Dumbbell Row"}},
		{"case-insensitive search", Filter{Search: "ROW"}, []string{"Dumbbell Row"}},
		{"search and group", Filter{Search: "pu", MuscleGroup: "back"}, []string{"Pull-up"}},
		{"search and group disagree", Filter{Search: "squat", MuscleGroup: "back"}, nil},
		{"equipment", Filter{Equipment: "barbell"}, []string{"Bench Press", "Squat"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterCatalog(catalog, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d exercises, want %d", len(got), len(tt.want))
			}
			for i, e := range got {
				if e.Name != tt.want[i] {
					t.Errorf("got[%d] = %q, want %q", i, e.Name, tt.want[i])
				}
				if tt.filter.MuscleGroup != "" && tt.filter.MuscleGroup != All && e.MuscleGroup != tt.filter.MuscleGroup {
					t.Errorf("%q has muscle group %q", e.Name, e.MuscleGroup)
				}
			}
		})
	}
}

func TestFilterCatalogDoesNotMutate(t *testing.T) {
	catalog := []domain.Exercise{benchPress, squat}
	got := FilterCatalog(catalog, Filter{})
	got[0].Name = "changed"

	if catalog[0].Name != "Bench Press" {
		t.Error("FilterCatalog returned the catalog's backing array")
	}
}

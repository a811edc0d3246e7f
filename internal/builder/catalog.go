package builder

import (
	"strings"

	"fitpro/manager/internal/domain"
)

// All disables a Filter field, as does the empty string.
const All = "all"

// Filter narrows the exercise catalog. Every set field must match.
type Filter struct {
	Search      string `form:"search"`
	MuscleGroup string `form:"muscleGroup"`
	Equipment   string `form:"equipment"`
}

// FilterCatalog returns the exercises matching f in catalog order.
// The result is a new slice; catalog is not modified.
func FilterCatalog(catalog []domain.Exercise, f Filter) []domain.Exercise {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.Exercise, 0, len(catalog))
	for _, e := range catalog {
		if search != "" && !strings.Contains(strings.ToLower(e.Name), search) {
			continue
		}
		if active(f.MuscleGroup) && e.MuscleGroup != f.MuscleGroup {
			continue
		}
		if active(f.Equipment) && e.Equipment != f.Equipment {
			continue
		}
		out = append(out, e)
	}
	return out
}

func active(v string) bool {
	return v != "" && v != All
}

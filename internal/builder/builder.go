// Package builder holds the workout builder: an editable list of exercises
// with their set prescriptions, plus the derived muscle-group summary.
//
// A Builder is not safe for concurrent use; callers serialize access.
package builder

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"fitpro/manager/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrLastSet         = errors.New("an exercise must keep at least one set")
	ErrNameRequired    = errors.New("workout name is required")
	ErrNoExercises     = errors.New("add at least one exercise to the workout")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrUnknownField    = errors.New("unknown set field")
)

// DefaultSet is the prescription every newly added exercise starts with.
var DefaultSet = domain.Set{Reps: domain.RepsCount(12), Weight: 0, RestTime: 60}

// Set fields accepted by UpdateSet.
const (
	FieldReps     = "reps"
	FieldRepsText = "repsText"
	FieldWeight   = "weight"
	FieldTime     = "time"
	FieldRestTime = "restTime"
	FieldNotes    = "notes"
)

// State is the builder's editable snapshot.
type State struct {
	Name               string                   `json:"name"`
	Description        string                   `json:"description"`
	Type               domain.WorkoutType       `json:"type"`
	Notes              string                   `json:"notes"`
	TargetMuscleGroups []string                 `json:"targetMuscleGroups"`
	Exercises          []domain.WorkoutExercise `json:"exercises"`
}

type Builder struct {
	state State
	// source is the workout being edited, nil for a new one.
	source *domain.Workout
}

// New returns an empty builder for a new strength workout.
func New() *Builder {
	return &Builder{state: State{
		Type:               domain.WorkoutStrength,
		TargetMuscleGroups: []string{},
		Exercises:          []domain.WorkoutExercise{},
	}}
}

// FromWorkout loads an existing workout for editing. The workout is copied.
func FromWorkout(w *domain.Workout) *Builder {
	b := New()
	b.source = w
	b.state.Name = w.Name
	b.state.Description = w.Description
	b.state.Notes = w.Notes
	if w.Type != "" {
		b.state.Type = w.Type
	}
	for _, we := range w.Exercises {
		sets := slices.Clone(we.Sets)
		if len(sets) == 0 {
			sets = []domain.Set{DefaultSet}
		}
		b.state.Exercises = append(b.state.Exercises, domain.WorkoutExercise{Exercise: we.Exercise, Sets: sets})
	}
	b.recompute()
	return b
}

// Source returns the workout being edited, or nil.
func (b *Builder) Source() *domain.Workout {
	return b.source
}

// State returns a deep copy of the current state.
func (b *Builder) State() State {
	s := b.state
	s.TargetMuscleGroups = slices.Clone(b.state.TargetMuscleGroups)
	s.Exercises = cloneExercises(b.state.Exercises)
	return s
}

// SetDetails replaces the free-form header fields. Nil pointers are left alone.
func (b *Builder) SetDetails(name, description, notes *string, typ *domain.WorkoutType) {
	if name != nil {
		b.state.Name = *name
	}
	if description != nil {
		b.state.Description = *description
	}
	if notes != nil {
		b.state.Notes = *notes
	}
	if typ != nil && *typ != "" {
		b.state.Type = *typ
	}
}

// AddExercise appends the exercise with a single default set and returns
// the confirmation notice.
func (b *Builder) AddExercise(e domain.Exercise) string {
	b.state.Exercises = append(b.state.Exercises, domain.WorkoutExercise{
		Exercise: e,
		Sets:     []domain.Set{DefaultSet},
	})
	b.recompute()
	return fmt.Sprintf("%s added to workout", e.Name)
}

// RemoveExercise drops the exercise at i.
func (b *Builder) RemoveExercise(i int) error {
	if err := b.checkExercise(i); err != nil {
		return err
	}
	b.state.Exercises = slices.Delete(b.state.Exercises, i, i+1)
	b.recompute()
	return nil
}

// AddSet appends a copy of the last set of exercise i.
func (b *Builder) AddSet(i int) error {
	if err := b.checkExercise(i); err != nil {
		return err
	}
	sets := b.state.Exercises[i].Sets
	b.state.Exercises[i].Sets = append(sets, sets[len(sets)-1])
	return nil
}

func (b *Builder) RemoveSet(i, j int) error {
	if err := b.checkSet(i, j); err != nil {
		return err
	}
	sets := b.state.Exercises[i].Sets
	if len(sets) == 1 {
		return ErrLastSet
	}
	b.state.Exercises[i].Sets = slices.Delete(sets, j, j+1)
	return nil
}

// UpdateSet edits one field of set j of exercise i. Numeric fields coerce
// unparsable input to 0. "reps" is numeric only while the current value is a
// count; "repsText" always stores the text as given.
func (b *Builder) UpdateSet(i, j int, field, value string) error {
	if err := b.checkSet(i, j); err != nil {
		return err
	}
	set := &b.state.Exercises[i].Sets[j]
	switch field {
	case FieldReps:
		if set.Reps.IsNumeric() {
			set.Reps = domain.RepsCount(atoi(value))
		} else {
			set.Reps = domain.Reps(value)
		}
	case FieldRepsText:
		set.Reps = domain.Reps(value)
	case FieldWeight:
		set.Weight = atoi(value)
	case FieldTime:
		set.Time = atoi(value)
	case FieldRestTime:
		set.RestTime = atoi(value)
	case FieldNotes:
		set.Notes = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// MoveUp swaps exercise i with its predecessor. No-op at the top.
func (b *Builder) MoveUp(i int) error {
	if err := b.checkExercise(i); err != nil {
		return err
	}
	if i > 0 {
		ex := b.state.Exercises
		ex[i-1], ex[i] = ex[i], ex[i-1]
	}
	return nil
}

// MoveDown swaps exercise i with its successor. No-op at the bottom.
func (b *Builder) MoveDown(i int) error {
	if err := b.checkExercise(i); err != nil {
		return err
	}
	if ex := b.state.Exercises; i < len(ex)-1 {
		ex[i], ex[i+1] = ex[i+1], ex[i]
	}
	return nil
}

// Validate reports whether the state can be saved.
func (b *Builder) Validate() error {
	if strings.TrimSpace(b.state.Name) == "" {
		return ErrNameRequired
	}
	if len(b.state.Exercises) == 0 {
		return ErrNoExercises
	}
	return nil
}

// Workout assembles the workout to persist for owner. When editing, the
// source id, template flag and client assignments are carried over.
func (b *Builder) Workout(owner primitive.ObjectID) (*domain.Workout, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	w := &domain.Workout{
		TrainerID:          owner,
		Name:               strings.TrimSpace(b.state.Name),
		Description:        b.state.Description,
		Type:               b.state.Type,
		Notes:              b.state.Notes,
		TargetMuscleGroups: MuscleGroups(b.state.Exercises),
		Exercises:          cloneExercises(b.state.Exercises),
	}
	if b.source != nil {
		w.ID = b.source.ID
		w.IsTemplate = b.source.IsTemplate
		w.ClientIDs = slices.Clone(b.source.ClientIDs)
		w.CreatedAt = b.source.CreatedAt
	}
	return w, nil
}

// MuscleGroups returns the distinct muscle groups of exercises in order of
// first appearance. Blank groups are skipped.
func MuscleGroups(exercises []domain.WorkoutExercise) []string {
	groups := []string{}
	for _, we := range exercises {
		g := we.Exercise.MuscleGroup
		if g != "" && !slices.Contains(groups, g) {
			groups = append(groups, g)
		}
	}
	return groups
}

func (b *Builder) recompute() {
	b.state.TargetMuscleGroups = MuscleGroups(b.state.Exercises)
}

func (b *Builder) checkExercise(i int) error {
	if i < 0 || i >= len(b.state.Exercises) {
		return fmt.Errorf("%w: exercise %d", ErrIndexOutOfRange, i)
	}
	return nil
}

func (b *Builder) checkSet(i, j int) error {
	if err := b.checkExercise(i); err != nil {
		return err
	}
	if j < 0 || j >= len(b.state.Exercises[i].Sets) {
		return fmt.Errorf("%w: set %d", ErrIndexOutOfRange, j)
	}
	return nil
}

func cloneExercises(in []domain.WorkoutExercise) []domain.WorkoutExercise {
	out := make([]domain.WorkoutExercise, len(in))
	for i, we := range in {
		out[i] = domain.WorkoutExercise{Exercise: we.Exercise, Sets: slices.Clone(we.Sets)}
	}
	return out
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

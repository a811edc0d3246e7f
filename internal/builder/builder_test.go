package builder

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"fitpro/manager/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	benchPress = domain.Exercise{ID: primitive.NewObjectID(), Name: "Bench Press", MuscleGroup: "chest", Equipment: "barbell"}
	squat      = domain.Exercise{ID: primitive.NewObjectID(), Name: "Squat", MuscleGroup: "legs", Equipment: "barbell"}
	pullUp     = domain.Exercise{ID: primitive.NewObjectID(), Name: "Pull-up", MuscleGroup: "back", Equipment: "bar"}
	rows       = domain.Exercise{ID: primitive.NewObjectID(), Name: "Dumbbell Row", MuscleGroup: "back", Equipment: "dumbbell"}
	treadmill  = domain.Exercise{ID: primitive.NewObjectID(), Name: "Treadmill", MuscleGroup: "full body", Equipment: "machine"}
)

func TestAddExerciseUsesDefaultSet(t *testing.T) {
	b := New()
	notice := b.AddExercise(benchPress)

	if notice != "Bench Press added to workout" {
		t.Errorf("notice = %q", notice)
	}
	s := b.State()
	if len(s.Exercises) != 1 {
		t.Fatalf("got %d exercises, want 1", len(s.Exercises))
	}
	if got := s.Exercises[0].Sets; len(got) != 1 || got[0] != DefaultSet {
		t.Errorf("sets = %+v, want [%+v]", got, DefaultSet)
	}
	if !slices.Equal(s.TargetMuscleGroups, []string{"chest"}) {
		t.Errorf("TargetMuscleGroups = %v", s.TargetMuscleGroups)
	}
}

func TestMuscleGroupsFollowExercises(t *testing.T) {
	b := New()
	b.AddExercise(pullUp)
	b.AddExercise(squat)
	b.AddExercise(rows)

	if got := b.State().TargetMuscleGroups; !slices.Equal(got, []string{"back", "legs"}) {
		t.Fatalf("after adds = %v", got)
	}

	// Removing one of two back exercises keeps the group.
	if err := b.RemoveExercise(0); err != nil {
		t.Fatal(err)
	}
	if got := b.State().TargetMuscleGroups; !slices.Equal(got, []string{"legs", "back"}) {
		t.Errorf("after removing pull-up = %v", got)
	}

	if err := b.RemoveExercise(1); err != nil {
		t.Fatal(err)
	}
	if got := b.State().TargetMuscleGroups; !slices.Equal(got, []string{"legs"}) {
		t.Errorf("after removing rows = %v", got)
	}
}

func TestMuscleGroupsRandomSequence(t *testing.T) {
	catalog := []domain.Exercise{benchPress, squat, pullUp, rows, treadmill}
	rng := rand.New(rand.NewSource(7))
	b := New()

	for step := 0; step < 500; step++ {
		n := len(b.State().Exercises)
		if n == 0 || rng.Intn(3) > 0 {
			b.AddExercise(catalog[rng.Intn(len(catalog))])
		} else if err := b.RemoveExercise(rng.Intn(n)); err != nil {
			t.Fatal(err)
		}

		s := b.State()
		want := []string{}
		for _, we := range s.Exercises {
			if !slices.Contains(want, we.Exercise.MuscleGroup) {
				want = append(want, we.Exercise.MuscleGroup)
			}
		}
		if !slices.Equal(s.TargetMuscleGroups, want) {
			t.Fatalf("step %d: TargetMuscleGroups = %v, want %v", step, s.TargetMuscleGroups, want)
		}
	}
}

func TestAddSetCopiesLast(t *testing.T) {
	b := New()
	b.AddExercise(squat)
	if err := b.UpdateSet(0, 0, FieldWeight, "80"); err != nil {
		t.Fatal(err)
	}
	if err := b.AddSet(0); err != nil {
		t.Fatal(err)
	}

	sets := b.State().Exercises[0].Sets
	if len(sets) != 2 {
		t.Fatalf("got %d sets, want 2", len(sets))
	}
	if sets[1] != sets[0] || sets[1].Weight != 80 {
		t.Errorf("second set = %+v, want copy of %+v", sets[1], sets[0])
	}
}

func TestRemoveSetKeepsOne(t *testing.T) {
	b := New()
	b.AddExercise(squat)
	_ = b.AddSet(0)
	_ = b.AddSet(0)

	for i := 0; i < 2; i++ {
		if err := b.RemoveSet(0, 0); err != nil {
			t.Fatalf("remove %d: %v", i, err)
		}
	}
	for i := 0; i < 3; i++ {
		if err := b.RemoveSet(0, 0); !errors.Is(err, ErrLastSet) {
			t.Fatalf("RemoveSet on last set = %v, want ErrLastSet", err)
		}
	}
	if n := len(b.State().Exercises[0].Sets); n != 1 {
		t.Errorf("got %d sets, want 1", n)
	}
}

func TestUpdateSet(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		start   domain.Set
		want    domain.Set
		wantErr error
	}{
		{"numeric reps", FieldReps, "10", DefaultSet, domain.Set{Reps: "10", RestTime: 60}, nil},
		{"unparsable reps coerce to zero", FieldReps, "ten", DefaultSet, domain.Set{Reps: "0", RestTime: 60}, nil},
		{"free text reps stay text", FieldReps, "25 min", domain.Set{Reps: "20 min"}, domain.Set{Reps: "25 min"}, nil},
		{"reps text", FieldRepsText, "20 min", DefaultSet, domain.Set{Reps: "20 min", RestTime: 60}, nil},
		{"weight", FieldWeight, "42", DefaultSet, domain.Set{Reps: "12", Weight: 42, RestTime: 60}, nil},
		{"bad weight", FieldWeight, "heavy", domain.Set{Reps: "12", Weight: 10}, domain.Set{Reps: "12"}, nil},
		{"rest", FieldRestTime, " 90 ", DefaultSet, domain.Set{Reps: "12", RestTime: 90}, nil},
		{"time", FieldTime, "300", DefaultSet, domain.Set{Reps: "12", Time: 300, RestTime: 60}, nil},
		{"notes", FieldNotes, "slow eccentric", DefaultSet, domain.Set{Reps: "12", RestTime: 60, Notes: "slow eccentric"}, nil},
		{"unknown field", "tempo", "3010", DefaultSet, DefaultSet, ErrUnknownField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			b.AddExercise(treadmill)
			b.state.Exercises[0].Sets[0] = tt.start

			err := b.UpdateSet(0, 0, tt.field, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UpdateSet() error = %v, want %v", err, tt.wantErr)
			}
			if got := b.State().Exercises[0].Sets[0]; got != tt.want {
				t.Errorf("set = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMoveBoundaries(t *testing.T) {
	b := New()
	b.AddExercise(benchPress)
	b.AddExercise(squat)
	b.AddExercise(pullUp)

	names := func() []string {
		var out []string
		for _, we := range b.State().Exercises {
			out = append(out, we.Exercise.Name)
		}
		return out
	}

	_ = b.MoveUp(0)
	_ = b.MoveDown(2)
	if got := names(); !slices.Equal(got, []string{"Bench Press", "Squat", "Pull-up"}) {
		t.Errorf("boundary moves changed order: %v", got)
	}

	_ = b.MoveUp(2)
	if got := names(); !slices.Equal(got, []string{"Bench Press", "Pull-up", "Squat"}) {
		t.Errorf("after MoveUp(2) = %v", got)
	}
	_ = b.MoveDown(0)
	if got := names(); !slices.Equal(got, []string{"Pull-up", "Bench Press", "Squat"}) {
		t.Errorf("after MoveDown(0) = %v", got)
	}
}

func TestIndexErrors(t *testing.T) {
	b := New()
	b.AddExercise(squat)

	checks := map[string]error{
		"RemoveExercise": b.RemoveExercise(3),
		"AddSet":         b.AddSet(-1),
		"RemoveSet":      b.RemoveSet(0, 5),
		"UpdateSet":      b.UpdateSet(1, 0, FieldReps, "1"),
		"MoveUp":         b.MoveUp(1),
		"MoveDown":       b.MoveDown(-1),
	}
	for op, err := range checks {
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("%s error = %v, want ErrIndexOutOfRange", op, err)
		}
	}
}

func TestWorkoutValidation(t *testing.T) {
	owner := primitive.NewObjectID()
	blank := "   "
	name := "Leg Day"

	b := New()
	b.SetDetails(&blank, nil, nil, nil)
	b.AddExercise(squat)
	if _, err := b.Workout(owner); !errors.Is(err, ErrNameRequired) {
		t.Errorf("blank name error = %v", err)
	}

	b = New()
	b.SetDetails(&name, nil, nil, nil)
	if _, err := b.Workout(owner); !errors.Is(err, ErrNoExercises) {
		t.Errorf("empty list error = %v", err)
	}

	b.AddExercise(squat)
	w, err := b.Workout(owner)
	if err != nil {
		t.Fatalf("Workout() error = %v", err)
	}
	if w.TrainerID != owner || w.Name != "Leg Day" || w.Type != domain.WorkoutStrength {
		t.Errorf("unexpected workout %+v", w)
	}
	if !slices.Equal(w.TargetMuscleGroups, []string{"legs"}) {
		t.Errorf("TargetMuscleGroups = %v", w.TargetMuscleGroups)
	}
}

func TestFromWorkoutRecomputesGroups(t *testing.T) {
	src := &domain.Workout{
		ID:                 primitive.NewObjectID(),
		Name:               "Pull",
		Type:               domain.WorkoutHypertrophy,
		TargetMuscleGroups: []string{"stale"},
		IsTemplate:         true,
		Exercises: []domain.WorkoutExercise{
			{Exercise: pullUp, Sets: []domain.Set{{Reps: "8", RestTime: 90}}},
			{Exercise: rows},
		},
	}

	b := FromWorkout(src)
	s := b.State()
	if !slices.Equal(s.TargetMuscleGroups, []string{"back"}) {
		t.Errorf("TargetMuscleGroups = %v", s.TargetMuscleGroups)
	}
	if len(s.Exercises[1].Sets) != 1 {
		t.Errorf("exercise without sets should get the default set")
	}

	_ = b.UpdateSet(0, 0, FieldReps, "10")
	if src.Exercises[0].Sets[0].Reps != "8" {
		t.Error("editing the builder mutated the source workout")
	}

	w, err := b.Workout(primitive.NewObjectID())
	if err != nil {
		t.Fatal(err)
	}
	if w.ID != src.ID || !w.IsTemplate || w.Type != domain.WorkoutHypertrophy {
		t.Errorf("edit did not carry source fields: %+v", w)
	}
}

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUsersUniqueEmail(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	u := &domain.User{Email: "Ana@Example.com", PasswordHash: "h", Role: domain.RoleTrainer}
	if _, err := store.Users.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := &domain.User{Email: "ana@example.com", PasswordHash: "h", Role: domain.RoleTrainer}
	if _, err := store.Users.Create(ctx, dup); !errors.Is(err, repository.ErrDuplicateKey) {
		t.Errorf("duplicate email: got %v", err)
	}
	if got, err := store.Users.GetByEmail(ctx, "ana@example.com"); err != nil || got.ID != u.ID {
		t.Errorf("lookup by email: %+v, %v", got, err)
	}
}

func TestOwnerScoping(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	owner, other := primitive.NewObjectID(), primitive.NewObjectID()

	clientID, err := store.Clients.Create(ctx, &domain.Client{Name: "Bea", TrainerID: owner})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	workoutID, err := store.Workouts.Create(ctx, &domain.Workout{Name: "Push", TrainerID: owner})
	if err != nil {
		t.Fatalf("create workout: %v", err)
	}

	tests := []struct {
		name string
		err  error
	}{
		{"client read", func() error { _, err := store.Clients.GetByID(ctx, clientID, other); return err }()},
		{"client delete", store.Clients.Delete(ctx, clientID, other)},
		{"workout read", func() error { _, err := store.Workouts.GetByID(ctx, workoutID, other); return err }()},
		{"workout delete", store.Workouts.Delete(ctx, workoutID, other)},
		{"assign", store.Workouts.AddClient(ctx, workoutID, other, clientID)},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, repository.ErrNotFound) {
			t.Errorf("%s by another trainer: got %v", tt.name, tt.err)
		}
	}
	if n, _ := store.Clients.CountByTrainer(ctx, owner); n != 1 {
		t.Errorf("owner has %d clients", n)
	}
}

func TestWorkoutCloneIsolation(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	owner := primitive.NewObjectID()

	w := &domain.Workout{
		Name:      "Legs",
		TrainerID: owner,
		Exercises: []domain.WorkoutExercise{{
			Exercise: domain.Exercise{Name: "Squat"},
			Sets:     []domain.Set{{Reps: "10"}},
		}},
	}
	id, err := store.Workouts.Create(ctx, w)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	w.Exercises[0].Sets[0].Reps = "99"

	got, _ := store.Workouts.GetByID(ctx, id, owner)
	if got.Exercises[0].Sets[0].Reps != "10" {
		t.Fatalf("stored workout aliased the caller's slice")
	}
	got.Exercises[0].Sets[0].Reps = "1"
	again, _ := store.Workouts.GetByID(ctx, id, owner)
	if again.Exercises[0].Sets[0].Reps != "10" {
		t.Errorf("returned workout aliased the stored slice")
	}
}

func TestPaymentsSinceAndJoin(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	owner := primitive.NewObjectID()
	clientID, _ := store.Clients.Create(ctx, &domain.Client{Name: "Caio", TrainerID: owner})

	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	for _, offset := range []int{40, 0, 20} {
		p := &domain.Payment{ClientID: clientID, TrainerID: owner, Amount: 10, Date: base.AddDate(0, 0, offset)}
		if _, err := store.Payments.Create(ctx, p); err != nil {
			t.Fatalf("create payment: %v", err)
		}
	}

	since, _ := store.Payments.Since(ctx, owner, base.AddDate(0, 0, 10))
	if len(since) != 2 || !since[0].Date.Before(since[1].Date) {
		t.Errorf("since = %+v", since)
	}

	list, _ := store.Payments.ListByTrainer(ctx, owner)
	if len(list) != 3 || !list[0].Date.After(list[1].Date) {
		t.Fatalf("list not newest first: %+v", list)
	}
	if list[0].ClientName != "Caio" {
		t.Errorf("client name = %q", list[0].ClientName)
	}
}

func TestPlansClearDefault(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	a := &domain.Plan{Slug: "a", Name: "A", Price: 20, IsDefault: true}
	b := &domain.Plan{Slug: "b", Name: "B", Price: 10, IsDefault: true}
	store.Plans.Create(ctx, a)
	store.Plans.Create(ctx, b)
	if _, err := store.Plans.Create(ctx, &domain.Plan{Slug: "a", Name: "Again"}); !errors.Is(err, repository.ErrDuplicateKey) {
		t.Errorf("duplicate slug: got %v", err)
	}

	if err := store.Plans.ClearDefault(ctx, b.ID); err != nil {
		t.Fatalf("clear default: %v", err)
	}
	plans, _ := store.Plans.List(ctx)
	if plans[0].Slug != "b" {
		t.Errorf("plans not sorted by price: %s first", plans[0].Slug)
	}
	if !plans[0].IsDefault || plans[1].IsDefault {
		t.Errorf("defaults = %v, %v", plans[0].IsDefault, plans[1].IsDefault)
	}
}

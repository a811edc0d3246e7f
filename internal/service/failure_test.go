package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errBackendDown = errors.New("backend down")

// flakyClients fails selected client writes and records delete calls.
type flakyClients struct {
	repository.ClientRepository

	failAddPayment bool
	failAddWorkout bool
	failDelete     bool

	mu          sync.Mutex
	deleteCalls []primitive.ObjectID
}

func (r *flakyClients) AddPayment(ctx context.Context, id, trainerID, paymentID primitive.ObjectID) error {
	if r.failAddPayment {
		return errBackendDown
	}
	return r.ClientRepository.AddPayment(ctx, id, trainerID, paymentID)
}

func (r *flakyClients) AddWorkout(ctx context.Context, id, trainerID, workoutID primitive.ObjectID) error {
	if r.failAddWorkout {
		return errBackendDown
	}
	return r.ClientRepository.AddWorkout(ctx, id, trainerID, workoutID)
}

func (r *flakyClients) Delete(ctx context.Context, id, trainerID primitive.ObjectID) error {
	r.mu.Lock()
	r.deleteCalls = append(r.deleteCalls, id)
	r.mu.Unlock()
	if r.failDelete {
		return errBackendDown
	}
	return r.ClientRepository.Delete(ctx, id, trainerID)
}

type flakyUsers struct {
	repository.UserRepository
}

func (r *flakyUsers) Update(context.Context, *domain.User) error {
	return errBackendDown
}

func TestPaymentCreateRollsBackWhenLinkFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trainerID := env.trainer(t, "rollback@example.com")
	c := env.client(t, trainerID, "Fábio")

	clients := &flakyClients{ClientRepository: env.store.Clients, failAddPayment: true}
	payments := NewPaymentService(env.store.Payments, clients)

	if _, err := payments.Create(ctx, trainerID, PaymentInput{ClientID: c.ID, Amount: 100}); !errors.Is(err, errBackendDown) {
		t.Fatalf("create: got %v", err)
	}

	list, err := payments.List(ctx, trainerID, PaymentFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("failed create left %d payments", len(list))
	}
	summary, err := env.stats.FinancialSummary(ctx, trainerID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.PendingRevenue != 0 {
		t.Errorf("pendingRevenue = %v, want 0", summary.PendingRevenue)
	}
}

func TestAssignWorkoutRollsBackWhenLinkFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trainerID := env.trainer(t, "half@example.com")
	c := env.client(t, trainerID, "Gil")
	w, err := env.workouts.Create(ctx, trainerID, WorkoutInput{
		Name:      "Push",
		Exercises: []WorkoutExerciseInput{{ExerciseID: env.exercise(t, "Bench Press").ID}},
	})
	if err != nil {
		t.Fatalf("create workout: %v", err)
	}

	clients := &flakyClients{ClientRepository: env.store.Clients, failAddWorkout: true}
	svc := NewClientService(clients, env.store.Workouts, env.store.Users, env.plans)

	if _, err := svc.AssignWorkout(ctx, trainerID, c.ID, w.ID); !errors.Is(err, errBackendDown) {
		t.Fatalf("assign: got %v", err)
	}

	got, err := env.workouts.Get(ctx, trainerID, w.ID)
	if err != nil {
		t.Fatalf("get workout: %v", err)
	}
	if len(got.ClientIDs) != 0 {
		t.Errorf("workout kept a one-sided link: %v", got.ClientIDs)
	}
	client, _ := env.clients.Get(ctx, trainerID, c.ID)
	if len(client.WorkoutIDs) != 0 {
		t.Errorf("client workouts = %v", client.WorkoutIDs)
	}
}

func TestClientDelete(t *testing.T) {
	tests := []struct {
		name      string
		fail      bool
		wantErr   error
		wantAfter int
	}{
		{name: "deletes once", wantAfter: 1},
		{name: "failure keeps the list", fail: true, wantErr: errBackendDown, wantAfter: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			trainerID := env.trainer(t, "delete@example.com")
			target := env.client(t, trainerID, "Hugo")
			env.client(t, trainerID, "Iara")

			clients := &flakyClients{ClientRepository: env.store.Clients, failDelete: tt.fail}
			svc := NewClientService(clients, env.store.Workouts, env.store.Users, env.plans)

			before, err := svc.List(ctx, trainerID, ClientFilter{})
			if err != nil {
				t.Fatalf("list: %v", err)
			}

			err = svc.Delete(ctx, trainerID, target.ID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("delete: got %v, want %v", err, tt.wantErr)
			}
			if len(clients.deleteCalls) != 1 || clients.deleteCalls[0] != target.ID {
				t.Errorf("delete calls = %v, want exactly [%s]", clients.deleteCalls, target.ID.Hex())
			}

			after, err := svc.List(ctx, trainerID, ClientFilter{})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(after) != tt.wantAfter {
				t.Errorf("got %d clients, want %d", len(after), tt.wantAfter)
			}
			if tt.fail {
				for i := range before {
					if after[i].ID != before[i].ID {
						t.Errorf("client %d changed from %s to %s", i, before[i].ID.Hex(), after[i].ID.Hex())
					}
				}
			}
		})
	}
}

func TestConcurrentDraftSaveCreatesOneWorkout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trainerID := env.trainer(t, "race@example.com")

	d, err := env.drafts.Start(ctx, trainerID, nil)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, _, err := env.drafts.AddExercise(ctx, trainerID, d.ID, env.exercise(t, "Deadlift").ID); err != nil {
		t.Fatalf("add exercise: %v", err)
	}
	name := "Pull Day"
	if _, err := env.drafts.SetDetails(trainerID, d.ID, DraftDetails{Name: &name}); err != nil {
		t.Fatalf("set details: %v", err)
	}

	// Hold the draft so every Save queues behind the same entry.
	env.drafts.mu.RLock()
	entry := env.drafts.drafts[d.ID]
	env.drafts.mu.RUnlock()
	entry.mu.Lock()

	const callers = 8
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		saved  int
		missed int
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.drafts.Save(ctx, trainerID, d.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				saved++
			case errors.Is(err, ErrDraftNotFound):
				missed++
			default:
				t.Errorf("save: %v", err)
			}
		}()
	}
	// Let the callers get past lookup and queue on the entry lock.
	time.Sleep(50 * time.Millisecond)
	entry.mu.Unlock()
	wg.Wait()

	if saved != 1 || missed != callers-1 {
		t.Errorf("saved=%d missed=%d, want 1 and %d", saved, missed, callers-1)
	}
	list, err := env.workouts.List(ctx, trainerID, WorkoutFilter{})
	if err != nil {
		t.Fatalf("list workouts: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("got %d workouts, want 1", len(list))
	}
}

func TestAvatarUploadCleansUpWhenProfileUpdateFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.trainer(t, "orphan@example.com")

	profiles := NewProfileService(&flakyUsers{UserRepository: env.store.Users}, env.store.Uploads, env.files, env.bus)
	if _, err := profiles.UploadAvatar(ctx, userID, "image/png", 3, strings.NewReader("png")); !errors.Is(err, errBackendDown) {
		t.Fatalf("upload: got %v", err)
	}

	if n := env.files.Len(); n != 0 {
		t.Errorf("%d objects left in storage", n)
	}
	if _, err := env.store.Uploads.LatestByOwner(ctx, userID, domain.UploadAvatar); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("upload record left behind: %v", err)
	}
	user, _ := env.profiles.Get(ctx, userID)
	if user.AvatarURL != "" {
		t.Errorf("avatar url = %q", user.AvatarURL)
	}
}

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fitpro/manager/internal/builder"
	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/export"
	"fitpro/manager/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultDraftTTL = 24 * time.Hour

// Draft is the client view of a workout being built.
type Draft struct {
	ID        string              `json:"id"`
	WorkoutID *primitive.ObjectID `json:"workoutId,omitempty"`
	State     builder.State       `json:"state"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// DraftDetails edits the draft header. Nil fields are left unchanged.
type DraftDetails struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	Notes       *string             `json:"notes"`
	Type        *domain.WorkoutType `json:"type"`
}

// DraftService keeps workout builder state in memory per trainer. Nothing is
// persisted until Save; idle drafts expire after the TTL.
type DraftService struct {
	workouts  WorkoutService
	exercises repository.ExerciseRepository
	ttl       time.Duration
	now       func() time.Time

	mu     sync.RWMutex
	drafts map[string]*draftEntry
}

type draftEntry struct {
	mu      sync.Mutex
	owner   primitive.ObjectID
	b       *builder.Builder
	touched time.Time
}

func NewDraftService(workouts WorkoutService, exercises repository.ExerciseRepository, ttl time.Duration) *DraftService {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &DraftService{
		workouts:  workouts,
		exercises: exercises,
		ttl:       ttl,
		now:       time.Now,
		drafts:    make(map[string]*draftEntry),
	}
}

// Start opens a new draft. With a workoutID the draft edits that workout.
func (s *DraftService) Start(ctx context.Context, trainerID primitive.ObjectID, workoutID *primitive.ObjectID) (Draft, error) {
	b := builder.New()
	if workoutID != nil {
		workout, err := s.workouts.Get(ctx, trainerID, *workoutID)
		if err != nil {
			return Draft{}, err
		}
		b = builder.FromWorkout(workout)
	}

	id := uuid.NewString()
	entry := &draftEntry{owner: trainerID, b: b, touched: s.now()}
	s.mu.Lock()
	s.drafts[id] = entry
	s.mu.Unlock()

	slog.Debug("Draft started", "draftID", id, "trainerID", trainerID.Hex())
	return view(id, entry), nil
}

func (s *DraftService) Get(trainerID primitive.ObjectID, draftID string) (Draft, error) {
	return s.edit(trainerID, draftID, func(*builder.Builder) error { return nil })
}

func (s *DraftService) SetDetails(trainerID primitive.ObjectID, draftID string, d DraftDetails) (Draft, error) {
	if d.Type != nil && *d.Type != "" && !d.Type.Valid() {
		return Draft{}, invalid("unknown workout type %q", *d.Type)
	}
	return s.edit(trainerID, draftID, func(b *builder.Builder) error {
		b.SetDetails(d.Name, d.Description, d.Notes, d.Type)
		return nil
	})
}

// AddExercise appends a catalog exercise and returns the confirmation notice.
func (s *DraftService) AddExercise(ctx context.Context, trainerID primitive.ObjectID, draftID string, exerciseID primitive.ObjectID) (Draft, string, error) {
	exercise, err := s.exercises.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Draft{}, "", ErrExerciseNotFound
		}
		return Draft{}, "", err
	}
	var notice string
	d, err := s.edit(trainerID, draftID, func(b *builder.Builder) error {
		notice = b.AddExercise(*exercise)
		return nil
	})
	return d, notice, err
}

func (s *DraftService) RemoveExercise(trainerID primitive.ObjectID, draftID string, i int) (Draft, error) {
	return s.edit(trainerID, draftID, func(b *builder.Builder) error { return b.RemoveExercise(i) })
}

func (s *DraftService) MoveUp(trainerID primitive.ObjectID, draftID string, i int) (Draft, error) {
	return s.edit(trainerID, draftID, func(b *builder.Builder) error { return b.MoveUp(i) })
}

func (s *DraftService) MoveDown(trainerID primitive.ObjectID, draftID string, i int) (Draft, error) {
	return s.edit(trainerID, draftID, func(b *builder.Builder) error { return b.MoveDown(i) })
}

func (s *DraftService) AddSet(trainerID primitive.ObjectID, draftID string, i int) (Draft, error) {
	return s.edit(trainerID, draftID, func(b *builder.Builder) error { return b.AddSet(i) })
}

func (s *DraftService) RemoveSet(trainerID primitive.ObjectID, draftID string, i, j int) (Draft, error) {
	return s.edit(trainerID, draftID, func(b *builder.Builder) error { return b.RemoveSet(i, j) })
}

func (s *DraftService) UpdateSet(trainerID primitive.ObjectID, draftID string, i, j int, field, value string) (Draft, error) {
	return s.edit(trainerID, draftID, func(b *builder.Builder) error { return b.UpdateSet(i, j, field, value) })
}

// Save persists the draft and discards it. A rejected save keeps the draft.
func (s *DraftService) Save(ctx context.Context, trainerID primitive.ObjectID, draftID string) (*domain.Workout, error) {
	entry, err := s.lookup(trainerID, draftID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	// A concurrent Save may have finished while we waited for the lock.
	s.mu.RLock()
	current, ok := s.drafts[draftID]
	s.mu.RUnlock()
	if !ok || current != entry {
		return nil, ErrDraftNotFound
	}

	workout, err := s.workouts.Save(ctx, entry.b, trainerID)
	if err != nil {
		entry.touched = s.now()
		return nil, err
	}
	s.discard(draftID)
	return workout, nil
}

// Preview lays out the draft as it would be exported.
func (s *DraftService) Preview(trainerID primitive.ObjectID, draftID string) (export.Preview, error) {
	var p export.Preview
	_, err := s.edit(trainerID, draftID, func(b *builder.Builder) error {
		p = export.NewPreview(snapshot(b, trainerID))
		return nil
	})
	return p, err
}

// ExportPDF renders the draft without saving it. Failures leave the draft untouched.
func (s *DraftService) ExportPDF(trainerID primitive.ObjectID, draftID string) ([]byte, string, error) {
	var (
		buf  bytes.Buffer
		name string
	)
	_, err := s.edit(trainerID, draftID, func(b *builder.Builder) error {
		w := snapshot(b, trainerID)
		name = export.FileName(w.Name)
		return export.PDF(export.NewPreview(w), &buf)
	})
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), name, nil
}

func (s *DraftService) Discard(trainerID primitive.ObjectID, draftID string) error {
	if _, err := s.lookup(trainerID, draftID); err != nil {
		return err
	}
	s.discard(draftID)
	return nil
}

// Len is the number of open drafts.
func (s *DraftService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}

// Run sweeps expired drafts until ctx is done.
func (s *DraftService) Run(ctx context.Context) {
	interval := min(s.ttl/2, 5*time.Minute)
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.Info("Expired workout drafts", "count", n)
			}
		}
	}
}

// Sweep drops drafts idle for longer than the TTL and returns how many went.
func (s *DraftService) Sweep() int {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, entry := range s.drafts {
		if !entry.mu.TryLock() {
			continue
		}
		if entry.touched.Before(cutoff) {
			delete(s.drafts, id)
			n++
		}
		entry.mu.Unlock()
	}
	return n
}

// edit runs fn on the draft under its lock. Builder errors are validation errors.
func (s *DraftService) edit(trainerID primitive.ObjectID, draftID string, fn func(*builder.Builder) error) (Draft, error) {
	entry, err := s.lookup(trainerID, draftID)
	if err != nil {
		return Draft{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.touched = s.now()
	if err := fn(entry.b); err != nil {
		if isBuilderError(err) {
			return Draft{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return Draft{}, err
	}
	return view(draftID, entry), nil
}

func (s *DraftService) lookup(trainerID primitive.ObjectID, draftID string) (*draftEntry, error) {
	s.mu.RLock()
	entry, ok := s.drafts[draftID]
	s.mu.RUnlock()
	if !ok || entry.owner != trainerID {
		return nil, ErrDraftNotFound
	}
	return entry, nil
}

func (s *DraftService) discard(draftID string) {
	s.mu.Lock()
	delete(s.drafts, draftID)
	s.mu.Unlock()
}

// view must be called with entry.mu held.
func view(id string, entry *draftEntry) Draft {
	d := Draft{ID: id, State: entry.b.State(), UpdatedAt: entry.touched}
	if src := entry.b.Source(); src != nil && !src.ID.IsZero() {
		workoutID := src.ID
		d.WorkoutID = &workoutID
	}
	return d
}

// snapshot is the draft as a workout, without save validation.
func snapshot(b *builder.Builder, owner primitive.ObjectID) *domain.Workout {
	st := b.State()
	return &domain.Workout{
		TrainerID:          owner,
		Name:               st.Name,
		Description:        st.Description,
		Type:               st.Type,
		Notes:              st.Notes,
		TargetMuscleGroups: st.TargetMuscleGroups,
		Exercises:          st.Exercises,
	}
}

func isBuilderError(err error) bool {
	for _, target := range []error{builder.ErrLastSet, builder.ErrIndexOutOfRange, builder.ErrUnknownField, builder.ErrNameRequired, builder.ErrNoExercises} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fitpro/manager/internal/builder"
	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/export"
	"fitpro/manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutFilter narrows the workout list view.
type WorkoutFilter struct {
	Search string `form:"search"`
	Type   string `form:"type"`
}

// WorkoutInput is a complete workout submitted in one request. It goes
// through the same validation and muscle-group recomputation as a draft.
type WorkoutInput struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Type        domain.WorkoutType     `json:"type"`
	Notes       string                 `json:"notes"`
	IsTemplate  bool                   `json:"isTemplate"`
	Exercises   []WorkoutExerciseInput `json:"exercises"`
}

type WorkoutExerciseInput struct {
	ExerciseID primitive.ObjectID `json:"exerciseId"`
	Sets       []domain.Set       `json:"sets"`
}

type WorkoutService interface {
	List(ctx context.Context, trainerID primitive.ObjectID, f WorkoutFilter) ([]domain.Workout, error)
	Get(ctx context.Context, trainerID, workoutID primitive.ObjectID) (*domain.Workout, error)
	Create(ctx context.Context, trainerID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error)
	Update(ctx context.Context, trainerID, workoutID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error)
	Delete(ctx context.Context, trainerID, workoutID primitive.ObjectID) error
	// Save persists a builder result: create when it has no id, update otherwise.
	Save(ctx context.Context, b *builder.Builder, trainerID primitive.ObjectID) (*domain.Workout, error)
	Preview(ctx context.Context, trainerID, workoutID primitive.ObjectID) (export.Preview, error)
	// ExportPDF renders the workout and returns the document with its file name.
	ExportPDF(ctx context.Context, trainerID, workoutID primitive.ObjectID) ([]byte, string, error)
}

type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
	clientRepo   repository.ClientRepository
}

func NewWorkoutService(workoutRepo repository.WorkoutRepository, exerciseRepo repository.ExerciseRepository, clientRepo repository.ClientRepository) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		clientRepo:   clientRepo,
	}
}

func (s *workoutService) List(ctx context.Context, trainerID primitive.ObjectID, f WorkoutFilter) ([]domain.Workout, error) {
	workouts, err := s.workoutRepo.ListByTrainer(ctx, trainerID)
	if err != nil {
		slog.Error("Failed to list workouts", "trainerID", trainerID.Hex(), "error", err)
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.Workout, 0, len(workouts))
	for _, w := range workouts {
		if search != "" && !strings.Contains(strings.ToLower(w.Name), search) {
			continue
		}
		if f.Type != "" && f.Type != "all" && string(w.Type) != f.Type {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (s *workoutService) Get(ctx context.Context, trainerID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

func (s *workoutService) Create(ctx context.Context, trainerID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error) {
	draft, err := s.fromInput(ctx, in, nil)
	if err != nil {
		return nil, err
	}
	return s.Save(ctx, draft, trainerID)
}

func (s *workoutService) Update(ctx context.Context, trainerID, workoutID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error) {
	existing, err := s.Get(ctx, trainerID, workoutID)
	if err != nil {
		return nil, err
	}
	draft, err := s.fromInput(ctx, in, existing)
	if err != nil {
		return nil, err
	}
	return s.Save(ctx, draft, trainerID)
}

// fromInput resolves catalog exercises and loads them into a builder.
func (s *workoutService) fromInput(ctx context.Context, in WorkoutInput, existing *domain.Workout) (*builder.Builder, error) {
	if in.Type != "" && !in.Type.Valid() {
		return nil, invalid("unknown workout type %q", in.Type)
	}
	w := &domain.Workout{
		Name:        in.Name,
		Description: in.Description,
		Type:        in.Type,
		Notes:       in.Notes,
		IsTemplate:  in.IsTemplate,
	}
	if existing != nil {
		w.ID = existing.ID
		w.ClientIDs = existing.ClientIDs
		w.CreatedAt = existing.CreatedAt
	}
	for i, item := range in.Exercises {
		exercise, err := s.exerciseRepo.GetByID(ctx, item.ExerciseID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, invalid("exercise %d (%s) does not exist", i+1, item.ExerciseID.Hex())
			}
			return nil, err
		}
		w.Exercises = append(w.Exercises, domain.WorkoutExercise{Exercise: *exercise, Sets: item.Sets})
	}
	return builder.FromWorkout(w), nil
}

func (s *workoutService) Save(ctx context.Context, b *builder.Builder, trainerID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := b.Workout(trainerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if workout.ID.IsZero() {
		workoutID, err := s.workoutRepo.Create(ctx, workout)
		if err != nil {
			slog.Error("Failed to create workout", "trainerID", trainerID.Hex(), "error", err)
			return nil, err
		}
		workout.ID = workoutID
		return workout, nil
	}

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		slog.Error("Failed to update workout", "workoutID", workout.ID.Hex(), "error", err)
		return nil, err
	}
	return workout, nil
}

// Delete removes the workout and drops it from every client it was assigned to.
func (s *workoutService) Delete(ctx context.Context, trainerID, workoutID primitive.ObjectID) error {
	workout, err := s.Get(ctx, trainerID, workoutID)
	if err != nil {
		return err
	}
	if err := s.workoutRepo.Delete(ctx, workoutID, trainerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		slog.Error("Failed to delete workout", "workoutID", workoutID.Hex(), "error", err)
		return err
	}
	for _, clientID := range workout.ClientIDs {
		if err := s.clientRepo.RemoveWorkout(ctx, clientID, trainerID, workoutID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			slog.Warn("Failed to unlink deleted workout from client", "workoutID", workoutID.Hex(), "clientID", clientID.Hex(), "error", err)
		}
	}
	return nil
}

func (s *workoutService) Preview(ctx context.Context, trainerID, workoutID primitive.ObjectID) (export.Preview, error) {
	workout, err := s.Get(ctx, trainerID, workoutID)
	if err != nil {
		return export.Preview{}, err
	}
	return export.NewPreview(workout), nil
}

func (s *workoutService) ExportPDF(ctx context.Context, trainerID, workoutID primitive.ObjectID) ([]byte, string, error) {
	workout, err := s.Get(ctx, trainerID, workoutID)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	if err := export.PDF(export.NewPreview(workout), &buf); err != nil {
		slog.Error("Failed to export workout", "workoutID", workoutID.Hex(), "error", err)
		return nil, "", err
	}
	return buf.Bytes(), export.FileName(workout.Name), nil
}

package memory

import (
	"context"
	"slices"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type workoutRepo struct {
	table[domain.Workout]
}

func cloneWorkout(w domain.Workout) domain.Workout {
	w.TargetMuscleGroups = slices.Clone(w.TargetMuscleGroups)
	w.ClientIDs = slices.Clone(w.ClientIDs)
	exercises := make([]domain.WorkoutExercise, len(w.Exercises))
	for i, we := range w.Exercises {
		exercises[i] = domain.WorkoutExercise{Exercise: we.Exercise, Sets: slices.Clone(we.Sets)}
	}
	w.Exercises = exercises
	return w
}

func (r *workoutRepo) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.TrainerID == primitive.NilObjectID || workout.Name == "" {
		return primitive.NilObjectID, repository.ErrInvalidRecord
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	workout.ID = primitive.NewObjectID()
	workout.CreatedAt = now()
	workout.UpdatedAt = workout.CreatedAt
	r.put(workout.ID, cloneWorkout(*workout))
	return workout.ID, nil
}

func (r *workoutRepo) GetByID(_ context.Context, id, trainerID primitive.ObjectID) (*domain.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.rows[id]
	if !ok || w.TrainerID != trainerID {
		return nil, errNotFound
	}
	w = cloneWorkout(w)
	return &w, nil
}

func (r *workoutRepo) ListByTrainer(_ context.Context, trainerID primitive.ObjectID) ([]domain.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.Workout{}
	r.each(func(w domain.Workout) {
		if w.TrainerID == trainerID {
			out = append(out, cloneWorkout(w))
		}
	})
	slices.SortStableFunc(out, func(a, b domain.Workout) int { return b.UpdatedAt.Compare(a.UpdatedAt) })
	return out, nil
}

func (r *workoutRepo) CountByTrainer(ctx context.Context, trainerID primitive.ObjectID) (int, error) {
	workouts, err := r.ListByTrainer(ctx, trainerID)
	return len(workouts), err
}

func (r *workoutRepo) Update(_ context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID {
		return repository.ErrInvalidRecord
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.rows[workout.ID]
	if !ok || w.TrainerID != workout.TrainerID {
		return errNotFound
	}
	workout.CreatedAt = w.CreatedAt
	workout.ClientIDs = w.ClientIDs
	workout.UpdatedAt = now()
	r.rows[workout.ID] = cloneWorkout(*workout)
	return nil
}

func (r *workoutRepo) Delete(_ context.Context, id, trainerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.rows[id]
	if !ok || w.TrainerID != trainerID {
		return errNotFound
	}
	r.remove(id)
	return nil
}

func (r *workoutRepo) AddClient(_ context.Context, id, trainerID, clientID primitive.ObjectID) error {
	return r.setClients(id, trainerID, func(ids []primitive.ObjectID) []primitive.ObjectID {
		if slices.Contains(ids, clientID) {
			return ids
		}
		return append(ids, clientID)
	})
}

func (r *workoutRepo) RemoveClient(_ context.Context, id, trainerID, clientID primitive.ObjectID) error {
	return r.setClients(id, trainerID, func(ids []primitive.ObjectID) []primitive.ObjectID {
		return slices.DeleteFunc(ids, func(c primitive.ObjectID) bool { return c == clientID })
	})
}

func (r *workoutRepo) setClients(id, trainerID primitive.ObjectID, fn func([]primitive.ObjectID) []primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.rows[id]
	if !ok || w.TrainerID != trainerID {
		return errNotFound
	}
	w.ClientIDs = fn(slices.Clone(w.ClientIDs))
	r.rows[id] = w
	return nil
}

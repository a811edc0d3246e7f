package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"fitpro/manager/internal/builder"
	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/repository"
	"fitpro/manager/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseInput is the exercise editor form.
type ExerciseInput struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	MuscleGroup string `json:"muscleGroup"`
	Equipment   string `json:"equipment"`
	Difficulty  string `json:"difficulty"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl"`
	ImageURL    string `json:"imageUrl"`
}

var (
	exerciseCategories = []string{"strength", "cardio", "flexibility", "balance", "functional"}
	difficulties       = []string{"beginner", "intermediate", "advanced"}
)

func (in *ExerciseInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.MuscleGroup = strings.ToLower(strings.TrimSpace(in.MuscleGroup))
	in.Equipment = strings.ToLower(strings.TrimSpace(in.Equipment))
	switch {
	case in.Name == "":
		return invalid("exercise name is required")
	case in.MuscleGroup == "":
		return invalid("muscle group is required")
	case in.Category != "" && !slices.Contains(exerciseCategories, in.Category):
		return invalid("unknown category %q", in.Category)
	case in.Difficulty != "" && !slices.Contains(difficulties, in.Difficulty):
		return invalid("unknown difficulty %q", in.Difficulty)
	}
	return nil
}

// UploadURLResponse structure for returning URL and object key
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
	PublicURL string `json:"publicUrl"`
}

type ExerciseService interface {
	List(ctx context.Context, f builder.Filter) ([]domain.Exercise, error)
	Get(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	Create(ctx context.Context, actor Actor, in ExerciseInput) (*domain.Exercise, error)
	Update(ctx context.Context, actor Actor, exerciseID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error)
	Delete(ctx context.Context, actor Actor, exerciseID primitive.ObjectID) error
	// MediaUploadURL presigns a PUT for an image or video of the exercise.
	MediaUploadURL(ctx context.Context, actor Actor, exerciseID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	// Seed fills an empty catalog with the built-in exercises.
	Seed(ctx context.Context) error
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	uploadRepo   repository.UploadRepository
	fileStorage  storage.FileStorage
}

func NewExerciseService(exerciseRepo repository.ExerciseRepository, uploadRepo repository.UploadRepository, fileStorage storage.FileStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		uploadRepo:   uploadRepo,
		fileStorage:  fileStorage,
	}
}

func (s *exerciseService) List(ctx context.Context, f builder.Filter) ([]domain.Exercise, error) {
	catalog, err := s.exerciseRepo.List(ctx)
	if err != nil {
		slog.Error("Failed to list exercises", "error", err)
		return nil, err
	}
	return builder.FilterCatalog(catalog, f), nil
}

func (s *exerciseService) Get(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) Create(ctx context.Context, actor Actor, in ExerciseInput) (*domain.Exercise, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	createdBy := actor.ID
	exercise := &domain.Exercise{CreatedBy: &createdBy}
	applyExerciseInput(exercise, in)

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		slog.Error("Failed to create exercise", "name", in.Name, "error", err)
		return nil, err
	}
	exercise.ID = exerciseID
	return exercise, nil
}

func (s *exerciseService) Update(ctx context.Context, actor Actor, exerciseID primitive.ObjectID, in ExerciseInput) (*domain.Exercise, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	exercise, err := s.editable(ctx, actor, exerciseID)
	if err != nil {
		return nil, err
	}

	applyExerciseInput(exercise, in)
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		slog.Error("Failed to update exercise", "exerciseID", exerciseID.Hex(), "error", err)
		return nil, err
	}
	return exercise, nil
}

// Delete removes the exercise from the catalog. Workouts keep their snapshot.
func (s *exerciseService) Delete(ctx context.Context, actor Actor, exerciseID primitive.ObjectID) error {
	if _, err := s.editable(ctx, actor, exerciseID); err != nil {
		return err
	}
	if err := s.exerciseRepo.Delete(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		slog.Error("Failed to delete exercise", "exerciseID", exerciseID.Hex(), "error", err)
		return err
	}
	return nil
}

func (s *exerciseService) MediaUploadURL(ctx context.Context, actor Actor, exerciseID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if !strings.HasPrefix(ct, "image/") && !strings.HasPrefix(ct, "video/") {
		return nil, invalid("content type must be an image or video")
	}
	if _, err := s.editable(ctx, actor, exerciseID); err != nil {
		return nil, err
	}

	objectKey := storage.ExerciseMediaKey(exerciseID.Hex(), extensionFor(ct))
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, ct, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	publicURL := s.fileStorage.PublicURL(objectKey)
	if _, err := s.uploadRepo.Create(ctx, &domain.Upload{
		OwnerID:     exerciseID,
		Kind:        domain.UploadExerciseMedia,
		ObjectKey:   objectKey,
		URL:         publicURL,
		ContentType: ct,
	}); err != nil {
		slog.Error("Failed to record exercise media upload", "exerciseID", exerciseID.Hex(), "error", err)
		return nil, err
	}

	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey, PublicURL: publicURL}, nil
}

// editable loads the exercise and checks that actor created it or is an admin.
// Seeded entries have no creator and are admin-only.
func (s *exerciseService) editable(ctx context.Context, actor Actor, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.Get(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return exercise, nil
	}
	if exercise.CreatedBy == nil || *exercise.CreatedBy != actor.ID {
		return nil, ErrAccessDenied
	}
	return exercise, nil
}

func (s *exerciseService) Seed(ctx context.Context) error {
	n, err := s.exerciseRepo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, in := range defaultExercises() {
		exercise := &domain.Exercise{}
		applyExerciseInput(exercise, in)
		if _, err := s.exerciseRepo.Create(ctx, exercise); err != nil {
			return err
		}
	}
	slog.Info("Seeded exercise catalog", "count", len(defaultExercises()))
	return nil
}

func defaultExercises() []ExerciseInput {
	return []ExerciseInput{
		{Name: "Bench Press", Category: "strength", MuscleGroup: "chest", Equipment: "barbell", Difficulty: "intermediate",
			Description: "Lie on a flat bench, grip the bar slightly wider than shoulder width and press it up until the arms are extended."},
		{Name: "Squat", Category: "strength", MuscleGroup: "legs", Equipment: "barbell", Difficulty: "intermediate",
			Description: "With the bar on the shoulders and a straight back, descend until the thighs are parallel to the floor, then stand up."},
		{Name: "Deadlift", Category: "strength", MuscleGroup: "back", Equipment: "barbell", Difficulty: "advanced",
			Description: "Grip the bar on the floor at shoulder width and lift it until standing fully upright."},
		{Name: "Pull-up", Category: "strength", MuscleGroup: "back", Equipment: "barbell", Difficulty: "intermediate",
			Description: "Hang from the bar with palms facing forward and pull until the chin passes the bar."},
		{Name: "Barbell Curl", Category: "strength", MuscleGroup: "biceps", Equipment: "barbell", Difficulty: "beginner",
			Description: "Standing, hold the bar with palms up and curl it to shoulder height by bending the elbows."},
		{Name: "Skull Crusher", Category: "strength", MuscleGroup: "triceps", Equipment: "barbell", Difficulty: "intermediate",
			Description: "Lying on a flat bench, lower the bar to the forehead by bending the elbows and return."},
		{Name: "Overhead Press", Category: "strength", MuscleGroup: "shoulders", Equipment: "barbell", Difficulty: "intermediate",
			Description: "Seated or standing, press the bar from shoulder height until the arms are extended."},
		{Name: "Crunch", Category: "strength", MuscleGroup: "abs", Equipment: "none", Difficulty: "beginner",
			Description: "Lying on the back with knees bent, cross the hands over the chest and raise the torso toward the knees."},
		{Name: "Treadmill", Category: "cardio", MuscleGroup: "full body", Equipment: "machine", Difficulty: "beginner",
			Description: "Walk or run on the treadmill at a pace suited to your conditioning."},
		{Name: "Stationary Bike", Category: "cardio", MuscleGroup: "legs", Equipment: "machine", Difficulty: "beginner",
			Description: "Pedal the stationary bike, adjusting resistance as needed."},
	}
}

func applyExerciseInput(e *domain.Exercise, in ExerciseInput) {
	e.Name = in.Name
	e.Category = in.Category
	e.MuscleGroup = in.MuscleGroup
	e.Equipment = in.Equipment
	e.Difficulty = in.Difficulty
	e.Description = in.Description
	e.VideoURL = in.VideoURL
	e.ImageURL = in.ImageURL
}

var mediaExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/svg+xml":   ".svg",
	"video/quicktime": ".mov",
}

// extensionFor picks a file extension for a content type, falling back to
// the subtype ("image/webp" -> ".webp").
func extensionFor(contentType string) string {
	ct, _, _ := strings.Cut(contentType, ";")
	ct = strings.TrimSpace(ct)
	if ext, ok := mediaExtensions[ct]; ok {
		return ext
	}
	if _, sub, ok := strings.Cut(ct, "/"); ok && sub != "" {
		return "." + sub
	}
	return ""
}

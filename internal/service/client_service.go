package service

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client list sort orders.
const (
	SortByName   = "name"
	SortByRecent = "recent"
)

// ClientFilter narrows the client list view. Empty fields do not constrain.
type ClientFilter struct {
	Status string `form:"status"`
	Search string `form:"search"`
	Sort   string `form:"sort"`
}

// ClientInput is the client editor form.
type ClientInput struct {
	Name           string              `json:"name"`
	Email          string              `json:"email"`
	Phone          string              `json:"phone"`
	Age            int                 `json:"age"`
	Gender         string              `json:"gender"`
	Goal           string              `json:"goal"`
	Status         domain.ClientStatus `json:"status"`
	StartDate      *time.Time          `json:"startDate"`
	AvatarURL      string              `json:"avatarUrl"`
	MedicalHistory string              `json:"medicalHistory"`
	Notes          string              `json:"notes"`
	PlanID         *primitive.ObjectID `json:"planId"`
}

func (in *ClientInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	switch {
	case in.Name == "":
		return invalid("client name is required")
	case in.Email == "":
		return invalid("client email is required")
	case !validEmail(in.Email):
		return invalid("email %q is not valid", in.Email)
	case in.Age < 0 || in.Age > 130:
		return invalid("age %d is out of range", in.Age)
	}
	switch in.Gender {
	case "", "male", "female", "other":
	default:
		return invalid("gender must be male, female or other")
	}
	if in.Status == "" {
		in.Status = domain.ClientActive
	}
	if !in.Status.Valid() {
		return invalid("unknown client status %q", in.Status)
	}
	return nil
}

type ClientService interface {
	List(ctx context.Context, trainerID primitive.ObjectID, f ClientFilter) ([]domain.Client, error)
	Get(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.Client, error)
	Create(ctx context.Context, trainerID primitive.ObjectID, in ClientInput) (*domain.Client, error)
	Update(ctx context.Context, trainerID, clientID primitive.ObjectID, in ClientInput) (*domain.Client, error)
	Delete(ctx context.Context, trainerID, clientID primitive.ObjectID) error
	AddMeasurement(ctx context.Context, trainerID, clientID primitive.ObjectID, m domain.Measurement) (*domain.Client, error)
	AssignWorkout(ctx context.Context, trainerID, clientID, workoutID primitive.ObjectID) (*domain.Client, error)
	UnassignWorkout(ctx context.Context, trainerID, clientID, workoutID primitive.ObjectID) (*domain.Client, error)
}

type clientService struct {
	clientRepo  repository.ClientRepository
	workoutRepo repository.WorkoutRepository
	userRepo    repository.UserRepository
	plans       PlanService
	now         func() time.Time
}

func NewClientService(clientRepo repository.ClientRepository, workoutRepo repository.WorkoutRepository, userRepo repository.UserRepository, plans PlanService) ClientService {
	return &clientService{
		clientRepo:  clientRepo,
		workoutRepo: workoutRepo,
		userRepo:    userRepo,
		plans:       plans,
		now:         time.Now,
	}
}

func (s *clientService) List(ctx context.Context, trainerID primitive.ObjectID, f ClientFilter) ([]domain.Client, error) {
	clients, err := s.clientRepo.ListByTrainer(ctx, trainerID)
	if err != nil {
		slog.Error("Failed to list clients", "trainerID", trainerID.Hex(), "error", err)
		return nil, err
	}
	return FilterClients(clients, f), nil
}

// FilterClients applies the list view's status filter, name/email search and
// sort. The repository order (newest first) is kept for "recent".
func FilterClients(clients []domain.Client, f ClientFilter) []domain.Client {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.Client, 0, len(clients))
	for _, c := range clients {
		if f.Status != "" && f.Status != "all" && string(c.Status) != f.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Email), search) {
			continue
		}
		out = append(out, c)
	}
	if f.Sort == SortByName {
		slices.SortStableFunc(out, func(a, b domain.Client) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	}
	return out
}

func (s *clientService) Get(ctx context.Context, trainerID, clientID primitive.ObjectID) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

func (s *clientService) Create(ctx context.Context, trainerID primitive.ObjectID, in ClientInput) (*domain.Client, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if err := s.checkPlanLimit(ctx, trainerID); err != nil {
		return nil, err
	}

	client := &domain.Client{TrainerID: trainerID}
	applyClientInput(client, in)
	if client.StartDate.IsZero() {
		client.StartDate = truncateDay(s.now())
	}

	clientID, err := s.clientRepo.Create(ctx, client)
	if err != nil {
		slog.Error("Failed to create client", "trainerID", trainerID.Hex(), "error", err)
		return nil, err
	}
	client.ID = clientID
	return client, nil
}

func (s *clientService) checkPlanLimit(ctx context.Context, trainerID primitive.ObjectID) error {
	user, err := s.userRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	plan, err := s.plans.ForUser(ctx, user)
	if errors.Is(err, ErrPlanNotFound) {
		slog.Warn("No plan found, client limit not enforced", "trainerID", trainerID.Hex(), "plan", user.Plan)
		return nil
	}
	if err != nil {
		return err
	}

	count, err := s.clientRepo.CountByTrainer(ctx, trainerID)
	if err != nil {
		return err
	}
	if !plan.AllowsClients(count) {
		return ErrPlanLimitReached
	}
	return nil
}

func (s *clientService) Update(ctx context.Context, trainerID, clientID primitive.ObjectID, in ClientInput) (*domain.Client, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	client, err := s.Get(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}

	applyClientInput(client, in)
	if err := s.clientRepo.Update(ctx, client); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		slog.Error("Failed to update client", "clientID", clientID.Hex(), "error", err)
		return nil, err
	}
	return client, nil
}

// Delete removes the client with a single owner-scoped repository call.
func (s *clientService) Delete(ctx context.Context, trainerID, clientID primitive.ObjectID) error {
	if err := s.clientRepo.Delete(ctx, clientID, trainerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		slog.Error("Failed to delete client", "clientID", clientID.Hex(), "error", err)
		return err
	}
	return nil
}

func (s *clientService) AddMeasurement(ctx context.Context, trainerID, clientID primitive.ObjectID, m domain.Measurement) (*domain.Client, error) {
	if m.Weight <= 0 || m.Height <= 0 {
		return nil, invalid("weight and height must be positive")
	}
	for _, v := range []*float64{m.BodyFat, m.Chest, m.Waist, m.Hips, m.Arms, m.Thighs} {
		if v != nil && *v < 0 {
			return nil, invalid("measurements cannot be negative")
		}
	}
	if m.BodyFat != nil && *m.BodyFat > 100 {
		return nil, invalid("body fat is a percentage")
	}
	if m.Date.IsZero() {
		m.Date = s.now().UTC()
	}

	if err := s.clientRepo.AppendMeasurement(ctx, clientID, trainerID, m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		slog.Error("Failed to append measurement", "clientID", clientID.Hex(), "error", err)
		return nil, err
	}
	return s.Get(ctx, trainerID, clientID)
}

func (s *clientService) AssignWorkout(ctx context.Context, trainerID, clientID, workoutID primitive.ObjectID) (*domain.Client, error) {
	if _, err := s.Get(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	if err := s.workoutRepo.AddClient(ctx, workoutID, trainerID, clientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if err := s.clientRepo.AddWorkout(ctx, clientID, trainerID, workoutID); err != nil {
		slog.Error("Failed to assign workout", "clientID", clientID.Hex(), "workoutID", workoutID.Hex(), "error", err)
		if rbErr := s.workoutRepo.RemoveClient(ctx, workoutID, trainerID, clientID); rbErr != nil {
			slog.Error("Failed to roll back workout link", "workoutID", workoutID.Hex(), "error", rbErr)
		}
		return nil, err
	}
	return s.Get(ctx, trainerID, clientID)
}

func (s *clientService) UnassignWorkout(ctx context.Context, trainerID, clientID, workoutID primitive.ObjectID) (*domain.Client, error) {
	if _, err := s.Get(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	// The workout may already be gone; the client side is what the views read.
	if err := s.workoutRepo.RemoveClient(ctx, workoutID, trainerID, clientID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if err := s.clientRepo.RemoveWorkout(ctx, clientID, trainerID, workoutID); err != nil {
		slog.Error("Failed to unassign workout", "clientID", clientID.Hex(), "workoutID", workoutID.Hex(), "error", err)
		return nil, err
	}
	return s.Get(ctx, trainerID, clientID)
}

func applyClientInput(c *domain.Client, in ClientInput) {
	c.Name = in.Name
	c.Email = in.Email
	c.Phone = strings.TrimSpace(in.Phone)
	c.Age = in.Age
	c.Gender = in.Gender
	c.Goal = in.Goal
	c.Status = in.Status
	if in.StartDate != nil {
		c.StartDate = in.StartDate.UTC()
	}
	c.AvatarURL = in.AvatarURL
	c.MedicalHistory = in.MedicalHistory
	c.Notes = in.Notes
	c.PlanID = in.PlanID
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

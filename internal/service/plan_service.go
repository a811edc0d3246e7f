package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/repository"
	"fitpro/manager/internal/session"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// PlanInput is the plan editor form.
type PlanInput struct {
	Slug         string   `json:"slug"`
	Name         string   `json:"name" binding:"required"`
	Price        float64  `json:"price"`
	Frequency    string   `json:"frequency"`
	Features     []string `json:"features"`
	MaxClients   int      `json:"maxClients"`
	SessionQuota *int     `json:"sessionQuota"`
	DurationDays *int     `json:"durationDays"`
	IsDefault    bool     `json:"isDefault"`
}

func (in PlanInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return invalid("plan name is required")
	case in.Price < 0:
		return invalid("price cannot be negative")
	case in.MaxClients < 0:
		return invalid("maxClients cannot be negative, use 0 for unlimited")
	case in.SessionQuota != nil && *in.SessionQuota < 0:
		return invalid("sessionQuota cannot be negative")
	case in.DurationDays != nil && *in.DurationDays <= 0:
		return invalid("durationDays must be positive")
	}
	return nil
}

// PlanService manages the subscription catalog and each operator's choice of plan.
type PlanService interface {
	List(ctx context.Context) ([]domain.Plan, error)
	Get(ctx context.Context, planID primitive.ObjectID) (*domain.Plan, error)
	Create(ctx context.Context, in PlanInput) (*domain.Plan, error)
	Update(ctx context.Context, planID primitive.ObjectID, in PlanInput) (*domain.Plan, error)
	Delete(ctx context.Context, planID primitive.ObjectID) error
	// Select moves userID onto the plan. Rejected when the user already has
	// more clients than the plan allows.
	Select(ctx context.Context, userID, planID primitive.ObjectID) (*domain.User, error)
	// ForUser resolves the user's plan, falling back to the default plan.
	ForUser(ctx context.Context, user *domain.User) (*domain.Plan, error)
	// Seed inserts the built-in plans that are missing.
	Seed(ctx context.Context) error
}

type planService struct {
	planRepo   repository.PlanRepository
	userRepo   repository.UserRepository
	clientRepo repository.ClientRepository
	bus        *session.Bus
}

func NewPlanService(planRepo repository.PlanRepository, userRepo repository.UserRepository, clientRepo repository.ClientRepository, bus *session.Bus) PlanService {
	return &planService{
		planRepo:   planRepo,
		userRepo:   userRepo,
		clientRepo: clientRepo,
		bus:        bus,
	}
}

func (s *planService) List(ctx context.Context) ([]domain.Plan, error) {
	plans, err := s.planRepo.List(ctx)
	if err != nil {
		slog.Error("Failed to list plans", "error", err)
		return nil, err
	}
	return plans, nil
}

func (s *planService) Get(ctx context.Context, planID primitive.ObjectID) (*domain.Plan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *planService) Create(ctx context.Context, in PlanInput) (*domain.Plan, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = slugify(in.Name)
	}
	if !slugPattern.MatchString(slug) {
		return nil, invalid("slug %q must be lowercase words joined by hyphens", slug)
	}

	plan := &domain.Plan{Slug: slug}
	applyPlanInput(plan, in)
	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrPlanSlugTaken
		}
		slog.Error("Failed to create plan", "slug", slug, "error", err)
		return nil, err
	}
	plan.ID = planID

	if err := s.keepSingleDefault(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Update edits a plan in place. The slug is immutable; users reference it.
func (s *planService) Update(ctx context.Context, planID primitive.ObjectID, in PlanInput) (*domain.Plan, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	plan, err := s.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.IsDefault && !in.IsDefault {
		return nil, invalid("mark another plan as default instead")
	}

	applyPlanInput(plan, in)
	if err := s.planRepo.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		slog.Error("Failed to update plan", "planID", planID.Hex(), "error", err)
		return nil, err
	}
	if err := s.keepSingleDefault(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *planService) Delete(ctx context.Context, planID primitive.ObjectID) error {
	plan, err := s.Get(ctx, planID)
	if err != nil {
		return err
	}
	if plan.IsDefault {
		return invalid("the default plan cannot be deleted")
	}
	if err := s.planRepo.Delete(ctx, planID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		slog.Error("Failed to delete plan", "planID", planID.Hex(), "error", err)
		return err
	}
	return nil
}

func (s *planService) Select(ctx context.Context, userID, planID primitive.ObjectID) (*domain.User, error) {
	plan, err := s.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	count, err := s.clientRepo.CountByTrainer(ctx, userID)
	if err != nil {
		slog.Error("Failed to count clients", "userID", userID.Hex(), "error", err)
		return nil, err
	}
	if !plan.Unlimited() && count > plan.MaxClients {
		return nil, ErrPlanLimitReached
	}

	user.Plan = plan.Slug
	if err := s.userRepo.Update(ctx, user); err != nil {
		slog.Error("Failed to update user plan", "userID", userID.Hex(), "error", err)
		return nil, err
	}
	s.bus.Publish(session.Event{Kind: session.ProfileUpdated, User: user})
	return user, nil
}

func (s *planService) ForUser(ctx context.Context, user *domain.User) (*domain.Plan, error) {
	slug := user.Plan
	if slug == "" {
		slug = domain.DefaultPlanSlug
	}
	plan, err := s.planRepo.GetBySlug(ctx, slug)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	plans, err := s.planRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		if plans[i].IsDefault {
			return &plans[i], nil
		}
	}
	return nil, ErrPlanNotFound
}

func (s *planService) keepSingleDefault(ctx context.Context, plan *domain.Plan) error {
	if !plan.IsDefault {
		return nil
	}
	if err := s.planRepo.ClearDefault(ctx, plan.ID); err != nil {
		slog.Error("Failed to clear other default plans", "planID", plan.ID.Hex(), "error", err)
		return err
	}
	return nil
}

func (s *planService) Seed(ctx context.Context) error {
	for _, in := range defaultPlans() {
		_, err := s.planRepo.GetBySlug(ctx, in.Slug)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if _, err := s.Create(ctx, in); err != nil && !errors.Is(err, ErrPlanSlugTaken) {
			return err
		}
		slog.Info("Seeded plan", "slug", in.Slug)
	}
	return nil
}

func defaultPlans() []PlanInput {
	return []PlanInput{
		{
			Slug:       domain.DefaultPlanSlug,
			Name:       "Starter",
			Price:      0,
			Frequency:  "forever",
			MaxClients: 5,
			Features:   []string{"Up to 5 clients", "Workout builder", "Payment tracking"},
			IsDefault:  true,
		},
		{
			Slug:       "professional",
			Name:       "Professional",
			Price:      99.90,
			Frequency:  "month",
			MaxClients: 50,
			Features:   []string{"Up to 50 clients", "PDF workout export", "Financial reports", "Priority support"},
		},
		{
			Slug:       "studio",
			Name:       "Studio",
			Price:      249.90,
			Frequency:  "month",
			MaxClients: 0,
			Features:   []string{"Unlimited clients", "Multiple trainers", "Custom branding", "Dedicated support"},
		},
	}
}

func applyPlanInput(plan *domain.Plan, in PlanInput) {
	plan.Name = strings.TrimSpace(in.Name)
	plan.Price = in.Price
	plan.Frequency = in.Frequency
	plan.Features = in.Features
	if plan.Features == nil {
		plan.Features = []string{}
	}
	plan.MaxClients = in.MaxClients
	plan.SessionQuota = in.SessionQuota
	plan.DurationDays = in.DurationDays
	plan.IsDefault = in.IsDefault
}

func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

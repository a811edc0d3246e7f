package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/repository"
	"fitpro/manager/internal/repository/memory"
	"fitpro/manager/internal/session"
	"fitpro/manager/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// testEnv wires every service over the in-memory store.
type testEnv struct {
	store     *repository.Store
	files     *storage.MemoryStorage
	bus       *session.Bus
	registry  *session.Registry
	auth      AuthService
	plans     PlanService
	clients   ClientService
	exercises ExerciseService
	workouts  WorkoutService
	drafts    *DraftService
	payments  PaymentService
	profiles  ProfileService
	stats     StatsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	env := &testEnv{
		store: memory.NewStore(),
		files: storage.NewMemoryStorage("http://files.test"),
		bus:   session.NewBus(),
	}
	env.registry = session.NewRegistry(env.bus)
	s := env.store
	env.auth = NewAuthService(s.Users, env.bus, env.registry, "test-secret", time.Hour, []string{"admin@fitpro.test"})
	env.plans = NewPlanService(s.Plans, s.Users, s.Clients, env.bus)
	env.clients = NewClientService(s.Clients, s.Workouts, s.Users, env.plans)
	env.exercises = NewExerciseService(s.Exercises, s.Uploads, env.files)
	env.workouts = NewWorkoutService(s.Workouts, s.Exercises, s.Clients)
	env.drafts = NewDraftService(env.workouts, s.Exercises, time.Hour)
	env.payments = NewPaymentService(s.Payments, s.Clients)
	env.profiles = NewProfileService(s.Users, s.Uploads, env.files, env.bus)
	env.stats = NewStatsService(s.Clients, s.Workouts, s.Payments)

	if err := env.plans.Seed(ctx); err != nil {
		t.Fatalf("seed plans: %v", err)
	}
	if err := env.exercises.Seed(ctx); err != nil {
		t.Fatalf("seed exercises: %v", err)
	}
	return env
}

// trainer stores a trainer on the free plan and returns its id.
func (e *testEnv) trainer(t *testing.T, email string) primitive.ObjectID {
	t.Helper()
	id, err := e.store.Users.Create(context.Background(), &domain.User{
		Name:         "Trainer",
		Email:        email,
		PasswordHash: "unused",
		Role:         domain.RoleTrainer,
		Plan:         domain.DefaultPlanSlug,
	})
	if err != nil {
		t.Fatalf("create trainer: %v", err)
	}
	return id
}

func (e *testEnv) client(t *testing.T, trainerID primitive.ObjectID, name string) *domain.Client {
	t.Helper()
	c, err := e.clients.Create(context.Background(), trainerID, ClientInput{Name: name, Email: "c" + primitive.NewObjectID().Hex() + "@example.com"})
	if err != nil {
		t.Fatalf("create client %s: %v", name, err)
	}
	return c
}

func (e *testEnv) exercise(t *testing.T, name string) domain.Exercise {
	t.Helper()
	list, err := e.store.Exercises.List(context.Background())
	if err != nil {
		t.Fatalf("list exercises: %v", err)
	}
	for _, ex := range list {
		if ex.Name == name {
			return ex
		}
	}
	t.Fatalf("exercise %q not seeded", name)
	return domain.Exercise{}
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, err := env.auth.Register(ctx, RegisterInput{
		Name:            "Ana",
		Email:           " Ana@Example.com ",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	claims, err := env.auth.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		t.Fatalf("claims user id: %v", err)
	}

	id, err := env.auth.Me(ctx, userID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if id.Email != "ana@example.com" || id.Role != domain.RoleTrainer || id.Plan != domain.DefaultPlanSlug {
		t.Errorf("unexpected identity %+v", id)
	}

	if _, err := env.auth.Login(ctx, "ana@example.com", "wrong-pass"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("login with wrong password: got %v", err)
	}
	if _, err := env.auth.Login(ctx, "ANA@example.com", "secret1"); err != nil {
		t.Errorf("login: %v", err)
	}

	refreshed, err := env.auth.Refresh(ctx, claims)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed == token {
		t.Error("refresh returned the same token")
	}

	if err := env.auth.Logout(ctx, claims); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := env.auth.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token still valid after logout: %v", err)
	}
	if _, ok := env.registry.Current(userID); ok {
		t.Error("identity still held after logout")
	}

	// A fresh request after logout resolves the identity from the profile store.
	if id, err := env.auth.Me(ctx, userID); err != nil || id.Name != "Ana" {
		t.Errorf("me after logout: %+v, %v", id, err)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	valid := RegisterInput{Name: "Bo", Email: "bo@example.com", Password: "secret1", ConfirmPassword: "secret1"}
	if _, err := env.auth.Register(ctx, valid); err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		name string
		edit func(*RegisterInput)
		want error
	}{
		{"missing name", func(in *RegisterInput) { in.Name = "" }, ErrValidation},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, ErrValidation},
		{"short password", func(in *RegisterInput) { in.Password, in.ConfirmPassword = "abc", "abc" }, ErrValidation},
		{"mismatch", func(in *RegisterInput) { in.ConfirmPassword = "other12" }, ErrValidation},
		{"duplicate", func(*RegisterInput) {}, ErrUserAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.edit(&in)
			if _, err := env.auth.Register(ctx, in); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegisterAdminAndUnavailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, err := env.auth.Register(ctx, RegisterInput{Name: "Root", Email: "admin@fitpro.test", Password: "secret1", ConfirmPassword: "secret1"})
	if err != nil {
		t.Fatalf("register admin: %v", err)
	}
	claims, err := env.auth.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Role != domain.RoleAdmin {
		t.Errorf("role = %q, want admin", claims.Role)
	}

	noSecret := NewAuthService(env.store.Users, env.bus, env.registry, "", time.Hour, nil)
	_, err = noSecret.Register(ctx, RegisterInput{Name: "X", Email: "x@example.com", Password: "secret1", ConfirmPassword: "secret1"})
	if !errors.Is(err, ErrAuthUnavailable) {
		t.Errorf("register without secret: got %v", err)
	}
	if _, err := noSecret.ParseToken(token); !errors.Is(err, ErrAuthUnavailable) {
		t.Errorf("parse without secret: got %v", err)
	}
}

func TestPlansKeepSingleDefault(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	plans, err := env.plans.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(plans) != 3 {
		t.Fatalf("seeded %d plans, want 3", len(plans))
	}

	created, err := env.plans.Create(ctx, PlanInput{Name: "Gold Coach", Price: 10, MaxClients: 20, IsDefault: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Slug != "gold-coach" {
		t.Errorf("slug = %q", created.Slug)
	}

	plans, _ = env.plans.List(ctx)
	defaults := 0
	for _, p := range plans {
		if p.IsDefault {
			defaults++
			if p.ID != created.ID {
				t.Errorf("default is %s, want %s", p.Slug, created.Slug)
			}
		}
	}
	if defaults != 1 {
		t.Errorf("%d default plans", defaults)
	}

	if err := env.plans.Delete(ctx, created.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("deleting default plan: got %v", err)
	}
	if _, err := env.plans.Create(ctx, PlanInput{Name: "Gold Coach"}); !errors.Is(err, ErrPlanSlugTaken) {
		t.Errorf("duplicate slug: got %v", err)
	}
}

func TestClientPlanLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trainerID := env.trainer(t, "limit@example.com")

	for i := 0; i < 5; i++ {
		env.client(t, trainerID, "Client")
	}
	_, err := env.clients.Create(ctx, trainerID, ClientInput{Name: "Sixth", Email: "sixth@example.com"})
	if !errors.Is(err, ErrPlanLimitReached) {
		t.Fatalf("sixth client on free plan: got %v", err)
	}

	plans, _ := env.plans.List(ctx)
	var professional, free domain.Plan
	for _, p := range plans {
		switch p.Slug {
		case "professional":
			professional = p
		case domain.DefaultPlanSlug:
			free = p
		}
	}
	if _, err := env.plans.Select(ctx, trainerID, professional.ID); err != nil {
		t.Fatalf("select professional: %v", err)
	}
	if _, err := env.clients.Create(ctx, trainerID, ClientInput{Name: "Sixth", Email: "sixth@example.com"}); err != nil {
		t.Fatalf("sixth client on professional plan: %v", err)
	}

	if _, err := env.plans.Select(ctx, trainerID, free.ID); !errors.Is(err, ErrPlanLimitReached) {
		t.Errorf("downgrade with 6 clients: got %v", err)
	}
}

func TestClientValidationAndScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.trainer(t, "owner@example.com")
	other := env.trainer(t, "other@example.com")

	tests := []struct {
		name string
		in   ClientInput
	}{
		{"no name", ClientInput{Email: "a@example.com"}},
		{"no email", ClientInput{Name: "A"}},
		{"bad email", ClientInput{Name: "A", Email: "nope"}},
		{"bad gender", ClientInput{Name: "A", Email: "a@example.com", Gender: "x"}},
		{"bad status", ClientInput{Name: "A", Email: "a@example.com", Status: "gone"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.clients.Create(ctx, owner, tt.in); !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}

	c := env.client(t, owner, "Carla")
	if c.Status != domain.ClientActive || c.StartDate.IsZero() {
		t.Errorf("defaults not applied: %+v", c)
	}
	if _, err := env.clients.Get(ctx, other, c.ID); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("foreign read: got %v", err)
	}
	if err := env.clients.Delete(ctx, other, c.ID); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("foreign delete: got %v", err)
	}
}

func TestAssignWorkout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trainerID := env.trainer(t, "assign@example.com")
	c := env.client(t, trainerID, "Dani")
	squat := env.exercise(t, "Squat")

	w, err := env.workouts.Create(ctx, trainerID, WorkoutInput{
		Name:      "Legs",
		Exercises: []WorkoutExerciseInput{{ExerciseID: squat.ID}},
	})
	if err != nil {
		t.Fatalf("create workout: %v", err)
	}
	if len(w.Exercises[0].Sets) != 1 {
		t.Errorf("exercise without sets should get the default set, got %d", len(w.Exercises[0].Sets))
	}

	got, err := env.clients.AssignWorkout(ctx, trainerID, c.ID, w.ID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if len(got.WorkoutIDs) != 1 || got.WorkoutIDs[0] != w.ID {
		t.Errorf("client workouts = %v", got.WorkoutIDs)
	}

	if err := env.workouts.Delete(ctx, trainerID, w.ID); err != nil {
		t.Fatalf("delete workout: %v", err)
	}
	got, _ = env.clients.Get(ctx, trainerID, c.ID)
	if len(got.WorkoutIDs) != 0 {
		t.Errorf("deleted workout still linked: %v", got.WorkoutIDs)
	}
}

func TestPayments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trainerID := env.trainer(t, "pay@example.com")
	c := env.client(t, trainerID, "Eva")

	if _, err := env.payments.Create(ctx, trainerID, PaymentInput{ClientID: c.ID, Amount: 0}); !errors.Is(err, ErrValidation) {
		t.Errorf("zero amount: got %v", err)
	}
	if _, err := env.payments.Create(ctx, env.trainer(t, "x@example.com"), PaymentInput{ClientID: c.ID, Amount: 10}); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("foreign client: got %v", err)
	}

	p, err := env.payments.Create(ctx, trainerID, PaymentInput{ClientID: c.ID, Amount: 150, Method: "PIX"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Status != domain.PaymentPending || p.Method != "pix" || p.Date.IsZero() {
		t.Errorf("defaults not applied: %+v", p)
	}

	list, err := env.payments.List(ctx, trainerID, PaymentFilter{})
	if err != nil || len(list) != 1 || list[0].ClientName != "Eva" {
		t.Fatalf("list = %+v, %v", list, err)
	}

	p, err = env.payments.UpdateStatus(ctx, trainerID, p.ID, domain.PaymentPaid)
	if err != nil || p.Status != domain.PaymentPaid {
		t.Fatalf("update status: %+v, %v", p, err)
	}
	if list, _ := env.payments.List(ctx, trainerID, PaymentFilter{Status: "pending"}); len(list) != 0 {
		t.Errorf("status filter returned %d rows", len(list))
	}

	if err := env.payments.Delete(ctx, trainerID, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := env.clients.Get(ctx, trainerID, c.ID)
	if len(got.PaymentIDs) != 0 {
		t.Errorf("deleted payment still linked: %v", got.PaymentIDs)
	}
}

func TestDraftLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trainerID := env.trainer(t, "draft@example.com")
	squat := env.exercise(t, "Squat")

	d, err := env.drafts.Start(ctx, trainerID, nil)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	d, notice, err := env.drafts.AddExercise(ctx, trainerID, d.ID, squat.ID)
	if err != nil {
		t.Fatalf("add exercise: %v", err)
	}
	if notice != "Squat added to workout" {
		t.Errorf("notice = %q", notice)
	}
	if len(d.State.Exercises) != 1 || len(d.State.Exercises[0].Sets) != 1 {
		t.Fatalf("state = %+v", d.State)
	}

	if _, err := env.drafts.Get(env.trainer(t, "spy@example.com"), d.ID); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("foreign draft read: got %v", err)
	}

	if _, err := env.drafts.Save(ctx, trainerID, d.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("save without name: got %v", err)
	}
	if _, err := env.drafts.Get(trainerID, d.ID); err != nil {
		t.Fatalf("rejected save dropped the draft: %v", err)
	}

	name := "Leg Day"
	if _, err := env.drafts.SetDetails(trainerID, d.ID, DraftDetails{Name: &name}); err != nil {
		t.Fatalf("set details: %v", err)
	}
	w, err := env.drafts.Save(ctx, trainerID, d.ID)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if w.ID.IsZero() || w.Name != name || len(w.TargetMuscleGroups) == 0 {
		t.Errorf("saved workout = %+v", w)
	}
	if _, err := env.drafts.Get(trainerID, d.ID); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("draft survived save: %v", err)
	}

	edit, err := env.drafts.Start(ctx, trainerID, &w.ID)
	if err != nil {
		t.Fatalf("start edit: %v", err)
	}
	if edit.WorkoutID == nil || *edit.WorkoutID != w.ID || edit.State.Name != name {
		t.Errorf("edit draft = %+v", edit)
	}
}

func TestDraftSweep(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trainerID := env.trainer(t, "sweep@example.com")

	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	env.drafts.now = func() time.Time { return now }

	stale, _ := env.drafts.Start(ctx, trainerID, nil)
	now = now.Add(30 * time.Minute)
	fresh, _ := env.drafts.Start(ctx, trainerID, nil)
	now = now.Add(45 * time.Minute)

	if n := env.drafts.Sweep(); n != 1 {
		t.Errorf("swept %d drafts, want 1", n)
	}
	if _, err := env.drafts.Get(trainerID, stale.ID); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("stale draft: got %v", err)
	}
	if _, err := env.drafts.Get(trainerID, fresh.ID); err != nil {
		t.Errorf("fresh draft: %v", err)
	}
}

func TestProfileAvatar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.trainer(t, "face@example.com")

	if _, err := env.profiles.UploadAvatar(ctx, userID, "text/plain", 3, strings.NewReader("abc")); !errors.Is(err, ErrValidation) {
		t.Errorf("non-image: got %v", err)
	}
	if _, err := env.profiles.UploadAvatar(ctx, userID, "image/png", MaxAvatarSize+1, strings.NewReader("x")); !errors.Is(err, ErrValidation) {
		t.Errorf("oversized: got %v", err)
	}

	first, err := env.profiles.UploadAvatar(ctx, userID, "image/png", 3, strings.NewReader("one"))
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	firstUpload, _ := env.store.Uploads.LatestByOwner(ctx, userID, domain.UploadAvatar)

	second, err := env.profiles.UploadAvatar(ctx, userID, "image/jpeg", 3, strings.NewReader("two"))
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if second.AvatarURL == first.AvatarURL {
		t.Error("avatar url unchanged")
	}
	if _, ok := env.files.Object(firstUpload.ObjectKey); ok {
		t.Error("previous avatar object not deleted")
	}

	dark := true
	u, err := env.profiles.Update(ctx, userID, ProfileInput{DarkMode: &dark})
	if err != nil || !u.DarkMode {
		t.Errorf("update: %+v, %v", u, err)
	}
	if id, ok := env.registry.Current(userID); !ok || !id.DarkMode || id.AvatarURL != second.AvatarURL {
		t.Errorf("registry not refreshed: %+v", id)
	}
}

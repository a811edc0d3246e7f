package service

import (
	"context"
	"log/slog"
	"time"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrailingMonths is the width of every monthly series, current month included.
const TrailingMonths = 6

// DashboardStats feeds the dashboard home.
type DashboardStats struct {
	ClientCount       int                     `json:"clientCount"`
	ActiveClients     int                     `json:"activeClients"`
	WorkoutCount      int                     `json:"workoutCount"`
	MonthlyRevenue    []domain.MonthlyBucket  `json:"monthlyRevenue"`
	MonthlyNewClients []domain.MonthlyBucket  `json:"monthlyNewClients"`
	Finance           domain.FinancialSummary `json:"finance"`
}

type StatsService interface {
	MonthlyRevenue(ctx context.Context, trainerID primitive.ObjectID) ([]domain.MonthlyBucket, error)
	MonthlyNewClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.MonthlyBucket, error)
	FinancialSummary(ctx context.Context, trainerID primitive.ObjectID) (domain.FinancialSummary, error)
	Dashboard(ctx context.Context, trainerID primitive.ObjectID) (DashboardStats, error)
}

type statsService struct {
	clientRepo  repository.ClientRepository
	workoutRepo repository.WorkoutRepository
	paymentRepo repository.PaymentRepository
	now         func() time.Time
}

func NewStatsService(clientRepo repository.ClientRepository, workoutRepo repository.WorkoutRepository, paymentRepo repository.PaymentRepository) StatsService {
	return &statsService{
		clientRepo:  clientRepo,
		workoutRepo: workoutRepo,
		paymentRepo: paymentRepo,
		now:         time.Now,
	}
}

func (s *statsService) MonthlyRevenue(ctx context.Context, trainerID primitive.ObjectID) ([]domain.MonthlyBucket, error) {
	now := s.now()
	payments, err := s.paymentRepo.Since(ctx, trainerID, WindowStart(now, TrailingMonths))
	if err != nil {
		slog.Error("Failed to load payments for revenue", "trainerID", trainerID.Hex(), "error", err)
		return nil, err
	}
	return RevenueByMonth(payments, now), nil
}

func (s *statsService) MonthlyNewClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.MonthlyBucket, error) {
	now := s.now()
	clients, err := s.clientRepo.CreatedSince(ctx, trainerID, WindowStart(now, TrailingMonths))
	if err != nil {
		slog.Error("Failed to load clients for growth", "trainerID", trainerID.Hex(), "error", err)
		return nil, err
	}
	return BucketByMonth(clients, now, TrailingMonths,
		func(c domain.Client) time.Time { return c.CreatedAt },
		func(domain.Client) float64 { return 1 },
	), nil
}

func (s *statsService) FinancialSummary(ctx context.Context, trainerID primitive.ObjectID) (domain.FinancialSummary, error) {
	payments, err := s.paymentRepo.ListByTrainer(ctx, trainerID)
	if err != nil {
		slog.Error("Failed to load payments for summary", "trainerID", trainerID.Hex(), "error", err)
		return domain.FinancialSummary{}, err
	}
	rows := make([]domain.Payment, len(payments))
	for i, p := range payments {
		rows[i] = p.Payment
	}
	return Summarize(rows, s.now()), nil
}

func (s *statsService) Dashboard(ctx context.Context, trainerID primitive.ObjectID) (DashboardStats, error) {
	var stats DashboardStats

	clients, err := s.clientRepo.ListByTrainer(ctx, trainerID)
	if err != nil {
		return stats, err
	}
	stats.ClientCount = len(clients)
	for _, c := range clients {
		if c.Status == domain.ClientActive {
			stats.ActiveClients++
		}
	}

	if stats.WorkoutCount, err = s.workoutRepo.CountByTrainer(ctx, trainerID); err != nil {
		return stats, err
	}
	if stats.MonthlyNewClients, err = s.MonthlyNewClients(ctx, trainerID); err != nil {
		return stats, err
	}
	if stats.Finance, err = s.FinancialSummary(ctx, trainerID); err != nil {
		return stats, err
	}
	stats.MonthlyRevenue = stats.Finance.MonthlyRevenue
	return stats, nil
}

// WindowStart is the first instant (UTC) of the oldest month in a trailing
// window of the given width ending with now's month.
func WindowStart(now time.Time, months int) time.Time {
	y, m, _ := now.UTC().Date()
	return time.Date(y, m-time.Month(months-1), 1, 0, 0, 0, 0, time.UTC)
}

// BucketByMonth sums value(row) per calendar month of when(row) over the
// trailing window. Every month is present, oldest first, zero when empty.
// Rows outside the window are ignored.
func BucketByMonth[T any](rows []T, now time.Time, months int, when func(T) time.Time, value func(T) float64) []domain.MonthlyBucket {
	start := WindowStart(now, months)
	buckets := make([]domain.MonthlyBucket, months)
	for i := range buckets {
		buckets[i].Month = start.AddDate(0, i, 0).Format("2006-01")
	}
	for _, row := range rows {
		t := when(row).UTC()
		i := monthsBetween(start, t)
		if i < 0 || i >= months {
			continue
		}
		buckets[i].Value += value(row)
	}
	return buckets
}

// RevenueByMonth buckets payment amounts by payment date, skipping canceled payments.
func RevenueByMonth(payments []domain.Payment, now time.Time) []domain.MonthlyBucket {
	return BucketByMonth(payments, now, TrailingMonths,
		func(p domain.Payment) time.Time { return p.Date },
		func(p domain.Payment) float64 {
			if p.Status == domain.PaymentCanceled {
				return 0
			}
			return p.Amount
		},
	)
}

// Summarize computes the finances header over every payment of an owner.
func Summarize(payments []domain.Payment, now time.Time) domain.FinancialSummary {
	sum := domain.FinancialSummary{
		MonthlyRevenue:   RevenueByMonth(payments, now),
		PaymentsByStatus: make(map[domain.PaymentStatus]int, len(domain.PaymentStatuses)),
	}
	for _, st := range domain.PaymentStatuses {
		sum.PaymentsByStatus[st] = 0
	}
	today := truncateDay(now)
	for _, p := range payments {
		sum.PaymentsByStatus[p.Status]++
		switch p.Status {
		case domain.PaymentPaid:
			sum.TotalRevenue += p.Amount
			if truncateDay(p.Date).Equal(today) {
				sum.PaidToday += p.Amount
			}
		case domain.PaymentPending, domain.PaymentOverdue:
			sum.PendingRevenue += p.Amount
			if p.DueDate != nil && truncateDay(*p.DueDate).Equal(today) {
				sum.DueToday += p.Amount
			}
		}
	}
	return sum
}

func monthsBetween(start, t time.Time) int {
	return (t.Year()-start.Year())*12 + int(t.Month()) - int(start.Month())
}

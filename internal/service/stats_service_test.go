package service

import (
	"context"
	"reflect"
	"testing"
	"time"

	"fitpro/manager/internal/domain"
)

func values(buckets []domain.MonthlyBucket) []float64 {
	out := make([]float64, len(buckets))
	for i, b := range buckets {
		out[i] = b.Value
	}
	return out
}

func TestRevenueByMonth(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 12, 0, 0, 0, time.UTC) }

	tests := []struct {
		name     string
		payments []domain.Payment
		want     []float64
	}{
		{"empty", nil, []float64{0, 0, 0, 0, 0, 0}},
		{
			"single current month",
			[]domain.Payment{{Amount: 100, Date: day(2026, 3, 2), Status: domain.PaymentPaid}},
			[]float64{0, 0, 0, 0, 0, 100},
		},
		{
			"spans year boundary",
			[]domain.Payment{
				{Amount: 50, Date: day(2025, 10, 1), Status: domain.PaymentPaid},
				{Amount: 20, Date: day(2025, 12, 31), Status: domain.PaymentPending},
				{Amount: 30, Date: day(2026, 1, 1), Status: domain.PaymentOverdue},
			},
			[]float64{50, 0, 20, 30, 0, 0},
		},
		{
			"canceled and out of window",
			[]domain.Payment{
				{Amount: 999, Date: day(2025, 9, 30), Status: domain.PaymentPaid},
				{Amount: 70, Date: day(2026, 2, 10), Status: domain.PaymentCanceled},
				{Amount: 5, Date: day(2026, 4, 1), Status: domain.PaymentPaid},
			},
			[]float64{0, 0, 0, 0, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RevenueByMonth(tt.payments, now)
			if !reflect.DeepEqual(values(got), tt.want) {
				t.Errorf("got %v, want %v", values(got), tt.want)
			}
			if got[0].Month != "2025-10" || got[5].Month != "2026-03" {
				t.Errorf("months = %s..%s", got[0].Month, got[5].Month)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	sum := Summarize([]domain.Payment{
		{Amount: 100, Date: today, Status: domain.PaymentPaid},
		{Amount: 40, Date: yesterday, Status: domain.PaymentPaid},
		{Amount: 60, Date: yesterday, DueDate: &today, Status: domain.PaymentPending},
		{Amount: 25, Date: yesterday, DueDate: &yesterday, Status: domain.PaymentOverdue},
		{Amount: 10, Date: today, DueDate: &today, Status: domain.PaymentCanceled},
	}, now)

	if sum.TotalRevenue != 140 || sum.PendingRevenue != 85 || sum.PaidToday != 100 || sum.DueToday != 60 {
		t.Errorf("summary = %+v", sum)
	}
	want := map[domain.PaymentStatus]int{
		domain.PaymentPaid:     2,
		domain.PaymentPending:  1,
		domain.PaymentOverdue:  1,
		domain.PaymentCanceled: 1,
	}
	if !reflect.DeepEqual(sum.PaymentsByStatus, want) {
		t.Errorf("by status = %v", sum.PaymentsByStatus)
	}
	if got := values(sum.MonthlyRevenue); got[5] != 225 {
		t.Errorf("current month revenue = %v", got[5])
	}
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	trainerID := env.trainer(t, "dash@example.com")

	c := env.client(t, trainerID, "Fia")
	inactive := env.client(t, trainerID, "Gil")
	if _, err := env.clients.Update(ctx, trainerID, inactive.ID, ClientInput{Name: "Gil", Email: inactive.Email, Status: domain.ClientInactive}); err != nil {
		t.Fatalf("update client: %v", err)
	}
	if _, err := env.payments.Create(ctx, trainerID, PaymentInput{ClientID: c.ID, Amount: 100, Status: domain.PaymentPaid}); err != nil {
		t.Fatalf("create payment: %v", err)
	}

	stats, err := env.stats.Dashboard(ctx, trainerID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.ClientCount != 2 || stats.ActiveClients != 1 || stats.WorkoutCount != 0 {
		t.Errorf("counts = %+v", stats)
	}
	if got := values(stats.MonthlyRevenue); !reflect.DeepEqual(got, []float64{0, 0, 0, 0, 0, 100}) {
		t.Errorf("revenue = %v", got)
	}
	if got := values(stats.MonthlyNewClients); !reflect.DeepEqual(got, []float64{0, 0, 0, 0, 0, 2}) {
		t.Errorf("new clients = %v", got)
	}
	if stats.Finance.TotalRevenue != 100 {
		t.Errorf("total revenue = %v", stats.Finance.TotalRevenue)
	}
}

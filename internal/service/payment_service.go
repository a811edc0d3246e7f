package service

import (
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

var (
	paymentMethods = []string{"cash", "card", "pix", "transfer", "other"}
	planTypes      = []string{"monthly", "quarterly", "semiannual", "annual", "session"}
)

// PaymentFilter narrows the finances list view.
type PaymentFilter struct {
	Status   string `form:"status"`
	ClientID string `form:"clientId"`
}

// PaymentInput is the payment editor form.
type PaymentInput struct {
	ClientID    primitive.ObjectID   `json:"clientId"`
	Amount      float64              `json:"amount"`
	Date        *time.Time           `json:"date"`
	DueDate     *time.Time           `json:"dueDate"`
	Status      domain.PaymentStatus `json:"status"`
	Method      string               `json:"method"`
	Description string               `json:"description"`
	Recurrent   bool                 `json:"recurrent"`
	PlanType    string               `json:"planType"`
}

func (in *PaymentInput) normalize() error {
	in.Method = strings.ToLower(strings.TrimSpace(in.Method))
	in.PlanType = strings.ToLower(strings.TrimSpace(in.PlanType))
	if in.Status == "" {
		in.Status = domain.PaymentPending
	}
	switch {
	case in.ClientID.IsZero():
		return invalid("client is required")
	case in.Amount <= 0:
		return invalid("amount must be greater than zero")
	case !in.Status.Valid():
		return invalid("unknown payment status %q", in.Status)
	case in.Method != "" && !slices.Contains(paymentMethods, in.Method):
		return invalid("unknown payment method %q", in.Method)
	case in.PlanType != "" && !slices.Contains(planTypes, in.PlanType):
		return invalid("unknown plan type %q", in.PlanType)
	}
	return nil
}

type PaymentService interface {
	List(ctx context.Context, trainerID primitive.ObjectID, f PaymentFilter) ([]domain.PaymentWithClient, error)
	Get(ctx context.Context, trainerID, paymentID primitive.ObjectID) (*domain.Payment, error)
	Create(ctx context.Context, trainerID primitive.ObjectID, in PaymentInput) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, trainerID, paymentID primitive.ObjectID, status domain.PaymentStatus) (*domain.Payment, error)
	Delete(ctx context.Context, trainerID, paymentID primitive.ObjectID) error
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	clientRepo  repository.ClientRepository
	now         func() time.Time
}

func NewPaymentService(paymentRepo repository.PaymentRepository, clientRepo repository.ClientRepository) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		clientRepo:  clientRepo,
		now:         time.Now,
	}
}

func (s *paymentService) List(ctx context.Context, trainerID primitive.ObjectID, f PaymentFilter) ([]domain.PaymentWithClient, error) {
	payments, err := s.paymentRepo.ListByTrainer(ctx, trainerID)
	if err != nil {
		slog.Error("Failed to list payments", "trainerID", trainerID.Hex(), "error", err)
		return nil, err
	}
	if (f.Status == "" || f.Status == "all") && f.ClientID == "" {
		return payments, nil
	}
	out := make([]domain.PaymentWithClient, 0, len(payments))
	for _, p := range payments {
		if f.Status != "" && f.Status != "all" && string(p.Status) != f.Status {
			continue
		}
		if f.ClientID != "" && p.ClientID.Hex() != f.ClientID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *paymentService) Get(ctx context.Context, trainerID, paymentID primitive.ObjectID) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

// Create records a payment for one of the trainer's clients and links it to the client.
func (s *paymentService) Create(ctx context.Context, trainerID primitive.ObjectID, in PaymentInput) (*domain.Payment, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if _, err := s.clientRepo.GetByID(ctx, in.ClientID, trainerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	payment := &domain.Payment{
		ClientID:    in.ClientID,
		TrainerID:   trainerID,
		Amount:      in.Amount,
		Status:      in.Status,
		Method:      in.Method,
		Description: strings.TrimSpace(in.Description),
		Recurrent:   in.Recurrent,
		PlanType:    in.PlanType,
	}
	if in.Date != nil {
		payment.Date = in.Date.UTC()
	} else {
		payment.Date = s.now().UTC()
	}
	if in.DueDate != nil {
		due := in.DueDate.UTC()
		payment.DueDate = &due
	}

	paymentID, err := s.paymentRepo.Create(ctx, payment)
	if err != nil {
		slog.Error("Failed to create payment", "trainerID", trainerID.Hex(), "error", err)
		return nil, err
	}
	payment.ID = paymentID

	if err := s.clientRepo.AddPayment(ctx, in.ClientID, trainerID, paymentID); err != nil {
		slog.Error("Failed to link payment to client", "paymentID", paymentID.Hex(), "clientID", in.ClientID.Hex(), "error", err)
		if rbErr := s.paymentRepo.Delete(ctx, paymentID, trainerID); rbErr != nil {
			slog.Error("Failed to roll back unlinked payment", "paymentID", paymentID.Hex(), "error", rbErr)
		}
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) UpdateStatus(ctx context.Context, trainerID, paymentID primitive.ObjectID, status domain.PaymentStatus) (*domain.Payment, error) {
	if !status.Valid() {
		return nil, invalid("unknown payment status %q", status)
	}
	if err := s.paymentRepo.UpdateStatus(ctx, paymentID, trainerID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		slog.Error("Failed to update payment status", "paymentID", paymentID.Hex(), "error", err)
		return nil, err
	}
	return s.Get(ctx, trainerID, paymentID)
}

func (s *paymentService) Delete(ctx context.Context, trainerID, paymentID primitive.ObjectID) error {
	payment, err := s.Get(ctx, trainerID, paymentID)
	if err != nil {
		return err
	}
	if err := s.paymentRepo.Delete(ctx, paymentID, trainerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPaymentNotFound
		}
		slog.Error("Failed to delete payment", "paymentID", paymentID.Hex(), "error", err)
		return err
	}
	if err := s.clientRepo.RemovePayment(ctx, payment.ClientID, trainerID, paymentID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		slog.Warn("Failed to unlink deleted payment from client", "paymentID", paymentID.Hex(), "error", err)
	}
	return nil
}

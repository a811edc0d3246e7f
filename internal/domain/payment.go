package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentStatus tracks the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "paid"
	PaymentPending  PaymentStatus = "pending"
	PaymentOverdue  PaymentStatus = "overdue"
	PaymentCanceled PaymentStatus = "canceled"
)

// PaymentStatuses lists every status in display order.
var PaymentStatuses = []PaymentStatus{PaymentPaid, PaymentPending, PaymentOverdue, PaymentCanceled}

func (s PaymentStatus) Valid() bool {
	for _, st := range PaymentStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Payment is a charge against one of the trainer's clients.
type Payment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	Amount      float64            `bson:"amount" json:"amount"`
	Date        time.Time          `bson:"date" json:"date"`
	DueDate     *time.Time         `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Status      PaymentStatus      `bson:"status" json:"status"`
	Method      string             `bson:"method,omitempty" json:"method,omitempty"`     // "cash", "card", "pix", "transfer", "other"
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Recurrent   bool               `bson:"recurrent" json:"recurrent"`
	PlanType    string             `bson:"planType,omitempty" json:"planType,omitempty"` // "monthly", "quarterly", "semiannual", "annual", "session"
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PaymentWithClient is a payment row joined with its client's display name for list views.
type PaymentWithClient struct {
	Payment    `bson:",inline"`
	ClientName string `bson:"clientName" json:"clientName"`
}

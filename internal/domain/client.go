package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientStatus tracks where a client is in their lifecycle with the trainer.
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
	ClientPending  ClientStatus = "pending"
)

func (s ClientStatus) Valid() bool {
	switch s {
	case ClientActive, ClientInactive, ClientPending:
		return true
	}
	return false
}

// Client is a person trained by the owning trainer.
type Client struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	TrainerID      primitive.ObjectID   `bson:"trainerId" json:"trainerId"`
	Name           string               `bson:"name" json:"name"`
	Email          string               `bson:"email" json:"email"`
	Phone          string               `bson:"phone,omitempty" json:"phone,omitempty"`
	Age            int                  `bson:"age,omitempty" json:"age,omitempty"`
	Gender         string               `bson:"gender,omitempty" json:"gender,omitempty"` // "male", "female", "other"
	Goal           string               `bson:"goal,omitempty" json:"goal,omitempty"`
	Status         ClientStatus         `bson:"status" json:"status"`
	StartDate      time.Time            `bson:"startDate" json:"startDate"`
	AvatarURL      string               `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	MedicalHistory string               `bson:"medicalHistory,omitempty" json:"medicalHistory,omitempty"`
	Notes          string               `bson:"notes,omitempty" json:"notes,omitempty"`
	Measurements   []Measurement        `bson:"measurements" json:"measurements"` // Append-only, date ordered
	WorkoutIDs     []primitive.ObjectID `bson:"workoutIds" json:"workoutIds"`
	PaymentIDs     []primitive.ObjectID `bson:"paymentIds" json:"paymentIds"`
	PlanID         *primitive.ObjectID  `bson:"planId,omitempty" json:"planId,omitempty"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Measurement is a point-in-time body snapshot. Optional circumferences are in cm.
type Measurement struct {
	Date    time.Time `bson:"date" json:"date"`
	Weight  float64   `bson:"weight" json:"weight"`
	Height  float64   `bson:"height" json:"height"`
	BodyFat *float64  `bson:"bodyFat,omitempty" json:"bodyFat,omitempty"`
	Chest   *float64  `bson:"chest,omitempty" json:"chest,omitempty"`
	Waist   *float64  `bson:"waist,omitempty" json:"waist,omitempty"`
	Hips    *float64  `bson:"hips,omitempty" json:"hips,omitempty"`
	Arms    *float64  `bson:"arms,omitempty" json:"arms,omitempty"`
	Thighs  *float64  `bson:"thighs,omitempty" json:"thighs,omitempty"`
}

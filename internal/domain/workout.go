package domain

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutType tags the training style of a workout.
type WorkoutType string

const (
	WorkoutStrength    WorkoutType = "strength"
	WorkoutHypertrophy WorkoutType = "hypertrophy"
	WorkoutEndurance   WorkoutType = "endurance"
	WorkoutCardio      WorkoutType = "cardio"
	WorkoutFlexibility WorkoutType = "flexibility"
	WorkoutCustom      WorkoutType = "custom"
)

func (t WorkoutType) Valid() bool {
	switch t {
	case WorkoutStrength, WorkoutHypertrophy, WorkoutEndurance, WorkoutCardio, WorkoutFlexibility, WorkoutCustom:
		return true
	}
	return false
}

// Workout is a named, ordered collection of exercises each with a prescribed list of sets.
// TargetMuscleGroups is derived from Exercises and is recomputed on every change.
type Workout struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	TrainerID          primitive.ObjectID   `bson:"trainerId" json:"trainerId"`
	Name               string               `bson:"name" json:"name"`
	Description        string               `bson:"description,omitempty" json:"description,omitempty"`
	Type               WorkoutType          `bson:"type" json:"type"`
	Notes              string               `bson:"notes,omitempty" json:"notes,omitempty"`
	TargetMuscleGroups []string             `bson:"targetMuscleGroups" json:"targetMuscleGroups"`
	Exercises          []WorkoutExercise    `bson:"exercises" json:"exercises"`
	IsTemplate         bool                 `bson:"isTemplate" json:"isTemplate"`
	ClientIDs          []primitive.ObjectID `bson:"clientIds,omitempty" json:"clientIds,omitempty"`
	CreatedAt          time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutExercise pairs a catalog exercise snapshot with its set prescription.
type WorkoutExercise struct {
	Exercise Exercise `bson:"exercise" json:"exercise"`
	Sets     []Set    `bson:"sets" json:"sets"`
}

// Set is one prescribed unit of work. Times are in seconds, weight in kg (0 = none).
type Set struct {
	Reps     Reps   `bson:"reps" json:"reps"`
	Weight   int    `bson:"weight,omitempty" json:"weight,omitempty"`
	Time     int    `bson:"time,omitempty" json:"time,omitempty"`
	RestTime int    `bson:"restTime" json:"restTime"`
	Notes    string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Reps holds either a repetition count ("12") or free text ("20 min").
type Reps string

// RepsCount builds a numeric Reps value.
func RepsCount(n int) Reps {
	return Reps(strconv.Itoa(n))
}

// IsNumeric reports whether r is a plain repetition count. Empty counts as numeric.
func (r Reps) IsNumeric() bool {
	s := strings.TrimSpace(string(r))
	if s == "" {
		return true
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

func (r Reps) String() string {
	return string(r)
}

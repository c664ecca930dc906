package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrackingKind names a tracked session event
type TrackingKind string

const (
	TrackingRegister   TrackingKind = "register"
	TrackingSpin       TrackingKind = "spin"
	TrackingSpinFailed TrackingKind = "spin_failed"
	TrackingShare      TrackingKind = "share"
	TrackingRedeem     TrackingKind = "redeem"
)

// TrackingEvent is one analytics record emitted by a spin session
type TrackingEvent struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	SessionID      string             `json:"sessionId" bson:"session_id"`
	Kind           TrackingKind       `json:"kind" bson:"kind"`
	Plate          string             `json:"plate,omitempty" bson:"plate,omitempty"`
	Prize          string             `json:"prize,omitempty" bson:"prize,omitempty"`
	SpinsAvailable int                `json:"spinsAvailable" bson:"spins_available"`
	Detail         string             `json:"detail,omitempty" bson:"detail,omitempty"`
	At             time.Time          `json:"at" bson:"at"`
}

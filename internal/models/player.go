package models

import "time"

// Player is a participant record kept by the development stub API
type Player struct {
	Plate          string    `json:"plate" bson:"plate"`
	Email          string    `json:"email" bson:"email"`
	Phone          string    `json:"phone" bson:"phone"`
	SpinsAvailable int       `json:"spinsAvailable" bson:"spins_available"`
	Prizes         []Prize   `json:"prizes" bson:"prizes"`
	Shared         bool      `json:"shared" bson:"shared"`
	CreatedAt      time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updated_at"`
}

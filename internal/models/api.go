package models

// RegisterRequest is the body of POST /api/register
type RegisterRequest struct {
	Plate string `json:"plate" binding:"required"`
	Email string `json:"email" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

// PlateRequest is the body of POST /api/spin and POST /api/share
type PlateRequest struct {
	Plate string `json:"plate" binding:"required"`
}

// RegisteredUser is the user object returned by the register endpoint
type RegisteredUser struct {
	Plate          string  `json:"plate,omitempty"`
	Email          string  `json:"email,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	SpinsAvailable *int    `json:"spinsAvailable"`
	Prizes         []Prize `json:"prizes"`
}

// RegisterResponse is the body returned by the register endpoint
type RegisterResponse struct {
	Message string          `json:"message,omitempty"`
	User    *RegisteredUser `json:"user"`
}

// SpinPrize is the prize object of a spin response
type SpinPrize struct {
	ID   string `json:"_id,omitempty"`
	Text string `json:"text"`
}

// SpinResponse is the body returned by the spin endpoint.
// Pointer fields distinguish missing values from zero values.
type SpinResponse struct {
	Message        string     `json:"message,omitempty"`
	Prize          *SpinPrize `json:"prize"`
	StopAngle      *float64   `json:"stopAngle"`
	SpinsAvailable *int       `json:"spinsAvailable"`
	Prizes         []Prize    `json:"prizes"`
}

// ShareResponse is the body returned by the share endpoint
type ShareResponse struct {
	Message        string `json:"message,omitempty"`
	SpinsAvailable *int   `json:"spinsAvailable"`
}

// ErrorResponse is the body of a non-2xx API response
type ErrorResponse struct {
	Message string `json:"message"`
}

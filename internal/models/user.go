package models

// UserState is the in-memory state of one spin session
type UserState struct {
	SpinsAvailable int     `json:"spinsAvailable"`
	Prizes         []Prize `json:"prizes"`
	Plate          string  `json:"plate"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	SelectedPrize  string  `json:"selectedPrize"`
}

// Registered reports whether identity fields have been set by a registration
func (u UserState) Registered() bool {
	return u.Plate != ""
}

// Clone returns a copy that does not share the prize slice
func (u UserState) Clone() UserState {
	out := u
	if u.Prizes != nil {
		out.Prizes = make([]Prize, len(u.Prizes))
		copy(out.Prizes, u.Prizes)
	}
	return out
}

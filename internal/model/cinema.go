package model

// Cinema is a venue in a city.  A cinema owns one or more rooms.
type Cinema struct {
    ID       string `json:"id"`
    Name     string `json:"name"`
    City     string `json:"city"`
    Address  string `json:"address"`
    IsActive bool   `json:"isActive"`
}

// CinemaInput carries the editable fields of a Cinema.
type CinemaInput struct {
    Name    string `json:"name" validate:"required"`
    City    string `json:"city" validate:"required"`
    Address string `json:"address" validate:"required"`
}

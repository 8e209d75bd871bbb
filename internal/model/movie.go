package model

// Movie is a film that can be scheduled in sessions.  Movies are never
// hard-deleted by the storefront; IsActive hides them from listings.
//
// Fields:
//  ID          – string identifier.
//  Title       – display title.
//  Synopsis    – short description.
//  PosterURL   – poster image location.
//  TrailerURL  – optional embeddable trailer.
//  Genre       – free-form genre label.
//  Duration    – running time in minutes.
//  AgeRating   – minimum recommended age (0 = general audience).
//  ReleaseDate – YYYY-MM-DD.
//  IsActive    – soft-delete flag.
type Movie struct {
    ID          string `json:"id"`
    Title       string `json:"title" validate:"required"`
    Synopsis    string `json:"synopsis"`
    PosterURL   string `json:"posterUrl"`
    TrailerURL  string `json:"trailerUrl,omitempty"`
    Genre       string `json:"genre" validate:"required"`
    Duration    int    `json:"duration" validate:"gt=0"`
    AgeRating   int    `json:"ageRating" validate:"gte=0"`
    ReleaseDate string `json:"releaseDate"`
    IsActive    bool   `json:"isActive"`
}

// MovieInput carries the editable fields of a Movie.  ID and IsActive
// are owned by the catalog.
type MovieInput struct {
    Title       string `json:"title" validate:"required"`
    Synopsis    string `json:"synopsis"`
    PosterURL   string `json:"posterUrl"`
    TrailerURL  string `json:"trailerUrl,omitempty"`
    Genre       string `json:"genre" validate:"required"`
    Duration    int    `json:"duration" validate:"gt=0"`
    AgeRating   int    `json:"ageRating" validate:"gte=0"`
    ReleaseDate string `json:"releaseDate"`
}

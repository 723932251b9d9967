package models

import (
	"coupleswipe_server/store"
	"coupleswipe_server/utils"
)

// Movie is one entry of a session's immutable movie list.
type Movie struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	ImageURL    string  `json:"imageUrl"`
	ReleaseDate string  `json:"releaseDate"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`
}

func (m Movie) Fields() store.Fields {
	return store.Fields{
		"id":          m.ID,
		"title":       m.Title,
		"imageUrl":    m.ImageURL,
		"releaseDate": m.ReleaseDate,
		"rating":      m.Rating,
		"description": m.Description,
	}
}

func MovieFromFields(id string, fields store.Fields) Movie {
	return Movie{
		ID:          id,
		Title:       utils.ExtractString(fields, "title"),
		ImageURL:    utils.ExtractString(fields, "imageUrl"),
		ReleaseDate: utils.ExtractString(fields, "releaseDate"),
		Rating:      utils.ExtractFloat(fields, "rating"),
		Description: utils.ExtractString(fields, "description"),
	}
}

package models

import (
	"coupleswipe_server/store"
	"coupleswipe_server/utils"
)

// FilterDefinition describes one filter a category offers and the values a
// user may pick from. An empty Options list means free-form values.
type FilterDefinition struct {
	Name    string   `json:"name"`
	Options []string `json:"options,omitempty"`
}

// Category is read-only reference data describing a swipeable category.
type Category struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	ImageURL    string             `json:"imageUrl"`
	Description string             `json:"description"`
	Filters     []FilterDefinition `json:"filters,omitempty"`
}

func (c Category) Fields() store.Fields {
	filters := make(map[string][]string, len(c.Filters))
	for _, f := range c.Filters {
		filters[f.Name] = f.Options
	}
	return store.Fields{
		"name":        c.Name,
		"imageUrl":    c.ImageURL,
		"description": c.Description,
		"filters":     filters,
	}
}

func CategoryFromFields(id string, fields store.Fields) Category {
	var filters []FilterDefinition
	for name, options := range utils.ExtractStringSliceMap(fields, "filters") {
		filters = append(filters, FilterDefinition{Name: name, Options: options})
	}
	return Category{
		ID:          id,
		Name:        utils.ExtractString(fields, "name"),
		ImageURL:    utils.ExtractString(fields, "imageUrl"),
		Description: utils.ExtractString(fields, "description"),
		Filters:     filters,
	}
}

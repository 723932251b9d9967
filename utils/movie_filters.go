package utils

import (
	"strconv"
	"strings"
)

// GenreMap maps the genre names shown to users onto TMDB genre codes.
var GenreMap = map[string]int{
	"Action": 28,
	"Comedy": 35,
	"Drama":  18,
	"Horror": 27,
	"Sci-Fi": 878,
}

const (
	FilterGenre         = "Genre"
	FilterReleaseYear   = "ReleaseYear"
	FilterMinimumRating = "MinimumRating"
)

// ConvertFiltersToTMDBParams translates the filter selections stored on an
// invitation into TMDB discover query parameters. A two-element ReleaseYear
// range becomes a Jan 1 / Dec 31 date bound pair; MinimumRating falls back
// to "0" when the filter is present without a value.
func ConvertFiltersToTMDBParams(filters map[string][]string) map[string]string {
	params := map[string]string{}

	for filterName, selectedValues := range filters {
		switch filterName {
		case FilterGenre:
			var codes []string
			for _, genre := range selectedValues {
				if code, ok := GenreMap[genre]; ok {
					codes = append(codes, strconv.Itoa(code))
				}
			}
			if len(codes) > 0 {
				params["with_genres"] = strings.Join(codes, ",")
			}
		case FilterReleaseYear:
			if len(selectedValues) == 2 {
				params["primary_release_date.gte"] = selectedValues[0] + "-01-01"
				params["primary_release_date.lte"] = selectedValues[1] + "-12-31"
			}
		case FilterMinimumRating:
			rating := "0"
			if len(selectedValues) > 0 {
				rating = selectedValues[0]
			}
			params["vote_average.gte"] = rating
		}
	}

	return params
}

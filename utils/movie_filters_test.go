package utils

import (
	"reflect"
	"testing"
)

func TestConvertFiltersToTMDBParams(t *testing.T) {
	tests := []struct {
		name    string
		filters map[string][]string
		want    map[string]string
	}{
		{
			name:    "minimum rating",
			filters: map[string][]string{"MinimumRating": {"7.5"}},
			want:    map[string]string{"vote_average.gte": "7.5"},
		},
		{
			name:    "minimum rating defaults to zero when empty",
			filters: map[string][]string{"MinimumRating": {}},
			want:    map[string]string{"vote_average.gte": "0"},
		},
		{
			name:    "genres map to codes",
			filters: map[string][]string{"Genre": {"Action", "Comedy"}},
			want:    map[string]string{"with_genres": "28,35"},
		},
		{
			name:    "unknown genres are dropped",
			filters: map[string][]string{"Genre": {"Telenovela"}},
			want:    map[string]string{},
		},
		{
			name:    "release year range becomes date bounds",
			filters: map[string][]string{"ReleaseYear": {"2000", "2010"}},
			want: map[string]string{
				"primary_release_date.gte": "2000-01-01",
				"primary_release_date.lte": "2010-12-31",
			},
		},
		{
			name:    "release year needs exactly two values",
			filters: map[string][]string{"ReleaseYear": {"2000"}},
			want:    map[string]string{},
		},
		{
			name: "combined filters",
			filters: map[string][]string{
				"Genre":         {"Horror"},
				"MinimumRating": {"6"},
			},
			want: map[string]string{
				"with_genres":      "27",
				"vote_average.gte": "6",
			},
		},
		{
			name:    "no filters",
			filters: map[string][]string{},
			want:    map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertFiltersToTMDBParams(tt.filters)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ConvertFiltersToTMDBParams() = %v, want %v", got, tt.want)
			}
		})
	}
}

package models

import (
	"github.com/cityobservatory/cityobservatory/internal/archive"
	"github.com/cityobservatory/cityobservatory/internal/location"
)

// CityList is the response of the city list and search endpoints.
type CityList struct {
	Items []location.Location `json:"items"`
	Meta  ListMeta            `json:"meta"`
}

// NewCityList wraps locations, never encoding a null list.
func NewCityList(items []location.Location) CityList {
	if items == nil {
		items = []location.Location{}
	}
	return CityList{Items: items, Meta: ListMeta{Count: len(items)}}
}

// History is the archived dashboard summaries of a city, newest first.
type History struct {
	Location location.Location `json:"location"`
	Items    []*archive.Record `json:"items"`
	Meta     ListMeta          `json:"meta"`
}

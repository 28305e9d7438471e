package dto

import "github.com/places-microservice/internal/domain"

// PopulateStats - итог наполнения локации объектами
type PopulateStats struct {
	Fetched   int `json:"fetched"`
	Converted int `json:"converted"`
	Skipped   int `json:"skipped"`
	Linked    int `json:"linked"`
}

// ResolveResponse - результат резолва точки
type ResolveResponse struct {
	Location *domain.Location `json:"location"`
	CacheHit bool             `json:"cache_hit"`
	Populate *PopulateStats   `json:"populate,omitempty"`
}

// LocationsResponse - список локаций аккаунта
type LocationsResponse struct {
	Locations []*domain.Location `json:"locations"`
	Total     int                `json:"total"`
}

// FeaturesResponse - страница объектов локации
type FeaturesResponse struct {
	Features []*domain.Feature `json:"features"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

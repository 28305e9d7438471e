package dto

// ResolveRequest - запрос на резолв точки в локацию
type ResolveRequest struct {
	Lat       float64 `json:"lat" validate:"min=-90,max=90"`
	Lon       float64 `json:"lon" validate:"min=-180,max=180"`
	RadiusKm  float64 `json:"radius_km" validate:"omitempty,min=0.1,max=100"`
	Name      string  `json:"name" validate:"omitempty,min=1,max=200"`
	QueryType string  `json:"query_type" validate:"omitempty,min=1,max=50"`
}

// UpdateLocationRequest - запрос на изменение пользовательских полей локации
type UpdateLocationRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// ListFeaturesRequest - параметры страницы объектов локации
type ListFeaturesRequest struct {
	Limit  int `json:"limit" validate:"omitempty,min=1,max=500"`
	Offset int `json:"offset" validate:"omitempty,min=0"`
}

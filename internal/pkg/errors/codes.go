package errors

import "net/http"

var (
	ErrLocationNotFound = New(
		"LOCATION_NOT_FOUND",
		"Location not found",
		http.StatusNotFound,
	)

	ErrAccessDenied = New(
		"ACCESS_DENIED",
		"Location belongs to another account",
		http.StatusForbidden,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRadius = New(
		"INVALID_RADIUS",
		"Invalid radius value",
		http.StatusBadRequest,
	)

	ErrInvalidBoundingBox = New(
		"INVALID_BOUNDING_BOX",
		"Malformed bounding box",
		http.StatusBadRequest,
	)

	ErrInvalidQueryType = New(
		"INVALID_QUERY_TYPE",
		"Unknown upstream query type",
		http.StatusBadRequest,
	)

	ErrMaxLocationsReached = New(
		"MAX_LOCATIONS_REACHED",
		"Account has reached the location limit",
		http.StatusBadRequest,
	)

	ErrUpstreamUnavailable = New(
		"UPSTREAM_UNAVAILABLE",
		"Overpass API request failed",
		http.StatusBadGateway,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)

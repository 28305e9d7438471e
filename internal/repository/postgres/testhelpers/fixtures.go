package testhelpers

import (
	"encoding/json"

	"github.com/places-microservice/internal/domain"
)

// MoscowBox возвращает bbox вокруг центра Москвы (радиус ~2 км)
func MoscowBox() domain.BoundingBox {
	return domain.BoundingBox{
		South: 55.73778,
		West:  37.58528,
		North: 55.77382,
		East:  37.64932,
	}
}

// NodeDraft возвращает черновик точечного объекта для вставки в тестах
func NodeDraft(osmID int64, name string) domain.FeatureDraft {
	return domain.FeatureDraft{
		OSMID:   osmID,
		OSMType: domain.OSMNode,
		Name:    name,
		Tags:    map[string]string{"amenity": "cafe", "name": name},
		Geometry: domain.Geometry{
			WKT:  "POINT(37.6173 55.7558)",
			SRID: domain.GeometrySRID,
		},
		Raw: json.RawMessage(`{"type":"node"}`),
	}
}

// WayDraft возвращает черновик линейного объекта
func WayDraft(osmID int64, name string) domain.FeatureDraft {
	return domain.FeatureDraft{
		OSMID:   osmID,
		OSMType: domain.OSMWay,
		Name:    name,
		Tags:    map[string]string{"highway": "footway"},
		Geometry: domain.Geometry{
			WKT:  "LINESTRING(37.59 55.74, 37.60 55.75)",
			SRID: domain.GeometrySRID,
		},
		Raw: json.RawMessage(`{"type":"way"}`),
	}
}

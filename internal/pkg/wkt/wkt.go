// Package wkt конвертирует сырые элементы Overpass в каноническое
// WKT представление (POINT, LINESTRING, POLYGON, MULTIPOLYGON).
// Чистые функции без побочных эффектов; ошибка конвертации означает
// пропуск одного элемента, а не фейл всей пачки.
package wkt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/places-microservice/internal/domain"
)

// Причины отказа конвертации
const (
	ReasonMissingGeometry    = "missing geometry"
	ReasonInsufficientPoints = "insufficient points"
	ReasonUnknownKind        = "unknown element kind"
)

// ConversionError - пропуск одного элемента с контекстом для диагностики
type ConversionError struct {
	OSMID   int64
	OSMType domain.OSMType
	Tag     string
	Reason  string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s/%d (%s): %s", e.OSMType, e.OSMID, e.Tag, e.Reason)
}

func failure(el domain.OSMElement, reason string) error {
	return &ConversionError{
		OSMID:   el.ID,
		OSMType: el.Type,
		Tag:     el.PrimaryTag(),
		Reason:  reason,
	}
}

// Convert преобразует элемент Overpass в WKT геометрию с SRID 4326.
// Координаты не репроецируются: Overpass уже отдаёт WGS84.
func Convert(el domain.OSMElement) (domain.Geometry, error) {
	switch el.Type {
	case domain.OSMNode:
		return convertNode(el)
	case domain.OSMWay:
		return convertWay(el)
	case domain.OSMRelation:
		return convertRelation(el)
	default:
		return domain.Geometry{}, failure(el, ReasonUnknownKind)
	}
}

func convertNode(el domain.OSMElement) (domain.Geometry, error) {
	if el.Lat == nil || el.Lon == nil {
		return domain.Geometry{}, failure(el, ReasonMissingGeometry)
	}
	return geometry("POINT(" + coord(*el.Lon, *el.Lat) + ")"), nil
}

func convertWay(el domain.OSMElement) (domain.Geometry, error) {
	if len(el.Geometry) == 0 {
		return domain.Geometry{}, failure(el, ReasonMissingGeometry)
	}
	if len(el.Geometry) < 2 {
		return domain.Geometry{}, failure(el, ReasonInsufficientPoints)
	}

	if isArea(el.Tags) {
		ring := closeRing(el.Geometry)
		if len(ring) >= 4 {
			return geometry("POLYGON(" + ringText(ring) + ")"), nil
		}
		// Слишком короткий контур для полигона - оставляем линией
	}

	return geometry("LINESTRING(" + pointsText(el.Geometry) + ")"), nil
}

func convertRelation(el domain.OSMElement) (domain.Geometry, error) {
	// 'out geom' для relation может дать центр или геометрию участников
	if el.Center != nil {
		return geometry("POINT(" + coord(el.Center.Lon, el.Center.Lat) + ")"), nil
	}

	var rings []string
	for _, m := range el.Members {
		if m.Type != "way" || m.Role != "outer" || len(m.Geometry) < 3 {
			continue
		}
		ring := closeRing(m.Geometry)
		if len(ring) < 4 {
			continue
		}
		rings = append(rings, ringText(ring))
	}

	switch len(rings) {
	case 0:
		return domain.Geometry{}, failure(el, ReasonMissingGeometry)
	case 1:
		return geometry("POLYGON(" + rings[0] + ")"), nil
	default:
		polygons := make([]string, len(rings))
		for i, r := range rings {
			polygons[i] = "(" + r + ")"
		}
		return geometry("MULTIPOLYGON(" + strings.Join(polygons, ", ") + ")"), nil
	}
}

// isArea решает, является ли way площадным объектом.
// По правилам OSM: building/landuse/leisure и т.п. - полигон,
// highway/railway/waterway - линия, явный тег area главнее всего.
func isArea(tags map[string]string) bool {
	if v, ok := tags["area"]; ok {
		return v == "yes" || v == "true" || v == "1"
	}

	areaTags := []string{
		"building", "landuse", "leisure", "natural", "amenity",
		"shop", "tourism", "historic", "place", "man_made",
	}
	linearTags := []string{"highway", "railway", "waterway", "barrier"}

	hasArea := false
	for _, t := range areaTags {
		if _, ok := tags[t]; ok {
			hasArea = true
			break
		}
	}
	hasLinear := false
	for _, t := range linearTags {
		if _, ok := tags[t]; ok {
			hasLinear = true
			break
		}
	}

	if hasArea && !hasLinear {
		return true
	}
	if hasLinear && !hasArea {
		return false
	}

	// Замкнутый way без явных тегов считаем полигоном
	return true
}

func closeRing(points []domain.LatLon) []domain.LatLon {
	if len(points) == 0 {
		return points
	}
	first, last := points[0], points[len(points)-1]
	if first.Lat == last.Lat && first.Lon == last.Lon {
		return points
	}
	ring := make([]domain.LatLon, 0, len(points)+1)
	ring = append(ring, points...)
	return append(ring, first)
}

func geometry(text string) domain.Geometry {
	return domain.Geometry{WKT: text, SRID: domain.GeometrySRID}
}

func ringText(ring []domain.LatLon) string {
	return "(" + pointsText(ring) + ")"
}

func pointsText(points []domain.LatLon) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = coord(p.Lon, p.Lat)
	}
	return strings.Join(parts, ", ")
}

func coord(lon, lat float64) string {
	return strconv.FormatFloat(lon, 'f', -1, 64) + " " + strconv.FormatFloat(lat, 'f', -1, 64)
}

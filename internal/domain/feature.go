package domain

import (
	"encoding/json"
	"time"
)

// SRID системы координат, в которой хранится вся геометрия (WGS84).
// Overpass отдаёт координаты уже в ней, репроекция не выполняется.
const GeometrySRID = 4326

// Geometry - каноническое текстовое представление геометрии (WKT + SRID)
type Geometry struct {
	WKT  string `json:"wkt"`
	SRID int    `json:"srid"`
}

// FeatureDraft - сконвертированный элемент, готовый к записи в хранилище
type FeatureDraft struct {
	OSMID    int64
	OSMType  OSMType
	Name     string
	Tags     map[string]string
	Geometry Geometry
	Raw      json.RawMessage
}

// Feature - дедуплицированный объект карты.
// Строка иммутабельна после создания: теги и геометрия - снимок на момент
// первой успешной конвертации (first-write-wins).
type Feature struct {
	ID        int64             `json:"id" db:"id"`
	OSMID     int64             `json:"osm_id" db:"osm_id"`
	OSMType   OSMType           `json:"osm_type" db:"osm_type"`
	Name      string            `json:"name" db:"name"`
	Tags      map[string]string `json:"tags,omitempty" db:"-"`
	Geometry  string            `json:"geometry" db:"geometry"`
	SRID      int               `json:"srid" db:"srid"`
	Raw       json.RawMessage   `json:"-" db:"raw"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}

package domain

import "time"

// BoundingBox - прямоугольник в градусах (south, west, north, east)
type BoundingBox struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Valid проверяет, что прямоугольник корректно сформирован
func (b BoundingBox) Valid() bool {
	return b.South < b.North && b.West < b.East
}

// Contains проверяет полное вхождение other в b (не просто пересечение)
func (b BoundingBox) Contains(other BoundingBox) bool {
	return b.South <= other.South &&
		b.West <= other.West &&
		b.North >= other.North &&
		b.East >= other.East
}

// ContainsPoint проверяет, находится ли точка внутри прямоугольника
func (b BoundingBox) ContainsPoint(lat, lon float64) bool {
	return b.South <= lat && lat <= b.North &&
		b.West <= lon && lon <= b.East
}

// Location - именованный регион карты, принадлежащий аккаунту
type Location struct {
	ID          int64   `json:"id" db:"id"`
	AccountID   string  `json:"account_id" db:"account_id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description,omitempty" db:"description"`
	Difficulty  *string `json:"difficulty,omitempty" db:"difficulty"`

	BBoxSouth float64 `json:"bbox_south" db:"bbox_south"`
	BBoxWest  float64 `json:"bbox_west" db:"bbox_west"`
	BBoxNorth float64 `json:"bbox_north" db:"bbox_north"`
	BBoxEast  float64 `json:"bbox_east" db:"bbox_east"`

	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BBox возвращает прямоугольник локации
func (l *Location) BBox() BoundingBox {
	return BoundingBox{
		South: l.BBoxSouth,
		West:  l.BBoxWest,
		North: l.BBoxNorth,
		East:  l.BBoxEast,
	}
}

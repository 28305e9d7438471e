package domain

// OSMType - вид OSM элемента
type OSMType string

const (
	OSMNode     OSMType = "node"
	OSMWay      OSMType = "way"
	OSMRelation OSMType = "relation"
)

// LatLon - пара координат из ответа Overpass
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// OSMMember - участник relation с собственной геометрией (после 'out geom')
type OSMMember struct {
	Type     string   `json:"type"`
	Role     string   `json:"role"`
	Geometry []LatLon `json:"geometry,omitempty"`
}

// OSMElement - сырой элемент из Overpass API.
// Поле Geometry опционально: элемент без геометрии - валидный ответ,
// вызывающий код пропускает его по-элементно, а не фейлит весь fetch.
type OSMElement struct {
	ID       int64             `json:"id"`
	Type     OSMType           `json:"type"`
	Lat      *float64          `json:"lat,omitempty"`
	Lon      *float64          `json:"lon,omitempty"`
	Center   *LatLon           `json:"center,omitempty"`
	Geometry []LatLon          `json:"geometry,omitempty"`
	Members  []OSMMember       `json:"members,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`
}

// DisplayName возвращает имя элемента из тегов
func (e OSMElement) DisplayName() string {
	return e.Tags["name"]
}

// PrimaryTag возвращает репрезентативный тег для диагностики пропусков
func (e OSMElement) PrimaryTag() string {
	for _, key := range []string{"amenity", "leisure", "natural", "highway", "building", "landuse"} {
		if v, ok := e.Tags[key]; ok {
			return key + "=" + v
		}
	}
	return "unknown"
}

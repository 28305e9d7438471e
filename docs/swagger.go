// Package docs Places Microservice API.
//
// Микросервис резолва геоточек в закешированные локации с объектами OpenStreetMap.
// Точка с радиусом превращается в bounding box; если активная локация аккаунта уже
// полностью покрывает область, возвращается она, иначе создаётся новая и наполняется
// данными из Overpass API.
//
// Основные возможности:
// - Резолв точки с радиусом в локацию (кеш-хит по полному вхождению bbox)
// - Ленивое наполнение локации объектами из Overpass API
// - Дедупликация объектов по (osm_id, osm_type), геометрия в WKT
// - Постраничное чтение объектов локации
// - Переименование и деактивация локаций
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
//	Security:
//	- api_key:
//
//	SecurityDefinitions:
//	api_key:
//	     type: apiKey
//	     name: Authorization
//	     in: header
//
// swagger:meta
package docs

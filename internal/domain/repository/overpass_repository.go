package repository

import (
	"context"

	"github.com/places-microservice/internal/domain"
)

// OverpassRepository определяет интерфейс к внешнему поставщику OSM данных
type OverpassRepository interface {
	// Fetch запрашивает сырые элементы для bbox по именованному типу
	// запроса. Неизвестный тип - ошибка конфигурации до любого I/O
	Fetch(ctx context.Context, box domain.BoundingBox, queryType string) ([]domain.OSMElement, error)

	// QueryTypes возвращает список известных типов запросов
	QueryTypes() []string
}

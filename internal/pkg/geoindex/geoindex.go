// Package geoindex держит R-tree индекс bounding box'ов активных локаций.
// Используется резолвером как быстрый in-process путь проверки кеш-хита
// перед авторитетным containment-запросом в Postgres.
package geoindex

import (
	"sync"

	"github.com/dhconnelly/rtreego"

	"github.com/places-microservice/internal/domain"
)

const (
	dimensions  = 2
	minChildren = 25
	maxChildren = 50
)

// Entry - индексируемая запись: bbox активной локации
type Entry struct {
	LocationID int64
	AccountID  string
	Box        domain.BoundingBox
}

type spatialEntry struct {
	entry Entry
	rect  *rtreego.Rect
}

func (s *spatialEntry) Bounds() *rtreego.Rect {
	return s.rect
}

// Index - потокобезопасный R-tree индекс по bbox локаций
type Index struct {
	mu    sync.RWMutex
	tree  *rtreego.Rtree
	items map[int64]*spatialEntry
}

func New() *Index {
	return &Index{
		tree:  rtreego.NewTree(dimensions, minChildren, maxChildren),
		items: make(map[int64]*spatialEntry),
	}
}

func rectFor(box domain.BoundingBox) (*rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{box.South, box.West},
		[]float64{box.North - box.South, box.East - box.West},
	)
}

// Add вставляет локацию в индекс; повторная вставка того же ID заменяет запись
func (ix *Index) Add(e Entry) error {
	rect, err := rectFor(e.Box)
	if err != nil {
		return err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if old, ok := ix.items[e.LocationID]; ok {
		ix.tree.Delete(old)
	}

	item := &spatialEntry{entry: e, rect: rect}
	ix.tree.Insert(item)
	ix.items[e.LocationID] = item
	return nil
}

// Remove удаляет локацию из индекса (деактивация)
func (ix *Index) Remove(locationID int64) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	item, ok := ix.items[locationID]
	if !ok {
		return
	}
	ix.tree.Delete(item)
	delete(ix.items, locationID)
}

// FindContaining возвращает ID локации аккаунта, bbox которой полностью
// содержит candidate. R-tree отдаёт пересечения, полное вхождение
// проверяется точно; при нескольких кандидатах берётся меньший ID,
// чтобы результат был детерминирован.
func (ix *Index) FindContaining(accountID string, candidate domain.BoundingBox) (int64, bool) {
	rect, err := rectFor(candidate)
	if err != nil {
		return 0, false
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	best := int64(0)
	found := false
	for _, result := range ix.tree.SearchIntersect(rect) {
		item, ok := result.(*spatialEntry)
		if !ok {
			continue
		}
		if item.entry.AccountID != accountID {
			continue
		}
		if !item.entry.Box.Contains(candidate) {
			continue
		}
		if !found || item.entry.LocationID < best {
			best = item.entry.LocationID
			found = true
		}
	}
	return best, found
}

// Size возвращает количество записей в индексе
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.items)
}

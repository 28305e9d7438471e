package overpass

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/places-microservice/internal/domain"
	apperrors "github.com/places-microservice/internal/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed queries.yaml
var defaultQueriesYAML []byte

type queryTemplate struct {
	Description string `yaml:"description"`
	Query       string `yaml:"query"`
}

type catalogFile struct {
	Defaults struct {
		QueryType string `yaml:"query_type"`
		Timeout   int    `yaml:"timeout"`
	} `yaml:"defaults"`
	Queries map[string]queryTemplate `yaml:"queries"`
}

// QueryCatalog хранит именованные шаблоны Overpass QL.
// Шаблон содержит плейсхолдеры {timeout} и {bbox}
type QueryCatalog struct {
	queries        map[string]queryTemplate
	defaultType    string
	defaultTimeout int
}

// NewQueryCatalog загружает каталог запросов. При пустом path используется
// встроенный конфиг
func NewQueryCatalog(path string) (*QueryCatalog, error) {
	raw := defaultQueriesYAML
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read queries config: %w", err)
		}
		raw = data
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse queries config: %w", err)
	}
	if len(file.Queries) == 0 {
		return nil, fmt.Errorf("queries config contains no query templates")
	}

	defaultType := file.Defaults.QueryType
	if defaultType == "" {
		defaultType = "full"
	}
	defaultTimeout := file.Defaults.Timeout
	if defaultTimeout == 0 {
		defaultTimeout = 90
	}

	return &QueryCatalog{
		queries:        file.Queries,
		defaultType:    defaultType,
		defaultTimeout: defaultTimeout,
	}, nil
}

// DefaultType возвращает тип запроса по умолчанию
func (c *QueryCatalog) DefaultType() string {
	return c.defaultType
}

// Types возвращает отсортированный список известных типов запросов
func (c *QueryCatalog) Types() []string {
	types := make([]string, 0, len(c.queries))
	for qtype := range c.queries {
		types = append(types, qtype)
	}
	sort.Strings(types)
	return types
}

// Render подставляет bbox и таймаут в шаблон. Неизвестный тип запроса -
// ошибка до любого сетевого вызова
func (c *QueryCatalog) Render(queryType string, box domain.BoundingBox, timeoutSeconds int) (string, error) {
	if queryType == "" {
		queryType = c.defaultType
	}
	tpl, ok := c.queries[queryType]
	if !ok {
		return "", apperrors.ErrInvalidQueryType.WithDetails(map[string]interface{}{
			"query_type": queryType,
			"available":  strings.Join(c.Types(), ", "),
		})
	}

	if timeoutSeconds <= 0 {
		timeoutSeconds = c.defaultTimeout
	}

	bbox := fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", box.South, box.West, box.North, box.East)
	query := strings.ReplaceAll(tpl.Query, "{timeout}", fmt.Sprintf("%d", timeoutSeconds))
	query = strings.ReplaceAll(query, "{bbox}", bbox)
	return query, nil
}

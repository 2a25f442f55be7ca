package vocabulary

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"crm-parser-service/internal/contextkeys"
	"crm-parser-service/internal/core/port"
)

// JSONOptionsAdapter загружает справочники из JSON-файлов каталога
// options. Файл - это список строк либо список объектов с полем "name".
type JSONOptionsAdapter struct {
	dir string
}

// NewJSONOptionsAdapter - конструктор.
func NewJSONOptionsAdapter(dir string) *JSONOptionsAdapter {
	return &JSONOptionsAdapter{dir: dir}
}

// Load читает справочник name из <dir>/<name>.json. Отсутствующий или
// битый файл дает пустой список и предупреждение в лог: парсинг от
// этого не останавливается, просто сопоставление не сработает.
func (a *JSONOptionsAdapter) Load(ctx context.Context, name string) []string {
	logger := contextkeys.LoggerFromContext(ctx)
	loadLogger := logger.WithFields(port.Fields{
		"component":  "JSONOptionsAdapter",
		"vocabulary": name,
	})

	path := filepath.Join(a.dir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		loadLogger.Warn("Options file is not readable, vocabulary degraded to empty", port.Fields{
			"path":  path,
			"error": err.Error(),
		})
		return nil
	}

	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		loadLogger.Warn("Could not decode options file, vocabulary degraded to empty", port.Fields{
			"path":  path,
			"error": err.Error(),
		})
		return nil
	}

	var options []string
	for _, item := range raw {
		switch v := item.(type) {
		case string:
			options = append(options, v)
		case map[string]interface{}:
			if term, ok := v["name"].(string); ok {
				options = append(options, term)
			}
		}
	}

	return options
}

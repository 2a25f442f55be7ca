package port

import "context"

// VocabularyPort загружает именованные справочники канонических
// терминов. Контракт деградации: отсутствующий или битый справочник
// дает пустой список и диагностическую запись в лог, но никогда не
// останавливает вызывающего - парсинг продолжается без сопоставления.
type VocabularyPort interface {
	Load(ctx context.Context, name string) []string
}

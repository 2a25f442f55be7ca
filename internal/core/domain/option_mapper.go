package domain

import "strings"

// MapOption подбирает канонический термин справочника для произвольного
// текста. Возвращает первый термин, чья строчная форма входит в
// строчную форму raw. Порядок терминов в справочнике - часть контракта:
// при нескольких совпадениях побеждает более ранний.
//
// Пустой raw дает пустую строку; если не совпал ни один термин, raw
// возвращается как есть (это не ошибка, а осознанный pass-through).
func MapOption(raw string, options []string) string {
	if raw == "" {
		return ""
	}
	lowered := strings.ToLower(raw)
	for _, opt := range options {
		if opt == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(opt)) {
			return opt
		}
	}
	return raw
}

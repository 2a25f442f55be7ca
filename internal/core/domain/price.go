package domain

import "strconv"

// ParsePrice разбирает уже очищенный от валюты и пробелов текст цены.
// Текст считается числом, только если после удаления не более одной
// десятичной точки остаются одни цифры; во всех остальных случаях
// возвращается nil (не ноль и не ошибка - нечисловая цена допустима).
func ParsePrice(text string) *float64 {
	if text == "" {
		return nil
	}

	dots := 0
	for _, r := range text {
		if r == '.' {
			dots++
			if dots > 1 {
				return nil
			}
			continue
		}
		if r < '0' || r > '9' {
			return nil
		}
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	return &value
}

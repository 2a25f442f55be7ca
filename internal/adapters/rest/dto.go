package rest

// RunAcceptedResponse - ответ на успешный запуск прогона парсера.
type RunAcceptedResponse struct {
	Ok bool `json:"ok"`
}

// ParsingStatusResponse - снимок прогресса для поллинга фронтендом.
// Формат полей закреплен за существующим UI CRM.
type ParsingStatusResponse struct {
	Step    string   `json:"step"`
	Percent int      `json:"percent"`
	Log     []string `json:"log"`
}

// ActualizationStatsResponse - итог прохода актуализации.
type ActualizationStatsResponse struct {
	Source   string `json:"source"`
	Checked  int    `json:"checked"`
	Archived int    `json:"archived"`
	Errors   int    `json:"errors"`
}

package domain

// StepReady - значение шага до первого запуска и после сброса.
const StepReady = "Готов к запуску"

// StepDone - терминальный маркер успешно завершенного прогона.
const StepDone = "Готово"

// ParsingStatus - снимок состояния текущего (или последнего) прогона
// парсера. Снимок неизменяем: читатели никогда не видят частично
// примененное обновление.
type ParsingStatus struct {
	Step    string   `json:"step"`
	Percent int      `json:"percent"` // 0-100, не убывает в рамках одного прогона
	Log     []string `json:"log"`     // только дописывается, в порядке обработки
}

// ProgressUpdate - частичное обновление статуса. nil-поле означает
// "не менять".
type ProgressUpdate struct {
	Step    *string
	Percent *int
	LogLine *string // дописывается в конец журнала
}

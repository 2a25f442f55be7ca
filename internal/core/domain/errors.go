package domain

import "errors"

// ErrRunAlreadyActive возвращается, если прогон уже идет: одновременно
// допускается не больше одного.
var ErrRunAlreadyActive = errors.New("ingestion run is already active")

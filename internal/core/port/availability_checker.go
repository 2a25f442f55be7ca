package port

import "context"

// AvailabilityCheckerPort проверяет, живо ли объявление по ссылке.
// alive=false означает подтвержденные 404/410; сетевые ошибки
// возвращаются как err, и запись остается нетронутой.
type AvailabilityCheckerPort interface {
	Check(ctx context.Context, url string) (alive bool, err error)
}

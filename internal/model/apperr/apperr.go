package apperr

import "errors"

var (
	// ErrForbidden: вызывающий не коллаборатор или роли недостаточно.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound: workspace или файл отсутствует.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable: генерация недоступна, можно повторить позже.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrInvalidEditResult: генерация вернула непригодный результат.
	ErrInvalidEditResult = errors.New("invalid edit result")

	// ErrConflict: гонка версий или дубликат имени файла.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput: запрос не прошёл валидацию (размер, тип файла, пустые поля).
	ErrInvalidInput = errors.New("invalid input")
)

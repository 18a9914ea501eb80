package entity

import "errors"

var (
	// ErrPermissionDenied доступ к медиатеке не выдан
	ErrPermissionDenied = errors.New("media library permission denied")
	// ErrNoImageSelected анализ запрошен без выбранного изображения
	ErrNoImageSelected = errors.New("no image selected")
	// ErrAnalysisInFlight анализ уже выполняется
	ErrAnalysisInFlight = errors.New("analysis already in progress")
	// ErrStaleResult ответ пришёл после нового выбора или нового анализа
	ErrStaleResult = errors.New("prediction result is stale")
)

package entity

// ScanState состояние экрана сканирования
type ScanState string

const (
	StateNoImage       ScanState = "no_image"       // Изображение не выбрано
	StateImageSelected ScanState = "image_selected" // Изображение выбрано
	StateAnalyzing     ScanState = "analyzing"      // Идёт запрос к сервису
)

// ScanSession состояние экрана сканирования одного пользователя
type ScanSession struct {
	ID         int64             // Telegram Chat ID или локальный ID
	Image      *SelectedImage    // Выбранное изображение
	Preview    *ImagePreview     // Миниатюра выбранного изображения
	Result     *PredictionResult // Последний результат
	Analyzing  bool              // Флаг выполняющегося запроса
	Generation uint64            // Растёт при каждом выборе, запуске анализа и сбросе

	inFlight uint64 // поколение выполняющегося анализа
}

// NewScanSession создаёт пустую сессию
func NewScanSession(id int64) *ScanSession {
	return &ScanSession{ID: id}
}

// State возвращает текущее состояние экрана
func (s *ScanSession) State() ScanState {
	switch {
	case s.Analyzing:
		return StateAnalyzing
	case s.Image == nil || s.Image.Empty():
		return StateNoImage
	default:
		return StateImageSelected
	}
}

// HasResult сообщает, есть ли результат для показа
func (s *ScanSession) HasResult() bool {
	return s.Result != nil
}

// CanAnalyze соответствует активной кнопке анализа
func (s *ScanSession) CanAnalyze() bool {
	return s.State() == StateImageSelected
}

// SelectImage сохраняет новый выбор и сбрасывает прежний результат
func (s *ScanSession) SelectImage(img SelectedImage, preview *ImagePreview) {
	s.Image = &img
	s.Preview = preview
	s.Result = nil
	s.Generation++
}

// BeginAnalysis выставляет флаг запроса, сбрасывает результат и возвращает поколение запроса
func (s *ScanSession) BeginAnalysis() uint64 {
	s.Analyzing = true
	s.Result = nil
	s.Generation++
	s.inFlight = s.Generation
	return s.Generation
}

// FinishAnalysis снимает флаг запроса, если его выставил именно этот анализ.
// Результат сохраняется только если с момента запуска не было нового выбора,
// анализа или сброса.
func (s *ScanSession) FinishAnalysis(generation uint64, result *PredictionResult) error {
	if s.Analyzing && s.inFlight == generation {
		s.Analyzing = false
	}
	if generation != s.Generation {
		return ErrStaleResult
	}
	s.Result = result
	return nil
}

// Reset забывает изображение и результат. Поколение продолжает расти,
// поэтому ответ на запрос до сброса будет отброшен. Флаг выполняющегося
// запроса остаётся до его завершения.
func (s *ScanSession) Reset() {
	s.Image = nil
	s.Preview = nil
	s.Result = nil
	s.Generation++
}

// Snapshot возвращает копию для показа вне блокировки
func (s *ScanSession) Snapshot() ScanSession {
	cp := *s
	if s.Image != nil {
		img := *s.Image
		cp.Image = &img
	}
	if s.Preview != nil {
		p := *s.Preview
		cp.Preview = &p
	}
	if s.Result != nil {
		r := *s.Result
		cp.Result = &r
	}
	return cp
}

package entity

// PredictionResult ответ сервиса предсказаний.
type PredictionResult struct {
	RiskScore  float64 // вероятность класса повышенного риска, [0,1]
	LabelID    int     // индекс класса, 1 означает повышенный риск
	Label      string  // имя класса
	Threshold  float64 // порог решения
	ImageSize  [2]int  // размер входа модели: ширина, высота
	Disclaimer string  // может быть пустым
}

// LabelHigherRisk индекс класса повышенного риска.
const LabelHigherRisk = 1

// HigherRisk сообщает, что модель отнесла изображение к классу повышенного риска.
func (r PredictionResult) HigherRisk() bool {
	return r.LabelID == LabelHigherRisk
}

package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"skinai-scan/internal/domain/entity"
)

const (
	Brand              = "SkinAI"
	Subtitle           = "Minimal medical-style MVP. Educational use only — not a medical diagnosis."
	NoImagePlaceholder = "No image selected"
	AnalyzeHint        = "Backend will resize to the model input (e.g., 128×128) and normalize."
	AnalyzeLabel       = "Analyze image"
	AnalyzingLabel     = "Analyzing..."

	FallbackDisclaimer = "Educational use only. Not a medical diagnosis."

	RiskHigher = "Higher risk"
	RiskLower  = "Lower risk"
)

// ResultView значения для показа результата. Строится из результата без изменения состояния.
type ResultView struct {
	Prediction string
	Label      string
	ScorePct   float64
	Threshold  float64
	InputSize  [2]int
	Disclaimer string
}

// RenderResult считает процент и текст риска.
func RenderResult(r entity.PredictionResult) ResultView {
	risk := RiskLower
	if r.HigherRisk() {
		risk = RiskHigher
	}

	disclaimer := r.Disclaimer
	if disclaimer == "" {
		disclaimer = FallbackDisclaimer
	}

	return ResultView{
		Prediction: risk,
		Label:      r.Label,
		ScorePct:   ScorePercent(r.RiskScore),
		Threshold:  r.Threshold,
		InputSize:  r.ImageSize,
		Disclaimer: disclaimer,
	}
}

// ScorePercent переводит долю в проценты с одним знаком после запятой.
func ScorePercent(score float64) float64 {
	return math.Round(score*1000) / 10
}

// FormatNumber печатает число в кратчайшей форме: 82.3, 4, 0.5.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ScoreText процент со знаком: "82.3%".
func (v ResultView) ScoreText() string {
	return FormatNumber(v.ScorePct) + "%"
}

// Details строка с порогом и размером входа.
func (v ResultView) Details() string {
	return fmt.Sprintf("Threshold: %s • Input: %d×%d", FormatNumber(v.Threshold), v.InputSize[0], v.InputSize[1])
}

// Text карточка результата в виде простого текста.
func (v ResultView) Text() string {
	var b strings.Builder
	b.WriteString("Result\n")
	fmt.Fprintf(&b, "Prediction: %s\n", v.Prediction)
	fmt.Fprintf(&b, "Label: %s\n", v.Label)
	fmt.Fprintf(&b, "Risk score: %s\n", v.ScoreText())
	b.WriteString("\n")
	b.WriteString(v.Details())
	b.WriteString("\n")
	b.WriteString(v.Disclaimer)
	return b.String()
}

package view

import (
	"fmt"
	"strings"

	"skinai-scan/internal/domain/entity"
)

// ScanText экран сканирования для текстовых интерфейсов.
func ScanText(s entity.ScanSession) string {
	var b strings.Builder
	b.WriteString(Brand)
	b.WriteString("\n")
	b.WriteString(Subtitle)
	b.WriteString("\n\n1) Select an image\n")
	b.WriteString(ImageLine(s))
	b.WriteString("\n\n2) Analyze\n")
	b.WriteString(AnalyzeButton(s))
	b.WriteString("\n")
	b.WriteString(AnalyzeHint)

	if s.Result != nil {
		b.WriteString("\n\n")
		b.WriteString(RenderResult(*s.Result).Text())
	}
	return b.String()
}

// ImageLine строка с выбранным изображением или заглушкой.
func ImageLine(s entity.ScanSession) string {
	if s.Image == nil || s.Image.Empty() {
		return NoImagePlaceholder
	}
	if s.Preview != nil {
		return fmt.Sprintf("%s (%d×%d)", s.Image.Name, s.Preview.Width, s.Preview.Height)
	}
	return s.Image.Name
}

// AnalyzeButton подпись кнопки анализа с учётом состояния.
func AnalyzeButton(s entity.ScanSession) string {
	switch {
	case s.Analyzing:
		return "[" + AnalyzingLabel + "]"
	case !s.CanAnalyze():
		return "[" + AnalyzeLabel + "] (disabled)"
	default:
		return "[" + AnalyzeLabel + "]"
	}
}

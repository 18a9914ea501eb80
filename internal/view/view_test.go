package view

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"skinai-scan/internal/domain/entity"
	"skinai-scan/internal/infrastructure/predictor"
	"skinai-scan/internal/logging"
)

func TestRenderResult_HigherRisk(t *testing.T) {
	v := RenderResult(entity.PredictionResult{
		RiskScore: 0.823, LabelID: 1, Label: "malignant", Threshold: 0.5, ImageSize: [2]int{128, 128},
	})

	require.Equal(t, 82.3, v.ScorePct)
	require.Equal(t, "82.3%", v.ScoreText())
	require.Equal(t, RiskHigher, v.Prediction)
	require.Equal(t, "malignant", v.Label)
	require.Equal(t, FallbackDisclaimer, v.Disclaimer)
	require.Equal(t, "Threshold: 0.5 • Input: 128×128", v.Details())
}

func TestRenderResult_LowerRiskDropsTrailingZero(t *testing.T) {
	v := RenderResult(entity.PredictionResult{
		RiskScore: 0.04, LabelID: 0, Label: "benign", Threshold: 0.5, ImageSize: [2]int{128, 128},
		Disclaimer: "Server says hi.",
	})

	require.Equal(t, "4", FormatNumber(v.ScorePct))
	require.Equal(t, RiskLower, v.Prediction)
	require.Equal(t, "Server says hi.", v.Disclaimer)
}

func TestScorePercent(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0, "0"},
		{1, "100"},
		{0.5, "50"},
		{0.12345, "12.3"},
		{0.99999, "100"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, FormatNumber(ScorePercent(tt.score)), "score %v", tt.score)
	}
}

func TestResultView_Text(t *testing.T) {
	text := RenderResult(entity.PredictionResult{
		RiskScore: 0.823, LabelID: 1, Label: "malignant", Threshold: 0.5, ImageSize: [2]int{128, 128},
	}).Text()

	require.Contains(t, text, "Prediction: Higher risk")
	require.Contains(t, text, "Label: malignant")
	require.Contains(t, text, "Risk score: 82.3%")
	require.Contains(t, text, FallbackDisclaimer)
}

func TestAlertFor(t *testing.T) {
	require.Nil(t, AlertFor(nil))
	require.Nil(t, AlertFor(entity.ErrAnalysisInFlight))
	require.Nil(t, AlertFor(fmt.Errorf("late: %w", entity.ErrStaleResult)))

	a := AlertFor(entity.ErrPermissionDenied)
	require.Equal(t, "Permission required", a.Title)
	require.Equal(t, "Please allow access to your photo library.", a.Message)

	a = AlertFor(entity.ErrNoImageSelected)
	require.Equal(t, "No image", a.Title)
	require.Equal(t, "Pick an image first.", a.Message)

	a = AlertFor(errors.New("dial tcp: connection refused"))
	require.Equal(t, "Error", a.Title)
	require.Equal(t, "dial tcp: connection refused", a.Message)

	a = AlertFor(errors.New(""))
	require.Equal(t, "Unknown error", a.Message)
}

func TestAlertFor_APIErrorShowsStatusAndBody(t *testing.T) {
	err := logging.NewOperationError("predictor.predict", "req-1",
		&predictor.APIError{StatusCode: 500, Body: "internal error"})

	a := AlertFor(err)
	require.Equal(t, "Error", a.Title)
	require.Contains(t, a.Message, "500")
	require.Contains(t, a.Message, "internal error")
	require.NotContains(t, a.Message, "req-1")
}

func TestAbout_Text(t *testing.T) {
	text := About().Text()
	require.True(t, strings.HasPrefix(text, "About SkinAI"))
	require.Contains(t, text, "2) Upload to /predict")
	require.Contains(t, text, "Disclaimer")
}

func TestScanText(t *testing.T) {
	s := entity.NewScanSession(1)
	text := ScanText(*s)
	require.Contains(t, text, NoImagePlaceholder)
	require.Contains(t, text, "(disabled)")

	s.SelectImage(entity.NewSelectedImage("/tmp/mole.jpg"), &entity.ImagePreview{Width: 640, Height: 480})
	require.Contains(t, ScanText(*s), "mole.jpg (640×480)")
	require.Equal(t, "["+AnalyzeLabel+"]", AnalyzeButton(*s))

	gen := s.BeginAnalysis()
	require.Equal(t, "["+AnalyzingLabel+"]", AnalyzeButton(*s))

	require.NoError(t, s.FinishAnalysis(gen, &entity.PredictionResult{RiskScore: 0.04, Label: "benign"}))
	require.Contains(t, ScanText(*s), "Risk score: 4%")
}

package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewScanSession_DefaultState(t *testing.T) {
	s := NewScanSession(10)
	require.Equal(t, int64(10), s.ID)
	require.Equal(t, StateNoImage, s.State())
	require.False(t, s.HasResult())
	require.False(t, s.CanAnalyze())
}

func TestScanSession_SelectImageClearsResult(t *testing.T) {
	s := NewScanSession(1)
	s.SelectImage(NewSelectedImage("/tmp/a.jpg"), nil)
	gen := s.BeginAnalysis()
	require.NoError(t, s.FinishAnalysis(gen, &PredictionResult{RiskScore: 0.7}))
	require.True(t, s.HasResult())

	s.SelectImage(NewSelectedImage("/tmp/b.png"), &ImagePreview{Width: 4, Height: 3})
	require.False(t, s.HasResult())
	require.Equal(t, "b.png", s.Image.Name)
	require.Equal(t, StateImageSelected, s.State())
}

func TestScanSession_BeginAnalysis(t *testing.T) {
	s := NewScanSession(1)
	s.SelectImage(NewSelectedImage("/tmp/a.jpg"), nil)
	s.Result = &PredictionResult{}

	gen := s.BeginAnalysis()
	require.Equal(t, StateAnalyzing, s.State())
	require.False(t, s.CanAnalyze())
	require.Nil(t, s.Result)
	require.Equal(t, s.Generation, gen)
}

func TestScanSession_FinishAnalysisDiscardsStale(t *testing.T) {
	s := NewScanSession(1)
	s.SelectImage(NewSelectedImage("/tmp/a.jpg"), nil)
	gen := s.BeginAnalysis()

	s.SelectImage(NewSelectedImage("/tmp/b.jpg"), nil)

	err := s.FinishAnalysis(gen, &PredictionResult{RiskScore: 0.9})
	require.ErrorIs(t, err, ErrStaleResult)
	require.False(t, s.Analyzing)
	require.Nil(t, s.Result)
	require.Equal(t, "/tmp/b.jpg", s.Image.URI)
}

func TestScanSession_SnapshotIsDetached(t *testing.T) {
	s := NewScanSession(1)
	s.SelectImage(NewSelectedImage("/tmp/a.jpg"), nil)
	gen := s.BeginAnalysis()
	require.NoError(t, s.FinishAnalysis(gen, &PredictionResult{Label: "benign"}))

	snap := s.Snapshot()
	s.Result.Label = "malignant"
	s.Image.URI = "/tmp/other.jpg"

	require.Equal(t, "benign", snap.Result.Label)
	require.Equal(t, "/tmp/a.jpg", snap.Image.URI)
}

func TestNewSelectedImage_Name(t *testing.T) {
	require.Equal(t, "photo.PNG", NewSelectedImage("file:///storage/DCIM/photo.PNG").Name)
	require.Equal(t, "scan.jpg", NewSelectedImage(`C:\pics\scan.jpg`).Name)
	require.True(t, SelectedImage{URI: "  "}.Empty())
}

func TestPredictionResult_HigherRisk(t *testing.T) {
	require.True(t, PredictionResult{LabelID: 1}.HigherRisk())
	require.False(t, PredictionResult{LabelID: 0}.HigherRisk())
}

func TestScanSession_ResetKeepsGenerationGrowing(t *testing.T) {
	s := NewScanSession(1)
	s.SelectImage(NewSelectedImage("/tmp/a.jpg"), &ImagePreview{Width: 1, Height: 1})
	before := s.Generation

	s.Reset()
	require.Nil(t, s.Image)
	require.Nil(t, s.Preview)
	require.Nil(t, s.Result)
	require.Greater(t, s.Generation, before)
	require.Equal(t, StateNoImage, s.State())
}

func TestScanSession_ResetDuringAnalysis(t *testing.T) {
	s := NewScanSession(1)
	s.SelectImage(NewSelectedImage("/tmp/old.jpg"), nil)
	oldGen := s.BeginAnalysis()

	s.Reset()
	s.SelectImage(NewSelectedImage("/tmp/new.jpg"), nil)
	require.Equal(t, StateAnalyzing, s.State())

	err := s.FinishAnalysis(oldGen, &PredictionResult{Label: "old"})
	require.ErrorIs(t, err, ErrStaleResult)
	require.False(t, s.Analyzing)
	require.Nil(t, s.Result)

	newGen := s.BeginAnalysis()
	require.NotEqual(t, oldGen, newGen)
	require.NoError(t, s.FinishAnalysis(newGen, &PredictionResult{Label: "new"}))
	require.Equal(t, "new", s.Result.Label)
}

func TestScanSession_FinishOfOlderAnalysisKeepsFlag(t *testing.T) {
	s := NewScanSession(1)
	s.SelectImage(NewSelectedImage("/tmp/a.jpg"), nil)
	oldGen := s.BeginAnalysis()
	s.Analyzing = false
	newGen := s.BeginAnalysis()

	require.ErrorIs(t, s.FinishAnalysis(oldGen, &PredictionResult{}), ErrStaleResult)
	require.True(t, s.Analyzing)

	require.NoError(t, s.FinishAnalysis(newGen, &PredictionResult{}))
	require.False(t, s.Analyzing)
}

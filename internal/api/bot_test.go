package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skinai-scan/internal/container"
	"skinai-scan/internal/domain/entity"
	"skinai-scan/internal/infrastructure/predictor"
	"skinai-scan/internal/infrastructure/storage"
)

type fakeAPI struct {
	mu    sync.Mutex
	texts []string
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.texts = append(f.texts, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error) {
	return tgbotapi.File{FileID: config.FileID, FilePath: "photos/" + config.FileID}, nil
}

func (f *fakeAPI) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

type fakePredictor struct {
	result *entity.PredictionResult
	err    error
}

func (p fakePredictor) Predict(ctx context.Context, requestID string, image entity.SelectedImage) (*entity.PredictionResult, error) {
	return p.result, p.err
}

func newTestBot(t *testing.T, p fakePredictor) (*Bot, *fakeAPI) {
	t.Helper()

	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg bytes"))
	}))
	t.Cleanup(files.Close)

	c := container.New(storage.NewMemorySessionRepository(), p, nil, zap.NewNop())
	api := &fakeAPI{}
	b := newBot(api, c, t.TempDir())
	b.fileURL = func(file tgbotapi.File) string { return files.URL + "/" + file.FilePath }
	return b, api
}

func command(chatID int64, text string) *tgbotapi.Message {
	name := strings.Fields(text)[0]
	return &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}
}

func photo(chatID int64) *tgbotapi.Message {
	return &tgbotapi.Message{
		Chat:  &tgbotapi.Chat{ID: chatID},
		Photo: []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}},
	}
}

func TestBot_About(t *testing.T) {
	b, api := newTestBot(t, fakePredictor{})

	b.handleMessage(context.Background(), command(1, "/about"))
	require.Contains(t, api.last(), "About SkinAI")
}

func TestBot_AnalyzeWithoutImage(t *testing.T) {
	b, api := newTestBot(t, fakePredictor{})

	b.handleMessage(context.Background(), command(1, "/analyze"))
	b.wg.Wait()
	require.Contains(t, api.last(), "No image: Pick an image first.")
}

func TestBot_PhotoThenAnalyze(t *testing.T) {
	result := &entity.PredictionResult{
		RiskScore: 0.823,
		LabelID:   1,
		Label:     "malignant",
		Threshold: 0.5,
		ImageSize: [2]int{128, 128},
	}
	b, api := newTestBot(t, fakePredictor{result: result})
	ctx := context.Background()

	b.handleMessage(ctx, photo(5))
	require.Contains(t, api.last(), "/analyze")

	session, err := b.scan.Session(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, ".jpg", filepath.Ext(session.Image.URI))
	data, err := os.ReadFile(session.Image.URI)
	require.NoError(t, err)
	require.Equal(t, "jpeg bytes", string(data))

	b.handleMessage(ctx, command(5, "/analyze"))
	b.wg.Wait()

	text := api.last()
	require.Contains(t, text, "Prediction: Higher risk")
	require.Contains(t, text, "Risk score: 82.3%")
}

func TestBot_AnalyzeAPIError(t *testing.T) {
	b, api := newTestBot(t, fakePredictor{err: &predictor.APIError{StatusCode: 500, Body: "internal error"}})
	ctx := context.Background()

	b.handleMessage(ctx, photo(5))
	b.handleMessage(ctx, command(5, "/analyze"))
	b.wg.Wait()

	require.Contains(t, api.last(), "500")
	require.Contains(t, api.last(), "internal error")

	session, err := b.scan.Session(ctx, 5)
	require.NoError(t, err)
	require.False(t, session.HasResult())
}

func TestBot_DocumentKeepsExtension(t *testing.T) {
	b, _ := newTestBot(t, fakePredictor{})
	ctx := context.Background()

	b.handleMessage(ctx, &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: 9},
		Document: &tgbotapi.Document{FileID: "doc", FileName: "mole.PNG", MimeType: "image/png"},
	})

	session, err := b.scan.Session(ctx, 9)
	require.NoError(t, err)
	require.Equal(t, ".png", filepath.Ext(session.Image.URI))
}

func TestBot_TextAsksForPhoto(t *testing.T) {
	b, api := newTestBot(t, fakePredictor{})

	b.handleMessage(context.Background(), &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}, Text: "hello"})
	require.Equal(t, msgSendPhoto, api.last())
}

func TestBot_Reset(t *testing.T) {
	b, api := newTestBot(t, fakePredictor{})
	ctx := context.Background()

	b.handleMessage(ctx, photo(3))
	b.handleMessage(ctx, command(3, "/reset"))
	require.Equal(t, msgReset, api.last())

	session, err := b.scan.Session(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, entity.StateNoImage, session.State())
}

func TestDocumentExt(t *testing.T) {
	require.Equal(t, ".heic", documentExt(&tgbotapi.Document{FileName: "IMG.HEIC"}))
	require.Equal(t, ".png", documentExt(&tgbotapi.Document{MimeType: "image/png"}))
	require.Equal(t, ".jpg", documentExt(&tgbotapi.Document{MimeType: "image/webp"}))
}

func downloads(t *testing.T, b *Bot) []string {
	t.Helper()
	entries, err := os.ReadDir(b.downloadDir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestBot_NewPhotoRemovesPreviousDownload(t *testing.T) {
	b, _ := newTestBot(t, fakePredictor{})
	ctx := context.Background()

	b.handleMessage(ctx, photo(4))
	b.handleMessage(ctx, photo(4))
	require.Len(t, downloads(t, b), 1)

	session, err := b.scan.Session(ctx, 4)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Base(session.Image.URI)}, downloads(t, b))
}

func TestBot_ResetRemovesDownload(t *testing.T) {
	b, _ := newTestBot(t, fakePredictor{})
	ctx := context.Background()

	b.handleMessage(ctx, photo(4))
	require.Len(t, downloads(t, b), 1)

	b.handleMessage(ctx, command(4, "/reset"))
	require.Empty(t, downloads(t, b))
}

func TestBot_RemoveDownloadIgnoresForeignFiles(t *testing.T) {
	b, _ := newTestBot(t, fakePredictor{})

	foreign := filepath.Join(t.TempDir(), "keep.jpg")
	require.NoError(t, os.WriteFile(foreign, []byte("x"), 0o600))

	b.removeDownload(foreign)
	_, err := os.Stat(foreign)
	require.NoError(t, err)
}

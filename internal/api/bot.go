package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	app "skinai-scan/internal/application"
	"skinai-scan/internal/container"
	"skinai-scan/internal/domain/entity"
	"skinai-scan/internal/logging"
	"skinai-scan/internal/view"
)

const (
	msgStart = `👋 Привет! Это SkinAI — учебный классификатор снимков кожи.

📸 Отправьте фото (или изображение файлом), затем /analyze.

📋 Команды:
/analyze — отправить выбранное изображение на анализ
/status — текущее изображение и результат
/about — о приложении
/reset — забыть изображение и результат
/help — справка`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото или изображение файлом
2️⃣ Отправьте /analyze
3️⃣ Получите метку и оценку риска

⚠️ Только для обучения. Это не медицинский диагноз.`

	msgSendPhoto      = "📸 Отправьте фото или изображение файлом, затем /analyze."
	msgUnknownCommand = "❓ Неизвестная команда. Используйте /help для справки."
	msgAnalyzing      = "⏳ " + view.AnalyzingLabel
	msgReset          = "🗑 Изображение и результат сброшены."
	msgDownloadError  = "⚠️ Не удалось получить изображение. Попробуйте ещё раз."
	msgImageSelected  = "✅ Выбрано: %s\nОтправьте /analyze для анализа."
)

// botAPI часть tgbotapi.BotAPI, которой пользуется бот
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	api         botAPI
	updates     func() (tgbotapi.UpdatesChannel, func())
	fileURL     func(file tgbotapi.File) string
	scan        *app.ScanService
	downloadDir string
	httpClient  *http.Client
	logger      *zap.Logger

	wg sync.WaitGroup
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, downloadDir string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	b := newBot(api, c, downloadDir)
	b.fileURL = func(file tgbotapi.File) string { return file.Link(api.Token) }
	b.updates = func() (tgbotapi.UpdatesChannel, func()) {
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		return api.GetUpdatesChan(u), api.StopReceivingUpdates
	}

	b.logger.Info("authorized", zap.String("account", api.Self.UserName))
	return b, nil
}

func newBot(api botAPI, c *container.Container, downloadDir string) *Bot {
	return &Bot{
		api:         api,
		scan:        c.ScanService,
		downloadDir: downloadDir,
		httpClient:  http.DefaultClient,
		logger:      c.Logger.Named("telegram"),
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	if err := os.MkdirAll(b.downloadDir, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	updates, stop := b.updates()
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			stop()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Фото: берём максимальное разрешение
	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		b.handleImage(ctx, chatID, photo.FileID, ".jpg")
		return
	}

	// Изображение, отправленное файлом (сохраняет PNG и HEIC как есть)
	if doc := msg.Document; doc != nil && strings.HasPrefix(doc.MimeType, "image/") {
		b.handleImage(ctx, chatID, doc.FileID, documentExt(doc))
		return
	}

	b.sendMessage(chatID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "about":
		b.sendMessage(chatID, view.About().Text())

	case "status":
		session, err := b.scan.Session(ctx, chatID)
		if err != nil {
			b.sendError(chatID, err)
			return
		}
		b.sendMessage(chatID, view.ScanText(session))

	case "analyze":
		b.handleAnalyze(ctx, chatID)

	case "reset":
		session, err := b.scan.Session(ctx, chatID)
		if err != nil {
			b.sendError(chatID, err)
			return
		}
		if err := b.scan.Reset(ctx, chatID); err != nil {
			b.sendError(chatID, err)
			return
		}
		if session.Image != nil {
			b.removeDownload(session.Image.URI)
		}
		b.sendMessage(chatID, msgReset)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleImage скачивает файл и делает его выбранным изображением чата
func (b *Bot) handleImage(ctx context.Context, chatID int64, fileID, ext string) {
	path, err := b.downloadFile(ctx, fileID, ext)
	if err != nil {
		b.logger.Warn("download failed", zap.Int64("chat_id", chatID), zap.Error(err))
		b.sendMessage(chatID, msgDownloadError)
		return
	}

	var previous *entity.SelectedImage
	if prev, err := b.scan.Session(ctx, chatID); err == nil {
		previous = prev.Image
	}

	session, err := b.scan.PickImage(ctx, chatID, incomingImage{path: path})
	if err != nil {
		b.removeDownload(path)
		b.sendError(chatID, err)
		return
	}
	if previous != nil && previous.URI != path {
		b.removeDownload(previous.URI)
	}

	if session.Preview != nil && len(session.Preview.Thumbnail) > 0 {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "preview.jpg", Bytes: session.Preview.Thumbnail})
		photo.Caption = view.ImageLine(session)
		if _, err := b.api.Send(photo); err != nil {
			b.logger.Warn("send preview failed", zap.Error(err))
		}
	}
	b.sendMessage(chatID, fmt.Sprintf(msgImageSelected, view.ImageLine(session)))
}

// handleAnalyze запускает анализ в отдельной горутине, чтобы не блокировать цикл обновлений
func (b *Bot) handleAnalyze(ctx context.Context, chatID int64) {
	session, err := b.scan.Session(ctx, chatID)
	if err != nil {
		b.sendError(chatID, err)
		return
	}

	switch session.State() {
	case entity.StateAnalyzing:
		b.sendMessage(chatID, msgAnalyzing)
		return
	case entity.StateNoImage:
		b.sendError(chatID, entity.ErrNoImageSelected)
		return
	}

	b.sendMessage(chatID, msgAnalyzing)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		session, err := b.scan.Analyze(ctx, chatID)
		if err != nil {
			b.sendError(chatID, err)
			return
		}
		if session.Result != nil {
			b.sendMessage(chatID, view.RenderResult(*session.Result).Text())
		}
	}()
}

// downloadFile скачивает файл из Telegram в downloadDir
func (b *Bot) downloadFile(ctx context.Context, fileID, ext string) (string, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.fileURL(file), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	path := filepath.Join(b.downloadDir, uuid.NewString()+ext)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}

	return path, nil
}

// removeDownload удаляет скачанный ранее файл. Файлы вне downloadDir не трогаются.
func (b *Bot) removeDownload(path string) {
	rel, err := filepath.Rel(b.downloadDir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		b.logger.Warn("remove download failed", zap.String("path", path), zap.Error(err))
	}
}

// sendError показывает пользователю алерт, если он положен
func (b *Bot) sendError(chatID int64, err error) {
	alert := view.AlertFor(err)
	if alert == nil {
		return
	}
	if !errors.Is(err, entity.ErrPermissionDenied) && !errors.Is(err, entity.ErrNoImageSelected) {
		b.logger.Warn("request failed", append(logging.ErrorFields(err), zap.Int64("chat_id", chatID))...)
	}
	b.sendMessage(chatID, "⚠️ "+alert.String())
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("send message failed", zap.Error(err))
	}
}

// documentExt расширение для изображения, присланного файлом
func documentExt(doc *tgbotapi.Document) string {
	if ext := strings.ToLower(filepath.Ext(doc.FileName)); ext != "" {
		return ext
	}
	if doc.MimeType == "image/png" {
		return ".png"
	}
	return ".jpg"
}

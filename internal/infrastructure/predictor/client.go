package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"skinai-scan/internal/domain/entity"
	"skinai-scan/internal/domain/port"
	"skinai-scan/internal/logging"
)

// FormField имя multipart поля с изображением.
const FormField = "file"

// Client HTTP клиент эндпоинта POST {base}/predict.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
	open       func(uri string) (io.ReadCloser, error)
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет http.Client, например в тестах.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout задаёт таймаут запроса; 0 означает без таймаута.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient создаёт клиент. baseURL без завершающего слэша.
func NewClient(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger.Named("predictor"),
		open:       openLocal,
	}
	for _, opt := range opts {
		opt(c)
	}
	// Таймаут применяется к копии, чтобы не менять общий http.Client
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// Predict загружает изображение и разбирает ответ.
func (c *Client) Predict(ctx context.Context, requestID string, image entity.SelectedImage) (*entity.PredictionResult, error) {
	opLogger := logging.WithOperation(c.logger, "predictor.predict", requestID)
	started := time.Now()

	upload := DetectUploadType(image.URI)
	body, contentType, err := c.buildBody(image.URI, upload)
	if err != nil {
		return nil, logging.NewOperationError("predictor.build_body", requestID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", body)
	if err != nil {
		return nil, logging.NewOperationError("predictor.new_request", requestID, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		opLogger.Warn("predict request failed", zap.Error(err))
		return nil, logging.NewOperationError("predictor.predict", requestID, err)
	}
	defer resp.Body.Close()

	opLogger = opLogger.With(zap.Int("status", resp.StatusCode), zap.Duration("latency", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(text)}
		opLogger.Warn("predict returned error status", zap.String("body", apiErr.Body))
		return nil, logging.NewOperationError("predictor.predict", requestID, apiErr)
	}

	result, err := decodeResult(resp.Body)
	if err != nil {
		opLogger.Warn("predict response rejected", zap.Error(err))
		return nil, logging.NewOperationError("predictor.decode", requestID, err)
	}

	opLogger.Info("prediction received",
		zap.String("upload_mime", upload.MIMEType),
		zap.Float64("risk_score", result.RiskScore),
		zap.Int("label_id", result.LabelID),
	)
	return result, nil
}

func (c *Client) buildBody(uri string, upload UploadType) (*bytes.Buffer, string, error) {
	src, err := c.open(uri)
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	defer src.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FormField, upload.Filename))
	header.Set("Content-Type", upload.MIMEType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create part: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

// predictResponse поля-указатели позволяют отличить отсутствующее поле от нулевого.
type predictResponse struct {
	RiskScore  *float64 `json:"risk_score"`
	LabelID    *int     `json:"label_id"`
	Label      *string  `json:"label"`
	Threshold  *float64 `json:"threshold"`
	ImageSize  []int    `json:"image_size"`
	Disclaimer *string  `json:"disclaimer,omitempty"`
}

func decodeResult(r io.Reader) (*entity.PredictionResult, error) {
	var payload predictResponse
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var missing []string
	if payload.RiskScore == nil {
		missing = append(missing, "risk_score")
	}
	if payload.LabelID == nil {
		missing = append(missing, "label_id")
	}
	if payload.Label == nil {
		missing = append(missing, "label")
	}
	if payload.Threshold == nil {
		missing = append(missing, "threshold")
	}
	if len(payload.ImageSize) != 2 {
		missing = append(missing, "image_size")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing or invalid %s", ErrMalformedResponse, strings.Join(missing, ", "))
	}

	result := &entity.PredictionResult{
		RiskScore: *payload.RiskScore,
		LabelID:   *payload.LabelID,
		Label:     *payload.Label,
		Threshold: *payload.Threshold,
		ImageSize: [2]int{payload.ImageSize[0], payload.ImageSize[1]},
	}
	if payload.Disclaimer != nil {
		result.Disclaimer = *payload.Disclaimer
	}
	return result, nil
}

// openLocal открывает путь или file:// URI.
func openLocal(uri string) (io.ReadCloser, error) {
	if strings.HasPrefix(uri, "file://") {
		u, err := url.Parse(uri)
		if err != nil {
			return nil, err
		}
		return os.Open(u.Path)
	}
	return os.Open(uri)
}

// Проверка реализации интерфейса
var _ port.Predictor = (*Client)(nil)

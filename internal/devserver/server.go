// Package devserver локальная замена сервиса предсказаний для ручной проверки клиента.
// Модели нет: оценка считается эвристикой по тону изображения.
package devserver

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skinai-scan/internal/infrastructure/vision"
)

// MaxUploadSize ограничение размера загружаемого файла
const MaxUploadSize = 10 << 20

const (
	Disclaimer = "Educational use only. Not a medical diagnosis."

	msgBadContentType = "Please upload a JPG or PNG image."
	msgEmptyFile      = "Empty file."
	msgNoFile         = "Field 'file' is required."
	msgBadImage       = "Could not decode image."
)

var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/jpg":  {},
}

// Labels соответствие label_id и названия класса
var Labels = map[string]string{"0": "benign", "1": "malignant"}

// Scorer возвращает вероятность класса "1" для входного тензора side×side×3.
type Scorer interface {
	Score(ctx context.Context, x []float32) (float64, error)
}

// Options параметры модели
type Options struct {
	Threshold float64
	ImageSize int
}

// Server обработчики /health и /predict
type Server struct {
	scorer Scorer
	opts   Options
	logger *zap.Logger
}

// New создаёт сервер. Без scorer используется ToneScorer.
func New(scorer Scorer, opts Options, logger *zap.Logger) *Server {
	if scorer == nil {
		scorer = ToneScorer{}
	}
	if opts.ImageSize <= 0 {
		opts.ImageSize = 128
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{scorer: scorer, opts: opts, logger: logger.Named("devserver")}
}

// Router собирает gin.Engine с маршрутами сервера.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger(), cors())
	router.MaxMultipartMemory = MaxUploadSize
	s.RegisterRoutes(router)
	return router
}

// RegisterRoutes подключает обработчики к роутеру.
func (s *Server) RegisterRoutes(router gin.IRoutes) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/predict", s.predict)
}

func (s *Server) predict(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": msgNoFile})
		return
	}

	if _, ok := allowedContentTypes[file.Header.Get("Content-Type")]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"detail": msgBadContentType})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": msgEmptyFile})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to read image"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": msgEmptyFile})
		return
	}
	if len(data) > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "file too large"})
		return
	}

	img, err := vision.Decode(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": msgBadImage})
		return
	}

	x := vision.Tensor(img, s.opts.ImageSize)
	score, err := s.scorer.Score(c.Request.Context(), x)
	if err != nil {
		s.logger.Error("score failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	pred := 0
	if score >= s.opts.Threshold {
		pred = 1
	}
	key := strconv.Itoa(pred)
	label, ok := Labels[key]
	if !ok {
		label = key
	}

	c.JSON(http.StatusOK, gin.H{
		"risk_score": score,
		"label_id":   pred,
		"label":      label,
		"threshold":  s.opts.Threshold,
		"image_size": []int{s.opts.ImageSize, s.opts.ImageSize},
		"disclaimer": Disclaimer,
	})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
		)
	}
}

// cors разрешает запросы с любого источника, как и исходный сервис.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "*")
		c.Header("Access-Control-Allow-Headers", "*")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// ToneScorer оценивает риск по средней яркости: чем темнее снимок, тем выше оценка.
type ToneScorer struct{}

func (ToneScorer) Score(ctx context.Context, x []float32) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(x) == 0 {
		return 0, nil
	}
	var sum float64
	for _, v := range x {
		sum += float64(v)
	}
	score := 1 - sum/float64(len(x))
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, nil
}

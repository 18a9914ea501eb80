//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"

	"github.com/nfnt/resize"

	"skinai-scan/internal/domain/entity"
)

// Previewer строит миниатюры через image + nfnt/resize.
type Previewer struct {
	MaxSide int // длинная сторона миниатюры
	Quality int // качество JPEG
}

// NewPreviewer создаёт построитель миниатюр.
func NewPreviewer(maxSide int) *Previewer {
	if maxSide <= 0 {
		maxSide = DefaultMaxSide
	}
	return &Previewer{MaxSide: maxSide, Quality: 85}
}

// Preview декодирует файл и возвращает размеры оригинала и JPEG миниатюру.
func (p *Previewer) Preview(ctx context.Context, img entity.SelectedImage) (*entity.ImagePreview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := decodeFile(img.URI)
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	w, h := thumbnailSize(b.Dx(), b.Dy(), p.MaxSide)
	thumb := resize.Resize(uint(w), uint(h), src, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: p.Quality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return &entity.ImagePreview{
		Width:     b.Dx(),
		Height:    b.Dy(),
		Thumbnail: buf.Bytes(),
	}, nil
}

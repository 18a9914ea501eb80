//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"image"

	"gocv.io/x/gocv"

	"skinai-scan/internal/domain/entity"
)

// Previewer строит миниатюры через OpenCV.
type Previewer struct {
	MaxSide int
	Quality int
}

// NewPreviewer создаёт построитель миниатюр на OpenCV.
func NewPreviewer(maxSide int) *Previewer {
	if maxSide <= 0 {
		maxSide = DefaultMaxSide
	}
	return &Previewer{MaxSide: maxSide, Quality: 85}
}

// Preview читает файл, уменьшает его с InterpolationArea и кодирует в JPEG.
func (p *Previewer) Preview(ctx context.Context, img entity.SelectedImage) (*entity.ImagePreview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := readFile(img.URI)
	if err != nil {
		return nil, err
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, err
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, errors.New("failed to decode image")
	}

	w, h := thumbnailSize(mat.Cols(), mat.Rows(), p.MaxSide)
	thumb := gocv.NewMat()
	defer thumb.Close()
	gocv.Resize(mat, &thumb, image.Pt(w, h), 0, 0, gocv.InterpolationArea)

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, thumb, []int{int(gocv.IMWriteJpegQuality), p.Quality})
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	thumbnail := make([]byte, buf.Len())
	copy(thumbnail, buf.GetBytes())

	return &entity.ImagePreview{
		Width:     mat.Cols(),
		Height:    mat.Rows(),
		Thumbnail: thumbnail,
	}, nil
}

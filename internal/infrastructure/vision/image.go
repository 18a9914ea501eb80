package vision

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"strings"

	"github.com/nfnt/resize"
)

// DefaultMaxSide длинная сторона миниатюры по умолчанию.
const DefaultMaxSide = 320

// thumbnailSize вписывает w×h в квадрат maxSide с сохранением пропорций.
// Изображения меньше квадрата не увеличиваются.
func thumbnailSize(w, h, maxSide int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	if w <= maxSide && h <= maxSide {
		return w, h
	}
	scale := float64(maxSide) / float64(maxInt(w, h))
	tw := maxInt(1, int(float64(w)*scale))
	th := maxInt(1, int(float64(h)*scale))
	return tw, th
}

// readFile читает путь или file:// URI.
func readFile(uri string) ([]byte, error) {
	path := uri
	if strings.HasPrefix(uri, "file://") {
		u, err := url.Parse(uri)
		if err != nil {
			return nil, err
		}
		path = u.Path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}

func decodeFile(uri string) (image.Image, error) {
	data, err := readFile(uri)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode декодирует JPEG, PNG или GIF.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Tensor приводит изображение к side×side и возвращает RGB значения в [0,1]
// в порядке HWC, как их ждёт модель.
func Tensor(img image.Image, side int) []float32 {
	resized := resize.Resize(uint(side), uint(side), img, resize.Bilinear)

	b := resized.Bounds()
	out := make([]float32, 0, b.Dx()*b.Dy()*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := resized.At(x, y).RGBA()
			out = append(out, float32(r>>8)/255.0, float32(g>>8)/255.0, float32(bl>>8)/255.0)
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package entity

import (
	"path"
	"strings"
)

// SelectedImage ссылка на локальный файл, выбранный пользователем
type SelectedImage struct {
	URI  string // путь к файлу или file:// URI
	Name string // имя для показа пользователю
}

// NewSelectedImage создаёт ссылку на изображение, имя берётся из URI
func NewSelectedImage(uri string) SelectedImage {
	return SelectedImage{URI: uri, Name: path.Base(strings.ReplaceAll(uri, "\\", "/"))}
}

// Empty сообщает, что изображение не выбрано
func (i SelectedImage) Empty() bool {
	return strings.TrimSpace(i.URI) == ""
}

// ImagePreview уменьшенная копия выбранного изображения
type ImagePreview struct {
	Width     int    // ширина оригинала
	Height    int    // высота оригинала
	Thumbnail []byte // JPEG миниатюра
}

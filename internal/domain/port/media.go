package port

import (
	"context"

	"skinai-scan/internal/domain/entity"
)

// MediaLibrary источник изображений пользователя
type MediaLibrary interface {
	// RequestPermission запрашивает доступ на чтение медиатеки
	RequestPermission(ctx context.Context) (bool, error)

	// Pick показывает выбор одного изображения. ok=false если пользователь отменил выбор
	Pick(ctx context.Context) (image entity.SelectedImage, ok bool, err error)
}

// Previewer строит миниатюру выбранного изображения
type Previewer interface {
	Preview(ctx context.Context, image entity.SelectedImage) (*entity.ImagePreview, error)
}

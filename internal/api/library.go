package telegram

import (
	"context"

	"skinai-scan/internal/domain/entity"
	"skinai-scan/internal/domain/port"
)

// incomingImage медиатека из одного присланного в чат файла.
// Пользователь сам отправил изображение, поэтому доступ всегда разрешён.
type incomingImage struct {
	path string
}

func (i incomingImage) RequestPermission(ctx context.Context) (bool, error) {
	return true, nil
}

func (i incomingImage) Pick(ctx context.Context) (entity.SelectedImage, bool, error) {
	return entity.NewSelectedImage(i.path), true, nil
}

// Проверка реализации интерфейса
var _ port.MediaLibrary = incomingImage{}

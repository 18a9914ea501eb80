package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"skinai-scan/internal/domain/entity"
	"skinai-scan/internal/domain/port"
)

// imageExtensions расширения, которые показываются в выборе
var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".heic": {},
	".heif": {},
	".webp": {},
	".gif":  {},
	".bmp":  {},
}

// Prompter показывает список файлов и возвращает выбранный индекс.
// ok=false означает отмену.
type Prompter interface {
	Choose(ctx context.Context, names []string) (index int, ok bool, err error)
}

// DirectoryLibrary медиатека поверх локального каталога
type DirectoryLibrary struct {
	root     string
	prompter Prompter
}

// NewDirectoryLibrary создаёт медиатеку для каталога root.
func NewDirectoryLibrary(root string, prompter Prompter) *DirectoryLibrary {
	return &DirectoryLibrary{root: root, prompter: prompter}
}

// Root возвращает каталог медиатеки.
func (l *DirectoryLibrary) Root() string {
	return l.root
}

// RequestPermission проверяет, что каталог можно прочитать.
func (l *DirectoryLibrary) RequestPermission(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := os.ReadDir(l.root); err != nil {
		if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("open media dir: %w", err)
	}
	return true, nil
}

// Pick предлагает выбрать одно изображение из каталога.
func (l *DirectoryLibrary) Pick(ctx context.Context) (entity.SelectedImage, bool, error) {
	names, err := l.Images()
	if err != nil {
		return entity.SelectedImage{}, false, err
	}

	index, ok, err := l.prompter.Choose(ctx, names)
	if err != nil || !ok {
		return entity.SelectedImage{}, false, err
	}
	if index < 0 || index >= len(names) {
		return entity.SelectedImage{}, false, fmt.Errorf("choice %d out of range", index+1)
	}

	path, err := filepath.Abs(filepath.Join(l.root, names[index]))
	if err != nil {
		return entity.SelectedImage{}, false, err
	}
	return entity.NewSelectedImage(path), true, nil
}

// Images возвращает отсортированные имена файлов-изображений.
func (l *DirectoryLibrary) Images() ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("list media dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if IsImage(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// IsImage проверяет расширение без учёта регистра.
func IsImage(name string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Проверка реализации интерфейса
var _ port.MediaLibrary = (*DirectoryLibrary)(nil)

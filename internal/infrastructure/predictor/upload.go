package predictor

import "strings"

// UploadType имя файла и MIME тип, с которыми изображение уходит на сервер.
type UploadType struct {
	Filename string
	MIMEType string
}

// Определение типа идёт только по расширению в URI, содержимое файла не читается.
// Всё, что не найдено в таблице, отправляется как JPEG.
var (
	uploadTypes = map[string]UploadType{
		".png": {Filename: "image.png", MIMEType: "image/png"},
	}
	defaultUploadType = UploadType{Filename: "image.jpg", MIMEType: "image/jpeg"}
)

// DetectUploadType подбирает имя и MIME тип по расширению URI без учёта регистра.
func DetectUploadType(uri string) UploadType {
	lower := strings.ToLower(strings.TrimSpace(uri))
	for suffix, t := range uploadTypes {
		if strings.HasSuffix(lower, suffix) {
			return t
		}
	}
	return defaultUploadType
}

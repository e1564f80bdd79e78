// Пакет static — встроенные статические ресурсы панели.
// Файлы встраиваются в бинарник через //go:embed и раздаются
// по путям /admin/static/*.
package static

import (
	"embed"
	"io/fs"
	"net/http"
)

// content — встроенная файловая система со статическими ресурсами.
//
//go:embed app.css
var content embed.FS

// FileSystem возвращает http.FileSystem для раздачи /admin/static/*.
func FileSystem() http.FileSystem {
	return http.FS(content)
}

// FS возвращает fs.FS для прямого доступа к встроенным файлам.
func FS() fs.FS {
	return content
}

package static

import "strings"

const defaultContentType = "text/html"

var contentTypes = map[string]string{
	"csv":  "text/plain",
	"css":  "text/css",
	"json": "text/json",
	"js":   "text/javascript",
	"zip":  "application/zip",
	"woff": "font/opentype",
	"png":  "image/png",
}

// ContentType maps the extension of path, the text after its final dot, to
// a MIME type. Unknown extensions are served as text/html.
func ContentType(path string) string {
	ext := path[strings.LastIndex(path, ".")+1:]

	if contentType, ok := contentTypes[ext]; ok {
		return contentType
	}

	return defaultContentType
}

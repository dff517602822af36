package web

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
)

func itoa(value int) string {
	return strconv.Itoa(value)
}

func utoa(value uint) string {
	return strconv.FormatUint(uint64(value), 10)
}

func money(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format("2006-01-02 15:04")
}

func pageURL(base string, page, perPage int) string {
	if strings.Contains(base, "?") {
		return base + "&page=" + itoa(page) + "&per_page=" + itoa(perPage)
	}
	return base + "?page=" + itoa(page) + "&per_page=" + itoa(perPage)
}

var prodAssetVersion = func() string {
	startedAt := time.Now().UTC().Format(time.RFC3339)
	sum := sha256.Sum256([]byte(startedAt))
	return hex.EncodeToString(sum[:8])
}()

// assetPath appends a content hash to /static/ paths so browsers pick up new
// stylesheets. In prod the hash is fixed per process start.
func assetPath(path string) string {
	if path == "" || !strings.HasPrefix(path, "/static/") {
		return path
	}
	if os.Getenv("ENV") == "prod" {
		return path + "?v=" + prodAssetVersion
	}
	data, err := os.ReadFile(filepath.Join("static", strings.TrimPrefix(path, "/static/")))
	if err != nil {
		return path
	}
	sum := sha256.Sum256(data)
	return path + "?v=" + hex.EncodeToString(sum[:8])
}

// writer collects the first write error so page bodies can be written
// without checking every call.
type writer struct {
	w   io.Writer
	err error
}

func (h *writer) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes s escaped.
func (h *writer) text(s string) {
	h.raw(templ.EscapeString(s))
}

// rawf formats into the page. Arguments are not escaped.
func (h *writer) rawf(format string, args ...any) {
	h.raw(fmt.Sprintf(format, args...))
}

func (h *writer) notice(class, message string) {
	if message == "" {
		return
	}
	h.rawf(`<p class="notice %s">`, class)
	h.text(message)
	h.raw(`</p>`)
}

func page(title, flash string, body func(h *writer)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &writer{w: w}
		h.raw(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>`)
		h.text(title)
		h.raw(` | Tragedy of the Commons</title>
    <link rel="stylesheet" href="`)
		h.text(assetPath("/static/styles.css"))
		h.raw(`"/>
  </head>
  <body>
    <main class="shell">
      <nav class="top"><a href="/">Tragedy of the Commons</a></nav>
`)
		h.notice("warning", flash)
		body(h)
		h.raw(`
    </main>
  </body>
</html>
`)
		return h.err
	})
}

func input(h *writer, label, name, kind, value string) {
	h.rawf(`<label>%s <input type="%s" name="%s" value="`, templ.EscapeString(label), kind, name)
	h.text(value)
	h.raw(`"/></label>`)
}

func pagination(h *writer, data PaginationData) {
	if data.TotalPages <= 1 {
		return
	}
	h.raw(`<nav class="pagination">`)
	if data.HasPrev {
		h.rawf(`<a href="%s">Previous</a> `, templ.EscapeString(pageURL(data.BasePath, data.PrevPage, data.PerPage)))
	}
	h.rawf(`<span>Page %d of %d</span>`, data.Page, data.TotalPages)
	if data.HasNext {
		h.rawf(` <a href="%s">Next</a>`, templ.EscapeString(pageURL(data.BasePath, data.NextPage, data.PerPage)))
	}
	h.raw(`</nav>`)
}

package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticHandler serves the embedded assets under /static/.
func StaticHandler() http.Handler {
	return http.FileServer(http.FS(staticFS))
}

var (
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	funcMap = template.FuncMap{
		"datetime": func(t any) string {
			return formatTime(t, "02-01-2006 15:04:05")
		},
		"timeonly": func(t any) string {
			return formatTime(t, "15:04:05")
		},
		"hours": func(h *float64) string {
			if h == nil {
				return "—"
			}
			return fmt.Sprintf("%.2f", *h)
		},
	}
)

func formatTime(t any, layout string) string {
	switch v := t.(type) {
	case time.Time:
		return v.Format(layout)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format(layout)
	}
	return ""
}

func lookup(name string) (*template.Template, error) {
	tplCache.RLock()
	tpl, ok := tplCache.m[name]
	tplCache.RUnlock()
	if ok {
		return tpl, nil
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS,
		"templates/layout.html", "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}

	tplCache.Lock()
	tplCache.m[name] = tpl
	tplCache.Unlock()
	return tpl, nil
}

// Render writes the named page wrapped in the shared layout. The template is
// rendered to a buffer first so a template error never produces a half page.
func Render(w http.ResponseWriter, name string, data map[string]any) error {
	tpl, err := lookup(name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = buf.WriteTo(w)
	return err
}

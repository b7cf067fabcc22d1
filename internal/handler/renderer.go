package handler

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
	"github.com/LuckylisaBemeye/Bomahub/internal/session"
	"github.com/LuckylisaBemeye/Bomahub/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticFS is the stylesheet directory served under /static.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Renderer renders a page template inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"money":       view.Money,
	"number":      view.Number,
	"date":        view.FormatDate,
	"statusClass": func(s any) string { return view.StatusClass(fmt.Sprint(s)) },
	"isoDate":     func(d model.Date) string { return d.String() },
	"hasRole": func(st session.State, role string) bool {
		return st.HasRole(model.ParseRole(role))
	},
	"title":   func(s any) string { return view.Label(fmt.Sprint(s)) },
	"str":     func(v any) string { return fmt.Sprint(v) },
	"options": selectOptions,
	"dict": func(kv ...any) (map[string]any, error) {
		if len(kv)%2 != 0 {
			return nil, errors.New("dict needs key/value pairs")
		}
		m := make(map[string]any, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			k, ok := kv[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict key %v is not a string", kv[i])
			}
			m[k] = kv[i+1]
		}
		return m, nil
	},
}

// Option is one entry of a formSelect.
type Option struct {
	Value string
	Label string
}

func enumOptions[T ~string](values []T) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Value: string(v), Label: view.Label(string(v))})
	}
	return out
}

// selectOptions turns the entity lists pages hold into select entries.
func selectOptions(v any) ([]Option, error) {
	id := func(n int64) string { return strconv.FormatInt(n, 10) }
	var out []Option
	switch list := v.(type) {
	case nil:
	case []Option:
		out = list
	case []model.Property:
		for _, p := range list {
			out = append(out, Option{Value: id(p.ID), Label: p.Name})
		}
	case []model.Unit:
		for _, u := range list {
			out = append(out, Option{Value: id(u.ID), Label: u.UnitNumber})
		}
	case []model.Tenant:
		for _, t := range list {
			out = append(out, Option{Value: id(t.ID), Label: t.Name})
		}
	case []model.Role:
		for _, r := range list {
			out = append(out, Option{Value: string(r), Label: r.Label()})
		}
	case []model.UnitStatus:
		out = enumOptions(list)
	case []model.PaymentStatus:
		out = enumOptions(list)
	case []model.PaymentMethod:
		out = enumOptions(list)
	default:
		return nil, fmt.Errorf("options: unsupported list %T", v)
	}
	return out, nil
}

// NewRenderer parses the layout, the shared partials and every page.
func NewRenderer() (*Renderer, error) {
	base, err := template.New("base").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".html")
		if name == "layout" || name == "partials" {
			continue
		}
		tmpl, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := tmpl.ParseFS(templateFS, f); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", f, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

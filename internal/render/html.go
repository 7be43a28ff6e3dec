package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/gin-contrib/multitemplate"

	"comment-gateway/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names
const (
	PageComments = "comments/list.html"
	PageError    = "error.html"
)

// ErrorPage is the data of PageError
type ErrorPage struct {
	Title   string
	Message string
	Back    string
}

// FuncMap returns the helpers available to every template
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"maxContent": func() int {
			return domain.MaxContentLength
		},
	}
}

// NewRenderer parses the embedded page templates into a gin HTML renderer
func NewRenderer() (multitemplate.Render, error) {
	read := func(names ...string) ([]string, error) {
		out := make([]string, 0, len(names))
		for _, name := range names {
			data, err := templateFS.ReadFile("templates/" + name)
			if err != nil {
				return nil, fmt.Errorf("read template %s: %w", name, err)
			}
			out = append(out, string(data))
		}
		return out, nil
	}

	pages := map[string][]string{
		PageComments: {"base.html", "form.html", "node.html", "comments.html"},
		PageError:    {"base.html", "error.html"},
	}

	r := multitemplate.New()
	for name, files := range pages {
		sources, err := read(files...)
		if err != nil {
			return nil, err
		}
		tmpl, err := parse(name, sources)
		if err != nil {
			return nil, err
		}
		r.Add(name, tmpl)
	}
	return r, nil
}

// parse mirrors multitemplate's AddFromStringsFuncs but returns the error
// instead of panicking
func parse(name string, sources []string) (*template.Template, error) {
	tmpl := template.New(name).Funcs(FuncMap())
	for _, src := range sources {
		var err error
		if tmpl, err = tmpl.Parse(src); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
	}
	return tmpl, nil
}

// Execute renders a named page outside of gin
func Execute(r multitemplate.Render, w io.Writer, name string, data interface{}) error {
	tmpl, ok := r[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return tmpl.Execute(w, data)
}

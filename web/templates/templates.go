// Package templates renders the screens. Pages are html/template files
// embedded in the binary and exposed as templ components so handlers and
// Datastar responses can treat them uniformly.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"

	"github.com/a-h/templ"
)

//go:embed layouts/*.html partials/*.html pages/*.html
var files embed.FS

// pages holds one template set per page, each cloned from the shared
// layout and partials so pages can define their own "content" block.
var pages = mustParsePages(files)

func mustParsePages(fsys fs.FS) map[string]*template.Template {
	set, err := parsePages(fsys)
	if err != nil {
		panic(err)
	}
	return set
}

func parsePages(fsys fs.FS) (map[string]*template.Template, error) {
	base, err := template.ParseFS(fsys, "layouts/*.html", "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layouts: %w", err)
	}

	names, err := fs.Glob(fsys, "pages/*.html")
	if err != nil {
		return nil, err
	}

	set := make(map[string]*template.Template, len(names))
	for _, name := range names {
		page, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := page.ParseFS(fsys, name); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		set[path.Base(name)] = page
	}
	return set, nil
}

// component renders the named block of a page template with data.
func component(page, block string, data any) templ.Component {
	tmpl, ok := pages[page]
	if !ok {
		panic("templates: unknown page " + page)
	}
	return templ.FromGoHTML(tmpl.Lookup(block), data)
}

// Login renders the login screen.
func Login(props LoginProps) templ.Component {
	return component("login.html", "base", props)
}

// Home renders the full home screen.
func Home(props HomeProps) templ.Component {
	return component("home.html", "base", props)
}

// HomeContent renders only #home-content, for in-place patches.
func HomeContent(props HomeProps) templ.Component {
	return component("home.html", "home_content", props)
}

// ErrorPage renders an error screen.
func ErrorPage(props ErrorPageProps) templ.Component {
	return component("error.html", "base", props)
}

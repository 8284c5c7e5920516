package dashboard

import (
	"embed"
	"io/fs"
	"os"

	template "github.com/goliatone/go-template"
)

//go:embed templates/*.html templates/**/*.html
var embeddedTemplates embed.FS

// NewTemplateRenderer creates a go-template renderer backed by the embedded
// leads overview templates.
func NewTemplateRenderer() (Renderer, error) {
	return NewTemplateRendererFS(embeddedTemplates, "templates")
}

// NewTemplateRendererDir renders templates from a directory on disk, e.g. to
// iterate on markup without rebuilding. An empty dir falls back to the
// embedded templates.
func NewTemplateRendererDir(dir string) (Renderer, error) {
	if dir == "" {
		return NewTemplateRenderer()
	}
	return NewTemplateRendererFS(os.DirFS(dir), ".")
}

// NewTemplateRendererFS builds a renderer over any template filesystem.
func NewTemplateRendererFS(fsys fs.FS, baseDir string) (Renderer, error) {
	return template.NewRenderer(
		template.WithFS(fsys),
		template.WithBaseDir(baseDir),
		template.WithExtension(".html"),
	)
}

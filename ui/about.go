package ui

import (
	"html/template"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	log "github.com/sirupsen/logrus"
)

// aboutHTML renders the embedded methodology markdown once per call.
// The document is small and ships inside the binary.
func (a *App) aboutHTML() template.HTML {
	raw, err := embeddedFiles.ReadFile("about.md")
	if err != nil {
		log.WithError(err).Error("methodology document missing")
		return "<p>Methodology document unavailable.</p>"
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.Tables)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return template.HTML(markdown.Render(p.Parse(raw), renderer))
}

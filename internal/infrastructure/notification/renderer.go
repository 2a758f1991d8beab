package notification

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"text/template"

	"github.com/gofiber/template/html/v2"

	"github.com/jhoicas/schoolhub-api/internal/application/billing"
)

//go:embed templates
var templatesFS embed.FS

var _ billing.Renderer = (*TemplateRenderer)(nil)

// TemplateRenderer arma el correo HTML con el motor html de fiber y los textos planos con text/template.
type TemplateRenderer struct {
	html *html.Engine
	text *template.Template
}

// NewTemplateRenderer carga las plantillas embebidas; falla si alguna no compila.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("load html templates: %w", err)
	}
	text, err := template.ParseFS(sub, "*.txt")
	if err != nil {
		return nil, fmt.Errorf("load text templates: %w", err)
	}
	return &TemplateRenderer{html: engine, text: text}, nil
}

func (r *TemplateRenderer) RenderInvoice(view billing.InvoiceView) (*billing.RenderedInvoice, error) {
	var htmlBuf bytes.Buffer
	if err := r.html.Render(&htmlBuf, "invoice", view); err != nil {
		return nil, fmt.Errorf("render invoice html: %w", err)
	}
	text, err := r.execText("invoice.txt", view)
	if err != nil {
		return nil, err
	}
	wa, err := r.execText("invoice_whatsapp.txt", view)
	if err != nil {
		return nil, err
	}
	return &billing.RenderedInvoice{
		Subject:  fmt.Sprintf("Invoice %s from SchoolHub - due %s", view.InvoiceNumber, view.DueDate),
		HTML:     htmlBuf.String(),
		Text:     text,
		WhatsApp: wa,
	}, nil
}

func (r *TemplateRenderer) execText(name string, view billing.InvoiceView) (string, error) {
	var buf bytes.Buffer
	if err := r.text.ExecuteTemplate(&buf, name, view); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

package email

import (
	"embed"
	"html/template"

	"github.com/pkg/errors"
)

// Template names an HTML file under templates/.
type Template string

const (
	// TemplateOrderConfirmation corresponds to templates/order_confirmation.html
	TemplateOrderConfirmation Template = "order_confirmation"
)

//go:embed templates/*.html
var templateFS embed.FS

// parseTemplates compiles every embedded template once; a broken template
// fails at client construction instead of on the first send.
func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse email templates")
	}
	return tmpl, nil
}

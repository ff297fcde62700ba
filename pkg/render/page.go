package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/ticketdesk/pkg/vdom"
)

// DefaultClientScript is the path the thin client is served from.
const DefaultClientScript = "/_ticketdesk/client.js"

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root container, rendered inside <body>.
	Body *vdom.VNode

	// Title is the page title
	Title string

	// Meta contains name/content meta tags for the page
	Meta []MetaTag

	// Styles contains inline CSS styles
	Styles []string

	// ClientScript is the path to the thin client JavaScript.
	// Defaults to DefaultClientScript. Set NoScript to omit it.
	ClientScript string

	// NoScript omits the client script, for static output.
	NoScript bool

	// Lang is the language attribute for the html element
	// Defaults to "en" if not specified
	Lang string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name    string
	Content string
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `<html lang="%s">`+"\n", escapeAttr(lang)); err != nil {
		return err
	}
	if err := r.renderHead(w, page); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "<body>\n"); err != nil {
		return err
	}
	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}
	if !r.config.Pretty {
		io.WriteString(w, "\n")
	}
	if err := r.renderClientScript(w, page); err != nil {
		return err
	}

	_, err := io.WriteString(w, "</body>\n</html>\n")
	return err
}

// renderHead renders the document head section.
func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<head>\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `  <meta charset="utf-8">`+"\n"); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `  <meta name="viewport" content="width=device-width, initial-scale=1">`+"\n"); err != nil {
		return err
	}

	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}

	for _, meta := range page.Meta {
		if _, err := fmt.Fprintf(w, `  <meta name="%s" content="%s">`+"\n",
			escapeAttr(meta.Name), escapeAttr(meta.Content)); err != nil {
			return err
		}
	}

	for _, style := range page.Styles {
		if _, err := fmt.Fprintf(w, "  <style>%s</style>\n", style); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</head>\n")
	return err
}

// renderClientScript injects the thin client.
func (r *Renderer) renderClientScript(w io.Writer, page PageData) error {
	if page.NoScript {
		return nil
	}
	clientPath := page.ClientScript
	if clientPath == "" {
		clientPath = DefaultClientScript
	}
	_, err := fmt.Fprintf(w, `  <script src="%s" defer></script>`+"\n", escapeAttr(clientPath))
	return err
}

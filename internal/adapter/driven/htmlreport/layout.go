package htmlreport

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const pageStyle = `body{font-family:system-ui,sans-serif;margin:2rem auto;max-width:70rem;color:#101F38}
table{border-collapse:collapse;margin:1rem 0}
th,td{border:1px solid #dce0e5;padding:.3rem .6rem;text-align:left}
th{background:#f4f5f6}
code{font-family:ui-monospace,monospace}`

// Layout wraps body in a standalone HTML page.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>"); err != nil {
			return err
		}
		if _, err := io.WriteString(w, templ.EscapeString(title)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "</title>\n<style>"+pageStyle+"</style>\n</head>\n<body>\n"); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n</body>\n</html>\n")
		return err
	})
}

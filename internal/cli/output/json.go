package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter writes indented JSON. HTML characters are left unescaped so
// redirect URLs print as the server sent them.
type JSONFormatter struct{}

// Format implements Formatter.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(data)
}

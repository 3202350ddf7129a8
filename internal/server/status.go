package server

import "net/http"

// StatusText maps HTTP status codes to the text shown to clients.
// A StatusText is built once at startup and only read afterwards.
type StatusText struct {
	texts map[int]string
}

// NewStatusText returns StatusText holding a copy of texts.
// Codes missing from texts fall back to http.StatusText.
func NewStatusText(texts map[int]string) StatusText {
	copied := make(map[int]string, len(texts))
	for code, text := range texts {
		copied[code] = text
	}
	return StatusText{texts: copied}
}

// DefaultStatusText returns texts used when no WithStatusText option is given
func DefaultStatusText() StatusText {
	return NewStatusText(map[int]string{
		http.StatusNotFound:            "The requested URL was not found.",
		http.StatusInternalServerError: "We're sorry, there was an error. Please try again later.",
	})
}

// Text returns display text for code
func (st StatusText) Text(code int) string {
	if text, ok := st.texts[code]; ok {
		return text
	}
	return http.StatusText(code)
}

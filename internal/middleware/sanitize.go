package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const maxSanitizeBody = 1 << 20

// Sanitize strips markup from query parameters and from every string in a JSON body.
// Values without markup pass through byte for byte. Bodies that are not valid JSON are
// passed through untouched for the handler to reject.
func Sanitize(next http.Handler) http.Handler {
	policy := bluemonday.StrictPolicy()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			q := r.URL.Query()
			for key, values := range q {
				for i, v := range values {
					values[i] = stripMarkup(policy, v)
				}
				q[key] = values
			}
			r.URL.RawQuery = q.Encode()
		}

		if r.Body != nil && r.Body != http.NoBody && isJSON(r.Header.Get("Content-Type")) {
			raw, err := io.ReadAll(io.LimitReader(r.Body, maxSanitizeBody))
			r.Body.Close()
			if err != nil {
				http.Error(w, "failed to read request body", http.StatusBadRequest)
				return
			}

			body := raw
			var payload interface{}
			if err := json.Unmarshal(raw, &payload); err == nil {
				changed := false
				payload = sanitizeValue(policy, payload, &changed)
				if changed {
					if cleaned, err := json.Marshal(payload); err == nil {
						body = cleaned
					}
				}
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			r.ContentLength = int64(len(body))
		}

		next.ServeHTTP(w, r)
	})
}

func sanitizeValue(policy *bluemonday.Policy, v interface{}, changed *bool) interface{} {
	switch val := v.(type) {
	case string:
		cleaned := stripMarkup(policy, val)
		if cleaned != val {
			*changed = true
		}
		return cleaned
	case map[string]interface{}:
		for k, inner := range val {
			val[k] = sanitizeValue(policy, inner, changed)
		}
		return val
	case []interface{}:
		for i, inner := range val {
			val[i] = sanitizeValue(policy, inner, changed)
		}
		return val
	default:
		return v
	}
}

// stripMarkup removes tags and hands back plain text, not HTML-escaped text.
// Unescaping can expose a new tag ("<b>&lt;i&gt;</b>"), so it repeats until stable.
func stripMarkup(policy *bluemonday.Policy, s string) string {
	for i := 0; i < 4 && strings.ContainsRune(s, '<'); i++ {
		next := html.UnescapeString(policy.Sanitize(s))
		if next == s {
			break
		}
		s = next
	}
	return s
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

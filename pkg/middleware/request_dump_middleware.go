package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"valid-assessment-backend/utilities"
)

// redacted headers are logged as "***".
var redacted = []string{"Authorization", "X-Api-Key", "Cookie"}

func RequestDumpMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		utilities.Debug(
			"[Request]\n"+
				"\tMethod: %s\n"+
				"\tURL: %s\n"+
				"\tHeaders: %v\n"+
				"\tParams: %v\n"+
				"\tBody: %s",
			c.Request.Method,
			c.Request.URL.String(),
			redactHeaders(c.Request.Header),
			c.Params,
			string(bodyBytes),
		)

		c.Next()
	}
}

func redactHeaders(h http.Header) http.Header {
	out := h.Clone()
	for _, k := range redacted {
		if out.Get(k) != "" {
			out.Set(k, "***")
		}
	}
	return out
}

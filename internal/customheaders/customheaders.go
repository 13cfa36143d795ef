package customheaders

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"
	"net/textproto"
	"strings"
)

var (
	errInvalidHeaderParameter = errors.New("invalid syntax specified as header parameter")
	errReservedHeader         = errors.New("header is set per response and cannot be configured")
)

// reserved headers describe the file being sent, so a fixed value would
// corrupt buffered, streamed and ranged responses alike
var reserved = map[string]bool{
	"Accept-Ranges":  true,
	"Content-Length": true,
	"Content-Range":  true,
	"Content-Type":   true,
}

// ParseHeaderString parses "Key: value" strings given with -header.
// Keys are canonicalized, and repeated keys keep every value.
func ParseHeaderString(customHeaders []string) (http.Header, error) {
	headers := http.Header{}

	for _, keyValueString := range customHeaders {
		keyValue, err := parseOne(keyValueString)
		if err != nil {
			return nil, err
		}

		for k, v := range keyValue {
			if reserved[k] {
				return nil, fmt.Errorf("%w: %s", errReservedHeader, k)
			}

			headers[k] = append(headers[k], v...)
		}
	}

	return headers, nil
}

func parseOne(keyValueString string) (textproto.MIMEHeader, error) {
	tp := textproto.NewReader(bufio.NewReader(strings.NewReader(strings.TrimSpace(keyValueString) + "\n\n")))

	keyValue, err := tp.ReadMIMEHeader()
	if err != nil || len(keyValue) == 0 {
		return nil, errInvalidHeaderParameter
	}

	return keyValue, nil
}

// NewMiddleware adds headers to every response, error responses included
func NewMiddleware(handler http.Handler, headers http.Header) http.Handler {
	if len(headers) == 0 {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for k, v := range headers {
			h[k] = append(h[k], v...)
		}

		handler.ServeHTTP(w, r)
	})
}

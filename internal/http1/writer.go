package http1

import (
	"bufio"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// WriteResponse writes a complete response: status line, one header per
// line, a blank line, then the body. Content-Length and Connection: close
// are always set; this server never keeps a connection alive. Headers are
// written in sorted key order so the wire bytes are deterministic.
func WriteResponse(bw *bufio.Writer, status int, hdr map[string]string, body []byte) error {
	if _, err := fmt.Fprintf(bw, "HTTP/1.1 %d %s\r\n", status, ReasonPhrase(status)); err != nil {
		return err
	}
	keys := make([]string, 0, len(hdr)+2)
	for k := range hdr {
		if k == "Content-Length" || k == "Connection" {
			continue
		}
		keys = append(keys, k)
	}
	keys = append(keys, "Content-Length", "Connection")
	sort.Strings(keys)
	for _, k := range keys {
		v := hdr[k]
		switch k {
		case "Content-Length":
			v = strconv.Itoa(len(body))
		case "Connection":
			v = "close"
		}
		if _, err := fmt.Fprintf(bw, "%s: %s\r\n", k, sanitizeHeaderValue(v)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprint(bw, "\r\n"); err != nil {
		return err
	}
	if len(body) > 0 {
		if _, err := bw.Write(body); err != nil {
			return err
		}
	}
	return nil
}

// ReasonPhrase returns the default reason phrase for the status codes
// this server emits.
func ReasonPhrase(code int) string {
	switch code {
	case 200:
		return "OK"
	case 301:
		return "Moved Permanently"
	case 400:
		return "Bad Request"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 429:
		return "Too Many Requests"
	case 500:
		return "Internal Server Error"
	default:
		return ""
	}
}

func sanitizeHeaderValue(v string) string {
	if v == "" {
		return v
	}
	// Remove CR/LF and other control chars except HTAB
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\r' || c == '\n' || c == 0x7f {
			continue
		}
		if c < 0x20 && c != '\t' {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

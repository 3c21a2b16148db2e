package http1

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestWriteResponse_Wire(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	err := WriteResponse(bw, 200, map[string]string{"Content-Type": "text/html; charset=utf-8"}, []byte("hello"))
	if err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	want := "HTTP/1.1 200 OK\r\n" +
		"Connection: close\r\n" +
		"Content-Length: 5\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"hello"
	if got := buf.String(); got != want {
		t.Fatalf("wire mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestWriteResponse_OverridesFramingHeaders(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	hdr := map[string]string{"Content-Length": "999", "Connection": "keep-alive"}
	if err := WriteResponse(bw, 404, hdr, []byte("x")); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	_ = bw.Flush()
	got := buf.String()
	if !strings.Contains(got, "Content-Length: 1\r\n") {
		t.Fatalf("Content-Length not recomputed: %q", got)
	}
	if !strings.Contains(got, "Connection: close\r\n") || strings.Contains(got, "keep-alive") {
		t.Fatalf("Connection not forced to close: %q", got)
	}
}

func TestWriteResponse_SanitizesHeaderValues(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	hdr := map[string]string{"Location": "/a\r\nX-Evil: 1"}
	if err := WriteResponse(bw, 301, hdr, nil); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	_ = bw.Flush()
	if strings.Contains(buf.String(), "X-Evil") && strings.Contains(buf.String(), "\r\nX-Evil") {
		t.Fatalf("header injection not stripped: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "Location: /aX-Evil: 1\r\n") {
		t.Fatalf("unexpected sanitized value: %q", buf.String())
	}
}

func TestReasonPhrase(t *testing.T) {
	cases := map[int]string{200: "OK", 301: "Moved Permanently", 400: "Bad Request",
		404: "Not Found", 405: "Method Not Allowed", 429: "Too Many Requests",
		500: "Internal Server Error", 999: ""}
	for code, want := range cases {
		if got := ReasonPhrase(code); got != want {
			t.Fatalf("ReasonPhrase(%d)=%q, want %q", code, got, want)
		}
	}
}

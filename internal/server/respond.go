package server

import (
	"bufio"
	"fmt"

	"github.com/FilipObrijan/LAB2-PR/internal/http1"
	"github.com/FilipObrijan/LAB2-PR/internal/obs"
)

const body404 = `<!DOCTYPE html>
    <html>
    <head>
        <title>404 Not Found</title>
    </head>
    <body>
        <h1>404 Not Found</h1>
        <p>The requested page does not exist.</p>
        <a href="/">Return to homepage</a>
    </body>
    </html>`

const body429 = `<!DOCTYPE html>
    <html>
    <head>
        <title>429 Too Many Requests</title>
    </head>
    <body>
        <h1>429 Too Many Requests</h1>
        <p>Please slow down and try again later.</p>
    </body>
    </html>`

// respond writes one complete response and returns the status so the
// pipeline branches read as a single return. Write errors are logged and
// otherwise ignored: the connection closes either way and there is
// nobody left to tell.
func (s *Server) respond(bw *bufio.Writer, status int, hdr map[string]string, body []byte) int {
	if err := http1.WriteResponse(bw, status, hdr, body); err != nil {
		s.log.Logf(obs.Debug, "write response: %v", err)
		return status
	}
	s.meter.Counter("response_bytes", float64(len(body)))
	return status
}

func (s *Server) respondPlain(bw *bufio.Writer, status int, msg string) int {
	return s.respond(bw, status, map[string]string{"Content-Type": "text/plain"}, []byte(msg))
}

func (s *Server) respondTooManyRequests(bw *bufio.Writer) int {
	return s.respond(bw, 429, map[string]string{
		"Content-Type": "text/html; charset=utf-8",
		"Retry-After":  "1",
	}, []byte(body429))
}

func (s *Server) respondRedirect(bw *bufio.Writer, location string) int {
	body := fmt.Sprintf(`<html><body>Moved: <a href="%s">%s</a></body></html>`, location, location)
	return s.respond(bw, 301, map[string]string{
		"Location":     location,
		"Content-Type": "text/html; charset=utf-8",
	}, []byte(body))
}

func (s *Server) respondNotFound(bw *bufio.Writer, kind notFoundKind, target string) int {
	s.log.Logf(obs.Debug, "not found (%s): %q", kind, target)
	return s.respond(bw, 404, map[string]string{
		"Content-Type": "text/html; charset=utf-8",
	}, []byte(body404))
}

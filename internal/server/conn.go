package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FilipObrijan/LAB2-PR/internal/http1"
	"github.com/FilipObrijan/LAB2-PR/internal/obs"
)

// maxRequestLineBytes bounds the request-line read. Anything longer is a
// 400; there is no header section to read past it.
const maxRequestLineBytes = 4096

// drainTimeout bounds how long a closing handler waits for the peer to
// finish sending.
const drainTimeout = 500 * time.Millisecond

func (s *Server) serveConn(c net.Conn) {
	defer c.Close()
	start := time.Now()
	connID := uuid.NewString()
	ip := clientIP(c.RemoteAddr())
	bw := bufio.NewWriter(c)

	status, target := s.handle(bw, c, ip)
	_ = bw.Flush()
	drain(c)
	if status == 0 {
		// Peer closed before sending anything.
		return
	}
	s.meter.Counter("requests_total", 1, obs.Label{Key: "status", Value: strconv.Itoa(status)})
	s.meter.Histogram("request_duration_seconds", time.Since(start).Seconds())
	s.log.Logf(obs.Info, "conn=%s client=%s status=%d target=%q dur=%s",
		connID, ip, status, target, time.Since(start).Round(time.Millisecond))
}

// handle runs the request pipeline and returns the response status (zero
// when the peer sent nothing) and the request target for logging. Every
// branch writes exactly one response.
func (s *Server) handle(bw *bufio.Writer, c net.Conn, ip string) (int, string) {
	if !s.limiter.Allow(context.Background(), ip, time.Now()) {
		s.meter.Counter("ratelimit_rejected_total", 1)
		return s.respondTooManyRequests(bw), ""
	}

	// Optional simulate-work sleep between admission and the read.
	if s.cfg.HandleDelay > 0 {
		time.Sleep(s.cfg.HandleDelay)
	}

	r := &http1.Reader{BR: bufio.NewReaderSize(c, maxRequestLineBytes), MaxLineBytes: maxRequestLineBytes}
	rl, err := r.ReadRequestLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, ""
		}
		return s.respondPlain(bw, 400, "Bad Request"), ""
	}

	if rl.Method != "GET" {
		return s.respond(bw, 405, map[string]string{
			"Allow":        "GET",
			"Content-Type": "text/plain",
		}, []byte("Only GET is allowed")), rl.RequestURI
	}

	target := rl.RequestURI
	if !strings.HasPrefix(target, "/") {
		target = "/"
	}
	if decoded, err := url.PathUnescape(target); err == nil {
		target = decoded
	}

	// Counted before resolution, keyed by the literal decoded string:
	// targets that go on to redirect or 404 count too.
	s.hits.Bump(target)

	res, err := s.root.Resolve(target)
	if err != nil {
		return s.respondNotFound(bw, kindTraversal, target), target
	}

	if res.IsDir {
		if !strings.HasSuffix(target, "/") {
			return s.respondRedirect(bw, target+"/"), target
		}
		body := s.renderListing(target, res.Path)
		return s.respond(bw, 200, map[string]string{
			"Content-Type": "text/html; charset=utf-8",
		}, body), target
	}

	if !res.IsFile {
		return s.respondNotFound(bw, kindMissing, target), target
	}

	ext := strings.ToLower(filepath.Ext(res.Path))
	if !s.cfg.AllowedExtensions[ext] {
		return s.respondNotFound(bw, kindExtension, target), target
	}
	ctype, ok := s.cfg.ContentTypes[ext]
	if !ok {
		return s.respondNotFound(bw, kindContentType, target), target
	}

	body, err := os.ReadFile(res.Path)
	if err != nil {
		s.log.Logf(obs.Error, "read %s: %v", res.Path, err)
		return s.respondPlain(bw, 500, "Internal Server Error"), target
	}
	return s.respond(bw, 200, map[string]string{"Content-Type": ctype}, body), target
}

// closeWriter is satisfied by *net.TCPConn.
type closeWriter interface {
	CloseWrite() error
}

// drain half-closes the write side and discards whatever the peer is
// still sending. Paths that respond without reading the request (429,
// oversized line) would otherwise close with unread bytes in the socket,
// which turns the close into an RST and the client sees a reset instead
// of a clean EOF after the response.
func drain(c net.Conn) {
	if cw, ok := c.(closeWriter); ok {
		_ = cw.CloseWrite()
	}
	_ = c.SetReadDeadline(time.Now().Add(drainTimeout))
	_, _ = io.Copy(io.Discard, c)
}

func clientIP(addr net.Addr) string {
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}

package http1

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// RequestLine is the first line of an HTTP/1.x request split into its
// three tokens. Nothing beyond the request line is parsed: the server
// honors no request headers, so there is no header section reader here.
type RequestLine struct {
	Method     string
	RequestURI string
	Proto      string
}

var (
	ErrLineTooLong = errors.New("http1: request line too long")
	ErrMalformed   = errors.New("http1: malformed request line")
)

// Reader reads a single request line from a connection.
type Reader struct {
	BR           *bufio.Reader
	MaxLineBytes int
}

// ReadRequestLine accumulates bytes until the first line terminator and
// splits the line into exactly three whitespace-separated tokens. A peer
// that closes before sending anything yields io.EOF unchanged; a peer
// that closes mid-line still gets its partial line parsed, since a
// request line needs no trailing terminator to be unambiguous.
func (r *Reader) ReadRequestLine() (*RequestLine, error) {
	line, err := r.readLine()
	if err != nil {
		return nil, err
	}
	parts := strings.Fields(line)
	if len(parts) != 3 {
		return nil, ErrMalformed
	}
	return &RequestLine{Method: parts[0], RequestURI: parts[1], Proto: parts[2]}, nil
}

func (r *Reader) readLine() (string, error) {
	var sb strings.Builder
	for {
		b, err := r.BR.ReadByte()
		if err != nil {
			if err == io.EOF && sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
		if b == '\n' {
			break
		}
		if b != '\r' {
			sb.WriteByte(b)
		}
		if r.MaxLineBytes > 0 && sb.Len() > r.MaxLineBytes {
			return "", ErrLineTooLong
		}
	}
	return sb.String(), nil
}

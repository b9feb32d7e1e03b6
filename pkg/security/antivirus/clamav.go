// Package antivirus scans uploaded files with a clamd daemon.
package antivirus

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// chunkSize stays well under clamd's default StreamMaxLength.
const chunkSize = 1 << 20

var ErrScanFailed = errors.New("clamd scan failed")

// Verdict is the outcome of one scan.
type Verdict struct {
	Infected bool
	Threat   string
}

// ClamAV talks to clamd over TCP ("host:port") or a unix socket ("/path").
type ClamAV struct {
	address string
	timeout time.Duration
}

func NewClamAV(address string, timeout time.Duration) *ClamAV {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAV{address: address, timeout: timeout}
}

func (c *ClamAV) dial(ctx context.Context) (net.Conn, error) {
	network := "tcp"
	if strings.HasPrefix(c.address, "/") {
		network = "unix"
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, network, c.address)
	if err != nil {
		return nil, fmt.Errorf("connect to clamd: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// Ping reports whether clamd answers PONG.
func (c *ClamAV) Ping(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return err
	}
	reply, err := readReply(conn)
	if err != nil {
		return err
	}
	if reply != "PONG" {
		return fmt.Errorf("unexpected clamd reply %q", reply)
	}
	return nil
}

// Scan streams data with zINSTREAM. Any transport or clamd error is returned
// as an error; callers decide whether to reject the upload.
func (c *ClamAV) Scan(ctx context.Context, data []byte) (Verdict, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return Verdict{}, err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zINSTREAM\x00")); err != nil {
		return Verdict{}, fmt.Errorf("send command: %w", err)
	}

	size := make([]byte, 4)
	for r := bytes.NewReader(data); r.Len() > 0; {
		n := r.Len()
		if n > chunkSize {
			n = chunkSize
		}
		binary.BigEndian.PutUint32(size, uint32(n))
		if _, err := conn.Write(size); err != nil {
			return Verdict{}, fmt.Errorf("send chunk size: %w", err)
		}
		if _, err := io.CopyN(conn, r, int64(n)); err != nil {
			return Verdict{}, fmt.Errorf("send chunk: %w", err)
		}
	}
	if _, err := conn.Write([]byte{0, 0, 0, 0}); err != nil {
		return Verdict{}, fmt.Errorf("send end marker: %w", err)
	}

	reply, err := readReply(conn)
	if err != nil {
		return Verdict{}, err
	}
	return parseReply(reply)
}

// readReply reads one null-terminated clamd response.
func readReply(conn net.Conn) (string, error) {
	var buf bytes.Buffer
	chunk := make([]byte, 256)
	for {
		n, err := conn.Read(chunk)
		if i := bytes.IndexByte(chunk[:n], 0); i >= 0 {
			buf.Write(chunk[:i])
			break
		}
		buf.Write(chunk[:n])
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read clamd reply: %w", err)
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

// parseReply understands "stream: OK", "stream: <name> FOUND" and
// "<message> ERROR".
func parseReply(reply string) (Verdict, error) {
	body := reply
	if i := strings.Index(reply, ":"); i >= 0 {
		body = strings.TrimSpace(reply[i+1:])
	}

	switch {
	case body == "OK":
		return Verdict{}, nil
	case strings.HasSuffix(body, " FOUND"):
		return Verdict{Infected: true, Threat: strings.TrimSuffix(body, " FOUND")}, nil
	default:
		return Verdict{}, fmt.Errorf("%w: %s", ErrScanFailed, reply)
	}
}

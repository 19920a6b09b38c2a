package network

import (
	"bufio"
	"errors"
	"net"
	"time"

	"github.com/maxgerhardt/agon-vdp/stream"
)

// ConnSource adapts a net.Conn to the interpreter's stream capability:
// byte reads with a bounded deadline that report stream.ErrTimeout, and
// a write half usable as the original output sink.
type ConnSource struct {
	conn    net.Conn
	r       *bufio.Reader
	timeout time.Duration
}

var _ stream.Source = (*ConnSource)(nil)
var _ stream.Sink = (*ConnSource)(nil)

func NewConnSource(conn net.Conn, timeout time.Duration) *ConnSource {
	return &ConnSource{
		conn:    conn,
		r:       bufio.NewReader(conn),
		timeout: timeout,
	}
}

func (c *ConnSource) ReadByte() (byte, error) {
	if c.r.Buffered() == 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, err
		}
	}
	b, err := c.r.ReadByte()
	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return 0, stream.ErrTimeout
		}
		return 0, err
	}
	return b, nil
}

// Available reports only what is already buffered locally, mirroring a
// serial receive buffer.
func (c *ConnSource) Available() int {
	return c.r.Buffered()
}

func (c *ConnSource) WriteByte(b byte) error {
	_, err := c.conn.Write([]byte{b})
	return err
}

package realtime

import (
	"io"
	"slices"
	"sync"
)

type frame struct {
	kind int
	data []byte
	err  error
}

// fakeConn records outbound frames and replays scripted inbound ones,
// then reports io.EOF.
type fakeConn struct {
	mu      sync.Mutex
	inbound []frame
	sent    []frame
	closed  int
}

func (c *fakeConn) WriteMessage(kind int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, frame{kind: kind, data: slices.Clone(data)})
	return nil
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.inbound) == 0 {
		return 0, nil, io.EOF
	}
	next := c.inbound[0]
	c.inbound = c.inbound[1:]
	return next.kind, next.data, next.err
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

func (c *fakeConn) frames() []frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.sent)
}

func (c *fakeConn) closeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

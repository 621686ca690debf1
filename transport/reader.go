// Package transport supplies PS/2 bytes to the decoder without blocking the
// scan loop.
package transport

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

// DefaultBufferSize is the number of received bytes held before the
// reader goroutine blocks.
const DefaultBufferSize = 256

// ReplyAck is the keyboard's acknowledgement of every command or argument
// byte it receives.
const ReplyAck = 0xFA

// ErrClosed is returned by Err after Close.
var ErrClosed = errors.New("transport closed")

// Reader pumps bytes from an io.Reader on a background goroutine and hands
// them out one at a time through Recv, which never blocks.
type Reader struct {
	ch     chan byte
	done   chan struct{}
	closer io.Closer

	mu  sync.Mutex
	err error

	// acks still owed by the keyboard for command bytes sent through
	// CommandWriter
	acks atomic.Int32
}

// NewReader starts reading from r. If r is an io.Closer it is closed by Close.
func NewReader(r io.Reader, bufferSize int) *Reader {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	t := &Reader{
		ch:   make(chan byte, bufferSize),
		done: make(chan struct{}),
	}
	if c, ok := r.(io.Closer); ok {
		t.closer = c
	}
	go t.pump(r)
	return t
}

func (t *Reader) pump(r io.Reader) {
	defer close(t.ch)
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			select {
			case t.ch <- b:
			case <-t.done:
				return
			}
		}
		if err != nil {
			t.mu.Lock()
			if t.err == nil {
				t.err = err
			}
			t.mu.Unlock()
			return
		}
	}
}

// Recv returns the next pending byte. ok is false when nothing is pending.
// Acknowledgements owed for bytes sent through CommandWriter are dropped
// here and never returned.
func (t *Reader) Recv() (byte, bool, error) {
	for {
		select {
		case b, open := <-t.ch:
			if !open {
				return 0, false, nil
			}
			if b == ReplyAck && t.takeAck() {
				continue
			}
			return b, true, nil
		default:
			return 0, false, nil
		}
	}
}

func (t *Reader) takeAck() bool {
	for {
		n := t.acks.Load()
		if n <= 0 {
			return false
		}
		if t.acks.CompareAndSwap(n, n-1) {
			return true
		}
	}
}

// CommandWriter returns a writer for host-to-keyboard commands on w. The
// keyboard answers every byte with ReplyAck; one reply is expected per byte
// written successfully, and Recv swallows that many.
func (t *Reader) CommandWriter(w io.Writer) io.Writer {
	return &commandWriter{w: w, t: t}
}

type commandWriter struct {
	w io.Writer
	t *Reader
}

func (c *commandWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if n > 0 {
		c.t.acks.Add(int32(n))
	}
	return n, err
}

// Err returns the error that stopped the reader, io.EOF at end of input,
// or nil while it is still running.
func (t *Reader) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Drained reports whether the reader stopped and every byte was consumed.
func (t *Reader) Drained() bool {
	return t.Err() != nil && len(t.ch) == 0
}

// Close stops the reader goroutine and closes the underlying reader.
func (t *Reader) Close() error {
	select {
	case <-t.done:
		return nil
	default:
	}
	close(t.done)
	t.mu.Lock()
	if t.err == nil {
		t.err = ErrClosed
	}
	t.mu.Unlock()
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

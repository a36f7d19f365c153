package regbank

import "time"

// DefaultPoll is the receive poll period of a Link.
const DefaultPoll = time.Millisecond

// BytePort is a polled serial port: the shape of TinyGo's UARTs and of
// machine.Serial.
type BytePort interface {
	Buffered() int
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
}

// Link turns a BytePort into the io.ReadWriter the stream bridge and Serve
// expect. Read blocks until at least one byte is buffered, sleeping between
// polls so other goroutines keep running.
type Link struct {
	port BytePort
	poll time.Duration
}

// NewLink wraps port; a non-positive poll selects DefaultPoll.
func NewLink(port BytePort, poll time.Duration) *Link {
	if poll <= 0 {
		poll = DefaultPoll
	}
	return &Link{port: port, poll: poll}
}

// Read returns whatever is buffered, up to len(p), once something is.
func (l *Link) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for l.port.Buffered() == 0 {
		time.Sleep(l.poll)
	}
	n := 0
	for n < len(p) && l.port.Buffered() > 0 {
		b, err := l.port.ReadByte()
		if err != nil {
			return n, err
		}
		p[n] = b
		n++
	}
	return n, nil
}

func (l *Link) Write(p []byte) (int, error) { return l.port.Write(p) }

// Package comms is the wire protocol: flat JSON objects carrying a "type"
// field, one per newline-terminated frame. The decoder buffers reads
// incrementally, so frames split or merged by TCP arrive intact, and a
// malformed line is dropped without losing the framing.
package comms

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"github.com/calmisko/centena/game"
)

// MaxFrame is the largest accepted frame. A longer line kills the
// connection rather than the process.
const MaxFrame = 256 * 1024

// Msg is one decoded frame. Data is the whole line, so the receiver can
// decode the full payload once it has despatched on Type.
type Msg struct {
	Type string
	Data []byte
}

func (m Msg) Decode(v interface{}) error {
	if err := json.Unmarshal(m.Data, v); err != nil {
		return game.ErrMalformedMessage
	}
	return nil
}

// Encoder writes frames. Safe for concurrent use, one frame at a time.
type Encoder struct {
	mu sync.Mutex
	w  io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode marshals v, which must carry its own "type" field, as one frame.
func (e *Encoder) Encode(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.w.Write(data); err != nil {
		return err
	}
	_, err = e.w.Write([]byte{'\n'})
	return err
}

// Parse reads one frame from a complete buffer, for transports that frame
// messages themselves (websockets).
func Parse(data []byte) (Msg, error) {
	probe := struct {
		Type string `json:"type"`
	}{}
	if err := json.Unmarshal(data, &probe); err != nil || probe.Type == "" {
		return Msg{}, game.ErrMalformedMessage
	}
	return Msg{Type: probe.Type, Data: data}, nil
}

// Decoder reads frames.
type Decoder struct {
	sc *bufio.Scanner
}

func NewDecoder(r io.Reader) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 4096), MaxFrame)
	return &Decoder{sc: sc}
}

// Decode returns the next frame. A line that is not a JSON object with a
// type field comes back as ErrMalformedMessage; the decoder stays usable,
// resynchronized at the next newline. io.EOF means a clean close.
func (d *Decoder) Decode() (Msg, error) {
	if !d.sc.Scan() {
		if err := d.sc.Err(); err != nil {
			return Msg{}, err
		}
		return Msg{}, io.EOF
	}

	line := d.sc.Bytes()
	probe := struct {
		Type string `json:"type"`
	}{}
	if err := json.Unmarshal(line, &probe); err != nil || probe.Type == "" {
		return Msg{}, game.ErrMalformedMessage
	}

	data := make([]byte, len(line))
	copy(data, line)
	return Msg{Type: probe.Type, Data: data}, nil
}

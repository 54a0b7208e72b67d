// Package wire frames simulation output for external consumers.
package wire

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/amalg/bombarena/internal/game"
)

// MaxFrameSize bounds a single frame body.
const MaxFrameSize = 1 << 20

// ErrFrameTooLarge is returned when a frame exceeds MaxFrameSize.
var ErrFrameTooLarge = errors.New("frame too large")

// FrameType identifies the payload carried by a frame.
type FrameType string

const (
	FrameSnapshot FrameType = "snapshot"
	FrameSummary  FrameType = "summary"
)

// Envelope wraps every frame with a type discriminator for deserialization.
type Envelope struct {
	Type    FrameType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Encode serializes a payload and writes it to w.
// Format: [4-byte big-endian length][JSON envelope]
func Encode(w io.Writer, frameType FrameType, payload any) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	body, err := json.Marshal(Envelope{
		Type:    frameType,
		Payload: json.RawMessage(payloadBytes),
	})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if len(body) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(body))
	}

	if err := binary.Write(w, binary.BigEndian, uint32(len(body))); err != nil {
		return fmt.Errorf("write length: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

// Decode reads one length-prefixed frame from r. A clean end of stream is
// reported as io.EOF.
func Decode(r io.Reader) (*Envelope, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read length: %w", err)
	}
	if length > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return &env, nil
}

// DecodePayload unmarshals the payload of env into target.
func DecodePayload(env *Envelope, target any) error {
	if err := json.Unmarshal(env.Payload, target); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", env.Type, err)
	}
	return nil
}

// Writer streams snapshots and the final summary of a session.
type Writer struct {
	w      io.Writer
	frames int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (fw *Writer) Snapshot(s game.Snapshot) error {
	if err := Encode(fw.w, FrameSnapshot, s); err != nil {
		return err
	}
	fw.frames++
	return nil
}

func (fw *Writer) Summary(s game.SessionSummary) error {
	if err := Encode(fw.w, FrameSummary, s); err != nil {
		return err
	}
	fw.frames++
	return nil
}

// Frames returns how many frames were written so far.
func (fw *Writer) Frames() int {
	return fw.frames
}

package stream

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Writer encodes Messages onto an io.Writer, one JSON document per line
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a Writer for w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Send encodes a Message and writes it followed by a newline
func (s *Writer) Send(msgType MessageType, tick int, payload interface{}) error {
	msg := Message{
		Type:    msgType,
		Tick:    tick,
		Payload: payload,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s message: %w", msgType, err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s message: %w", msgType, err)
	}
	return nil
}

// Reader decodes Messages written by a Writer
type Reader struct {
	reader *bufio.Reader
}

// NewReader creates a Reader for r
func NewReader(r io.Reader) *Reader {
	return &Reader{reader: bufio.NewReader(r)}
}

// Receive reads the next Message. It returns io.EOF once the input is exhausted.
func (s *Reader) Receive() (*Message, error) {
	data, err := s.reader.ReadBytes('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(data) == 0 {
			return nil, io.EOF
		}
		if !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read message: %w", err)
		}
		// last line without a trailing newline
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return &msg, nil
}

// ParsePayload decodes a message's generic payload into target
func ParsePayload(msg *Message, target interface{}) error {
	data, err := json.Marshal(msg.Payload)
	if err != nil {
		return fmt.Errorf("failed to re-encode payload: %w", err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", msg.Type, err)
	}
	return nil
}

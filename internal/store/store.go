// Package store persists player snapshots between engine calls.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/napolitain/catvillage/internal/converter"
	"github.com/napolitain/catvillage/internal/models"
)

// ErrNotFound is returned when no snapshot exists for a player id
var ErrNotFound = errors.New("player not found")

// HistoryEntry is one recorded action attempt
type HistoryEntry struct {
	At         time.Time
	Action     string
	MessageKey string // message key on success, error code on failure
	OK         bool
}

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	decoder, _ = zstd.NewReader(nil)
)

// encode serializes and compresses a snapshot
func encode(s *models.PlayerSnapshot) ([]byte, error) {
	data, err := converter.EncodeSnapshot(s)
	if err != nil {
		return nil, err
	}
	return encoder.EncodeAll(data, nil), nil
}

// decode reverses encode
func decode(blob []byte) (*models.PlayerSnapshot, error) {
	data, err := decoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return converter.DecodeSnapshot(data)
}

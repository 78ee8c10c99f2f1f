package orm

import (
	"encoding/binary"

	"github.com/iov-one/estate"
	"github.com/iov-one/estate/errors"
)

// Sequence is a persistent counter. Its values are encoded big endian so
// that the byte order of generated keys follows the numeric order.
type Sequence struct {
	key []byte
}

// NewSequence returns the counter stored under "_s.<bucket>:<name>".
func NewSequence(bucket, name string) Sequence {
	return Sequence{key: []byte("_s." + bucket + ":" + name)}
}

// NextVal advances the counter and returns the new value encoded.
func (s *Sequence) NextVal(db weave.KVStore) ([]byte, error) {
	n, err := s.NextInt(db)
	if err != nil {
		return nil, err
	}
	return EncodeSequence(n), nil
}

// NextInt advances the counter and returns the new value. The first
// value is 1.
func (s *Sequence) NextInt(db weave.KVStore) (int64, error) {
	n, _, err := s.Latest(db)
	if err != nil {
		return 0, err
	}
	n++
	if err := db.Set(s.key, EncodeSequence(n)); err != nil {
		return 0, errors.Wrap(err, "cannot store sequence")
	}
	return n, nil
}

// Latest returns the last value handed out, without advancing.
func (s *Sequence) Latest(db weave.ReadOnlyKVStore) (int64, []byte, error) {
	raw, err := db.Get(s.key)
	if err != nil {
		return 0, nil, errors.Wrap(err, "cannot load sequence")
	}
	n, err := DecodeSequence(raw)
	if err != nil {
		return 0, nil, err
	}
	return n, EncodeSequence(n), nil
}

// DecodeSequence reads an encoded value. A missing value is zero.
func DecodeSequence(raw []byte) (int64, error) {
	switch len(raw) {
	case 0:
		return 0, nil
	case 8:
		return int64(binary.BigEndian.Uint64(raw)), nil
	default:
		return 0, errors.Wrapf(errors.ErrState, "sequence must be 8 bytes, got %d", len(raw))
	}
}

func EncodeSequence(n int64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(n))
	return raw
}

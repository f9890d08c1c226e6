package journal

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/df-mc/sower/editor/trinket"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// version is the version of the record encoding, written as the first byte of every record.
const version = 1

// ErrMalformedRecord is returned when a journal record cannot be decoded.
var ErrMalformedRecord = errors.New("malformed journal record")

// encode encodes t as: version, type and model as uvarint length prefixed strings, the position and separation radius
// as little endian float64s and a trailing sowed flag.
func encode(t *trinket.Trinket) []byte {
	b := make([]byte, 0, 1+len(t.Type)+len(t.Model)+2*binary.MaxVarintLen16+4*8+1)
	b = append(b, version)
	b = appendString(b, t.Type)
	b = appendString(b, t.Model)
	for _, f := range [...]float64{t.Pos[0], t.Pos[1], t.Pos[2], t.SeparationRadius} {
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(f))
	}
	if t.Sowed {
		return append(b, 1)
	}
	return append(b, 0)
}

func appendString(b []byte, s string) []byte {
	b = binary.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}

func decode(id uuid.UUID, data []byte) (*trinket.Trinket, error) {
	buf := bytes.NewReader(data)
	v, err := buf.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("decode trinket %v: %w", id, ErrMalformedRecord)
	}
	if v != version {
		return nil, fmt.Errorf("decode trinket %v: %w: unknown version %d", id, ErrMalformedRecord, v)
	}
	t := &trinket.Trinket{ID: id}
	if t.Type, err = readString(buf); err != nil {
		return nil, fmt.Errorf("decode trinket %v type: %w", id, err)
	}
	if t.Model, err = readString(buf); err != nil {
		return nil, fmt.Errorf("decode trinket %v model: %w", id, err)
	}
	var floats [4]float64
	for i := range floats {
		var bits uint64
		if err := binary.Read(buf, binary.LittleEndian, &bits); err != nil {
			return nil, fmt.Errorf("decode trinket %v: %w", id, ErrMalformedRecord)
		}
		floats[i] = math.Float64frombits(bits)
	}
	t.Pos = mgl64.Vec3{floats[0], floats[1], floats[2]}
	t.SeparationRadius = floats[3]

	sowed, err := buf.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("decode trinket %v: %w", id, ErrMalformedRecord)
	}
	t.Sowed = sowed == 1
	return t, nil
}

func readString(buf *bytes.Reader) (string, error) {
	n, err := binary.ReadUvarint(buf)
	if err != nil || n > uint64(buf.Len()) {
		return "", ErrMalformedRecord
	}
	s := make([]byte, n)
	if _, err := io.ReadFull(buf, s); err != nil {
		return "", ErrMalformedRecord
	}
	return string(s), nil
}

package cpu

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"
)

func PackUint(order binary.ByteOrder, size int, buf []byte, n uint64) ([]byte, error) {
	if buf == nil {
		buf = make([]byte, size)
	} else if len(buf) < size {
		return nil, errors.Errorf("buffer too small (%d < %d)", len(buf), size)
	}
	switch size {
	case 8:
		order.PutUint64(buf[:size], n)
	case 4:
		order.PutUint32(buf[:size], uint32(n))
	case 2:
		order.PutUint16(buf[:size], uint16(n))
	case 1:
		buf[0] = byte(n)
	default:
		return nil, errors.Errorf("unsupported uint size: %d", size)
	}
	return buf[:size], nil
}

func UnpackUint(order binary.ByteOrder, size int, buf []byte) (uint64, error) {
	switch size {
	case 8:
		return order.Uint64(buf), nil
	case 4:
		return uint64(order.Uint32(buf)), nil
	case 2:
		return uint64(order.Uint16(buf)), nil
	case 1:
		return uint64(buf[0]), nil
	default:
		return 0, errors.Errorf("unsupported uint size: %d", size)
	}
}

// UnpackBig converts a byte sequence of any length into an unsigned value.
func UnpackBig(order binary.ByteOrder, p []byte) *big.Int {
	if n, err := UnpackUint(order, len(p), p); err == nil {
		return new(big.Int).SetUint64(n)
	}
	buf := make([]byte, len(p))
	copy(buf, p)
	if order == binary.LittleEndian {
		reverse(buf)
	}
	return new(big.Int).SetBytes(buf)
}

// PackBig converts an unsigned value into exactly size bytes, truncating
// bits above size*8 the way a register-width store would.
func PackBig(order binary.ByteOrder, size int, v *big.Int) ([]byte, error) {
	if v.Sign() < 0 {
		return nil, errors.New("cannot pack negative value")
	}
	buf := make([]byte, size)
	b := v.Bytes() // big-endian
	if len(b) > size {
		b = b[len(b)-size:]
	}
	copy(buf[size-len(b):], b)
	if order == binary.LittleEndian {
		reverse(buf)
	}
	return buf, nil
}

func reverse(p []byte) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}

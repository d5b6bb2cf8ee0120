// Package safe provides checked integer conversions for values read off the wire.
package safe

import (
	"fmt"
	"math"
)

// Integer is the set of integer kinds accepted by the conversions.
type Integer interface {
	~int | ~int16 | ~int32 | ~int64 | ~uint | ~uint16 | ~uint32 | ~uint64
}

// Uint16 converts v to uint16, failing on negatives and overflow. Ports go through here.
func Uint16[T Integer](v T) (uint16, error) {
	u, err := Uint64(v)
	if err != nil {
		return 0, fmt.Errorf("value %d out of uint16 range", v)
	}
	if u > math.MaxUint16 {
		return 0, fmt.Errorf("value %d out of uint16 range", v)
	}
	return uint16(u), nil
}

// Uint64 converts v to uint64 while guarding against negatives.
func Uint64[T Integer](v T) (uint64, error) {
	switch value := any(v).(type) {
	case int:
		return fromSigned(int64(value), v)
	case int16:
		return fromSigned(int64(value), v)
	case int32:
		return fromSigned(int64(value), v)
	case int64:
		return fromSigned(value, v)
	case uint:
		return uint64(value), nil
	case uint16:
		return uint64(value), nil
	case uint32:
		return uint64(value), nil
	case uint64:
		return value, nil
	}
	// named types fall through the switch above
	if v < 0 {
		return 0, fmt.Errorf("value %d out of uint64 range", v)
	}
	return uint64(v), nil
}

func fromSigned[T Integer](value int64, orig T) (uint64, error) {
	if value < 0 {
		return 0, fmt.Errorf("value %d out of uint64 range", orig)
	}
	return uint64(value), nil
}

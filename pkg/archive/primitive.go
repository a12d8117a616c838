package archive

import "math"

// Primitive enumerates the fixed-width archivable scalar types: integers of
// all widths, floats, bool, and rune (a 4-byte character, identical to
// int32) -- the built-in archivable set.
type Primitive interface {
	~int8 | ~uint8 | ~int16 | ~uint16 |
		~int32 | ~uint32 | ~int64 | ~uint64 |
		~int | ~uint | ~float32 | ~float64 | ~bool
}

func sizeOf[T Primitive](v T) int {
	switch any(v).(type) {
	case int8, uint8, bool:
		return 1
	case int16, uint16:
		return 2
	case int32, uint32, float32:
		return 4
	case int64, uint64, float64:
		return 8
	case int, uint:
		return 8
	default:
		return 8
	}
}

func putPrimitive[T Primitive](dst []byte, v T) {
	switch x := any(v).(type) {
	case bool:
		if x {
			dst[0] = 1
		} else {
			dst[0] = 0
		}
	case int8:
		dst[0] = byte(x)
	case uint8:
		dst[0] = x
	case int16:
		native.PutUint16(dst, uint16(x))
	case uint16:
		native.PutUint16(dst, x)
	case int32:
		native.PutUint32(dst, uint32(x))
	case uint32:
		native.PutUint32(dst, x)
	case float32:
		native.PutUint32(dst, math.Float32bits(x))
	case int64:
		native.PutUint64(dst, uint64(x))
	case uint64:
		native.PutUint64(dst, x)
	case float64:
		native.PutUint64(dst, math.Float64bits(x))
	case int:
		native.PutUint64(dst, uint64(int64(x)))
	case uint:
		native.PutUint64(dst, uint64(x))
	default:
		panic("archive: unsupported primitive type")
	}
}

func getPrimitive[T Primitive](src []byte) T {
	var zero T
	switch any(zero).(type) {
	case bool:
		return any(src[0] != 0).(T)
	case int8:
		return any(int8(src[0])).(T)
	case uint8:
		return any(src[0]).(T)
	case int16:
		return any(int16(native.Uint16(src))).(T)
	case uint16:
		return any(native.Uint16(src)).(T)
	case int32:
		return any(int32(native.Uint32(src))).(T)
	case uint32:
		return any(native.Uint32(src)).(T)
	case float32:
		return any(math.Float32frombits(native.Uint32(src))).(T)
	case int64:
		return any(int64(native.Uint64(src))).(T)
	case uint64:
		return any(native.Uint64(src)).(T)
	case float64:
		return any(math.Float64frombits(native.Uint64(src))).(T)
	case int:
		return any(int(int64(native.Uint64(src)))).(T)
	case uint:
		return any(uint(native.Uint64(src))).(T)
	default:
		panic("archive: unsupported primitive type")
	}
}

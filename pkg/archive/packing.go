package archive

import (
	"fmt"
	"reflect"
)

// Pack appends each of values in left-to-right order, following the
// archivable protocol: primitives and strings are encoded directly,
// Archivable values delegate to PackArchive, *Archive values splice in
// the remainder of that archive, and pointers are transparently forwarded
// to their pointee, mirroring owned-reference semantics.
func Pack(a *Archive, values ...any) error {
	for _, v := range values {
		if err := packOne(a, v); err != nil {
			return err
		}
	}
	return nil
}

func packOne(a *Archive, v any) error {
	switch x := v.(type) {
	case Archivable:
		return x.PackArchive(a)
	case *Archive:
		AppendArchive(a, x)
		return nil
	case string:
		AppendString(a, x)
		return nil
	case bool:
		AppendPrimitive(a, x)
		return nil
	case int:
		AppendPrimitive(a, x)
		return nil
	case int8:
		AppendPrimitive(a, x)
		return nil
	case int16:
		AppendPrimitive(a, x)
		return nil
	case int32:
		AppendPrimitive(a, x)
		return nil
	case int64:
		AppendPrimitive(a, x)
		return nil
	case uint:
		AppendPrimitive(a, x)
		return nil
	case uint8:
		AppendPrimitive(a, x)
		return nil
	case uint16:
		AppendPrimitive(a, x)
		return nil
	case uint32:
		AppendPrimitive(a, x)
		return nil
	case uint64:
		AppendPrimitive(a, x)
		return nil
	case float32:
		AppendPrimitive(a, x)
		return nil
	case float64:
		AppendPrimitive(a, x)
		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return fmt.Errorf("archive: cannot pack a nil %T", v)
		}
		return packOne(a, rv.Elem().Interface())
	}

	return fmt.Errorf("archive: type %T is not archivable", v)
}

// Unpack extracts into each of targets in left-to-right order; targets must
// be pointers (or implement Archivable via a pointer receiver). The order
// of side effects matches Pack's write order, so a multi-value Pack
// followed by a multi-value Unpack round-trips positionally.
func Unpack(a *Archive, targets ...any) error {
	for _, t := range targets {
		if err := unpackOne(a, t); err != nil {
			return err
		}
	}
	return nil
}

func unpackOne(a *Archive, target any) error {
	switch x := target.(type) {
	case Archivable:
		return x.UnpackArchive(a)
	case *Archive:
		AppendArchive(x, a)
		return nil
	case *string:
		s, err := ExtractString(a)
		if err != nil {
			return err
		}
		*x = s
		return nil
	case *bool:
		v, err := ExtractPrimitive[bool](a)
		if err == nil {
			*x = v
		}
		return err
	case *int:
		v, err := ExtractPrimitive[int](a)
		if err == nil {
			*x = v
		}
		return err
	case *int8:
		v, err := ExtractPrimitive[int8](a)
		if err == nil {
			*x = v
		}
		return err
	case *int16:
		v, err := ExtractPrimitive[int16](a)
		if err == nil {
			*x = v
		}
		return err
	case *int32:
		v, err := ExtractPrimitive[int32](a)
		if err == nil {
			*x = v
		}
		return err
	case *int64:
		v, err := ExtractPrimitive[int64](a)
		if err == nil {
			*x = v
		}
		return err
	case *uint:
		v, err := ExtractPrimitive[uint](a)
		if err == nil {
			*x = v
		}
		return err
	case *uint8:
		v, err := ExtractPrimitive[uint8](a)
		if err == nil {
			*x = v
		}
		return err
	case *uint16:
		v, err := ExtractPrimitive[uint16](a)
		if err == nil {
			*x = v
		}
		return err
	case *uint32:
		v, err := ExtractPrimitive[uint32](a)
		if err == nil {
			*x = v
		}
		return err
	case *uint64:
		v, err := ExtractPrimitive[uint64](a)
		if err == nil {
			*x = v
		}
		return err
	case *float32:
		v, err := ExtractPrimitive[float32](a)
		if err == nil {
			*x = v
		}
		return err
	case *float64:
		v, err := ExtractPrimitive[float64](a)
		if err == nil {
			*x = v
		}
		return err
	}

	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer {
		return fmt.Errorf("archive: unpack target %T is not a pointer", target)
	}

	elem := rv.Elem()

	// Owned-reference forwarding: a **T target (elem is itself a pointer)
	// gets a fresh T allocated if it is currently nil, then we recurse into
	// the pointee, matching smart-pointer allocate-then-unpack semantics.
	if elem.Kind() == reflect.Pointer {
		if elem.IsNil() {
			elem.Set(reflect.New(elem.Type().Elem()))
		}
		return unpackOne(a, elem.Interface())
	}

	return fmt.Errorf("archive: unpack target %T is not archivable", target)
}

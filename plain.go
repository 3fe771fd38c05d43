package framearena

import (
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"
)

// Chunk memory is never scanned by the garbage collector and is recycled
// without running any teardown, so only plain data may live in it: no
// pointers, strings, slices, maps, interfaces, channels or funcs, at any
// depth. The verdict is computed once per type.
var plainTypes sync.Map // reflect.Type -> error

func mustBePlain(t reflect.Type) {
	if v, ok := plainTypes.Load(t); ok {
		if v != nil {
			panic(v)
		}
		return
	}
	err := checkPlain(t, t.String())
	if err != nil {
		plainTypes.Store(t, err)
		panic(err)
	}
	plainTypes.Store(t, nil)
}

func checkPlain(t reflect.Type, path string) error {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return nil
	case reflect.Array:
		return checkPlain(t.Elem(), path+"[]")
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if err := checkPlain(f.Type, path+"."+f.Name); err != nil {
				return err
			}
		}
		return nil
	}
	return errors.Wrapf(ErrNotPlain, "framearena: %s is a %s", path, t.Kind())
}

// IsPlain reports whether values of T may be stored in an arena.
func IsPlain[T any]() bool {
	t := reflect.TypeFor[T]()
	if v, ok := plainTypes.Load(t); ok {
		return v == nil
	}
	return checkPlain(t, t.String()) == nil
}

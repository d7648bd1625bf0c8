package bencode

import (
	"reflect"
	"strings"
)

// toValue converts a Go value into the Dict/List/Bytes/int shape Encode
// understands, walking struct fields via `bencode:"name,omitempty"` tags.
// Grounded on axiomiety-go-bt/src/bencode's ToDict, generalized to handle
// pointers (for optional fields like *bool/*int64) and to skip untagged
// fields instead of requiring every field be tagged.
func toValue(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	return toValueReflect(rv)
}

func toValueReflect(rv reflect.Value) any {
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		return structToDict(rv)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			panic("bencode: map keys must be strings")
		}
		d := Dict{}
		iter := rv.MapRange()
		for iter.Next() {
			d[iter.Key().String()] = toValueReflect(iter.Value())
		}
		return d
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return Bytes(b)
		}
		l := make(List, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			l[i] = toValueReflect(rv.Index(i))
		}
		return l
	case reflect.String:
		return Bytes(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Bool:
		if rv.Bool() {
			return int64(1)
		}
		return int64(0)
	default:
		return rv.Interface()
	}
}

func structToDict(rv reflect.Value) Dict {
	d := Dict{}
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		tag := f.Tag.Get("bencode")
		if tag == "" || tag == "-" {
			continue
		}
		name, opts := parseTag(tag)
		fv := rv.Field(i)
		if opts.omitempty && isEmptyValue(fv) {
			continue
		}
		if (fv.Kind() == reflect.Ptr || fv.Kind() == reflect.Interface) && fv.IsNil() {
			continue
		}
		d[name] = toValueReflect(fv)
	}
	return d
}

type tagOpts struct {
	omitempty bool
}

func parseTag(tag string) (string, tagOpts) {
	parts := strings.Split(tag, ",")
	opts := tagOpts{}
	for _, p := range parts[1:] {
		if p == "omitempty" {
			opts.omitempty = true
		}
	}
	return parts[0], opts
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	}
	return false
}

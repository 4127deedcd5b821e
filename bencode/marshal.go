package bencode

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

var valueType = reflect.TypeOf((*Value)(nil)).Elem()

type sortedKeys []reflect.Value

func (s sortedKeys) Len() int      { return len(s) }
func (s sortedKeys) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s sortedKeys) Less(i, j int) bool {
	switch s[i].Type().Kind() {
	case reflect.Array:
		switch s[i].Type().Elem().Kind() {
		case reflect.Uint8:
			l := s[i].Len()
			for x := 0; x != l; x++ {
				ei := s[i].Index(x).Uint()
				ej := s[j].Index(x).Uint()
				if ei < ej {
					return true
				} else if ei > ej {
					return false
				}
			}
			return false
		default:
			panic(fmt.Sprintf("cannot sort a elem type of %#v", s[i].Type().Elem().Kind()))
		}
	case reflect.String:
		return s[i].String() < s[j].String()
	case reflect.Uint64:
		return s[i].Uint() < s[j].Uint()
	default:
		panic(fmt.Sprintf("cannot sort a type of %#v", s[i].Type().Kind()))
	}
}

// Marshal a ptr to a bencode-encoded byte-slice. Struct fields are matched to
// dictionary keys through their `bencode:".."` tags and emitted in sorted tag
// order; maps are emitted in sorted key order. A Value marshals through
// Encode.
func Marshal(s interface{}) ([]byte, error) {
	w := newWriter()
	val := reflect.ValueOf(s)
	if val.Type().Kind() != reflect.Ptr {
		return nil, fmt.Errorf("this is not pointer")
	}
	if err := w.marshalValue(val.Elem()); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

func (w *writer) marshalValue(v reflect.Value) error {
	if v.Type().Implements(valueType) {
		w.writeValue(v.Interface().(Value))
		return nil
	}
	switch v.Type().Kind() {
	case reflect.Bool:
		if v.Bool() {
			w.writeUnsignedNumber(1)
		} else {
			w.writeUnsignedNumber(0)
		}
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		w.writeSignedNumber(v.Int())
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		w.writeUnsignedNumber(v.Uint())
		return nil
	case reflect.String:
		w.writeBytes([]byte(v.String()))
		return nil
	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]uint8, v.Len())
			reflect.Copy(reflect.ValueOf(b), v)
			w.writeBytes(b)
			return nil
		}
		w.buf.WriteByte(listStart)
		for i := 0; i != v.Len(); i++ {
			if err := w.marshalValue(v.Index(i)); err != nil {
				return err
			}
		}
		w.buf.WriteByte(bencodeEnd)
		return nil
	case reflect.Struct:
		return w.marshalStruct(v)
	case reflect.Map:
		w.buf.WriteByte(dictStart)
		keys := v.MapKeys()
		sort.Sort(sortedKeys(keys))
		for _, k := range keys {
			if err := w.marshalValue(k); err != nil {
				return err
			}
			if err := w.marshalValue(v.MapIndex(k)); err != nil {
				return err
			}
		}
		w.buf.WriteByte(bencodeEnd)
		return nil
	case reflect.Pointer:
		return w.marshalValue(reflect.Indirect(v))
	default:
		return fmt.Errorf("unrecognized value type %#v %s", v, v.Type().Kind().String())
	}
}

// taggedFields maps bencode tags to struct fields and returns the tags in
// sorted order, which is the order keys appear in on the wire.
func taggedFields(ty reflect.Type) (map[string]reflect.StructField, []string, error) {
	fields := make(map[string]reflect.StructField)
	names := make([]string, 0, ty.NumField())
	for i := 0; i != ty.NumField(); i++ {
		f := ty.Field(i)
		if !f.IsExported() {
			continue
		}
		t := f.Tag.Get("bencode")
		if t == "" {
			return nil, nil, errors.New("expected bencode tag")
		}
		fields[t] = f
		names = append(names, t)
	}
	sort.Strings(names)
	return fields, names, nil
}

func (w *writer) marshalStruct(v reflect.Value) error {
	w.buf.WriteByte(dictStart)
	fields, names, err := taggedFields(v.Type())
	if err != nil {
		return err
	}
	for _, name := range names {
		field := v.FieldByName(fields[name].Name)
		w.writeBytes([]byte(name))
		if err := w.marshalValue(field); err != nil {
			return err
		}
	}
	w.buf.WriteByte(bencodeEnd)
	return nil
}

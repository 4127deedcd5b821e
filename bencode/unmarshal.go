package bencode

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

// Unmarshal decodes buf into the value t points to. Struct dictionary keys
// are required to appear in sorted tag order, matching what Marshal
// produces, and the whole buffer must be consumed.
func Unmarshal(buf []byte, t interface{}) error {
	d := NewDecoder(buf)
	val := reflect.ValueOf(t)
	if val.Type().Kind() != reflect.Ptr {
		return fmt.Errorf("this is not pointer")
	}
	out, err := d.unmarshalValue(val.Type().Elem())
	if err != nil {
		return err
	}
	val.Elem().Set(*out)
	if !d.isAtEnd() {
		return newDecodeError(UnexpectedByte, d.pos, "expected to be at end of buffer")
	}
	return nil
}

func (d *Decoder) readSigned() (int64, error) {
	v, err := d.readInteger()
	if err != nil {
		return 0, err
	}
	return int64(v.(Integer)), nil
}

func (d *Decoder) readUnsigned() (uint64, error) {
	text, textStart, err := d.readIntegerText()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, newDecodeError(IntegerOverflow, textStart, "integer %s overflows uint64", text)
		}
		return 0, newDecodeError(InvalidInteger, textStart, "invalid unsigned integer %q", text)
	}
	if err := d.expectByte(bencodeEnd); err != nil {
		return 0, err
	}
	return n, nil
}

func (d *Decoder) unmarshalValue(t reflect.Type) (*reflect.Value, error) {
	if t == valueType {
		v, err := d.readValue(0)
		if err != nil {
			return nil, err
		}
		val := reflect.ValueOf(v)
		return &val, nil
	}
	switch t.Kind() {
	case reflect.Bool:
		num, err := d.readUnsigned()
		if err != nil {
			return nil, err
		}
		if num > 1 {
			return nil, fmt.Errorf("expected number to be 0 or 1, got %d", num)
		}
		val := reflect.ValueOf(num == 1)
		return &val, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		num, err := d.readSigned()
		if err != nil {
			return nil, err
		}
		val := reflect.New(t).Elem()
		if val.OverflowInt(num) {
			return nil, fmt.Errorf("number %d does not fit in %s", num, t)
		}
		val.SetInt(num)
		return &val, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		num, err := d.readUnsigned()
		if err != nil {
			return nil, err
		}
		val := reflect.New(t).Elem()
		if val.OverflowUint(num) {
			return nil, fmt.Errorf("number %d does not fit in %s", num, t)
		}
		val.SetUint(num)
		return &val, nil
	case reflect.String:
		b, err := d.readString()
		if err != nil {
			return nil, err
		}
		val := reflect.ValueOf(string(b))
		return &val, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			b, err := d.readString()
			if err != nil {
				return nil, err
			}
			val := reflect.ValueOf([]byte(b))
			return &val, nil
		}
		if err := d.expectByte(listStart); err != nil {
			return nil, err
		}
		a := reflect.MakeSlice(t, 0, 0)
		for {
			c, err := d.peek()
			if err != nil {
				return nil, err
			}
			if c == bencodeEnd {
				d.pos++
				return &a, nil
			}
			val, err := d.unmarshalValue(t.Elem())
			if err != nil {
				return nil, err
			}
			a = reflect.Append(a, *val)
		}
	case reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			b, err := d.readString()
			if err != nil {
				return nil, err
			}
			if len(b) != t.Len() {
				return nil, fmt.Errorf("expected %d bytes, got %d", t.Len(), len(b))
			}
			valPtr := reflect.New(t)
			reflect.Copy(reflect.Indirect(valPtr), reflect.ValueOf([]byte(b)))
			val := reflect.Indirect(valPtr)
			return &val, nil
		}
		if err := d.expectByte(listStart); err != nil {
			return nil, err
		}
		arr := reflect.New(t).Elem()
		i := 0
		for {
			c, err := d.peek()
			if err != nil {
				return nil, err
			}
			if c == bencodeEnd {
				d.pos++
				break
			}
			if i == t.Len() {
				return nil, fmt.Errorf("expected at most %d elements", t.Len())
			}
			val, err := d.unmarshalValue(t.Elem())
			if err != nil {
				return nil, err
			}
			arr.Index(i).Set(*val)
			i++
		}
		if i != t.Len() {
			return nil, fmt.Errorf("expected %d elements, got %d", t.Len(), i)
		}
		return &arr, nil
	case reflect.Struct:
		valPtr := reflect.New(t)
		if err := d.unmarshalStruct(valPtr.Interface()); err != nil {
			return nil, err
		}
		val := reflect.Indirect(valPtr)
		return &val, nil
	case reflect.Map:
		if err := d.expectByte(dictStart); err != nil {
			return nil, err
		}
		keyType := t.Key()
		m := reflect.MakeMap(t)
		for {
			c, err := d.peek()
			if err != nil {
				return nil, err
			}
			if c == bencodeEnd {
				d.pos++
				return &m, nil
			}
			keyValue, err := d.unmarshalValue(keyType)
			if err != nil {
				return nil, err
			}
			valValue, err := d.unmarshalValue(t.Elem())
			if err != nil {
				return nil, err
			}
			m.SetMapIndex(*keyValue, *valValue)
		}
	case reflect.Pointer:
		out, err := d.unmarshalValue(t.Elem())
		if err != nil {
			return nil, err
		}
		v := reflect.New(t.Elem())
		v.Elem().Set(*out)
		return &v, nil
	default:
		return nil, fmt.Errorf("unhandled kind %v", t.Kind())
	}
}

func (d *Decoder) unmarshalStruct(o interface{}) error {
	if err := d.expectByte(dictStart); err != nil {
		return err
	}
	structValue := reflect.ValueOf(o).Elem()
	fields, names, err := taggedFields(structValue.Type())
	if err != nil {
		return err
	}
	for _, name := range names {
		structField := fields[name]
		field := structValue.FieldByName(structField.Name)
		key, err := d.readString()
		if err != nil {
			return err
		}
		if string(key) != name {
			return fmt.Errorf("missing key for %s got %s instead", name, key)
		}
		val, err := d.unmarshalValue(structField.Type)
		if err != nil {
			return err
		}
		field.Set(*val)
	}
	return d.expectByte(bencodeEnd)
}

package ledgerv1

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protowire"
)

// CodecName is the content subtype used by the ledger service. Messages are
// encoded in the protobuf wire format, each field under the number declared in
// its protobuf struct tag. Zero values of non optional fields are omitted like
// proto3 does.
const CodecName = "ledgerpb"

type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	msg, err := messageValue(v)
	if err != nil {
		return nil, err
	}
	return appendMessage(nil, msg)
}

func (codec) Unmarshal(data []byte, v any) error {
	msg, err := messageValue(v)
	if err != nil {
		return err
	}
	msg.SetZero()
	return consumeMessage(data, msg)
}

func (codec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(codec{})
}

func messageValue(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%T is not a pointer to a message", v)
	}
	return rv.Elem(), nil
}

type messageField struct {
	index int
	num   protowire.Number
}

// reflect.Type -> []messageField
var messageFields sync.Map

func fieldsOf(t reflect.Type) ([]messageField, error) {
	if fields, ok := messageFields.Load(t); ok {
		return fields.([]messageField), nil
	}

	fields := make([]messageField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag, ok := t.Field(i).Tag.Lookup("protobuf")
		if !ok {
			continue
		}
		parts := strings.Split(tag, ",")
		if len(parts) < 2 {
			return nil, fmt.Errorf("%s.%s: malformed protobuf tag", t.Name(), t.Field(i).Name)
		}
		num, err := strconv.Atoi(parts[1])
		if err != nil || !protowire.Number(num).IsValid() {
			return nil, fmt.Errorf("%s.%s: invalid field number", t.Name(), t.Field(i).Name)
		}
		fields = append(fields, messageField{i, protowire.Number(num)})
	}

	messageFields.Store(t, fields)
	return fields, nil
}

func appendMessage(b []byte, msg reflect.Value) ([]byte, error) {
	fields, err := fieldsOf(msg.Type())
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		if b, err = appendField(b, f.num, msg.Field(f.index)); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func appendField(b []byte, num protowire.Number, v reflect.Value) ([]byte, error) {
	switch {
	case v.Kind() == reflect.Pointer:
		if v.IsNil() {
			return b, nil
		}
		if v.Elem().Kind() == reflect.Struct {
			return appendEmbedded(b, num, v.Elem())
		}
		// optional scalars are encoded even when zero
		return appendScalar(b, num, v.Elem(), true)
	case isBytes(v.Type()):
		if v.Len() == 0 {
			return b, nil
		}
		return appendScalar(b, num, v, true)
	case v.Kind() == reflect.Slice:
		var err error
		for i := 0; i < v.Len(); i++ {
			item := v.Index(i)
			if item.Kind() == reflect.Pointer {
				if item.IsNil() {
					continue
				}
				b, err = appendEmbedded(b, num, item.Elem())
			} else {
				b, err = appendScalar(b, num, item, true)
			}
			if err != nil {
				return nil, err
			}
		}
		return b, nil
	default:
		return appendScalar(b, num, v, false)
	}
}

func appendEmbedded(b []byte, num protowire.Number, msg reflect.Value) ([]byte, error) {
	buf, err := appendMessage(nil, msg)
	if err != nil {
		return nil, err
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, buf), nil
}

func appendScalar(
	b []byte, num protowire.Number, v reflect.Value, keepZero bool,
) ([]byte, error) {
	if !keepZero && v.IsZero() {
		return b, nil
	}

	switch v.Kind() {
	case reflect.String:
		b = protowire.AppendTag(b, num, protowire.BytesType)
		return protowire.AppendString(b, v.String()), nil
	case reflect.Bool:
		b = protowire.AppendTag(b, num, protowire.VarintType)
		return protowire.AppendVarint(b, protowire.EncodeBool(v.Bool())), nil
	case reflect.Int32, reflect.Int64:
		b = protowire.AppendTag(b, num, protowire.VarintType)
		return protowire.AppendVarint(b, uint64(v.Int())), nil
	case reflect.Uint32, reflect.Uint64:
		b = protowire.AppendTag(b, num, protowire.VarintType)
		return protowire.AppendVarint(b, v.Uint()), nil
	}
	if isBytes(v.Type()) {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		return protowire.AppendBytes(b, v.Bytes()), nil
	}
	return nil, fmt.Errorf("unsupported field type %s", v.Type())
}

func consumeMessage(b []byte, msg reflect.Value) error {
	fields, err := fieldsOf(msg.Type())
	if err != nil {
		return err
	}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		index := -1
		for _, f := range fields {
			if f.num == num {
				index = f.index
				break
			}
		}
		if index < 0 {
			// unknown fields are skipped
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}

		n, err := consumeField(b, typ, msg.Field(index))
		if err != nil {
			return fmt.Errorf("%s field %d: %w", msg.Type().Name(), num, err)
		}
		b = b[n:]
	}
	return nil
}

func consumeField(b []byte, typ protowire.Type, v reflect.Value) (int, error) {
	switch {
	case v.Kind() == reflect.Pointer:
		elem := reflect.New(v.Type().Elem())
		n, err := consumeValue(b, typ, elem.Elem())
		if err != nil {
			return 0, err
		}
		v.Set(elem)
		return n, nil
	case isBytes(v.Type()):
		return consumeValue(b, typ, v)
	case v.Kind() == reflect.Slice:
		item := reflect.New(v.Type().Elem()).Elem()
		n, err := consumeField(b, typ, item)
		if err != nil {
			return 0, err
		}
		v.Set(reflect.Append(v, item))
		return n, nil
	default:
		return consumeValue(b, typ, v)
	}
}

func consumeValue(b []byte, typ protowire.Type, v reflect.Value) (int, error) {
	switch v.Kind() {
	case reflect.String, reflect.Slice, reflect.Struct:
		if typ != protowire.BytesType {
			return 0, fmt.Errorf("unexpected wire type %d", typ)
		}
		buf, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		switch v.Kind() {
		case reflect.String:
			v.SetString(string(buf))
		case reflect.Slice:
			if !isBytes(v.Type()) {
				return 0, fmt.Errorf("unsupported field type %s", v.Type())
			}
			v.SetBytes(append([]byte{}, buf...))
		default:
			if err := consumeMessage(buf, v); err != nil {
				return 0, err
			}
		}
		return n, nil

	case reflect.Bool, reflect.Int32, reflect.Int64, reflect.Uint32, reflect.Uint64:
		if typ != protowire.VarintType {
			return 0, fmt.Errorf("unexpected wire type %d", typ)
		}
		x, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		switch v.Kind() {
		case reflect.Bool:
			v.SetBool(protowire.DecodeBool(x))
		case reflect.Int32:
			v.SetInt(int64(int32(x)))
		case reflect.Int64:
			v.SetInt(int64(x))
		case reflect.Uint32:
			if x > 1<<32-1 {
				return 0, fmt.Errorf("value %d overflows uint32", x)
			}
			v.SetUint(x)
		default:
			v.SetUint(x)
		}
		return n, nil
	}
	return 0, fmt.Errorf("unsupported field type %s", v.Type())
}

func isBytes(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}

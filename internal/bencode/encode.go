package bencode

import (
	"bytes"
	"fmt"
	"strconv"
)

// Encode writes the bencoded form of v to buf. v must be built from the
// values this package understands: Dict, List, []byte/Bytes/string,
// and any signed/unsigned integer type. Anything else is a programmer
// error and panics, mirroring how the teacher's reflect-driven encoder
// (axiomiety-go-bt/src/bencode) treats unsupported kinds.
func Encode(buf *bytes.Buffer, v any) {
	switch val := v.(type) {
	case Dict:
		encodeDict(buf, val)
	case map[string]any:
		encodeDict(buf, Dict(val))
	case List:
		encodeList(buf, val)
	case []any:
		encodeList(buf, val)
	case Bytes:
		encodeBytes(buf, []byte(val))
	case []byte:
		encodeBytes(buf, val)
	case string:
		encodeBytes(buf, []byte(val))
	case int:
		encodeInt(buf, int64(val))
	case int8:
		encodeInt(buf, int64(val))
	case int16:
		encodeInt(buf, int64(val))
	case int32:
		encodeInt(buf, int64(val))
	case int64:
		encodeInt(buf, val)
	case uint:
		encodeUint(buf, uint64(val))
	case uint8:
		encodeUint(buf, uint64(val))
	case uint16:
		encodeUint(buf, uint64(val))
	case uint32:
		encodeUint(buf, uint64(val))
	case uint64:
		encodeUint(buf, val)
	default:
		panic(fmt.Sprintf("bencode: cannot encode value of type %T", v))
	}
}

func encodeDict(buf *bytes.Buffer, d Dict) {
	buf.WriteByte('d')
	for _, k := range sortedKeys(d) {
		encodeBytes(buf, []byte(k))
		Encode(buf, d[k])
	}
	buf.WriteByte('e')
}

func encodeList(buf *bytes.Buffer, l []any) {
	buf.WriteByte('l')
	for _, item := range l {
		Encode(buf, item)
	}
	buf.WriteByte('e')
}

func encodeBytes(buf *bytes.Buffer, b []byte) {
	buf.WriteString(strconv.Itoa(len(b)))
	buf.WriteByte(':')
	buf.Write(b)
}

func encodeInt(buf *bytes.Buffer, i int64) {
	buf.WriteByte('i')
	buf.WriteString(strconv.FormatInt(i, 10))
	buf.WriteByte('e')
}

func encodeUint(buf *bytes.Buffer, i uint64) {
	buf.WriteByte('i')
	buf.WriteString(strconv.FormatUint(i, 10))
	buf.WriteByte('e')
}

// Marshal returns the bencoded form of v.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("bencode: marshal: %v", r)
			}
		}()
		if m, ok := v.(Dict); ok {
			Encode(&buf, m)
			return
		}
		Encode(&buf, toValue(v))
	}()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

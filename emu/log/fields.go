package log

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type FieldType uint8

const (
	FieldTypeUnknown FieldType = iota
	FieldTypeBool
	FieldTypeString
	FieldTypeHex8
	FieldTypeHex16
	FieldTypeHex32
	FieldTypeHex64
	FieldTypeInt
	FieldTypeUint
	FieldTypeError
	FieldTypeDuration
	FieldTypeStringer
	FieldTypeBlob
)

// ZField is a typed log field. Only the value matching Type is set.
type ZField struct {
	Type FieldType
	Key  string

	String    string
	Integer   uint64
	Duration  time.Duration
	Error     error
	Interface any
	Boolean   bool
	Blob      []byte
}

// number of hex digits per hex field type.
var hexDigits = [...]int{
	FieldTypeHex8:  2,
	FieldTypeHex16: 4,
	FieldTypeHex32: 8,
	FieldTypeHex64: 16,
}

func (f *ZField) Value() string {
	switch f.Type {
	case FieldTypeBool:
		return strconv.FormatBool(f.Boolean)
	case FieldTypeString:
		return f.String
	case FieldTypeUint:
		return strconv.FormatUint(f.Integer, 10)
	case FieldTypeInt:
		return strconv.FormatInt(int64(f.Integer), 10)
	case FieldTypeHex8, FieldTypeHex16, FieldTypeHex32, FieldTypeHex64:
		s := strconv.FormatUint(f.Integer, 16)
		if pad := hexDigits[f.Type] - len(s); pad > 0 {
			s = strings.Repeat("0", pad) + s
		}
		return s
	case FieldTypeError:
		if f.Error == nil {
			return "<nil>"
		}
		return f.Error.Error()
	case FieldTypeDuration:
		return f.Duration.String()
	case FieldTypeStringer:
		if f.Interface == nil {
			return "<nil>"
		}
		return f.Interface.(fmt.Stringer).String()
	case FieldTypeBlob:
		return fmt.Sprintf("% x", f.Blob)
	}
	return ""
}

package pdf

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	pdflib "github.com/digitorus/pdf"
)

// Ref returns the indirect reference to v.
func Ref(v pdflib.Value) string {
	ptr := v.GetPtr()
	return fmt.Sprintf("%d %d R", ptr.GetID(), ptr.GetGen())
}

// IsIndirect reports whether child, read from container, is an indirect
// object. Direct values carry the object pointer of the object that holds
// them.
func IsIndirect(container, child pdflib.Value) bool {
	return child.GetPtr() != container.GetPtr()
}

// Format serialises the content of v. Indirect objects nested inside v are
// written as references; only v itself is expanded.
func Format(v pdflib.Value) (string, error) {
	var b bytes.Buffer
	if err := write(&b, v, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

// FormatEntry serialises child as it appears inside container: a reference
// when indirect, the value otherwise.
func FormatEntry(container, child pdflib.Value) (string, error) {
	var b bytes.Buffer
	if err := write(&b, container, child); err != nil {
		return "", err
	}
	return b.String(), nil
}

func write(b *bytes.Buffer, container, v pdflib.Value) error {
	if container.GetPtr() != v.GetPtr() {
		b.WriteString(Ref(v))
		return nil
	}
	switch v.Kind() {
	case pdflib.Null:
		b.WriteString("null")
	case pdflib.Bool:
		b.WriteString(strconv.FormatBool(v.Bool()))
	case pdflib.Integer:
		b.WriteString(strconv.FormatInt(v.Int64(), 10))
	case pdflib.Real:
		b.WriteString(FormatNumber(v.Float64()))
	case pdflib.String:
		b.WriteString("<" + hex.EncodeToString([]byte(v.RawString())) + ">")
	case pdflib.Name:
		b.WriteString(Name(v.Name()))
	case pdflib.Array:
		b.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				b.WriteByte(' ')
			}
			if err := write(b, container, v.Index(i)); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case pdflib.Dict:
		b.WriteString("<<")
		for i, key := range v.Keys() {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(Name(key))
			b.WriteByte(' ')
			if err := write(b, container, v.Key(key)); err != nil {
				return fmt.Errorf("key %s: %w", key, err)
			}
		}
		b.WriteString(">>")
	default:
		return fmt.Errorf("cannot inline value of kind %v", v.Kind())
	}
	return nil
}

// Name returns s as a PDF name token, escaping delimiters, whitespace and
// bytes outside the printable ASCII range.
func Name(s string) string {
	var b bytes.Buffer
	b.WriteByte('/')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x21 || c > 0x7e || strings.IndexByte("#()<>[]{}/%", c) >= 0 {
			fmt.Fprintf(&b, "#%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// FormatNumber writes f with at most four decimals and no trailing zeros.
func FormatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', 4, 64)
	s = trimZeros(s)
	if s == "-0" {
		return "0"
	}
	return s
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	return s[:i]
}

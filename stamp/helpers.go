package stamp

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

func pdfString(text string) string {
	if !isASCII(text) {
		// UTF-16BE
		enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
		res, _, err := transform.String(enc, text)
		if err != nil {
			panic(err)
		}
		return "(" + escape(res) + ")"
	}

	return "(" + escape(text) + ")"
}

func escape(text string) string {
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, ")", "\\)")
	text = strings.ReplaceAll(text, "(", "\\(")
	text = strings.ReplaceAll(text, "\r", "\\r")
	return text
}

// pdfDateTime formats date as a PDF date string, D:YYYYMMDDHHmmSS+HH'mm'.
func pdfDateTime(date time.Time) string {
	_, offset := date.Zone()
	sign := '+'
	if offset < 0 {
		sign, offset = '-', -offset
	}
	return pdfString(fmt.Sprintf("D:%s%c%02d'%02d'",
		date.Format("20060102150405"), sign, offset/3600, offset%3600/60))
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > '\u007F' {
			return false
		}
	}
	return true
}

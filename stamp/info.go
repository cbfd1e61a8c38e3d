package stamp

import (
	"bytes"
	"fmt"
	"time"

	"github.com/digitorus/pdf"
	internalpdf "github.com/digitorus/pdfink/internal/pdf"
)

// writeInfo writes the updated document information dictionary and returns
// its object number.
func (context *StampContext) writeInfo() (uint32, error) {
	original := context.PDFReader.Trailer().Key("Info")

	date := context.Options.Date
	if date.IsZero() {
		date = time.Now()
	}
	producer := context.Options.Producer
	if producer == "" {
		producer = DefaultProducer
	}

	var info bytes.Buffer
	info.WriteString("<<\n")
	if original.Kind() == pdf.Dict {
		for _, key := range original.Keys() {
			if key == "ModDate" || key == "Producer" {
				continue
			}
			val, err := internalpdf.FormatEntry(original, original.Key(key))
			if err != nil {
				return 0, fmt.Errorf("info key %s: %w", key, err)
			}
			fmt.Fprintf(&info, "  %s %s\n", internalpdf.Name(key), val)
		}
	}
	fmt.Fprintf(&info, "  /ModDate %s\n", pdfDateTime(date))
	fmt.Fprintf(&info, "  /Producer %s\n", pdfString(producer))
	info.WriteString(">>")

	trailer := context.PDFReader.Trailer()
	if original.Kind() == pdf.Dict && internalpdf.IsIndirect(trailer, original) {
		id := internalpdf.ObjectID(original)
		if err := context.UpdateObject(id, info.Bytes()); err != nil {
			return 0, err
		}
		return id, nil
	}
	return context.AddObject(info.Bytes())
}

package stamp

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"

	internalpdf "github.com/digitorus/pdfink/internal/pdf"
)

func (context *StampContext) writeXref() error {
	sort.Slice(context.updatedXrefEntries, func(i, j int) bool {
		return context.updatedXrefEntries[i].ID < context.updatedXrefEntries[j].ID
	})

	switch context.PDFReader.XrefInformation.Type {
	case "table":
		return context.writeXrefTable()
	case "stream":
		return context.writeXrefStream()
	default:
		return fmt.Errorf("unknown xref type: %q", context.PDFReader.XrefInformation.Type)
	}
}

// writeXrefTable writes the incremental cross-reference table and trailer.
func (context *StampContext) writeXrefTable() error {
	context.NewXrefStart = int64(context.OutputBuffer.Buff.Len())

	var b bytes.Buffer
	b.WriteString("xref\n")
	for _, entry := range context.updatedXrefEntries {
		fmt.Fprintf(&b, "%d %d\n", entry.ID, 1)
		fmt.Fprintf(&b, "%010d 00000 n\r\n", entry.Offset)
	}
	if len(context.newXrefEntries) > 0 {
		fmt.Fprintf(&b, "%d %d\n", context.newXrefEntries[0].ID, len(context.newXrefEntries))
		for _, entry := range context.newXrefEntries {
			fmt.Fprintf(&b, "%010d 00000 n\r\n", entry.Offset)
		}
	}

	b.WriteString("trailer\n")
	b.WriteString(context.trailerEntries(context.lastXrefID + 1))
	b.WriteString("\n")

	if _, err := context.OutputBuffer.Write(b.Bytes()); err != nil {
		return fmt.Errorf("failed to write incremental xref table: %w", err)
	}
	return nil
}

// writeXrefStream writes the incremental cross-reference stream. The stream
// object lists itself.
func (context *StampContext) writeXrefStream() error {
	id := context.lastXrefID + 1
	context.NewXrefStart = int64(context.OutputBuffer.Buff.Len())
	self := xrefEntry{ID: id, Offset: context.NewXrefStart}

	var rows bytes.Buffer
	var index []uint32
	for _, entry := range context.updatedXrefEntries {
		writeXrefStreamLine(&rows, 1, entry.Offset, 0)
		index = append(index, entry.ID, 1)
	}
	entries := append(append([]xrefEntry(nil), context.newXrefEntries...), self)
	for _, entry := range entries {
		writeXrefStreamLine(&rows, 1, entry.Offset, 0)
	}
	index = append(index, entries[0].ID, uint32(len(entries)))

	data, err := encodeXrefStream(rows.Bytes())
	if err != nil {
		return fmt.Errorf("failed to encode xref stream: %w", err)
	}

	var header bytes.Buffer
	header.WriteString("<< /Type /XRef\n")
	header.WriteString("  /Filter /FlateDecode\n")
	header.WriteString("  /W [ 1 4 1 ]\n")
	header.WriteString("  /Index [")
	for _, v := range index {
		fmt.Fprintf(&header, " %d", v)
	}
	header.WriteString(" ]\n")
	fmt.Fprintf(&header, "  /Length %d\n", len(data))
	// Remaining keys are shared with the table trailer.
	trailer := context.trailerEntries(id + 1)
	header.WriteString(trailer[len("<<\n"):])

	object := append(header.Bytes(), "\nstream\n"...)
	object = append(object, data...)
	object = append(object, "\nendstream"...)

	if _, err := context.AddObject(object); err != nil {
		return fmt.Errorf("failed to add xref stream object: %w", err)
	}
	return nil
}

// trailerEntries returns the trailer dictionary for an update whose highest
// object number is size-1.
func (context *StampContext) trailerEntries(size uint32) string {
	trailer := context.PDFReader.Trailer()

	var b bytes.Buffer
	b.WriteString("<<\n")
	fmt.Fprintf(&b, "  /Size %d\n", size)
	fmt.Fprintf(&b, "  /Root %s\n", internalpdf.Ref(trailer.Key("Root")))
	fmt.Fprintf(&b, "  /Prev %d\n", context.PDFReader.XrefInformation.StartPos)
	if context.infoID != 0 {
		fmt.Fprintf(&b, "  /Info %d 0 R\n", context.infoID)
	}
	if id := trailer.Key("ID"); id.Len() == 2 {
		id0 := hex.EncodeToString([]byte(id.Index(0).RawString()))
		id1 := hex.EncodeToString([]byte(id.Index(1).RawString()))
		fmt.Fprintf(&b, "  /ID [<%s><%s>]\n", id0, id1)
	}
	b.WriteString(">>")
	return b.String()
}

func encodeXrefStream(data []byte) ([]byte, error) {
	var b bytes.Buffer
	w := zlib.NewWriter(&b)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// writeXrefStreamLine writes a single line in the xref stream.
func writeXrefStreamLine(b *bytes.Buffer, xreftype byte, offset int64, gen byte) {
	b.WriteByte(xreftype)
	var offsetBytes [4]byte
	binary.BigEndian.PutUint32(offsetBytes[:], uint32(offset))
	b.Write(offsetBytes[:])
	b.WriteByte(gen)
}

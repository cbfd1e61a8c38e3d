package stamp

import (
	"bytes"
	"fmt"
)

// AddObject appends a new object and returns its object number.
func (context *StampContext) AddObject(object []byte) (uint32, error) {
	id := context.lastXrefID + 1
	offset, err := context.writeObject(id, object)
	if err != nil {
		return 0, fmt.Errorf("failed to add object %d: %w", id, err)
	}
	context.lastXrefID = id
	context.newXrefEntries = append(context.newXrefEntries, xrefEntry{ID: id, Offset: offset})
	return id, nil
}

// UpdateObject appends a new revision of an existing object.
func (context *StampContext) UpdateObject(id uint32, object []byte) error {
	offset, err := context.writeObject(id, object)
	if err != nil {
		return fmt.Errorf("failed to update object %d: %w", id, err)
	}
	for i, e := range context.updatedXrefEntries {
		if e.ID == id {
			context.updatedXrefEntries[i].Offset = offset
			return nil
		}
	}
	context.updatedXrefEntries = append(context.updatedXrefEntries, xrefEntry{ID: id, Offset: offset})
	return nil
}

// AddStream appends a stream object with the given dictionary entries.
func (context *StampContext) AddStream(entries string, data []byte) (uint32, error) {
	var b bytes.Buffer
	b.WriteString("<<")
	if entries != "" {
		b.WriteString(" " + entries)
	}
	fmt.Fprintf(&b, " /Length %d >>\n", len(data))
	b.WriteString("stream\n")
	b.Write(data)
	b.WriteString("\nendstream")
	return context.AddObject(b.Bytes())
}

func (context *StampContext) writeObject(id uint32, object []byte) (int64, error) {
	offset := int64(context.OutputBuffer.Buff.Len())

	var b bytes.Buffer
	fmt.Fprintf(&b, "%d 0 obj\n", id)
	b.Write(bytes.TrimRight(object, "\r\n"))
	b.WriteString("\nendobj\n")

	if _, err := context.OutputBuffer.Write(b.Bytes()); err != nil {
		return 0, err
	}
	return offset, nil
}

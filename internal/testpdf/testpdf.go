// Package testpdf builds small, valid PDF files for tests.
package testpdf

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Size is a page size in points.
type Size struct {
	Width, Height float64
}

// Letter is US Letter in points.
var Letter = Size{Width: 612, Height: 792}

// Options describe the document to build.
type Options struct {
	// Pages lists the page sizes. One Letter page is used when empty.
	Pages []Size
	// XrefStream writes a cross-reference stream instead of a table.
	XrefStream bool
	// InheritMediaBox moves the MediaBox of the first page onto the page
	// tree root; pages then carry no MediaBox of their own.
	InheritMediaBox bool
	// Title is written to the document information dictionary.
	Title string
}

// Build returns a PDF with one text line per page.
func Build(opts Options) []byte {
	pages := opts.Pages
	if len(pages) == 0 {
		pages = []Size{Letter}
	}

	var b bytes.Buffer
	offsets := map[int]int{}
	obj := func(id int, body string) {
		offsets[id] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", id, body)
	}

	b.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	const (
		catalogID = 1
		pagesID   = 2
		fontID    = 3
		firstPage = 4
	)
	infoID := firstPage + 2*len(pages)

	obj(catalogID, fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesID))

	kids := ""
	for i := range pages {
		kids += fmt.Sprintf(" %d 0 R", firstPage+2*i)
	}
	tree := fmt.Sprintf("<< /Type /Pages /Kids [%s ] /Count %d", kids, len(pages))
	if opts.InheritMediaBox {
		tree += fmt.Sprintf(" /MediaBox [0 0 %s %s]", num(pages[0].Width), num(pages[0].Height))
	}
	obj(pagesID, tree+" >>")

	obj(fontID, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, p := range pages {
		pageID := firstPage + 2*i
		contentID := pageID + 1
		page := fmt.Sprintf("<< /Type /Page /Parent %d 0 R", pagesID)
		if !opts.InheritMediaBox {
			page += fmt.Sprintf(" /MediaBox [0 0 %s %s]", num(p.Width), num(p.Height))
		}
		page += fmt.Sprintf(" /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", fontID, contentID)
		obj(pageID, page)

		content := fmt.Sprintf("BT /F1 12 Tf 72 %s Td (Page %d) Tj ET", num(p.Height-72), i+1)
		obj(contentID, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	title := opts.Title
	if title == "" {
		title = "Test document"
	}
	obj(infoID, fmt.Sprintf("<< /Title (%s) /Producer (testpdf) >>", title))

	id := "<6e6b2a7d2c3c4f1f8f7a3b0e2d1c0b9a>"
	if !opts.XrefStream {
		size := infoID + 1
		xref := b.Len()
		fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f\r\n", size)
		for i := 1; i < size; i++ {
			fmt.Fprintf(&b, "%010d 00000 n\r\n", offsets[i])
		}
		fmt.Fprintf(&b, "trailer\n<< /Size %d /Root %d 0 R /Info %d 0 R /ID [%s %s] >>\n", size, catalogID, infoID, id, id)
		fmt.Fprintf(&b, "startxref\n%d\n%%%%EOF\n", xref)
		return b.Bytes()
	}

	xrefID := infoID + 1
	size := xrefID + 1
	xref := b.Len()
	offsets[xrefID] = xref

	var rows bytes.Buffer
	rows.Write([]byte{0, 0, 0, 0, 0, 0xff})
	for i := 1; i < size; i++ {
		rows.WriteByte(1)
		_ = binary.Write(&rows, binary.BigEndian, uint32(offsets[i]))
		rows.WriteByte(0)
	}
	fmt.Fprintf(&b, "%d 0 obj\n<< /Type /XRef /Size %d /W [1 4 1] /Root %d 0 R /Info %d 0 R /ID [%s %s] /Length %d >>\nstream\n",
		xrefID, size, catalogID, infoID, id, id, rows.Len())
	b.Write(rows.Bytes())
	b.WriteString("\nendstream\nendobj\n")
	fmt.Fprintf(&b, "startxref\n%d\n%%%%EOF\n", xref)
	return b.Bytes()
}

func num(f float64) string {
	return fmt.Sprintf("%g", f)
}

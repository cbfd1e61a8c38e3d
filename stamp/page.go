package stamp

import (
	"bytes"
	"fmt"

	"github.com/digitorus/pdf"
	internalpdf "github.com/digitorus/pdfink/internal/pdf"
)

// drawing is one image draw on a page.
type drawing struct {
	name  string
	image uint32
	rect  Rect
}

// stampPage draws placements on page n. The existing content is wrapped in
// q/Q so that graphics state left behind by it does not leak into the
// drawings.
func (context *StampContext) stampPage(n int, placements []Placement) error {
	page, err := internalpdf.Page(context.PDFReader, n)
	if err != nil {
		return err
	}

	taken := map[string]bool{}
	for _, key := range internalpdf.Inherited(page, "Resources").Key("XObject").Keys() {
		taken[key] = true
	}

	var draws []drawing
	for _, p := range placements {
		id, err := context.EmbedImage(p.Image)
		if err != nil {
			return fmt.Errorf("page %d: %w", n, err)
		}
		name := context.nextName(taken)
		draws = append(draws, drawing{name: name, image: id, rect: p.Rect})
	}

	resources, err := pageResources(page, draws)
	if err != nil {
		return fmt.Errorf("page %d resources: %w", n, err)
	}

	var content bytes.Buffer
	content.WriteString("Q\n")
	for _, d := range draws {
		drawImage(&content, d)
	}

	saveID, err := context.AddStream("", []byte("q\n"))
	if err != nil {
		return err
	}
	drawID, err := context.AddStream("", content.Bytes())
	if err != nil {
		return err
	}

	contents := fmt.Sprintf("[%d 0 R", saveID)
	old := page.Key("Contents")
	switch old.Kind() {
	case pdf.Array:
		for i := 0; i < old.Len(); i++ {
			contents += " " + internalpdf.Ref(old.Index(i))
		}
	case pdf.Stream:
		contents += " " + internalpdf.Ref(old)
	}
	contents += fmt.Sprintf(" %d 0 R]", drawID)

	var buf bytes.Buffer
	buf.WriteString("<<\n")
	for _, key := range page.Keys() {
		if key == "Contents" || key == "Resources" {
			continue
		}
		val, err := internalpdf.FormatEntry(page, page.Key(key))
		if err != nil {
			return fmt.Errorf("page %d key %s: %w", n, key, err)
		}
		fmt.Fprintf(&buf, "  %s %s\n", internalpdf.Name(key), val)
	}
	fmt.Fprintf(&buf, "  /Resources %s\n", resources)
	fmt.Fprintf(&buf, "  /Contents %s\n", contents)
	buf.WriteString(">>")

	return context.UpdateObject(internalpdf.ObjectID(page), buf.Bytes())
}

// nextName returns an XObject resource name that is not in taken.
func (context *StampContext) nextName(taken map[string]bool) string {
	for {
		context.names++
		name := fmt.Sprintf("PdfinkSig%d", context.names)
		if !taken[name] {
			return name
		}
	}
}

// pageResources returns an inline resource dictionary with the inherited
// resources of page plus the image XObjects of draws.
func pageResources(page pdf.Value, draws []drawing) (string, error) {
	res := internalpdf.Inherited(page, "Resources")

	var buf bytes.Buffer
	buf.WriteString("<<")
	if res.Kind() == pdf.Dict {
		for _, key := range res.Keys() {
			if key == "XObject" {
				continue
			}
			val, err := internalpdf.FormatEntry(res, res.Key(key))
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&buf, " %s %s", internalpdf.Name(key), val)
		}
	}

	buf.WriteString(" /XObject <<")
	xobjects := res.Key("XObject")
	if xobjects.Kind() == pdf.Dict {
		for _, key := range xobjects.Keys() {
			val, err := internalpdf.FormatEntry(xobjects, xobjects.Key(key))
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&buf, " %s %s", internalpdf.Name(key), val)
		}
	}
	for _, d := range draws {
		fmt.Fprintf(&buf, " %s %d 0 R", internalpdf.Name(d.name), d.image)
	}
	buf.WriteString(" >> >>")
	return buf.String(), nil
}

func drawImage(buffer *bytes.Buffer, d drawing) {
	buffer.WriteString("q\n")
	fmt.Fprintf(buffer, "%s 0 0 %s %s %s cm\n",
		internalpdf.FormatNumber(d.rect.Width), internalpdf.FormatNumber(d.rect.Height),
		internalpdf.FormatNumber(d.rect.X), internalpdf.FormatNumber(d.rect.Y))
	fmt.Fprintf(buffer, "%s Do\n", internalpdf.Name(d.name))
	buffer.WriteString("Q\n")
}

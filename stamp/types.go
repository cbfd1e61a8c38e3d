package stamp

import (
	"io"
	"time"

	"github.com/digitorus/pdf"
	"github.com/mattetti/filebuffer"
)

// DefaultProducer is written to /Producer of the updated document.
const DefaultProducer = "pdfink"

// Placement is an image to draw on a page, already in PDF user space.
type Placement struct {
	// Page is 1-based.
	Page  int
	Image []byte
	Rect  Rect
}

// Options control the update.
type Options struct {
	// Producer replaces /Producer in the document information dictionary.
	Producer string
	// Date is written to /ModDate. The current time is used when zero.
	Date time.Time
}

type xrefEntry struct {
	ID     uint32
	Offset int64
}

// StampContext holds the state of one incremental update.
type StampContext struct {
	InputFile    io.ReadSeeker
	OutputBuffer *filebuffer.Buffer
	PDFReader    *pdf.Reader
	Options      Options
	NewXrefStart int64

	infoID             uint32
	lastXrefID         uint32
	newXrefEntries     []xrefEntry
	updatedXrefEntries []xrefEntry

	// images maps an image content hash to its XObject object number.
	images map[string]uint32
	// names counts the XObject resource names handed out.
	names int
}

package stamp

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/digitorus/pdf"
	internalpdf "github.com/digitorus/pdfink/internal/pdf"
	"github.com/digitorus/pdfink/internal/testpdf"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	img.Set(3, 4, color.NRGBA{A: 0xff})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func openPDF(t *testing.T, data []byte) *pdf.Reader {
	t.Helper()
	rdr, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("failed to read PDF: %v", err)
	}
	return rdr
}

func readStream(t *testing.T, v pdf.Value) string {
	t.Helper()
	b, err := io.ReadAll(v.Reader())
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func stampBytes(t *testing.T, input []byte, placements []Placement) []byte {
	t.Helper()
	rdr := openPDF(t, input)
	out, err := Stamp(bytes.NewReader(input), rdr, placements, Options{
		Date: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Stamp() error = %v", err)
	}
	return out
}

func TestStamp(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		xrefType string
	}{
		{name: "xref table", input: testpdf.Build(testpdf.Options{Pages: []testpdf.Size{testpdf.Letter, testpdf.Letter}}), xrefType: "table"},
		{name: "xref stream", input: testpdf.Build(testpdf.Options{Pages: []testpdf.Size{testpdf.Letter, testpdf.Letter}, XrefStream: true}), xrefType: "stream"},
		{name: "inherited media box", input: testpdf.Build(testpdf.Options{Pages: []testpdf.Size{testpdf.Letter, testpdf.Letter}, InheritMediaBox: true}), xrefType: "table"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := testPNG(t)
			out := stampBytes(t, tt.input, []Placement{
				{Page: 1, Image: sig, Rect: Rect{X: 51, Y: 668.25, Width: 153, Height: 74.25}},
			})

			if !bytes.HasPrefix(out, tt.input) {
				t.Fatal("incremental update must keep the original bytes")
			}

			rdr := openPDF(t, out)
			if rdr.XrefInformation.Type != tt.xrefType {
				t.Errorf("xref type = %q, want %q", rdr.XrefInformation.Type, tt.xrefType)
			}
			if rdr.NumPage() != 2 {
				t.Fatalf("NumPage() = %d, want 2", rdr.NumPage())
			}

			page := rdr.Page(1).V
			contents := page.Key("Contents")
			if contents.Kind() != pdf.Array || contents.Len() != 3 {
				t.Fatalf("Contents = %v, want array of 3 streams", contents)
			}
			if got := readStream(t, contents.Index(0)); got != "q\n" {
				t.Errorf("first content stream = %q, want %q", got, "q\n")
			}
			if got := readStream(t, contents.Index(1)); !strings.Contains(got, "(Page 1) Tj") {
				t.Errorf("original content lost: %q", got)
			}
			draw := readStream(t, contents.Index(2))
			if !strings.HasPrefix(draw, "Q\n") || !strings.Contains(draw, "153 0 0 74.25 51 668.25 cm\n/PdfinkSig1 Do") {
				t.Errorf("unexpected draw stream: %q", draw)
			}

			xobj := page.Key("Resources").Key("XObject").Key("PdfinkSig1")
			if xobj.Kind() != pdf.Stream || xobj.Key("Subtype").Name() != "Image" {
				t.Fatalf("image XObject missing: %v", xobj)
			}
			if xobj.Key("Width").Int64() != 20 || xobj.Key("Height").Int64() != 10 {
				t.Errorf("image size = %dx%d", xobj.Key("Width").Int64(), xobj.Key("Height").Int64())
			}
			if xobj.Key("SMask").Kind() != pdf.Stream {
				t.Error("transparent signature should carry a soft mask")
			}
			if page.Key("Resources").Key("Font").Key("F1").Key("BaseFont").Name() != "Helvetica" {
				t.Error("existing font resource lost")
			}
			if internalpdf.MediaBox(page) != internalpdf.Letter {
				t.Errorf("MediaBox = %+v", internalpdf.MediaBox(page))
			}

			if rdr.Page(2).V.Key("Contents").Kind() != pdf.Stream {
				t.Error("page 2 should be untouched")
			}

			info := rdr.Trailer().Key("Info")
			if got := info.Key("Producer").RawString(); got != DefaultProducer {
				t.Errorf("Producer = %q", got)
			}
			if got := info.Key("Title").RawString(); got != "Test document" {
				t.Errorf("Title = %q", got)
			}
			if got := info.Key("ModDate").RawString(); got != "D:20240301120000+00'00'" {
				t.Errorf("ModDate = %q", got)
			}
		})
	}
}

func TestStampSample(t *testing.T) {
	input := testpdf.Sample()
	sig := testPNG(t)
	out := stampBytes(t, input, []Placement{
		{Page: 1, Image: sig, Rect: Rect{X: 10, Y: 10, Width: 100, Height: 50}},
	})

	rdr := openPDF(t, out)
	page := rdr.Page(1).V
	if n := page.Key("Contents").Len(); n != 4 {
		t.Errorf("Contents has %d streams, want 4", n)
	}
	if page.Key("Resources").Key("XObject").Key("PdfinkSig1").Kind() != pdf.Stream {
		t.Error("image XObject missing")
	}
	if got := rdr.Trailer().Key("Info").Key("Producer").RawString(); got != DefaultProducer {
		t.Errorf("Producer = %q", got)
	}
	if id := rdr.Trailer().Key("ID"); id.Len() != 2 {
		t.Error("document ID lost")
	}
}

func TestStampDeduplicatesImages(t *testing.T) {
	input := testpdf.Build(testpdf.Options{Pages: []testpdf.Size{testpdf.Letter, testpdf.Letter}})
	sig := testPNG(t)
	out := stampBytes(t, input, []Placement{
		{Page: 1, Image: sig, Rect: Rect{X: 1, Y: 1, Width: 10, Height: 10}},
		{Page: 2, Image: sig, Rect: Rect{X: 1, Y: 1, Width: 10, Height: 10}},
	})

	rdr := openPDF(t, out)
	a := rdr.Page(1).V.Key("Resources").Key("XObject").Key("PdfinkSig1")
	b := rdr.Page(2).V.Key("Resources").Key("XObject").Key("PdfinkSig2")
	if a.Kind() != pdf.Stream || b.Kind() != pdf.Stream {
		t.Fatal("image XObjects missing")
	}
	if internalpdf.ObjectID(a) != internalpdf.ObjectID(b) {
		t.Errorf("identical images embedded twice: %d and %d", internalpdf.ObjectID(a), internalpdf.ObjectID(b))
	}
}

func TestStampTwice(t *testing.T) {
	input := testpdf.Build(testpdf.Options{})
	sig := testPNG(t)
	first := stampBytes(t, input, []Placement{{Page: 1, Image: sig, Rect: Rect{Width: 10, Height: 10}}})
	second := stampBytes(t, first, []Placement{{Page: 1, Image: sig, Rect: Rect{X: 100, Width: 10, Height: 10}}})

	rdr := openPDF(t, second)
	xobjects := rdr.Page(1).V.Key("Resources").Key("XObject")
	if len(xobjects.Keys()) != 2 {
		t.Errorf("XObject keys = %v, want two distinct names", xobjects.Keys())
	}
}

func TestStampErrors(t *testing.T) {
	input := testpdf.Build(testpdf.Options{})
	rdr := openPDF(t, input)

	if _, err := Stamp(bytes.NewReader(input), rdr, nil, Options{}); !errors.Is(err, ErrNoPlacements) {
		t.Errorf("Stamp(nil) error = %v, want ErrNoPlacements", err)
	}

	_, err := Stamp(bytes.NewReader(input), rdr, []Placement{{Page: 3, Image: testPNG(t)}}, Options{})
	if !errors.Is(err, internalpdf.ErrPageNotFound) {
		t.Errorf("Stamp(page 3) error = %v, want ErrPageNotFound", err)
	}

	_, err = Stamp(bytes.NewReader(input), rdr, []Placement{{Page: 1, Image: []byte("garbage")}}, Options{})
	if err == nil {
		t.Error("Stamp() with an undecodable image should fail")
	}
}

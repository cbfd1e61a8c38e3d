package cli

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/digitorus/pdfink"
	"github.com/digitorus/pdfink/overlay"
)

// DocumentInfo is the output of the info command.
type DocumentInfo struct {
	File  string         `json:"file"`
	Bytes int64          `json:"bytes"`
	Pages []overlay.Size `json:"pages"`
}

func InfoCommand(args []string) {
	if err := runInfo(args[2:]); err != nil {
		fatal("info", err)
	}
}

func runInfo(args []string) error {
	infoFlags := flag.NewFlagSet("info", flag.ContinueOnError)
	var asJSON bool
	infoFlags.BoolVar(&asJSON, "json", false, "Output in JSON format")

	infoFlags.Usage = func() {
		fmt.Printf("Usage: %s info [options] <input.pdf>\n\n", os.Args[0])
		fmt.Println("Show the page count and page sizes (in points) of a PDF file")
		fmt.Println("\nOptions:")
		infoFlags.PrintDefaults()
	}

	if err := infoFlags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if infoFlags.NArg() < 1 {
		infoFlags.Usage()
		return errors.New("info requires: input.pdf")
	}

	doc, err := pdfink.OpenFile(infoFlags.Arg(0))
	if err != nil {
		return err
	}

	info := DocumentInfo{File: doc.Name, Bytes: doc.Size()}
	for i := 1; i <= doc.PageCount(); i++ {
		size, err := doc.PageSize(i)
		if err != nil {
			return err
		}
		info.Pages = append(info.Pages, size)
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	_, _ = fmt.Fprintf(stdout, "File:  %s\n", info.File)
	_, _ = fmt.Fprintf(stdout, "Bytes: %d\n", info.Bytes)
	_, _ = fmt.Fprintf(stdout, "Pages: %d\n", len(info.Pages))
	for i, p := range info.Pages {
		_, _ = fmt.Fprintf(stdout, "  %d: %g x %g pt\n", i+1, p.Width, p.Height)
	}
	return nil
}

// Command pdfink places hand drawn signatures on PDF pages.
//
// Usage:
//
//	pdfink <command> [options] <args>
//
// Commands:
//
//	stamp    Place signature images on PDF pages
//	info     Show page count and page sizes of a PDF file
//	preview  Render a page with its placements to PNG
//	serve    Run the interactive editor over HTTP
//	version  Show version information
//
// Examples:
//
//	pdfink stamp -image sig.png -page 2 -x 380 -y 650 contract.pdf signed.pdf
//	pdfink stamp -plan plan.yaml contract.pdf signed.pdf
//	pdfink serve -config pdfink.conf
package main

import (
	"os"

	"github.com/digitorus/pdfink/cli"
)

// Set at build time:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/pdfink
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cli.Version = version
	cli.BuildTime = buildTime
	cli.Run(os.Args)
}

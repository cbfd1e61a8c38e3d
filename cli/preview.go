package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/digitorus/pdfink"
	"github.com/digitorus/pdfink/host"
	"github.com/digitorus/pdfink/overlay"
	"github.com/sirupsen/logrus"
)

func PreviewCommand(args []string) {
	if err := runPreview(args[2:]); err != nil {
		fatal("preview", err)
	}
}

func runPreview(args []string) error {
	previewFlags := flag.NewFlagSet("preview", flag.ContinueOnError)

	var (
		configFile, planFile string
		page                 int
	)
	previewFlags.StringVar(&configFile, "config", "", "Path to the config file")
	previewFlags.StringVar(&planFile, "plan", "", "YAML placement plan")
	previewFlags.IntVar(&page, "page", 1, "Page to render")

	previewFlags.Usage = func() {
		fmt.Printf("Usage: %s preview [options] <input.pdf> <output.png>\n\n", os.Args[0])
		fmt.Println("Render a page outline with its placements to PNG")
		fmt.Println("\nOptions:")
		previewFlags.PrintDefaults()
	}

	if err := previewFlags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if previewFlags.NArg() < 2 {
		previewFlags.Usage()
		return errors.New("preview requires: input.pdf output.png")
	}
	input, output := previewFlags.Arg(0), previewFlags.Arg(1)

	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}

	doc, err := pdfink.OpenFile(input)
	if err != nil {
		return err
	}

	displayWidth := cfg.Editor.DisplayWidth
	var placements []overlay.Placement
	if planFile != "" {
		plan, err := LoadPlan(planFile)
		if err != nil {
			return err
		}
		model, dims, err := plan.Resolve(doc, displayWidth)
		if err != nil {
			return err
		}
		if p, ok := model.Get(page); ok {
			placements = append(placements, p)
			displayWidth = dims.Lookup(page).Width
		}
	}

	rendered, err := host.NewPDFCPU().RenderPage(doc.Source(), page, displayWidth)
	if err != nil {
		return err
	}
	img, err := host.Preview(rendered, placements)
	if err != nil {
		return err
	}
	data, err := host.EncodePNG(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"page":   page,
		"output": output,
		"width":  rendered.Width,
		"height": rendered.Height,
	}).Info("preview written")
	return nil
}

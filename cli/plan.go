package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/digitorus/pdfink"
	"github.com/digitorus/pdfink/overlay"
	"gopkg.in/yaml.v3"
)

// Plan describes placements for a document in display space.
//
//	image: signature.png
//	display: {width: 600, height: 776}
//	placements:
//	  - page: 1
//	    x: 380
//	    y: 650
//	  - page: 3
//	    image: initials.png
//	    width: 80
//	    height: 40
type Plan struct {
	// Image is the default signature image for entries that name none.
	Image string `yaml:"image"`
	// Display is the default size pages were displayed at.
	Display    *overlay.Size   `yaml:"display"`
	Placements []PlanPlacement `yaml:"placements"`

	dir string
}

// PlanPlacement is one entry of a Plan. Omitted geometry takes the editor
// defaults.
type PlanPlacement struct {
	Page    int           `yaml:"page"`
	Image   string        `yaml:"image"`
	X       *float64      `yaml:"x"`
	Y       *float64      `yaml:"y"`
	Width   *float64      `yaml:"width"`
	Height  *float64      `yaml:"height"`
	Display *overlay.Size `yaml:"display"`
}

// LoadPlan reads a YAML plan. Image paths are relative to the plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}
	p.dir = filepath.Dir(path)
	return &p, nil
}

// Resolve loads the plan images and returns the placements together with the
// display size of each page. Pages without a display size are assumed to be
// shown displayWidth pixels wide.
func (p *Plan) Resolve(doc *pdfink.Document, displayWidth float64) (*overlay.Model, overlay.Dimensions, error) {
	if len(p.Placements) == 0 {
		return nil, nil, errors.New("plan has no placements")
	}

	model := overlay.New(overlay.DefaultLimits)
	dims := overlay.Dimensions{}
	images := map[string][]byte{}

	for i, e := range p.Placements {
		if e.Page < 1 {
			return nil, nil, fmt.Errorf("placement %d: invalid page %d", i+1, e.Page)
		}
		if _, dup := model.Get(e.Page); dup {
			return nil, nil, fmt.Errorf("placement %d: page %d already has a signature", i+1, e.Page)
		}

		name := e.Image
		if name == "" {
			name = p.Image
		}
		if name == "" {
			return nil, nil, fmt.Errorf("placement %d: no image", i+1)
		}
		if !filepath.IsAbs(name) && p.dir != "" {
			name = filepath.Join(p.dir, name)
		}
		img, ok := images[name]
		if !ok {
			data, err := os.ReadFile(name)
			if err != nil {
				return nil, nil, fmt.Errorf("placement %d: %w", i+1, err)
			}
			images[name] = data
			img = data
		}

		if err := e.checkGeometry(); err != nil {
			return nil, nil, fmt.Errorf("placement %d: %w", i+1, err)
		}
		pl := overlay.NewPlacement(e.Page, img)
		model.Set(pl)
		if err := model.Translate(e.Page, valueOr(e.X, pl.X), valueOr(e.Y, pl.Y)); err != nil {
			return nil, nil, err
		}
		if err := model.Resize(e.Page, valueOr(e.Width, pl.Width), valueOr(e.Height, pl.Height)); err != nil {
			return nil, nil, err
		}

		switch {
		case e.Display != nil:
			dims.Record(e.Page, e.Display.Width, e.Display.Height)
		case p.Display != nil:
			dims.Record(e.Page, p.Display.Width, p.Display.Height)
		default:
			size, err := doc.PageSize(e.Page)
			if err != nil {
				// Export skips pages the document lacks.
				continue
			}
			dims.Record(e.Page, displayWidth, displayWidth*size.Height/size.Width)
		}
	}
	return model, dims, nil
}

// checkGeometry rejects positions left of or above the page and empty sizes.
// Sizes below the editor floors are raised by the model.
func (e PlanPlacement) checkGeometry() error {
	if e.X != nil && *e.X < 0 || e.Y != nil && *e.Y < 0 {
		return fmt.Errorf("negative position (%g, %g)", valueOr(e.X, 0), valueOr(e.Y, 0))
	}
	if e.Width != nil && *e.Width <= 0 || e.Height != nil && *e.Height <= 0 {
		return fmt.Errorf("size must be positive, got %g x %g", valueOr(e.Width, 0), valueOr(e.Height, 0))
	}
	return nil
}

func valueOr(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

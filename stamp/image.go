package stamp

import (
	"fmt"

	"github.com/digitorus/pdfink/images"
)

// EmbedImage writes data as an image XObject and returns its object number.
// Identical images are written once.
func (context *StampContext) EmbedImage(data []byte) (uint32, error) {
	hash := images.Hash(data)
	if id, ok := context.images[hash]; ok {
		return id, nil
	}

	img, err := images.Decode(data)
	if err != nil {
		return 0, fmt.Errorf("failed to decode image: %w", err)
	}

	smask := ""
	if img.SMask != nil {
		maskID, err := context.addImage(img.SMask, "")
		if err != nil {
			return 0, fmt.Errorf("failed to add soft mask: %w", err)
		}
		smask = fmt.Sprintf("%d 0 R", maskID)
	}

	id, err := context.addImage(img, smask)
	if err != nil {
		return 0, fmt.Errorf("failed to add image object: %w", err)
	}

	if context.images == nil {
		context.images = make(map[string]uint32)
	}
	context.images[hash] = id
	return id, nil
}

func (context *StampContext) addImage(img *images.PDFImage, smask string) (uint32, error) {
	object := []byte(img.Dictionary(smask) + "\nstream\n")
	object = append(object, img.Data...)
	object = append(object, "\nendstream"...)
	return context.AddObject(object)
}

package stamp

import (
	"fmt"
)

func (context *StampContext) writeTrailer() error {
	if _, err := fmt.Fprintf(context.OutputBuffer, "startxref\n%d\n%%%%EOF\n", context.NewXrefStart); err != nil {
		return fmt.Errorf("failed to write trailer: %w", err)
	}
	return nil
}

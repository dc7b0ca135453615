package pipeline

import (
	"context"
	"fmt"
	"time"

	errs "github.com/matzehuels/weavr/pkg/errors"
	"github.com/matzehuels/weavr/pkg/model"
	"github.com/matzehuels/weavr/pkg/observability"
	"github.com/matzehuels/weavr/pkg/render/nodelink"
)

// Format constants for rendered diagrams.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// ValidFormats is the set of supported diagram formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
}

// ValidateFormat checks that a diagram format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeUnsupported, "invalid format: %q (must be one of: dot, svg)", format)
	}
	return nil
}

// Render draws doc as a node-link diagram in the requested formats.
// Documents that went through [Fix] are drawn with their layout coordinates.
func Render(ctx context.Context, doc *model.Document, formats []string, opts nodelink.Options) (map[string][]byte, error) {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
	}

	dot := nodelink.ToDOT(doc, opts)
	artifacts := make(map[string][]byte, len(formats))

	for _, format := range formats {
		hooks := observability.Pipeline()
		hooks.OnRenderStart(ctx, format)
		start := time.Now()

		var data []byte
		var err error
		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		}

		hooks.OnRenderComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

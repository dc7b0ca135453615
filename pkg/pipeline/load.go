package pipeline

import (
	"errors"
	"io/fs"
	"os"

	errs "github.com/matzehuels/weavr/pkg/errors"
	"github.com/matzehuels/weavr/pkg/model"
)

// ReadInput reads a model file and picks its format from the extension.
// A missing file is reported as ErrCodeFileNotFound.
func ReadInput(path string) ([]byte, model.Format, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", errs.Wrap(errs.ErrCodeFileNotFound, err, "%s not found", path)
	}
	if err != nil {
		return nil, "", errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, model.FormatForPath(path), nil
}

// Decode parses raw input into a document.
func Decode(data []byte, f model.Format) (*model.Document, error) {
	doc, err := model.UnmarshalDocument(data, f)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode event model")
	}
	return doc, nil
}

// NewGraph indexes doc and maps structural failures to coded errors:
// a model without slices is ErrCodeMissingSlices, anything else
// ErrCodeMalformedElement.
func NewGraph(doc *model.Document) (*model.Graph, error) {
	g, err := model.NewGraph(doc)
	if errors.Is(err, model.ErrNoSlices) {
		return nil, errs.Wrap(errs.ErrCodeMissingSlices, err, "no slices found in eventModel")
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedElement, err, "malformed event model")
	}
	return g, nil
}

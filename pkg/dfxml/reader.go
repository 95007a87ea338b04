package dfxml

import (
	"encoding/xml"
	"fmt"
	"io"
)

// ReadFileObjects returns every fileobject of a DFXML document, in document order.
func ReadFileObjects(r io.Reader) ([]FileObject, error) {
	dec := xml.NewDecoder(r)

	var objs []FileObject
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed report: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != fileObjectName.Local {
			continue
		}

		var obj FileObject
		if err := dec.DecodeElement(&obj, &start); err != nil {
			return nil, fmt.Errorf("malformed fileobject: %w", err)
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

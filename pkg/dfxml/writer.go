// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package dfxml

import (
	"encoding/xml"
	"io"
)

var (
	rootName       = xml.Name{Local: "dfxml"}
	fileObjectName = xml.Name{Local: "fileobject"}
)

// Writer streams a DFXML document: one header, any number of file objects, then Close.
type Writer struct {
	w   io.Writer
	enc *xml.Encoder
}

func NewWriter(w io.Writer) *Writer {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	return &Writer{
		w:   w,
		enc: enc,
	}
}

// WriteHeader writes the XML declaration, opens the root element and
// writes the metadata, creator and source sections.
func (w *Writer) WriteHeader(hdr Header) error {
	if _, err := io.WriteString(w.w, xml.Header); err != nil {
		return err
	}

	root := xml.StartElement{
		Name: rootName,
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmloutputversion"}, Value: XmlOutputVersion},
			{Name: xml.Name{Local: "xmlns"}, Value: nsDFXML},
			{Name: xml.Name{Local: "xmlns:xsi"}, Value: nsXSI},
			{Name: xml.Name{Local: "xmlns:dc"}, Value: nsDC},
		},
	}
	if err := w.enc.EncodeToken(root); err != nil {
		return err
	}

	sections := []struct {
		name string
		v    any
	}{
		{"metadata", hdr.Metadata},
		{"creator", hdr.Creator},
		{"source", hdr.Source},
	}
	for _, s := range sections {
		if err := w.enc.EncodeElement(s.v, xml.StartElement{Name: xml.Name{Local: s.name}}); err != nil {
			return err
		}
	}
	return w.enc.Flush()
}

func (w *Writer) WriteFileObject(obj FileObject) error {
	if err := w.enc.EncodeElement(obj, xml.StartElement{Name: fileObjectName}); err != nil {
		return err
	}
	return w.enc.Flush()
}

// Close writes the closing root tag. It does not close the underlying writer.
func (w *Writer) Close() error {
	if err := w.enc.EncodeToken(xml.EndElement{Name: rootName}); err != nil {
		return err
	}
	return w.enc.Flush()
}

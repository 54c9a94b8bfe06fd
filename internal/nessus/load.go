package nessus

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/nessus-flatten/nessus-flatten/internal/failure"
)

// rawDocument accepts both a NessusClientData_v2 root holding <Report>
// children and a bare <Report> root.
type rawDocument struct {
	XMLName xml.Name
	Name    string       `xml:"name,attr"`
	Reports []Report     `xml:"Report"`
	Hosts   []ReportHost `xml:"ReportHost"`
}

// Load opens and parses the report at path. Every failure is a ParseError.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, failure.Parse("open report", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, failure.Parse(fmt.Sprintf("parse %s", path), err)
	}
	return doc, nil
}

// Decode parses a report from r.
func Decode(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var raw rawDocument
	if err := dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty document")
		}
		return nil, err
	}

	if err := expectEOF(dec); err != nil {
		return nil, err
	}

	doc := &Document{Reports: raw.Reports}
	if raw.XMLName.Local == "Report" {
		doc.Reports = []Report{{Name: raw.Name, Hosts: raw.Hosts}}
	}
	return doc, nil
}

// expectEOF rejects content after the root element.
func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return fmt.Errorf("junk after document element: <%s>", t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return fmt.Errorf("junk after document element")
			}
		}
	}
}

// charsetReader decodes non UTF-8 documents (Nessus exports are sometimes
// ISO-8859-1) using the IANA charset registry.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

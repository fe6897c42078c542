package flexweb

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Format is the format of a downloaded report, as configured in the Flex Query.
type Format int

// Report formats.
const (
	FormatUnknown Format = iota
	FormatXML
	FormatHTML
	FormatCSV
)

// String returns the file extension of the format.
func (f Format) String() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatHTML:
		return "html"
	case FormatCSV:
		return "csv"
	}
	return "unknown"
}

// DetectFormat guesses the format of a report from its content.
//
// A report is XML if its root element contains FlexStatements first. Failing
// that, the first 100 bytes decide: an HTML doctype or tag means HTML, a comma
// or a semicolon means CSV.
func DetectFormat(data []byte) Format {
	if isFlexXML(data) {
		return FormatXML
	}
	head := data
	if len(head) > 100 {
		head = head[:100]
	}
	start := strings.TrimSpace(string(bytes.ToValidUTF8(head, nil)))
	lower := strings.ToLower(start)
	switch {
	case strings.HasPrefix(lower, "<!doctype"), strings.HasPrefix(lower, "<html"):
		return FormatHTML
	case strings.ContainsAny(start, ",;"):
		return FormatCSV
	}
	return FormatUnknown
}

// isFlexXML reports whether the first child of the root element is FlexStatements.
func isFlexXML(data []byte) bool {
	dec := xml.NewDecoder(bytes.NewReader(data))
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 1 {
				return t.Name.Local == "FlexStatements"
			}
			depth++
		case xml.EndElement:
			depth--
			if depth <= 0 {
				return false
			}
		}
	}
}

// HTMLTitle returns the title of an HTML page, the service answers with an
// HTML error page when it is down.
func HTMLTitle(data []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

package catalog

import (
	"encoding/xml"
	"time"
)

// listingTime tolerates the timestamp formats bucket listings have been
// observed to emit. An empty or unparseable value decodes to the zero time
// instead of failing the page.
type listingTime struct {
	time.Time
}

var listingTimeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	time.RFC1123,
}

func (t *listingTime) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var v string
	if err := d.DecodeElement(&v, &start); err != nil {
		return err
	}
	t.Time = time.Time{}
	for _, format := range listingTimeFormats {
		if parsed, err := time.Parse(format, v); err == nil {
			t.Time = parsed
			break
		}
	}
	return nil
}

// listBucketResult is one page of the V2 listing protocol. Unknown elements
// are ignored by encoding/xml, which gives the schema-drift tolerance the
// walker relies on: a page with no recognizable elements decodes to an empty
// result rather than an error.
type listBucketResult struct {
	XMLName               xml.Name       `xml:"ListBucketResult"`
	IsTruncated           bool           `xml:"IsTruncated"`
	NextContinuationToken string         `xml:"NextContinuationToken"`
	CommonPrefixes        []commonPrefix `xml:"CommonPrefixes"`
	Contents              []objectEntry  `xml:"Contents"`
}

type commonPrefix struct {
	Prefix string `xml:"Prefix"`
}

type objectEntry struct {
	Key          string      `xml:"Key"`
	Size         int64       `xml:"Size"`
	LastModified listingTime `xml:"LastModified"`
}

func parseListing(body []byte) (*listBucketResult, error) {
	var page listBucketResult
	if err := xml.Unmarshal(body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

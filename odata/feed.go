package odata

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/melkeydev/mcp-odata/types"
	"github.com/spf13/cast"
)

const (
	ContentTypeJSON     = "application/json"
	ContentTypeFeed     = "application/atom+xml;type=feed;charset=utf-8"
	ContentTypeMetadata = "application/xml;charset=utf-8"

	SchemaNamespace = "datastore"

	nsAtom     = "http://www.w3.org/2005/Atom"
	nsData     = "http://schemas.microsoft.com/ado/2007/08/dataservices"
	nsMetadata = "http://schemas.microsoft.com/ado/2007/08/dataservices/metadata"
	nsScheme   = "http://schemas.microsoft.com/ado/2007/08/dataservices/scheme"

	edmDateTimeLayout = "2006-01-02T15:04:05"
)

// Response is a rendered document and its media type.
type Response struct {
	ContentType string
	Body        []byte
}

// Property is a sanitized field as published to clients.
type Property struct {
	ID   string `json:"-"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Properties sanitizes and types the datastore fields.
func Properties(fields []types.Field) []Property {
	props := make([]Property, 0, len(fields))
	for _, f := range fields {
		props = append(props, Property{
			ID:   f.ID,
			Name: Sanitize(f.ID),
			Type: TranslateType(f.Type),
		})
	}
	return props
}

// FeedInfo describes the collection a feed is rendered for.
type FeedInfo struct {
	BaseURL string
	// URI is the request locator as sent by the client, e.g. "widgets(7)".
	URI        string
	Collection string
	Resource   *types.Resource
}

type jsonEnvelope struct {
	Metadata string           `json:"odata.metadata"`
	Value    []map[string]any `json:"value"`
}

// AssembleJSON renders records verbatim inside the OData JSON envelope.
func AssembleJSON(info FeedInfo, result *types.SearchResult) (*Response, error) {
	records := result.Records
	if records == nil {
		records = []map[string]any{}
	}

	body, err := json.Marshal(jsonEnvelope{
		Metadata: info.BaseURL + "$metadata#" + info.Collection,
		Value:    records,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json feed: %w", err)
	}

	return &Response{ContentType: ContentTypeJSON, Body: body}, nil
}

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Base    string      `xml:"xml:base,attr"`
	Xmlns   string      `xml:"xmlns,attr"`
	XmlnsD  string      `xml:"xmlns:d,attr"`
	XmlnsM  string      `xml:"xmlns:m,attr"`
	ID      string      `xml:"id"`
	Title   atomText    `xml:"title"`
	Updated string      `xml:"updated"`
	Links   []atomLink  `xml:"link"`
	Entries []atomEntry `xml:"entry"`
}

type atomText struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type atomLink struct {
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr,omitempty"`
	Href  string `xml:"href,attr"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term   string `xml:"term,attr"`
	Scheme string `xml:"scheme,attr"`
}

type atomEntry struct {
	ID       string       `xml:"id"`
	Title    atomText     `xml:"title"`
	Updated  string       `xml:"updated"`
	Author   atomAuthor   `xml:"author"`
	Link     atomLink     `xml:"link"`
	Category atomCategory `xml:"category"`
	Content  atomContent  `xml:"content"`
}

type atomContent struct {
	Type       string         `xml:"type,attr"`
	Properties atomProperties `xml:"m:properties"`
}

type atomProperties struct {
	Values []atomValue
}

// atomValue takes its element name from XMLName, d:<property name>.
type atomValue struct {
	XMLName xml.Name
	Type    string `xml:"m:type,attr"`
	Null    string `xml:"m:null,attr,omitempty"`
	Value   string `xml:",chardata"`
}

// AssembleFeed renders records as an Atom feed. Each record becomes an entry
// whose properties follow the sanitized field list. nextLink is the query
// string of the following page, if any.
func AssembleFeed(info FeedInfo, result *types.SearchResult, props []Property, nextLink string) (*Response, error) {
	var updatedAt time.Time
	title := info.Collection
	if info.Resource != nil {
		updatedAt = info.Resource.Updated()
		if info.Resource.Name != "" {
			title = info.Resource.Name
		}
	}

	updated := formatAtomTime(updatedAt)

	feed := atomFeed{
		Base:    info.BaseURL,
		Xmlns:   nsAtom,
		XmlnsD:  nsData,
		XmlnsM:  nsMetadata,
		ID:      info.BaseURL + info.URI,
		Title:   atomText{Type: "text", Value: title},
		Updated: updated,
		Links:   []atomLink{{Rel: "self", Title: info.Collection, Href: info.URI}},
	}

	term := SchemaNamespace + "." + Sanitize(info.Collection)
	for _, record := range result.Records {
		href := info.Collection
		if id, ok := record[types.RowIDColumn]; ok && id != nil {
			href = fmt.Sprintf("%s(%s)", info.Collection, cast.ToString(id))
		}

		entry := atomEntry{
			ID:       info.BaseURL + href,
			Title:    atomText{Type: "text"},
			Updated:  updated,
			Link:     atomLink{Rel: "edit", Title: info.Collection, Href: href},
			Category: atomCategory{Term: term, Scheme: nsScheme},
			Content:  atomContent{Type: "application/xml"},
		}

		for _, p := range props {
			entry.Content.Properties.Values = append(entry.Content.Properties.Values, propertyValue(p, record[p.ID]))
		}
		feed.Entries = append(feed.Entries, entry)
	}

	if nextLink != "" {
		feed.Links = append(feed.Links, atomLink{
			Rel:  "next",
			Href: info.BaseURL + info.Collection + "?" + nextLink,
		})
	}

	body, err := marshalXML(feed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal atom feed: %w", err)
	}
	return &Response{ContentType: ContentTypeFeed, Body: body}, nil
}

func propertyValue(p Property, v any) atomValue {
	value := atomValue{
		XMLName: xml.Name{Local: "d:" + p.Name},
		Type:    p.Type,
	}

	switch t := v.(type) {
	case nil:
		value.Null = "true"
	case time.Time:
		value.Value = t.Format(edmDateTimeLayout)
	case []byte:
		value.Value = string(t)
	case bool:
		value.Value = strconv.FormatBool(t)
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			s = fmt.Sprint(v)
		}
		value.Value = s
	}
	return value
}

// formatAtomTime renders an Atom date. Atom requires one, so an unknown
// time is reported as the Unix epoch.
func formatAtomTime(t time.Time) string {
	if t.IsZero() {
		t = time.Unix(0, 0)
	}
	return t.UTC().Format(time.RFC3339)
}

func marshalXML(v any) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

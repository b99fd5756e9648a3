package odata

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/melkeydev/mcp-odata/types"
	"github.com/spf13/cast"
)

const (
	metadataScanLimit = 1000
	metadataScanSort  = "oid desc"

	// dynamicNameLength is the length of a canonical resource id
	// (8-4-4-4-12 hex digits).
	dynamicNameLength = 36
)

// CollectionSchema is a discovered collection and its published properties.
type CollectionSchema struct {
	Name       string     `json:"name"`
	Properties []Property `json:"properties"`
}

// IsDynamicCollection reports whether a table listed in the metadata
// collection is a user datastore table.
func IsDynamicCollection(name string) bool {
	return name != types.TableMetadata && len(name) == dynamicNameLength
}

// DiscoverSchemas lists the datastore collections, newest first, with their
// fields. A collection whose fields cannot be read is left out.
func (s *Service) DiscoverSchemas(ctx context.Context) ([]CollectionSchema, error) {
	meta, err := s.store.Search(ctx, types.SearchRequest{
		ResourceID: types.TableMetadata,
		Limit:      metadataScanLimit,
		Sort:       metadataScanSort,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan table metadata: %w", err)
	}

	var schemas []CollectionSchema
	for _, record := range meta.Records {
		name := cast.ToString(record["name"])
		if !IsDynamicCollection(name) {
			continue
		}

		fields, err := s.store.Search(ctx, types.SearchRequest{
			ResourceID: name,
			Limit:      0,
		})
		if err != nil {
			s.logger.Debug("skipping collection", "collection", name, "error", err)
			continue
		}

		schemas = append(schemas, CollectionSchema{
			Name:       name,
			Properties: Properties(fields.Fields),
		})
	}

	return schemas, nil
}

type edmx struct {
	XMLName      xml.Name        `xml:"edmx:Edmx"`
	Version      string          `xml:"Version,attr"`
	XmlnsEdmx    string          `xml:"xmlns:edmx,attr"`
	DataServices edmDataServices `xml:"edmx:DataServices"`
}

type edmDataServices struct {
	XmlnsM  string    `xml:"xmlns:m,attr"`
	Version string    `xml:"m:DataServiceVersion,attr"`
	Schema  edmSchema `xml:"Schema"`
}

type edmSchema struct {
	Namespace   string          `xml:"Namespace,attr"`
	Xmlns       string          `xml:"xmlns,attr"`
	EntityTypes []edmEntityType `xml:"EntityType"`
	Container   edmContainer    `xml:"EntityContainer"`
}

type edmEntityType struct {
	Name       string        `xml:"Name,attr"`
	Key        edmKey        `xml:"Key"`
	Properties []edmProperty `xml:"Property"`
}

type edmKey struct {
	PropertyRef edmPropertyRef `xml:"PropertyRef"`
}

type edmPropertyRef struct {
	Name string `xml:"Name,attr"`
}

type edmProperty struct {
	Name     string `xml:"Name,attr"`
	Type     string `xml:"Type,attr"`
	Nullable string `xml:"Nullable,attr"`
}

type edmContainer struct {
	Name      string         `xml:"Name,attr"`
	IsDefault string         `xml:"m:IsDefaultEntityContainer,attr"`
	Sets      []edmEntitySet `xml:"EntitySet"`
}

type edmEntitySet struct {
	Name       string `xml:"Name,attr"`
	EntityType string `xml:"EntityType,attr"`
}

// AssembleMetadata renders the EDMX service metadata document.
func AssembleMetadata(schemas []CollectionSchema) (*Response, error) {
	doc := edmx{
		Version:   "1.0",
		XmlnsEdmx: "http://schemas.microsoft.com/ado/2007/06/edmx",
		DataServices: edmDataServices{
			XmlnsM:  nsMetadata,
			Version: "2.0",
			Schema: edmSchema{
				Namespace: SchemaNamespace,
				Xmlns:     "http://schemas.microsoft.com/ado/2008/09/edm",
				Container: edmContainer{Name: SchemaNamespace, IsDefault: "true"},
			},
		},
	}

	schema := &doc.DataServices.Schema
	for _, c := range schemas {
		typeName := Sanitize(c.Name)
		entity := edmEntityType{
			Name: typeName,
			Key:  edmKey{PropertyRef: edmPropertyRef{Name: types.RowIDColumn}},
		}
		for _, p := range c.Properties {
			entity.Properties = append(entity.Properties, edmProperty{
				Name:     p.Name,
				Type:     p.Type,
				Nullable: "true",
			})
		}

		schema.EntityTypes = append(schema.EntityTypes, entity)
		// The set keeps the collection name so it can be requested as is.
		schema.Container.Sets = append(schema.Container.Sets, edmEntitySet{
			Name:       c.Name,
			EntityType: SchemaNamespace + "." + typeName,
		})
	}

	body, err := marshalXML(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return &Response{ContentType: ContentTypeMetadata, Body: body}, nil
}

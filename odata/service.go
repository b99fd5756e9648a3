package odata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/melkeydev/mcp-odata/databases"
	"github.com/melkeydev/mcp-odata/types"
)

// Service answers OData collection and metadata requests from a datastore.
type Service struct {
	store  databases.Datastore
	base   *BaseURL
	logger *slog.Logger
}

func NewService(store databases.Datastore, base *BaseURL, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, base: base, logger: logger}
}

func (s *Service) BaseURL() *BaseURL {
	return s.base
}

// Collection serves uri ("name" or "name(rowKey)") with the given query
// options. A query the datastore rejects as invalid is answered with its
// validation details as a JSON body rather than an error.
func (s *Service) Collection(ctx context.Context, uri string, params url.Values) (*Response, error) {
	loc := Decompose(uri)
	opts := Interpret(loc.Collection, params)
	req := Build(loc, opts)

	result, err := s.execute(ctx, req)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			s.logger.Info("datastore rejected query", "collection", loc.Collection, "error", err)
			return validationResponse(vErr)
		}
		return nil, err
	}

	next := NextLink(result.Total, opts.Offset, opts.Limit, !req.UsesLimit())

	resource, err := s.store.ResourceShow(ctx, loc.Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to look up resource %s: %w", loc.Collection, err)
	}

	info := FeedInfo{
		BaseURL:    s.base.String(),
		URI:        uri,
		Collection: loc.Collection,
		Resource:   resource,
	}

	if opts.JSON {
		return AssembleJSON(info, result)
	}
	return AssembleFeed(info, result, Properties(result.Fields), next)
}

// Metadata serves the $metadata document.
func (s *Service) Metadata(ctx context.Context) (*Response, error) {
	schemas, err := s.DiscoverSchemas(ctx)
	if err != nil {
		return nil, err
	}
	return AssembleMetadata(schemas)
}

type serviceCollection struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type serviceDocument struct {
	Metadata string              `json:"odata.metadata"`
	Value    []serviceCollection `json:"value"`
}

// ServiceDocument lists the discovered collections with their links.
func (s *Service) ServiceDocument(ctx context.Context) (*Response, error) {
	schemas, err := s.DiscoverSchemas(ctx)
	if err != nil {
		return nil, err
	}

	doc := serviceDocument{
		Metadata: s.base.String() + "$metadata",
		Value:    make([]serviceCollection, 0, len(schemas)),
	}
	for _, c := range schemas {
		doc.Value = append(doc.Value, serviceCollection{Name: c.Name, URL: s.base.Link(c.Name)})
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal service document: %w", err)
	}
	return &Response{ContentType: ContentTypeJSON, Body: body}, nil
}

func (s *Service) execute(ctx context.Context, req Request) (*types.SearchResult, error) {
	if req.RawSQL != "" {
		result, err := s.store.SearchSQL(ctx, req.RawSQL)
		if err != nil {
			return nil, fmt.Errorf("sql search failed: %w", err)
		}
		return result, nil
	}

	result, err := s.store.Search(ctx, *req.Search)
	if err != nil {
		return nil, fmt.Errorf("search on %s failed: %w", req.Search.ResourceID, err)
	}
	return result, nil
}

// ValidationError is the datastore's report of a rejected query.
type ValidationError = types.ValidationError

func validationResponse(vErr *ValidationError) (*Response, error) {
	body, err := json.Marshal(vErr.Details)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal validation error: %w", err)
	}
	return &Response{ContentType: ContentTypeJSON, Body: body}, nil
}

package odata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/melkeydev/mcp-odata/databases/memstore"
	"github.com/melkeydev/mcp-odata/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func widgetStore() *memstore.Store {
	store := memstore.New()
	store.Add("widgets",
		[]types.Field{{ID: "_id", Type: "int4"}, {ID: "unit price", Type: "float8"}},
		map[string]any{"_id": int64(6), "unit price": 1.25},
		map[string]any{"_id": int64(7), "unit price": 2.5},
		map[string]any{"_id": int64(8), "unit price": nil},
	)
	store.Resources["widgets"] = &types.Resource{
		ID:      "widgets",
		Name:    "Widget prices",
		Created: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	return store
}

func TestCollectionRowKeyFeed(t *testing.T) {
	store := widgetStore()
	svc := newTestService(store)

	resp, err := svc.Collection(context.Background(), "widgets(7)", url.Values{})
	require.NoError(t, err)

	require.Len(t, store.Searches(), 1)
	assert.Equal(t, types.SearchRequest{
		ResourceID: "widgets",
		Filters:    map[string]any{"_id": int64(7)},
		Limit:      500,
		Offset:     0,
	}, store.Searches()[0])

	assert.Equal(t, ContentTypeFeed, resp.ContentType)
	body := string(resp.Body)
	assert.Contains(t, body, `<id>http://x/odata/widgets(7)</id>`)
	assert.Contains(t, body, `<title type="text">Widget prices</title>`)
	assert.Contains(t, body, `<updated>2024-03-01T12:00:00Z</updated>`)
	assert.Contains(t, body, `<d:unitprice m:type="Edm.Double">2.5</d:unitprice>`)
	assert.NotContains(t, body, `<d:unitprice m:type="Edm.Double">1.25</d:unitprice>`)
	assert.NotContains(t, body, `rel="next"`)
}

func TestCollectionJSON(t *testing.T) {
	store := widgetStore()
	svc := newTestService(store)

	resp, err := svc.Collection(context.Background(), "widgets", url.Values{"$format": {"json"}})
	require.NoError(t, err)
	assert.Equal(t, ContentTypeJSON, resp.ContentType)

	var got struct {
		Metadata string          `json:"odata.metadata"`
		Value    json.RawMessage `json:"value"`
	}
	require.NoError(t, json.Unmarshal(resp.Body, &got))
	assert.Equal(t, "http://x/odata/$metadata#widgets", got.Metadata)

	want, err := json.Marshal(store.Collections["widgets"].Records)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got.Value))
}

func TestCollectionPagination(t *testing.T) {
	store := widgetStore()
	svc := newTestService(store)

	resp, err := svc.Collection(context.Background(), "widgets", url.Values{"$top": {"2"}})
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body), `<link rel="next" href="http://x/odata/widgets?$skip=2&amp;$top=2"></link>`)

	resp, err = svc.Collection(context.Background(), "widgets", url.Values{"$top": {"2"}, "$skip": {"2"}})
	require.NoError(t, err)
	assert.NotContains(t, string(resp.Body), `rel="next"`)
	assert.Contains(t, string(resp.Body), `<d:unitprice m:type="Edm.Double" m:null="true"></d:unitprice>`)
}

func TestCollectionRawSQL(t *testing.T) {
	store := widgetStore()
	const query = `SELECT * FROM "widgets" WHERE _id > 6`
	store.SQL[query] = &types.SearchResult{
		Records: []map[string]any{{"_id": int64(7)}, {"_id": int64(8)}},
		Fields:  []types.Field{{ID: "_id", Type: "int4"}},
		Total:   5000,
	}
	svc := newTestService(store)

	resp, err := svc.Collection(context.Background(), "widgets", url.Values{
		"$sqlfilter": {"WHERE _id > 6"},
		"$top":       {"1"},
		"$skip":      {"3"},
	})
	require.NoError(t, err)

	assert.Empty(t, store.Searches())
	assert.Equal(t, []string{query}, store.Queries())
	assert.NotContains(t, string(resp.Body), `rel="next"`)
	assert.Contains(t, string(resp.Body), `<id>http://x/odata/widgets(8)</id>`)
}

func TestCollectionValidationErrorBody(t *testing.T) {
	store := widgetStore()
	svc := newTestService(store)

	resp, err := svc.Collection(context.Background(), "widgets", url.Values{"$sqlfilter": {"WHER"}})
	require.NoError(t, err)

	assert.Equal(t, ContentTypeJSON, resp.ContentType)
	assert.JSONEq(t, `{"query":["unexpected statement: SELECT * FROM \"widgets\" WHER"]}`, string(resp.Body))
}

func TestCollectionNegativeTop(t *testing.T) {
	store := widgetStore()

	resp, err := newTestService(store).Collection(context.Background(), "widgets", url.Values{"$top": {"-1"}})
	require.NoError(t, err)

	assert.Equal(t, ContentTypeJSON, resp.ContentType)
	assert.JSONEq(t, `{"limit":["Must be a natural number"]}`, string(resp.Body))
	require.Len(t, store.Searches(), 1)
	assert.Equal(t, -1, store.Searches()[0].Limit)
}

func TestCollectionErrors(t *testing.T) {
	t.Run("unknown collection", func(t *testing.T) {
		_, err := newTestService(widgetStore()).Collection(context.Background(), "gadgets", url.Values{})
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})

	t.Run("not authorized", func(t *testing.T) {
		store := widgetStore()
		store.Errors["widgets"] = fmt.Errorf("permission denied: %w", types.ErrNotAuthorized)

		_, err := newTestService(store).Collection(context.Background(), "widgets", url.Values{})
		assert.True(t, errors.Is(err, types.ErrNotAuthorized))
	})

	t.Run("missing resource", func(t *testing.T) {
		store := widgetStore()
		delete(store.Resources, "widgets")

		_, err := newTestService(store).Collection(context.Background(), "widgets", url.Values{"$format": {"json"}})
		assert.True(t, errors.Is(err, types.ErrNotFound))
	})
}

func TestMetadataAndServiceDocument(t *testing.T) {
	store := memstore.New()
	id := uuid.NewString()
	store.Add(id, []types.Field{{ID: "_id", Type: "int4"}, {ID: "when", Type: "timestamp"}})
	store.Add("not-a-resource-id", nil)
	svc := newTestService(store)

	resp, err := svc.Metadata(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ContentTypeMetadata, resp.ContentType)
	assert.Contains(t, string(resp.Body), `<Property Name="when" Type="Edm.DateTime" Nullable="true"></Property>`)
	assert.NotContains(t, string(resp.Body), "not-a-resource-id")

	resp, err = svc.ServiceDocument(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, fmt.Sprintf(
		`{"odata.metadata":"http://x/odata/$metadata","value":[{"name":%q,"url":"http://x/odata/%s"}]}`, id, id,
	), string(resp.Body))
}

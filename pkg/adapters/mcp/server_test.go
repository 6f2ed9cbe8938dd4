package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pagedform"
	"github.com/aretw0/pagedform/pkg/adapters/memory"
	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/page"
	"github.com/aretw0/pagedform/pkg/schema"
)

func trip() *pagedform.Blueprint {
	return pagedform.NewBlueprint("trip", []pagedform.PageSpec{
		{Key: "where", New: func() domain.Page {
			return page.New(page.WithField(page.Field{Name: "city", Required: true}))
		}},
		{Key: "when", New: func() domain.Page {
			return page.New(
				page.WithField(page.Field{Name: "date", Required: true}),
				page.WithField(page.Field{Name: "seats", Default: "1"}),
			)
		}},
	})
}

func newServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	s, err := NewServer([]*pagedform.Blueprint{trip()}, "test", opts...)
	require.NoError(t, err)
	return s
}

func encode(t *testing.T, v map[string]any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestServer_DuplicateForms(t *testing.T) {
	_, err := NewServer([]*pagedform.Blueprint{trip(), trip()}, "test")
	assert.Error(t, err)
}

func TestServer_ListForms(t *testing.T) {
	res, err := newServer(t).handleListForms(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.JSONEq(t, `{"forms":["trip"]}`, text.Text)
}

func TestServer_Schema(t *testing.T) {
	s := newServer(t)
	out, err := s.handleSchema(context.Background(), mcp.CallToolRequest{}, map[string]any{"form": "trip"})
	require.NoError(t, err)
	assert.Equal(t, "trip", out.Form)
	require.Len(t, out.Pages, 2)
	assert.Equal(t, "when", out.Pages[1].Key)
	assert.Equal(t, schema.FieldSchema{Type: "string", Required: true}, schema.Describe(out.Pages[1].Fields["date"]))

	_, err = s.handleSchema(context.Background(), mcp.CallToolRequest{}, map[string]any{"form": "nope"})
	assert.Error(t, err)
}

func TestServer_SubmitRoundTrip(t *testing.T) {
	store := memory.NewStore()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := newServer(t, WithStore(store), WithClock(func() time.Time { return created }))
	ctx := context.Background()
	req := mcp.CallToolRequest{}

	first, err := s.handleSubmit(ctx, req, map[string]any{"form": "trip"})
	require.NoError(t, err)
	require.NotNil(t, first.Form)
	assert.Equal(t, "where", first.Form.Page)
	assert.Equal(t, "1", first.Form.HiddenValues()["trip:when:seats"])

	next := map[string]any{"trip:where:city": "Lisbon", domain.SubmitKey: 1}
	for key, v := range first.Form.HiddenValues() {
		next[key] = v
	}
	second, err := s.handleSubmit(ctx, req, map[string]any{"form": "trip", "values": encode(t, next)})
	require.NoError(t, err)
	require.NotNil(t, second.Form)
	assert.Equal(t, "when", second.Form.Page)

	last := map[string]any{"trip:when:date": "2024-06-01", domain.SubmitKey: "1"}
	for key, v := range second.Form.HiddenValues() {
		last[key] = v
	}
	done, err := s.handleSubmit(ctx, req, map[string]any{"form": "trip", "values": last})
	require.NoError(t, err)
	require.True(t, done.Complete)
	assert.Nil(t, done.Form)
	assert.Equal(t, "Lisbon", done.Values["where"]["city"])
	require.NotEmpty(t, done.Submission)

	sub, err := store.Load(ctx, done.Submission)
	require.NoError(t, err)
	assert.Equal(t, created, sub.CreatedAt)
	assert.Equal(t, "2024-06-01", sub.Values["when"]["date"])
	assert.Equal(t, "1", sub.Values["when"]["seats"])
}

func TestServer_SubmitShowsErrors(t *testing.T) {
	out, err := newServer(t).handleSubmit(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"form":   "trip",
		"values": `{"trip:page":"where"}`,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Form)
	assert.Equal(t, "where", out.Form.Page)
	require.Len(t, out.Form.Body.Fields, 1)
	assert.NotEmpty(t, out.Form.Body.Fields[0].Errors)
}

func TestServer_SubmitRejectsBadValues(t *testing.T) {
	s := newServer(t, WithMaxInputSize(4))
	ctx := context.Background()

	for name, values := range map[string]any{
		"not json":  "{",
		"nested":    `{"trip:where:city":{"a":"b"}}`,
		"oversized": `{"trip:where:city":"` + strings.Repeat("a", 5) + `"}`,
		"wrong arg": 42,
	} {
		_, err := s.handleSubmit(ctx, mcp.CallToolRequest{}, map[string]any{"form": "trip", "values": values})
		assert.Error(t, err, name)
	}

	_, err := s.handleSubmit(ctx, mcp.CallToolRequest{}, map[string]any{"form": "nope"})
	assert.Error(t, err)
}

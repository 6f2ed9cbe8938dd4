package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pagedform/internal/runtime"
	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/page"
	"github.com/aretw0/pagedform/pkg/render"
)

func signup(t *testing.T, opts ...runtime.Option) *runtime.Controller {
	t.Helper()
	c := runtime.New(opts...)
	require.NoError(t, c.AddPage("info", page.New(
		page.WithTitle("About you"),
		page.WithField(page.Field{Name: "name", Required: true}),
		page.WithField(page.Field{Name: "topics", Widget: render.WidgetCheckboxes, Options: page.Options("go", "sql")}),
	)))
	require.NoError(t, c.AddPage("confirm", page.New(
		page.WithField(page.Field{Name: "password", Widget: render.WidgetPassword, Required: true}),
	)))
	return c
}

func TestController_Form(t *testing.T) {
	c := signup(t)
	_, err := c.Form()
	require.ErrorIs(t, err, domain.ErrNoSelectedPage, "nothing processed yet")

	require.NoError(t, c.SetValue("confirm", "password", "s3cret"))
	_, err = c.Process(context.Background(), domain.Intent{})
	require.NoError(t, err)

	form, err := c.Form()
	require.NoError(t, err)

	want := []render.HiddenField{
		{Name: "pages:page", Value: "info"},
		{Name: "pages:confirm:password", Value: "s3cret"},
	}
	if diff := cmp.Diff(want, form.Hidden); diff != "" {
		t.Errorf("hidden fields mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "info", form.Page)
	assert.Equal(t, 0, form.Index)
	assert.Equal(t, 2, form.Count)
	assert.False(t, form.Controls.Back)
	assert.False(t, form.Controls.Final)
	assert.Equal(t, "Continue »", form.Controls.SubmitLabel)
	assert.Equal(t, domain.SubmitKey, form.Controls.SubmitName)
	assert.Equal(t, "About you", form.Body.Title)
	assert.False(t, form.Body.HasErrors())
}

func TestController_FormOnLastPage(t *testing.T) {
	c := signup(t, runtime.WithLabels(runtime.Labels{Final: "Create account"}))
	_, err := c.Process(context.Background(), domain.Intent{Page: "confirm"})
	require.NoError(t, err)

	form, err := c.Form()
	require.NoError(t, err)
	assert.True(t, form.Controls.Back)
	assert.True(t, form.Controls.Final)
	assert.Equal(t, "Create account", form.Controls.SubmitLabel)
	assert.Equal(t, "« Back", form.Controls.BackLabel)
}

func TestController_RoundTripThroughHiddenFields(t *testing.T) {
	ctx := context.Background()

	first := signup(t)
	_, err := first.ReadFromRequest(ctx, lists{
		"pages:page":        {"info"},
		"pages:info:name":   {"Ada"},
		"pages:info:topics": {"go", "sql"},
		domain.SubmitKey:    {"1"},
	})
	require.NoError(t, err)
	form, err := first.Form()
	require.NoError(t, err)
	require.Equal(t, "confirm", form.Page)

	second := signup(t)
	req := lists{}
	for _, h := range form.Hidden {
		req[h.Name] = []string{h.Value}
	}
	req["pages:confirm:password"] = []string{"pw"}
	req[domain.SubmitKey] = []string{"1"}

	out, err := second.ReadFromRequest(ctx, req)
	require.NoError(t, err)
	require.True(t, out.Complete)

	for _, key := range []string{"name", "topics"} {
		want, _ := first.Value("info", key, nil)
		got, _ := second.Value("info", key, nil)
		assert.Equal(t, want, got, key)
	}
}

func TestController_InvalidSubmissionShowsErrors(t *testing.T) {
	c := signup(t)
	_, err := c.ReadFromRequest(context.Background(), lists{"pages:page": {"info"}})
	require.NoError(t, err)

	form, err := c.Form()
	require.NoError(t, err)
	assert.Equal(t, "info", form.Page)
	require.True(t, form.Body.HasErrors())
	assert.Equal(t, []string{"required"}, form.Body.Fields[0].Errors)
}

func TestController_LifecycleHooks(t *testing.T) {
	var shown, failed []string
	var completed int
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	hooks := domain.LifecycleHooks{
		OnPageShown: func(_ context.Context, e *domain.PageEvent) {
			shown = append(shown, e.PageKey)
			assert.Equal(t, at, e.Timestamp)
			assert.Equal(t, "signup", e.Form)
		},
		OnValidationFailed: func(_ context.Context, e *domain.PageEvent) {
			failed = append(failed, e.PageKey)
		},
	}
	done := domain.LifecycleHooks{
		OnComplete: func(_ context.Context, e *domain.FormEvent) {
			completed++
			assert.Equal(t, 2, e.Pages)
			assert.Equal(t, "Ada", e.Values["info"]["name"])
			assert.Equal(t, "pw", e.Values["confirm"]["password"])
		},
	}

	c := signup(t,
		runtime.WithName("signup"),
		runtime.WithClock(func() time.Time { return at }),
		runtime.WithLifecycleHooks(hooks),
		runtime.WithLifecycleHooks(done),
	)
	ctx := context.Background()

	_, err := c.Process(ctx, domain.Intent{Page: "info", Next: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"confirm"}, shown)
	assert.Equal(t, []string{"info"}, failed)

	require.NoError(t, c.SetValue("info", "name", "Ada"))
	require.NoError(t, c.SetValue("confirm", "password", "pw"))
	_, err = c.Process(ctx, domain.Intent{Page: "confirm", Next: true})
	require.NoError(t, err)
	assert.Equal(t, 1, completed)
	assert.Len(t, shown, 1)
}

func TestController_ValidationFailedOnlyOnSubmit(t *testing.T) {
	var failed []string
	c := signup(t, runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnValidationFailed: func(_ context.Context, e *domain.PageEvent) {
			failed = append(failed, e.PageKey)
		},
	}))
	ctx := context.Background()

	_, err := c.Process(ctx, domain.Intent{})
	require.NoError(t, err)
	_, err = c.Process(ctx, domain.Intent{Page: "confirm", Back: true})
	require.NoError(t, err)
	assert.Empty(t, failed, "a fresh form and a step back are not submissions")

	out, err := c.Process(ctx, domain.Intent{Page: "info"})
	require.NoError(t, err)
	assert.Equal(t, "info", out.InvalidPage)
	assert.Equal(t, []string{"info"}, failed)

	_, err = c.Process(ctx, domain.Intent{Next: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"info", "info"}, failed)
}

type lists map[string][]string

func (l lists) Str(key string) string {
	if len(l[key]) == 0 {
		return ""
	}
	return l[key][0]
}

func (l lists) Strs(key string) []string { return l[key] }

func TestController_FreshRequestKeepsDefaults(t *testing.T) {
	c := runtime.New(runtime.WithName("signup"))
	require.NoError(t, c.AddPage("info", page.New(
		page.WithField(page.Field{Name: "plan", Widget: render.WidgetSelect, Default: "free", Options: page.Options("free", "pro")}),
	)))
	require.NoError(t, c.AddPage("confirm", page.New(
		page.WithField(page.Field{Name: "tier", Default: "basic"}),
	)))

	_, err := c.ReadFromRequest(context.Background(), request{})
	require.NoError(t, err)

	form, err := c.Form()
	require.NoError(t, err)
	assert.Equal(t, "basic", form.HiddenValues()["signup:confirm:tier"])
	require.Len(t, form.Body.Fields, 1)
	assert.Equal(t, "free", form.Body.Fields[0].Value)
}

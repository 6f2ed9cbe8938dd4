package page_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/page"
	"github.com/aretw0/pagedform/pkg/render"
	"github.com/aretw0/pagedform/pkg/schema"
)

type values map[string][]string

func (v values) Str(key string) string {
	if len(v[key]) == 0 {
		return ""
	}
	return v[key][0]
}

func (v values) Strs(key string) []string { return v[key] }

func (v values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

type single map[string]string

func (s single) Str(key string) string { return s[key] }

func accountPage() *page.Page {
	p := page.New(
		page.WithTitle("Account"),
		page.WithFields(
			page.Field{Name: "email", Type: schema.Email(), Required: true},
			page.Field{Name: "password", Widget: render.WidgetPassword, Required: true},
			page.Field{Name: "confirm", Widget: render.WidgetPassword, Equals: "password"},
			page.Field{Name: "topics", Widget: render.WidgetCheckboxes, Options: page.Options("go", "rust")},
		),
	)
	p.Attach("account", domain.Join("pages", "account"))
	return p
}

func TestPage_ReadFromRequest(t *testing.T) {
	p := accountPage()
	p.ReadFromRequest(values{
		"pages:account:email":    {"a@b.co"},
		"pages:account:password": {"secret"},
		"pages:account:confirm":  {"secret"},
		"pages:account:topics":   {"go", "rust"},
		"email":                  {"ignored@x.y"},
	})

	assert.True(t, p.Submitted())
	assert.Equal(t, "a@b.co", p.Value("email", nil))
	assert.Equal(t, []string{"go", "rust"}, p.Value("topics", nil))
	assert.True(t, p.Valid())
}

func TestPage_ReadFromRequest_SingleValueReader(t *testing.T) {
	p := accountPage()
	p.ReadFromRequest(single{"pages:account:topics": "go"})
	assert.Equal(t, []string{"go"}, p.Value("topics", nil))
}

func TestPage_Validate(t *testing.T) {
	p := accountPage()
	p.ReadFromRequest(values{
		"pages:account:email":    {"not-an-email"},
		"pages:account:password": {"secret"},
		"pages:account:confirm":  {"other"},
		"pages:account:topics":   {"cobol"},
	})

	require.False(t, p.Valid())
	errs := p.Errors()
	assert.Len(t, errs["email"], 1)
	assert.Equal(t, []string{"must match Password"}, errs["confirm"])
	assert.Len(t, errs["topics"], 1)
	assert.NotContains(t, errs, "password")
}

func TestPage_Validate_RequiredBlank(t *testing.T) {
	p := accountPage()
	p.ReadFromRequest(values{})
	errs := p.Errors()
	assert.Equal(t, []string{"required"}, errs["email"])
	assert.Equal(t, []string{"required"}, errs["password"])
	assert.NotContains(t, errs, "topics")
}

func TestPage_Check(t *testing.T) {
	p := page.New(
		page.WithField(page.Field{Name: "start", Type: schema.Int()}),
		page.WithField(page.Field{Name: "end", Type: schema.Int()}),
		page.WithCheck(func(v map[string]any) error {
			start, _ := schema.ToInt(v["start"])
			end, _ := schema.ToInt(v["end"])
			if end < start {
				return &schema.ValidationError{Key: "end", Reason: "must not precede start"}
			}
			return nil
		}),
		page.WithCheck(func(map[string]any) error { return errors.New("always") }),
	)
	p.SetValue("start", "10")
	p.SetValue("end", "3")

	errs := p.Errors()
	assert.Equal(t, []string{"must not precede start"}, errs["end"])
	assert.Equal(t, []string{"always"}, errs[""])
}

func TestPage_SerializedValuesRoundTrip(t *testing.T) {
	src := accountPage()
	src.SetValue("email", "a@b.co")
	src.SetValue("password", "p:w")
	src.SetValue("confirm", "p:w")
	src.SetValue("topics", []string{"go"})

	hidden := src.SerializedValues()
	assert.Equal(t, "a@b.co", hidden["pages:account:email"])
	assert.Equal(t, `["go"]`, hidden["pages:account:topics"])
	assert.Equal(t, "p:w", hidden["pages:account:confirm"])

	dst := accountPage()
	dst.ReadSerializedValues(single(hidden))
	assert.Equal(t, src.Values(), dst.Values())
	assert.False(t, dst.Submitted())
}

func TestPage_DefaultsAndValue(t *testing.T) {
	p := page.New(page.WithField(page.Field{Name: "plan", Default: "free", Options: page.Options("free", "pro")}))
	assert.Equal(t, "free", p.Value("plan", nil))
	assert.Equal(t, "fallback", p.Value("missing", "fallback"))

	p.SetValue("extra", 3)
	assert.Equal(t, 3, p.Value("extra", nil))
}

func TestPage_SerializedKeepsMissingDefaults(t *testing.T) {
	p := page.New(page.WithFields(
		page.Field{Name: "plan", Default: "free", Options: page.Options("free", "pro")},
		page.Field{Name: "tier", Default: "basic"},
		page.Field{Name: "note", Default: "hello"},
	))
	p.Attach("info", domain.Join("signup", "info"))

	p.ReadSerializedValues(values{"signup:info:note": {""}})
	assert.Equal(t, "free", p.Value("plan", nil))
	assert.Equal(t, "basic", p.Value("tier", nil))
	assert.Equal(t, "", p.Value("note", nil), "a value submitted empty replaces the default")
	assert.Equal(t, "free", p.SerializedValues()["signup:info:plan"])
}

func TestPage_LiveReadOfMissingKeys(t *testing.T) {
	p := page.New(page.WithFields(
		page.Field{Name: "seats", Default: "1"},
		page.Field{Name: "agree", Widget: render.WidgetCheckbox, Default: "on"},
		page.Field{Name: "topics", Widget: render.WidgetCheckboxes, Default: []string{"go"}, Options: page.Options("go", "sql")},
	))
	p.Attach("trip", domain.Join("pages", "trip"))

	p.ReadFromRequest(values{})
	assert.Equal(t, "1", p.Value("seats", nil), "an omitted field keeps its default")
	assert.Equal(t, "", p.Value("agree", nil), "an omitted checkbox was unchecked")
	assert.Equal(t, []string{}, p.Value("topics", nil))
}

func TestPage_Render(t *testing.T) {
	p := accountPage()
	frag, err := p.Render()
	require.NoError(t, err)
	assert.Equal(t, "Account", frag.Title)
	require.Len(t, frag.Fields, 4)
	assert.Equal(t, "pages:account:email", frag.Fields[0].Name)
	assert.Equal(t, "Email", frag.Fields[0].Label)
	assert.Empty(t, frag.Fields[0].Errors, "unsubmitted pages render clean")
	assert.Equal(t, render.WidgetCheckboxes, frag.Fields[3].Widget)

	p.ReadFromRequest(values{"pages:account:topics": {"rust"}})
	frag, err = p.Render()
	require.NoError(t, err)
	assert.Equal(t, []string{"required"}, frag.Fields[0].Errors)
	assert.False(t, frag.Fields[3].Options[0].Selected)
	assert.True(t, frag.Fields[3].Options[1].Selected)
}

type profile struct {
	Name       string `mapstructure:"name"`
	Age        int    `mapstructure:"age"`
	Newsletter bool
	Country    string `mapstructure:"country"`
}

func profilePage() *page.Page {
	p := page.New(
		page.WithObject(profile{}),
		page.WithFields(
			page.Field{Name: "name", Required: true},
			page.Field{Name: "age", Type: schema.Int()},
			page.Field{Name: "newsletter", Widget: render.WidgetCheckbox, Type: schema.Bool()},
		),
	)
	p.Attach("profile", "profile")
	return p
}

func TestPage_ReadFromObject(t *testing.T) {
	p := profilePage()
	require.NoError(t, p.ReadFromObject(&profile{Name: "Ada", Age: 36, Newsletter: true}))
	assert.Equal(t, "Ada", p.Value("name", nil))
	assert.Equal(t, 36, p.Value("age", nil))
	assert.Equal(t, true, p.Value("newsletter", nil))
	assert.Equal(t, "36", p.SerializedValues()["profile:age"])
}

func TestPage_WriteToResponse(t *testing.T) {
	p := profilePage()
	p.ReadFromRequest(single{"profile:name": "Ada", "profile:age": "36", "profile:newsletter": "on"})

	out := &profile{Country: "UK"}
	got, err := p.WriteToResponse(out)
	require.NoError(t, err)
	assert.Same(t, out, got)
	assert.Equal(t, profile{Name: "Ada", Age: 36, Newsletter: true, Country: "UK"}, *out)
}

func TestPage_TypeMismatch(t *testing.T) {
	p := profilePage()

	var mismatch *domain.TypeMismatchError
	err := p.ReadFromObject(struct{ Name string }{"x"})
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "profile", mismatch.Page)
	assert.Equal(t, "page_test.profile", mismatch.Expected)

	_, err = p.WriteToResponse(profile{})
	assert.ErrorIs(t, err, domain.ErrTypeMismatch, "responses must be pointers")

	_, err = p.WriteToResponse((*profile)(nil))
	assert.ErrorIs(t, err, domain.ErrTypeMismatch)

	assert.ErrorIs(t, p.ReadFromObject(nil), domain.ErrTypeMismatch)
}

func TestPage_MapBinding(t *testing.T) {
	p := page.New(page.WithField(page.Field{Name: "city"}))

	require.NoError(t, p.ReadFromObject(map[string]any{"City": "Lisbon"}))
	assert.Equal(t, "Lisbon", p.Value("city", nil))

	got, err := p.WriteToResponse(map[string]any{"other": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"other": 1, "city": "Lisbon"}, got)

	assert.ErrorIs(t, p.ReadFromObject(42), domain.ErrTypeMismatch)
}

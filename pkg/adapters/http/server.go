// Package http serves paged forms over HTTP.
//
// HTML clients post ordinary form submissions to /forms/{name}; API clients
// post a flat JSON object of request keys to /api/forms/{name} and may read
// the field types of every page from /api/forms/{name}/schema. Either way the
// server builds a fresh controller per request, so no state lives between
// round trips other than what the client sends back.
package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cast"

	"github.com/aretw0/pagedform"
	"github.com/aretw0/pagedform/internal/logging"
	"github.com/aretw0/pagedform/pkg/domain"
	"github.com/aretw0/pagedform/pkg/observability"
	"github.com/aretw0/pagedform/pkg/ports"
	"github.com/aretw0/pagedform/pkg/render"
	"github.com/aretw0/pagedform/pkg/render/html"
	"github.com/aretw0/pagedform/pkg/runner"
	"github.com/aretw0/pagedform/pkg/seal"
)

// SealedField is the request key carrying sealed hidden state.
const SealedField = "__state__"

// ErrMissingState rejects a request for a later page that lost its sealed state.
var ErrMissingState = errors.New("sealed state missing")

// DefaultCompleteMessage is shown once a form has been completed.
const DefaultCompleteMessage = "Thank you, your answers have been saved."

const (
	transportHTML = "html"
	transportJSON = "json"
)

// Option configures a Server.
type Option func(*Server)

// WithStore persists completed forms.
func WithStore(store ports.SubmissionStore) Option {
	return func(s *Server) { s.store = store }
}

// WithSealer seals the hidden state of every rendered form. Requests whose
// state fails to open are rejected with 400.
func WithSealer(sealer *seal.Sealer) Option {
	return func(s *Server) { s.sealer = sealer }
}

// WithRenderer replaces the default HTML renderer.
func WithRenderer(r *html.Renderer) Option {
	return func(s *Server) { s.renderer = r }
}

// WithMetrics records lifecycle events and request durations.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithGatherer exposes the registry on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithCompleteMessage overrides the confirmation text.
func WithCompleteMessage(msg string) Option {
	return func(s *Server) { s.message = msg }
}

// WithClock sets the clock used to timestamp submissions.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithMaxInputSize caps each submitted value at n bytes instead of
// runner.MaxInputSize. Request bodies are bounded accordingly.
func WithMaxInputSize(n int) Option {
	return func(s *Server) { s.maxInput = n }
}

// Server routes requests to the registered blueprints.
type Server struct {
	forms    map[string]*pagedform.Blueprint
	store    ports.SubmissionStore
	sealer   *seal.Sealer
	renderer *html.Renderer
	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	message  string
	now      func() time.Time
	maxInput int
}

// NewServer registers blueprints by name. Names must be unique.
func NewServer(forms []*pagedform.Blueprint, opts ...Option) (*Server, error) {
	s := &Server{
		forms:   make(map[string]*pagedform.Blueprint, len(forms)),
		logger:  logging.NewNop(),
		message: DefaultCompleteMessage,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	for _, bp := range forms {
		if _, exists := s.forms[bp.Name()]; exists {
			return nil, fmt.Errorf("http: form %q registered twice", bp.Name())
		}
		s.forms[bp.Name()] = bp
	}
	if s.renderer == nil {
		r, err := html.New()
		if err != nil {
			return nil, err
		}
		s.renderer = r
	}
	return s, nil
}

// NewHandler is a shorthand for NewServer followed by Handler.
func NewHandler(forms []*pagedform.Blueprint, opts ...Option) (http.Handler, error) {
	s, err := NewServer(forms, opts...)
	if err != nil {
		return nil, err
	}
	return s.Handler(), nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.health)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/forms/{name}", s.htmlForm)
	r.Post("/forms/{name}", s.htmlForm)

	r.Route("/api", func(r chi.Router) {
		r.Get("/forms", s.listForms)
		r.Post("/forms/{name}", s.jsonForm)
		r.Get("/forms/{name}/schema", s.formSchema)
		r.Get("/submissions/{id}", s.getSubmission)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listForms(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.forms))
	for name := range s.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	writeJSON(w, http.StatusOK, map[string][]string{"forms": names})
}

// FormSchema is the answer of GET /api/forms/{name}/schema.
type FormSchema struct {
	Form  string                 `json:"form"`
	Pages []pagedform.PageSchema `json:"pages"`
}

func (s *Server) formSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	bp, ok := s.forms[name]
	if !ok {
		http.Error(w, fmt.Sprintf("form %q not found", name), http.StatusNotFound)
		return
	}
	pages, err := bp.Schema()
	if err != nil {
		s.logger.Error("describe form failed", "form", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, FormSchema{Form: name, Pages: pages})
}

// result of one round trip through a controller.
type result struct {
	form       *render.Form
	submission *domain.Submission
	complete   bool
}

func (s *Server) htmlForm(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := chi.URLParam(r, "name")

	values := url.Values{}
	if r.Method == http.MethodPost {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBodySize())
		if err := r.ParseForm(); err != nil {
			s.fail(w, r, name, transportHTML, start, http.StatusBadRequest, fmt.Errorf("parse form: %w", err))
			return
		}
		values = r.PostForm
	}

	res, status, err := s.serve(r, name, values)
	if err != nil {
		s.fail(w, r, name, transportHTML, start, status, err)
		return
	}

	var body bytes.Buffer
	title := name
	if res.complete {
		id := ""
		if res.submission != nil && s.store != nil {
			id = res.submission.ID
		}
		err = s.renderer.Complete(&body, name, s.message, id)
	} else {
		if res.form.Body.Title != "" {
			title = res.form.Body.Title
		}
		err = s.renderer.Form(&body, res.form, html.Page{Action: r.URL.Path})
	}
	if err != nil {
		s.fail(w, r, name, transportHTML, start, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Document(w, title, body.String()); err != nil {
		s.logger.Error("render document failed", "form", name, "error", err)
	}
	s.observe(name, transportHTML, res, start)
}

// Response is the JSON answer of POST /api/forms/{name}.
type Response struct {
	Complete   bool                      `json:"complete"`
	Form       *render.Form              `json:"form,omitempty"`
	Submission string                    `json:"submission,omitempty"`
	Values     map[string]map[string]any `json:"values,omitempty"`
}

func (s *Server) jsonForm(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := chi.URLParam(r, "name")

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodySize())
	values, err := decodeValues(r)
	if err != nil {
		s.fail(w, r, name, transportJSON, start, http.StatusBadRequest, err)
		return
	}

	res, status, err := s.serve(r, name, values)
	if err != nil {
		s.fail(w, r, name, transportJSON, start, status, err)
		return
	}

	resp := Response{Complete: res.complete, Form: res.form}
	if res.submission != nil {
		resp.Values = res.submission.Values
		if s.store != nil {
			resp.Submission = res.submission.ID
		}
	}
	writeJSON(w, http.StatusOK, resp)
	s.observe(name, transportJSON, res, start)
}

func (s *Server) getSubmission(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "submissions are not stored", http.StatusNotFound)
		return
	}
	id := chi.URLParam(r, "id")
	sub, err := s.store.Load(r.Context(), id)
	if errors.Is(err, domain.ErrSubmissionNotFound) {
		http.Error(w, "submission not found", http.StatusNotFound)
		s.logger.Warn("submission not found", "id", id)
		return
	}
	if err != nil {
		http.Error(w, "load submission failed", http.StatusInternalServerError)
		s.logger.Error("load submission failed", "id", id, "error", err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// serve runs one request cycle. The returned status is meaningful only with an error.
func (s *Server) serve(r *http.Request, name string, values url.Values) (*result, int, error) {
	bp, ok := s.forms[name]
	if !ok {
		return nil, http.StatusNotFound, fmt.Errorf("form %q not found", name)
	}
	ctrl, err := bp.Controller(s.controllerOptions()...)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if err := s.unseal(ctrl, values); err != nil {
		return nil, http.StatusBadRequest, err
	}
	if _, err := ctrl.ReadFromRequest(r.Context(), NewValuesReader(values, s.maxInput)); err != nil {
		return nil, http.StatusInternalServerError, err
	}

	if ctrl.IsComplete() {
		sub := &domain.Submission{
			ID:        uuid.NewString(),
			Form:      name,
			Values:    ctrl.Values(),
			CreatedAt: s.now().UTC(),
		}
		if s.store != nil {
			if err := s.store.Save(r.Context(), sub); err != nil {
				return nil, http.StatusInternalServerError, fmt.Errorf("save submission: %w", err)
			}
		}
		return &result{complete: true, submission: sub}, 0, nil
	}

	form, err := ctrl.Form()
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if err := s.sealForm(ctrl, form); err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &result{form: form}, 0, nil
}

func (s *Server) controllerOptions() []pagedform.Option {
	hooks := observability.LoggingHooks(s.logger)
	if s.metrics != nil {
		hooks = hooks.Merge(s.metrics.Hooks())
	}
	return []pagedform.Option{
		pagedform.WithLogger(s.logger),
		pagedform.WithLifecycleHooks(hooks),
	}
}

// unseal replaces the sealed state with the fields it carries. Only the page
// marker and the live fields of the active page may travel in clear text;
// any other key under the form namespace is dropped. A request that names a
// later page must carry sealed state.
func (s *Server) unseal(ctrl *pagedform.Controller, values url.Values) error {
	if s.sealer == nil {
		return nil
	}
	sealed := values.Get(SealedField)
	values.Del(SealedField)

	form := ctrl.RequestKey()
	marker := form.Key(domain.PageField)
	active := values.Get(marker)
	live := ctrl.RequestKey(active)
	for key := range values {
		if key == marker {
			continue
		}
		if _, ok := form.Field(key); !ok {
			continue
		}
		if _, ok := live.Field(key); ok && active != "" {
			continue
		}
		delete(values, key)
	}

	if sealed == "" {
		if i, err := ctrl.PageIndex(active); err == nil && i > 0 {
			return fmt.Errorf("open hidden state: %w", ErrMissingState)
		}
		return nil
	}
	fields, err := s.sealer.OpenHidden(sealed)
	if err != nil {
		return fmt.Errorf("open hidden state: %w", err)
	}
	for _, f := range fields {
		if _, ok := live.Field(f.Name); ok && active != "" {
			continue
		}
		values.Set(f.Name, f.Value)
	}
	return nil
}

func (s *Server) sealForm(ctrl *pagedform.Controller, form *render.Form) error {
	if s.sealer == nil {
		return nil
	}
	hidden, err := s.sealer.SealHidden(SealedField, form.Hidden, ctrl.RequestKey(domain.PageField).String())
	if err != nil {
		return err
	}
	form.Hidden = hidden
	return nil
}

func (s *Server) observe(name, transport string, res *result, start time.Time) {
	if s.metrics == nil {
		return
	}
	outcome := "page"
	if res.complete {
		outcome = "complete"
	}
	s.metrics.ObserveRequest(name, transport, outcome, time.Since(start))
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, name, transport string, start time.Time, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "form", name, "path", r.URL.Path, "status", status, "error", err)
		http.Error(w, http.StatusText(status), status)
	} else {
		s.logger.Warn("request rejected", "form", name, "path", r.URL.Path, "status", status, "error", err)
		http.Error(w, err.Error(), status)
	}
	if s.metrics != nil {
		s.metrics.ObserveRequest(name, transport, "error", time.Since(start))
	}
}

// decodeValues reads a flat JSON object of request keys. Values may be
// scalars or lists of scalars.
func decodeValues(r *http.Request) (url.Values, error) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	values := make(url.Values, len(raw))
	for key, v := range raw {
		switch tv := v.(type) {
		case nil:
			continue
		case []any:
			list, err := cast.ToStringSliceE(tv)
			if err != nil {
				return nil, fmt.Errorf("invalid value for %q: %w", key, err)
			}
			values[key] = list
		case map[string]any:
			return nil, fmt.Errorf("invalid value for %q: nested objects are not supported", key)
		default:
			s, err := cast.ToStringE(tv)
			if err != nil {
				return nil, fmt.Errorf("invalid value for %q: %w", key, err)
			}
			values.Set(key, s)
		}
	}
	return values, nil
}

// maxBodySize bounds a request body. Every field is capped by the sanitiser,
// so the body gets room for a generous number of them.
func (s *Server) maxBodySize() int64 {
	limit := s.maxInput
	if limit <= 0 {
		limit = runner.MaxInputSize()
	}
	return int64(limit) * 64
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

package testsupport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-docforge/pkg/fielddef"
)

// GenerateRequest is a recorded call to the document generation endpoint.
type GenerateRequest struct {
	TemplateKey string         `json:"templateKey"`
	Data        map[string]any `json:"data"`
	Raw         string         `json:"-"`
}

// Backend is a fake document backend serving published schemas and
// generating placeholder documents.
type Backend struct {
	Server *httptest.Server

	mu        sync.Mutex
	schemas   map[string]backendSchema
	generated []GenerateRequest
	// GenerateStatus, when set, makes the generate endpoint fail with that
	// status and GenerateBody as the body.
	GenerateStatus int
	GenerateBody   string

	templates []*TemplateFixture
	catalog   []CatalogEntry
	drafts    map[string]draftFixture
	calls     []string
}

type backendSchema struct {
	Version int
	Fields  []fielddef.FieldDef
}

// NewBackend starts a fake backend closed with the test.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{
		schemas: make(map[string]backendSchema),
		drafts:  make(map[string]draftFixture),
	}

	r := chi.NewRouter()
	r.Get("/api/templates", b.listCatalog)
	r.Get("/api/templates/{key}/field-defs", b.fieldDefs)
	r.Post("/api/documents/generate", b.generate)
	b.adminRoutes(r)
	b.draftRoutes(r)
	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the backend base URL.
func (b *Backend) URL() string {
	return b.Server.URL
}

// Publish makes fields the published schema of key.
func (b *Backend) Publish(key string, version int, fields []fielddef.FieldDef) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.schemas[key] = backendSchema{Version: version, Fields: fielddef.Clone(fields)}
}

// Generated returns the recorded generate calls.
func (b *Backend) Generated() []GenerateRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]GenerateRequest(nil), b.generated...)
}

func (b *Backend) fieldDefs(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	b.mu.Lock()
	schema, ok := b.schemas[key]
	b.mu.Unlock()
	if !ok {
		http.Error(w, "template not published", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{
		"templateKey": key,
		"version":     schema.Version,
		"fieldDefs":   fielddef.Document{Fields: schema.Fields},
	})
}

func (b *Backend) generate(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	req := GenerateRequest{Raw: string(raw)}
	if err := json.Unmarshal(raw, &req); err != nil {
		http.Error(w, "malformed body", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	b.generated = append(b.generated, req)
	status, body := b.GenerateStatus, b.GenerateBody
	b.mu.Unlock()

	if status != 0 {
		http.Error(w, body, status)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	w.Header().Set("Content-Disposition", `attachment; filename="`+req.TemplateKey+`-filled.docx"`)
	_, _ = io.WriteString(w, "DOCX:"+req.TemplateKey)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

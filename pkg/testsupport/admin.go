package testsupport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-docforge/pkg/fielddef"
)

// TemplateFixture seeds the admin template list.
type TemplateFixture struct {
	ID       int64
	Key      string
	Title    string
	Locale   string
	Archived bool
	Versions []VersionFixture
}

// VersionFixture is one version of a seeded template. Status defaults to
// DRAFT.
type VersionFixture struct {
	ID      int64
	Version int
	Status  string
	Fields  []fielddef.FieldDef
}

// CatalogEntry is one public catalog item.
type CatalogEntry struct {
	TemplateID    int64  `json:"templateId"`
	TemplateKey   string `json:"templateKey"`
	Title         string `json:"title"`
	Locale        string `json:"locale"`
	LatestVersion int    `json:"latestVersion,omitempty"`
	Status        string `json:"status,omitempty"`
}

type draftFixture struct {
	Title      string
	ResultJSON string
	Answers    map[string]any
	Industry   string
	Country    string
}

// AddTemplate seeds an admin template with its versions.
func (b *Backend) AddTemplate(t TemplateFixture) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t.Versions = append([]VersionFixture(nil), t.Versions...)
	for i := range t.Versions {
		if t.Versions[i].Status == "" {
			t.Versions[i].Status = "DRAFT"
		}
		t.Versions[i].Fields = fielddef.Clone(t.Versions[i].Fields)
	}
	b.templates = append(b.templates, &t)
}

// SetCatalog replaces the public catalog.
func (b *Backend) SetCatalog(entries ...CatalogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalog = append([]CatalogEntry(nil), entries...)
}

// Fields returns the stored fields of a seeded version.
func (b *Backend) Fields(templateID int64, version int) []fielddef.FieldDef {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v := b.version(templateID, version); v != nil {
		return fielddef.Clone(v.Fields)
	}
	return nil
}

// VersionStatus returns the status of a seeded version.
func (b *Backend) VersionStatus(templateID int64, version int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v := b.version(templateID, version); v != nil {
		return v.Status
	}
	return ""
}

// Calls lists the mutating admin and payment requests as "METHOD path".
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *Backend) adminRoutes(r chi.Router) {
	r.Route("/api/admin/templates", func(r chi.Router) {
		r.Get("/", b.listTemplates)
		r.Post("/versions/{versionId}/{action}", b.versionByIDAction)
		r.Post("/{id}/{action}", b.templateAction)
		r.Get("/{id}/versions", b.listVersions)
		r.Get("/{id}/versions/{version}", b.versionFields)
		r.Put("/{id}/versions/{version}/fields", b.saveFields)
		r.Post("/{id}/versions/{version}/{action}", b.versionAction)
	})
}

func (b *Backend) listTemplates(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rows := make([]map[string]any, 0, len(b.templates))
	for _, t := range b.templates {
		row := map[string]any{
			"id":          t.ID,
			"templateKey": t.Key,
			"title":       t.Title,
			"locale":      t.Locale,
			"archived":    t.Archived,
		}
		latest, published := 0, 0
		for _, v := range t.Versions {
			latest = max(latest, v.Version)
			if v.Status == "PUBLISHED" {
				published = max(published, v.Version)
			}
		}
		if latest > 0 {
			row["latestVersion"] = latest
		}
		if published > 0 {
			row["publishedVersion"] = published
		}
		rows = append(rows, row)
	}
	writeJSON(w, rows)
}

func (b *Backend) listVersions(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.template(r)
	if t == nil {
		http.Error(w, "template not found", http.StatusNotFound)
		return
	}
	rows := make([]map[string]any, 0, len(t.Versions))
	for _, v := range t.Versions {
		rows = append(rows, map[string]any{"id": v.ID, "version": v.Version, "status": v.Status})
	}
	writeJSON(w, rows)
}

func (b *Backend) versionFields(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := b.requestVersion(r)
	if v == nil {
		http.Error(w, "version not found", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{"fieldDefs": fielddef.Document{Fields: v.Fields}})
}

func (b *Backend) saveFields(w http.ResponseWriter, r *http.Request) {
	var doc fielddef.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, "malformed body", http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	v := b.requestVersion(r)
	if v == nil {
		http.Error(w, "version not found", http.StatusNotFound)
		return
	}
	b.record(r)
	v.Fields = doc.Fields
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) versionAction(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := b.requestVersion(r)
	if v == nil {
		http.Error(w, "version not found", http.StatusNotFound)
		return
	}
	b.applyVersionAction(w, r, v)
}

func (b *Backend) versionByIDAction(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "versionId"), 10, 64)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range b.templates {
		for i := range t.Versions {
			if t.Versions[i].ID == id {
				b.applyVersionAction(w, r, &t.Versions[i])
				return
			}
		}
	}
	http.Error(w, "version not found", http.StatusNotFound)
}

func (b *Backend) applyVersionAction(w http.ResponseWriter, r *http.Request, v *VersionFixture) {
	switch chi.URLParam(r, "action") {
	case "publish":
		v.Status = "PUBLISHED"
	case "archive":
		v.Status = "ARCHIVED"
	case "unarchive":
		v.Status = "DRAFT"
	default:
		http.NotFound(w, r)
		return
	}
	b.record(r)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) templateAction(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.template(r)
	if t == nil {
		http.Error(w, "template not found", http.StatusNotFound)
		return
	}
	switch chi.URLParam(r, "action") {
	case "archive":
		t.Archived = true
	case "unarchive":
		t.Archived = false
	default:
		http.NotFound(w, r)
		return
	}
	b.record(r)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) listCatalog(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	entries := b.catalog
	if entries == nil {
		entries = []CatalogEntry{}
	}
	writeJSON(w, entries)
}

func (b *Backend) draftRoutes(r chi.Router) {
	r.Post("/api/business-plan/draft", b.createDraft)
	r.Get("/api/projects/{id}", b.project)
	r.Post("/api/payments/checkout", b.checkout)
	r.Get("/api/payments/verify", b.verify)
}

// Draft returns the answers a draft was created with.
func (b *Backend) Draft(id string) (map[string]any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.drafts[id]
	return d.Answers, ok
}

func (b *Backend) createDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Industry string         `json:"industry"`
		Country  string         `json:"country"`
		Answers  map[string]any `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed body", http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(r)
	id := fmt.Sprintf("draft-%d", len(b.drafts)+1)
	result, _ := json.Marshal(map[string]string{
		"summary":     "Plan for " + req.Industry,
		"previewText": "Market: " + req.Country,
	})
	b.drafts[id] = draftFixture{
		Title:      "Business plan: " + req.Industry,
		ResultJSON: string(result),
		Answers:    req.Answers,
		Industry:   req.Industry,
		Country:    req.Country,
	}
	writeJSON(w, map[string]string{"draftId": id})
}

func (b *Backend) project(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	d, ok := b.drafts[id]
	b.mu.Unlock()
	if !ok {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]string{
		"id":         id,
		"title":      d.Title,
		"resultJson": d.ResultJSON,
		"previewUrl": "/api/projects/" + id + "/preview.pdf",
	})
}

func (b *Backend) checkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DraftID string `json:"draftId"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.drafts[req.DraftID]; !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"draft not found"}`))
		return
	}
	b.record(r)
	writeJSON(w, map[string]string{"checkoutUrl": "https://pay.example.com/session/" + req.DraftID})
}

func (b *Backend) verify(w http.ResponseWriter, r *http.Request) {
	session := r.URL.Query().Get("sessionId")
	draftID := strings.TrimPrefix(session, "cs_")
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.drafts[draftID]
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":"payment not completed"}`))
		return
	}
	writeJSON(w, map[string]string{
		"draftId":     draftID,
		"title":       d.Title,
		"downloadUrl": "/api/projects/" + draftID + "/download",
	})
}

func (b *Backend) record(r *http.Request) {
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)
}

func (b *Backend) template(r *http.Request) *TemplateFixture {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return nil
	}
	for _, t := range b.templates {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (b *Backend) requestVersion(r *http.Request) *VersionFixture {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return nil
	}
	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil {
		return nil
	}
	return b.version(id, version)
}

func (b *Backend) version(templateID int64, version int) *VersionFixture {
	for _, t := range b.templates {
		if t.ID != templateID {
			continue
		}
		for i := range t.Versions {
			if t.Versions[i].Version == version {
				return &t.Versions[i]
			}
		}
	}
	return nil
}

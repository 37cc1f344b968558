package editor

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-docforge/pkg/client"
)

// TemplateBackend is the slice of the REST API used by the template list.
type TemplateBackend interface {
	ListTemplates(ctx context.Context) ([]client.TemplateRow, error)
	ArchiveTemplate(ctx context.Context, templateID int64) error
	UnarchiveTemplate(ctx context.Context, templateID int64) error
	ListVersions(ctx context.Context, templateID int64) ([]client.VersionRow, error)
	ArchiveVersionByID(ctx context.Context, versionID int64) error
	UnarchiveVersionByID(ctx context.Context, versionID int64) error
}

// Templates is the admin overview of all templates with lazily loaded
// version lists.
type Templates struct {
	backend TemplateBackend
	confirm Confirmer
	logger  *zap.SugaredLogger
	flights inflight

	mu       sync.Mutex
	items    []client.TemplateRow
	versions map[int64][]client.VersionRow
	note     string
}

// NewTemplates builds the overview.
func NewTemplates(backend TemplateBackend, opts ...Option) *Templates {
	cfg := buildOptions(opts)
	return &Templates{
		backend:  backend,
		confirm:  cfg.confirm,
		logger:   cfg.logger,
		versions: make(map[int64][]client.VersionRow),
	}
}

// Items returns the last fetched template list.
func (t *Templates) Items() []client.TemplateRow {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]client.TemplateRow(nil), t.items...)
}

// Note returns the latest operator-facing status message.
func (t *Templates) Note() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.note
}

// Load fetches the template list.
func (t *Templates) Load(ctx context.Context) error {
	if err := t.flights.begin(ActionLoad); err != nil {
		return err
	}
	defer t.flights.end(ActionLoad)

	t.setNote("")
	return t.reload(ctx)
}

// Archive archives a template after confirmation.
func (t *Templates) Archive(ctx context.Context, templateID int64) (bool, error) {
	return t.toggle(ctx, ActionArchive, "Move this template to the archive?", "Template archived", "Archiving failed",
		func(ctx context.Context) error { return t.backend.ArchiveTemplate(ctx, templateID) },
		t.reload)
}

// Unarchive restores a template after confirmation.
func (t *Templates) Unarchive(ctx context.Context, templateID int64) (bool, error) {
	return t.toggle(ctx, ActionUnarchive, "Restore this template from the archive?", "Template restored from archive", "Restoring failed",
		func(ctx context.Context) error { return t.backend.UnarchiveTemplate(ctx, templateID) },
		t.reload)
}

// Versions returns the versions of a template, fetching them on first use
// or when refresh is set.
func (t *Templates) Versions(ctx context.Context, templateID int64, refresh bool) ([]client.VersionRow, error) {
	t.mu.Lock()
	cached, ok := t.versions[templateID]
	t.mu.Unlock()
	if ok && len(cached) > 0 && !refresh {
		return append([]client.VersionRow(nil), cached...), nil
	}
	if err := t.reloadVersions(ctx, templateID); err != nil {
		t.setNote("Loading versions failed: " + err.Error())
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]client.VersionRow(nil), t.versions[templateID]...), nil
}

// ArchiveVersion archives a version by row id after confirmation.
func (t *Templates) ArchiveVersion(ctx context.Context, templateID, versionID int64) (bool, error) {
	return t.toggle(ctx, ActionArchive, "Archive this version?", "Version archived", "Archiving version failed",
		func(ctx context.Context) error { return t.backend.ArchiveVersionByID(ctx, versionID) },
		func(ctx context.Context) error { return t.reloadVersions(ctx, templateID) })
}

// UnarchiveVersion restores a version by row id after confirmation.
func (t *Templates) UnarchiveVersion(ctx context.Context, templateID, versionID int64) (bool, error) {
	return t.toggle(ctx, ActionUnarchive, "Restore this version from the archive?", "Version restored from archive", "Restoring version failed",
		func(ctx context.Context) error { return t.backend.UnarchiveVersionByID(ctx, versionID) },
		func(ctx context.Context) error { return t.reloadVersions(ctx, templateID) })
}

func (t *Templates) toggle(ctx context.Context, action Action, prompt, done, failed string, call, after func(context.Context) error) (bool, error) {
	ok, err := t.confirm.Confirm(ctx, prompt)
	if err != nil || !ok {
		return false, err
	}
	if err := t.flights.begin(action); err != nil {
		return false, err
	}
	defer t.flights.end(action)

	t.setNote("")
	if err := call(ctx); err != nil {
		t.setNote(failed + ": " + err.Error())
		return false, err
	}
	t.setNote(done)
	if err := after(ctx); err != nil {
		t.logger.Warnw("refresh after "+string(action)+" failed", "error", err)
	}
	return true, nil
}

func (t *Templates) reload(ctx context.Context) error {
	items, err := t.backend.ListTemplates(ctx)
	if err != nil {
		t.setNote("Loading templates failed: " + err.Error())
		return err
	}
	t.mu.Lock()
	t.items = items
	t.mu.Unlock()
	return nil
}

func (t *Templates) reloadVersions(ctx context.Context, templateID int64) error {
	versions, err := t.backend.ListVersions(ctx, templateID)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.versions[templateID] = versions
	t.mu.Unlock()
	return nil
}

func (t *Templates) setNote(note string) {
	t.mu.Lock()
	t.note = note
	t.mu.Unlock()
}

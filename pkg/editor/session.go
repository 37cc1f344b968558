package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-docforge/pkg/client"
	"github.com/goliatone/go-docforge/pkg/fielddef"
)

var (
	// ErrNoVersion is returned when an action needs an open version.
	ErrNoVersion = errors.New("editor: no version open")
	// ErrUnknownVersion is returned when a version is not in the list.
	ErrUnknownVersion = errors.New("editor: unknown version")
	// ErrVersionArchived is returned when mutating an archived version.
	ErrVersionArchived = errors.New("editor: version is archived")
	// ErrInvalidFields is returned when saving or publishing with field
	// validation errors.
	ErrInvalidFields = errors.New("editor: field set has validation errors")
)

// Backend is the slice of the REST API the session drives.
type Backend interface {
	ListVersions(ctx context.Context, templateID int64) ([]client.VersionRow, error)
	VersionFields(ctx context.Context, templateID int64, version int) ([]fielddef.FieldDef, error)
	SaveFields(ctx context.Context, templateID int64, version int, fields []fielddef.FieldDef) error
	PublishVersion(ctx context.Context, templateID int64, version int) error
	ArchiveVersion(ctx context.Context, templateID int64, version int) error
	UnarchiveVersion(ctx context.Context, templateID int64, version int) error
}

// Session edits the versions of one template. In-memory state only changes
// after the backend accepted a call; failures leave it untouched and set a
// short note for the operator.
type Session struct {
	backend    Backend
	confirm    Confirmer
	logger     *zap.SugaredLogger
	templateID int64
	flights    inflight

	mu       sync.Mutex
	versions []client.VersionRow
	selected *client.VersionRow
	editor   *Editor
	note     string
}

// NewSession returns a session for templateID. Without a Confirmer every
// archive toggle is declined.
func NewSession(backend Backend, templateID int64, opts ...Option) *Session {
	cfg := buildOptions(opts)
	return &Session{
		backend:    backend,
		templateID: templateID,
		logger:     cfg.logger,
		confirm:    cfg.confirm,
		editor:     New(nil),
	}
}

// TemplateID reports the template being edited.
func (s *Session) TemplateID() int64 {
	return s.templateID
}

// Versions returns the last fetched version list.
func (s *Session) Versions() []client.VersionRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]client.VersionRow(nil), s.versions...)
}

// Selected returns the open version.
func (s *Session) Selected() (client.VersionRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return client.VersionRow{}, false
	}
	return *s.selected, true
}

// Note returns the latest operator-facing status message.
func (s *Session) Note() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.note
}

// Busy reports whether action is in flight.
func (s *Session) Busy(action Action) bool {
	return s.flights.busy(action)
}

// Fields returns a copy of the editable field set.
func (s *Session) Fields() []fielddef.FieldDef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Fields()
}

// Edit runs fn against the editor while holding the session lock.
func (s *Session) Edit(fn func(*Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.editor)
}

// LoadVersions fetches the version list.
func (s *Session) LoadVersions(ctx context.Context) error {
	if err := s.flights.begin(ActionLoad); err != nil {
		return err
	}
	defer s.flights.end(ActionLoad)

	s.setNote("")
	versions, err := s.backend.ListVersions(ctx, s.templateID)
	if err != nil {
		return s.fail("Loading versions failed", err)
	}
	s.mu.Lock()
	s.versions = versions
	s.mu.Unlock()
	return nil
}

// OpenVersion loads the field set of version into the editor.
func (s *Session) OpenVersion(ctx context.Context, version int) error {
	if err := s.flights.begin(ActionOpen); err != nil {
		return err
	}
	defer s.flights.end(ActionOpen)

	s.setNote("")
	row, ok := s.findVersion(version)
	if !ok {
		return s.fail("Loading fields failed", fmt.Errorf("%w: %d", ErrUnknownVersion, version))
	}
	fields, err := s.backend.VersionFields(ctx, s.templateID, version)
	if err != nil {
		return s.fail("Loading fields failed", err)
	}

	s.mu.Lock()
	s.selected = &row
	s.editor = New(fields)
	s.mu.Unlock()
	return nil
}

// Save submits the full field set of the open version.
func (s *Session) Save(ctx context.Context) error {
	if err := s.flights.begin(ActionSave); err != nil {
		return err
	}
	defer s.flights.end(ActionSave)

	s.setNote("")
	row, fields, err := s.mutableSnapshot()
	if err != nil {
		return s.fail("Save failed", err)
	}
	if err := s.backend.SaveFields(ctx, s.templateID, row.Version, fields); err != nil {
		return s.fail("Save failed", err)
	}
	s.setNote("Fields saved")
	s.logger.Infow("fields saved", "template", s.templateID, "version", row.Version, "fields", len(fields))
	return nil
}

// Publish publishes the open version and refreshes the version list.
func (s *Session) Publish(ctx context.Context) error {
	if err := s.flights.begin(ActionPublish); err != nil {
		return err
	}
	defer s.flights.end(ActionPublish)

	s.setNote("")
	row, _, err := s.mutableSnapshot()
	if err != nil {
		return s.fail("Publish failed", err)
	}
	if err := s.backend.PublishVersion(ctx, s.templateID, row.Version); err != nil {
		return s.fail("Publish failed", err)
	}
	s.setNote("Published")
	s.logger.Infow("version published", "template", s.templateID, "version", row.Version)
	s.refresh(ctx, row.Version)
	return nil
}

// Archive archives version after confirmation. It reports whether the
// request was sent.
func (s *Session) Archive(ctx context.Context, version int) (bool, error) {
	return s.toggleArchive(ctx, ActionArchive, version)
}

// Unarchive restores version after confirmation. The resulting state is
// whatever the backend reports on refresh.
func (s *Session) Unarchive(ctx context.Context, version int) (bool, error) {
	return s.toggleArchive(ctx, ActionUnarchive, version)
}

func (s *Session) toggleArchive(ctx context.Context, action Action, version int) (bool, error) {
	prompt, call, done, failed := "Archive this version?", s.backend.ArchiveVersion, "Version archived", "Archiving version failed"
	if action == ActionUnarchive {
		prompt, call, done, failed = "Restore this version from the archive?", s.backend.UnarchiveVersion, "Version restored from archive", "Restoring version failed"
	}

	ok, err := s.confirm.Confirm(ctx, prompt)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if err := s.flights.begin(action); err != nil {
		return false, err
	}
	defer s.flights.end(action)

	s.setNote("")
	if err := call(ctx, s.templateID, version); err != nil {
		return false, s.fail(failed, err)
	}
	s.setNote(done)
	s.logger.Infow("version "+string(action)+"d", "template", s.templateID, "version", version)
	s.refresh(ctx, version)
	return true, nil
}

// refresh re-lists versions and updates the selection when it points at
// version. Failures are logged only: the action itself succeeded.
func (s *Session) refresh(ctx context.Context, version int) {
	versions, err := s.backend.ListVersions(ctx, s.templateID)
	if err != nil {
		s.logger.Warnw("refresh versions failed", "template", s.templateID, "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions = versions
	if s.selected == nil || s.selected.Version != version {
		return
	}
	for _, row := range versions {
		if row.Version == version {
			updated := row
			s.selected = &updated
			return
		}
	}
}

func (s *Session) mutableSnapshot() (client.VersionRow, []fielddef.FieldDef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return client.VersionRow{}, nil, ErrNoVersion
	}
	if errs := s.editor.Errors(); len(errs) > 0 {
		return client.VersionRow{}, nil, fmt.Errorf("%w: %v", ErrInvalidFields, errs)
	}
	if s.selected.IsArchived() {
		return client.VersionRow{}, nil, ErrVersionArchived
	}
	return *s.selected, s.editor.Fields(), nil
}

func (s *Session) findVersion(version int) (client.VersionRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.versions {
		if row.Version == version {
			return row, true
		}
	}
	return client.VersionRow{}, false
}

func (s *Session) setNote(note string) {
	s.mu.Lock()
	s.note = note
	s.mu.Unlock()
}

func (s *Session) fail(prefix string, err error) error {
	s.setNote(prefix + ": " + err.Error())
	s.logger.Debugw(prefix, "template", s.templateID, "error", err)
	return err
}

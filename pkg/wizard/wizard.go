package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-docforge/pkg/client"
)

var (
	// ErrUnknownQuestion is returned when answering a question that is not
	// part of the questionnaire.
	ErrUnknownQuestion = errors.New("wizard: unknown question")
	// ErrWrongQuestionType is returned when the answer shape does not fit
	// the question.
	ErrWrongQuestionType = errors.New("wizard: answer does not fit question type")
	// ErrUnknownOption is returned when toggling an option a question does
	// not offer.
	ErrUnknownOption = errors.New("wizard: unknown option")
	// ErrNoDraft is returned when neither a draft id nor a session with a
	// submitted draft is available.
	ErrNoDraft = errors.New("wizard: no business plan draft found, run the wizard again")
	// ErrNoPaymentSession is returned when verifying without a payment id.
	ErrNoPaymentSession = errors.New("wizard: missing payment session id")
	// ErrInvalidAnswers matches every *AnswerError.
	ErrInvalidAnswers = errors.New("wizard: invalid answers")
)

// Problem is one rejected answer.
type Problem struct {
	QuestionID string
	Label      string
	Reason     string
}

// AnswerError lists every rejected answer of a step, in question order.
type AnswerError struct {
	Step     string
	Problems []Problem
}

func (e *AnswerError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.QuestionID + ": " + p.Reason
	}
	return fmt.Sprintf("wizard: step %q: %s", e.Step, strings.Join(parts, "; "))
}

func (e *AnswerError) Is(target error) bool {
	return target == ErrInvalidAnswers
}

// Problem reasons.
const (
	ReasonRequired  = "required"
	ReasonNotNumber = "must be a number"
)

// Backend is the slice of the REST API the wizard drives.
type Backend interface {
	CreateDraft(ctx context.Context, req client.DraftRequest) (string, error)
	Project(ctx context.Context, id string) (*client.Project, error)
	DraftDownloadURL(id string) string
	Checkout(ctx context.Context, draftID string) (string, error)
	VerifyPayment(ctx context.Context, sessionID string) (*client.Verification, error)
}

// Wizard runs the business plan questionnaire over stored sessions.
type Wizard struct {
	steps   []Step
	store   Store
	backend Backend
	ttl     time.Duration
	now     func() time.Time
	newID   func() string
	logger  *zap.SugaredLogger
}

// New builds a Wizard on the built-in questionnaire unless WithSteps is
// given.
func New(store Store, backend Backend, opts ...Option) *Wizard {
	cfg := options{
		ttl:    DefaultTTL,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if len(cfg.steps) == 0 {
		cfg.steps = DefaultSteps()
	}
	return &Wizard{
		steps:   cfg.steps,
		store:   store,
		backend: backend,
		ttl:     cfg.ttl,
		now:     cfg.now,
		newID:   cfg.newID,
		logger:  cfg.logger,
	}
}

// Steps returns the questionnaire.
func (w *Wizard) Steps() []Step {
	return slices.Clone(w.steps)
}

// Start opens and stores a new session.
func (w *Wizard) Start(ctx context.Context, info StartInfo) (*Session, error) {
	now := w.now()
	s := &Session{
		ID:        w.newID(),
		Industry:  strings.TrimSpace(info.Industry),
		Country:   strings.TrimSpace(info.Country),
		Answers:   Answers{},
		CreatedAt: now,
	}
	if err := w.Save(ctx, s); err != nil {
		return nil, err
	}
	w.logger.Debugw("wizard session started", "session", s.ID)
	return s, nil
}

// Resume loads a stored session.
func (w *Wizard) Resume(ctx context.Context, id string) (*Session, error) {
	s, err := w.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Answers == nil {
		s.Answers = Answers{}
	}
	s.StepIndex = min(max(s.StepIndex, 0), len(w.steps)-1)
	return s, nil
}

// Save persists s and extends its lifetime.
func (w *Wizard) Save(ctx context.Context, s *Session) error {
	s.ExpiresAt = w.now().Add(w.ttl)
	return w.store.Put(ctx, s)
}

// Discard deletes a session.
func (w *Wizard) Discard(ctx context.Context, id string) error {
	return w.store.Delete(ctx, id)
}

// Step returns the current step of s.
func (w *Wizard) Step(s *Session) Step {
	return w.steps[min(max(s.StepIndex, 0), len(w.steps)-1)]
}

// IsLast reports whether s sits on the final step.
func (w *Wizard) IsLast(s *Session) bool {
	return s.StepIndex >= len(w.steps)-1
}

// Progress is the completion percentage shown for the current step.
func (w *Wizard) Progress(s *Session) int {
	return int(math.Round(float64(s.StepIndex+1) / float64(len(w.steps)) * 100))
}

// SetAnswer stores the answer of a text, textarea, select or number
// question.
func (w *Wizard) SetAnswer(s *Session, id, value string) error {
	q, err := w.question(id)
	if err != nil {
		return err
	}
	if q.Type == TypeMultiSelect {
		return fmt.Errorf("%w: %s", ErrWrongQuestionType, id)
	}
	s.answers()[id] = value
	return nil
}

// SetSelection replaces the selected options of a multi-select question.
// The other entry is kept.
func (w *Wizard) SetSelection(s *Session, id string, selected []string) error {
	q, err := w.multiSelect(id)
	if err != nil {
		return err
	}
	var out []string
	for _, opt := range selected {
		if !slices.Contains(q.Options, opt) {
			return fmt.Errorf("%w: %q for %s", ErrUnknownOption, opt, id)
		}
		if !slices.Contains(out, opt) {
			out = append(out, opt)
		}
	}
	if other := s.Answers.Other(id); other != "" {
		out = append(out, OtherPrefix+other)
	}
	s.answers()[id] = nonNil(out)
	return nil
}

// Toggle selects or deselects one option of a multi-select question.
func (w *Wizard) Toggle(s *Session, id, option string) error {
	q, err := w.multiSelect(id)
	if err != nil {
		return err
	}
	if !slices.Contains(q.Options, option) {
		return fmt.Errorf("%w: %q for %s", ErrUnknownOption, option, id)
	}
	list := s.Answers.List(id)
	if i := slices.Index(list, option); i >= 0 {
		list = slices.Delete(list, i, i+1)
	} else {
		list = append(list, option)
	}
	s.answers()[id] = nonNil(list)
	return nil
}

// SetOther sets the free text entry of a multi-select question. Empty text
// removes it.
func (w *Wizard) SetOther(s *Session, id, text string) error {
	q, err := w.multiSelect(id)
	if err != nil {
		return err
	}
	if !q.AllowOther {
		return fmt.Errorf("%w: %s takes no other value", ErrWrongQuestionType, id)
	}
	list := slices.DeleteFunc(s.Answers.List(id), func(v string) bool {
		return strings.HasPrefix(v, OtherPrefix)
	})
	if text != "" {
		list = append(list, OtherPrefix+text)
	}
	s.answers()[id] = nonNil(list)
	return nil
}

// Validate checks the answers of one step.
func (w *Wizard) Validate(s *Session, stepIndex int) error {
	step := w.steps[stepIndex]
	var problems []Problem
	for _, q := range step.Questions {
		if reason := checkAnswer(q, s.Answers); reason != "" {
			problems = append(problems, Problem{QuestionID: q.ID, Label: q.Label, Reason: reason})
		}
	}
	if len(problems) > 0 {
		return &AnswerError{Step: step.ID, Problems: problems}
	}
	return nil
}

// Next validates the current step and advances. On the last step it
// submits the answers instead and returns the new draft id.
func (w *Wizard) Next(ctx context.Context, s *Session) (string, error) {
	if err := w.Validate(s, s.StepIndex); err != nil {
		return "", err
	}
	if w.IsLast(s) {
		return w.Submit(ctx, s)
	}
	s.StepIndex++
	return "", w.Save(ctx, s)
}

// Back moves to the previous step. It is a no-op on the first step.
func (w *Wizard) Back(ctx context.Context, s *Session) (bool, error) {
	if s.StepIndex <= 0 {
		return false, nil
	}
	s.StepIndex--
	return true, w.Save(ctx, s)
}

// Submit validates every step, asks the backend for a draft and records
// its id in the session.
func (w *Wizard) Submit(ctx context.Context, s *Session) (string, error) {
	for i := range w.steps {
		if err := w.Validate(s, i); err != nil {
			return "", err
		}
	}
	draftID, err := w.backend.CreateDraft(ctx, client.DraftRequest{
		Industry: s.Industry,
		Country:  s.Country,
		Answers:  w.payload(s.Answers),
	})
	if err != nil {
		return "", fmt.Errorf("wizard: generate business plan: %w", err)
	}
	s.LastDraftID = draftID
	if err := w.Save(ctx, s); err != nil {
		return "", err
	}
	w.logger.Infow("business plan draft created", "session", s.ID, "draft", draftID)
	return draftID, nil
}

// ResolveDraft returns draftID, or the last draft of the stored session
// sessionID when draftID is empty.
func (w *Wizard) ResolveDraft(ctx context.Context, draftID, sessionID string) (string, error) {
	if draftID = strings.TrimSpace(draftID); draftID != "" {
		return draftID, nil
	}
	if sessionID == "" {
		return "", ErrNoDraft
	}
	s, err := w.store.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if s.LastDraftID == "" {
		return "", ErrNoDraft
	}
	return s.LastDraftID, nil
}

// Preview is the pre-payment view of a draft.
type Preview struct {
	DraftID          string
	Title            string
	Summary          string
	PreviewText      string
	DownloadURL      string
	DraftDownloadURL string
}

// Preview loads a draft. Summary and preview text come from the result
// document when it parses; a malformed one leaves them empty.
func (w *Wizard) Preview(ctx context.Context, draftID string) (*Preview, error) {
	if draftID == "" {
		return nil, ErrNoDraft
	}
	project, err := w.backend.Project(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("wizard: load business plan: %w", err)
	}
	p := &Preview{
		DraftID:          project.ID,
		Title:            project.Title,
		DownloadURL:      project.DownloadURL,
		DraftDownloadURL: w.backend.DraftDownloadURL(project.ID),
	}
	if p.DownloadURL == "" {
		p.DownloadURL = project.PreviewURL
	}
	p.Summary, p.PreviewText = parseResult(project.ResultJSON)
	return p, nil
}

// Checkout starts the payment for a draft and returns the redirect URL.
func (w *Wizard) Checkout(ctx context.Context, draftID string) (string, error) {
	if draftID == "" {
		return "", ErrNoDraft
	}
	url, err := w.backend.Checkout(ctx, draftID)
	if err != nil {
		return "", fmt.Errorf("wizard: checkout: %w", err)
	}
	return url, nil
}

// Verify confirms a payment session.
func (w *Wizard) Verify(ctx context.Context, paymentSessionID string) (*client.Verification, error) {
	if strings.TrimSpace(paymentSessionID) == "" {
		return nil, ErrNoPaymentSession
	}
	v, err := w.backend.VerifyPayment(ctx, paymentSessionID)
	if err != nil {
		return nil, fmt.Errorf("wizard: verify payment: %w", err)
	}
	return v, nil
}

func (w *Wizard) question(id string) (Question, error) {
	q, ok := findQuestion(w.steps, id)
	if !ok {
		return Question{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	return q, nil
}

func (w *Wizard) multiSelect(id string) (Question, error) {
	q, err := w.question(id)
	if err != nil {
		return q, err
	}
	if q.Type != TypeMultiSelect {
		return q, fmt.Errorf("%w: %s", ErrWrongQuestionType, id)
	}
	return q, nil
}

// payload keeps answered questions only, multi-select ones as lists.
func (w *Wizard) payload(answers Answers) map[string]any {
	out := make(map[string]any, len(answers))
	for _, step := range w.steps {
		for _, q := range step.Questions {
			if _, ok := answers[q.ID]; !ok {
				continue
			}
			if q.Type == TypeMultiSelect {
				out[q.ID] = nonNil(answers.List(q.ID))
			} else {
				out[q.ID] = answers.Text(q.ID)
			}
		}
	}
	return out
}

func checkAnswer(q Question, answers Answers) string {
	if answers.empty(q.ID) {
		if q.Required {
			return ReasonRequired
		}
		return ""
	}
	if q.Type == TypeNumber {
		if _, ok := parseNumber(answers.Text(q.ID)); !ok {
			return ReasonNotNumber
		}
	}
	return ""
}

// parseNumber accepts digit grouping with spaces and a decimal comma.
func parseNumber(raw string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f':
			return -1
		case ',':
			return '.'
		}
		return r
	}, raw)
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseResult(raw string) (summary, previewText string) {
	if raw == "" {
		return "", ""
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return "", ""
	}
	summary, _ = doc["summary"].(string)
	previewText, _ = doc["previewText"].(string)
	return summary, previewText
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

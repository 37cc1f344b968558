package wizard

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/goliatone/go-docforge/pkg/renderers/tui"
)

const (
	choosePlaceholder = "Choose an option"
	navContinue       = "Continue"
	navBack           = "Back"
)

// Runner walks a session through the questionnaire on a prompt driver.
type Runner struct {
	wizard *Wizard
	driver tui.PromptDriver
}

// NewRunner binds a wizard to a terminal driver.
func NewRunner(w *Wizard, driver tui.PromptDriver) *Runner {
	return &Runner{wizard: w, driver: driver}
}

// Run asks every remaining step of s, starting at its current step, and
// returns the draft id once the answers are submitted. Steps failing
// validation are asked again with the problems listed.
func (r *Runner) Run(ctx context.Context, s *Session) (string, error) {
	if r.driver == nil {
		return "", tui.ErrNoDriver
	}
	w := r.wizard
	for {
		step := w.Step(s)
		header := fmt.Sprintf("Step %d of %d (%d%%): %s", s.StepIndex+1, len(w.steps), w.Progress(s), step.Title)
		if err := r.driver.Info(ctx, header); err != nil {
			return "", err
		}
		if step.Description != "" {
			if err := r.driver.Info(ctx, step.Description); err != nil {
				return "", err
			}
		}
		for _, q := range step.Questions {
			if err := r.ask(ctx, s, q); err != nil {
				return "", err
			}
		}

		if s.StepIndex > 0 {
			choice, err := r.driver.Select(ctx, tui.SelectConfig{
				Message: "Next",
				Options: []string{navContinue, navBack},
			})
			if err != nil {
				return "", err
			}
			if choice == 1 {
				if _, err := w.Back(ctx, s); err != nil {
					return "", err
				}
				continue
			}
		}

		draftID, err := w.Next(ctx, s)
		var answerErr *AnswerError
		if errors.As(err, &answerErr) {
			for _, p := range answerErr.Problems {
				if err := r.driver.Info(ctx, fmt.Sprintf("! %s: %s", p.Label, p.Reason)); err != nil {
					return "", err
				}
			}
			continue
		}
		if err != nil {
			return "", err
		}
		if draftID != "" {
			return draftID, nil
		}
	}
}

func (r *Runner) ask(ctx context.Context, s *Session, q Question) error {
	message := q.Label
	if q.Required {
		message += " *"
	}
	help := q.HelperText
	if help == "" {
		help = q.Placeholder
	}
	w := r.wizard

	switch q.Type {
	case TypeTextArea:
		v, err := r.driver.TextArea(ctx, tui.TextAreaConfig{Message: message, Default: s.Answers.Text(q.ID), Help: help})
		if err != nil {
			return err
		}
		return w.SetAnswer(s, q.ID, v)

	case TypeSelect:
		placeholder := q.Placeholder
		if placeholder == "" {
			placeholder = choosePlaceholder
		}
		options := append([]string{placeholder}, q.Options...)
		idx, err := r.driver.Select(ctx, tui.SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: slices.Index(q.Options, s.Answers.Text(q.ID)) + 1,
			Help:         q.HelperText,
		})
		if err != nil {
			return err
		}
		value := ""
		if idx > 0 && idx < len(options) {
			value = options[idx]
		}
		return w.SetAnswer(s, q.ID, value)

	case TypeMultiSelect:
		var defaults []int
		for _, v := range s.Answers.List(q.ID) {
			if i := slices.Index(q.Options, v); i >= 0 {
				defaults = append(defaults, i)
			}
		}
		picked, err := r.driver.MultiSelect(ctx, tui.SelectConfig{
			Message:  message,
			Options:  q.Options,
			Defaults: defaults,
			Help:     help,
		})
		if err != nil {
			return err
		}
		selected := make([]string, 0, len(picked))
		for _, i := range picked {
			if i >= 0 && i < len(q.Options) {
				selected = append(selected, q.Options[i])
			}
		}
		if err := w.SetSelection(s, q.ID, selected); err != nil {
			return err
		}
		if !q.AllowOther {
			return nil
		}
		other, err := r.driver.Input(ctx, tui.InputConfig{
			Message: "Other (optional)",
			Default: s.Answers.Other(q.ID),
			Help:    "For example: car rental, franchise, insurance",
		})
		if err != nil {
			return err
		}
		return w.SetOther(s, q.ID, other)

	default:
		cfg := tui.InputConfig{Message: message, Default: s.Answers.Text(q.ID), Help: help}
		if q.Type == TypeNumber {
			cfg.Validator = func(v string) error {
				if v == "" {
					return nil
				}
				if _, ok := parseNumber(v); !ok {
					return errors.New(ReasonNotNumber)
				}
				return nil
			}
		}
		v, err := r.driver.Input(ctx, cfg)
		if err != nil {
			return err
		}
		return w.SetAnswer(s, q.ID, v)
	}
}

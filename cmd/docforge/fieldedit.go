package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-docforge/pkg/editor"
	"github.com/goliatone/go-docforge/pkg/fielddef"
	"github.com/goliatone/go-docforge/pkg/renderers/tui"
)

const (
	menuAdd      = "Add field"
	menuEdit     = "Edit field"
	menuMoveUp   = "Move field up"
	menuMoveDown = "Move field down"
	menuRemove   = "Remove field"
	menuSave     = "Save"
	menuPublish  = "Save and publish"
	menuQuit     = "Quit"
)

var fieldMenu = []string{menuAdd, menuEdit, menuMoveUp, menuMoveDown, menuRemove, menuSave, menuPublish, menuQuit}

// fieldEditor drives an editor.Session from the terminal.
type fieldEditor struct {
	session *editor.Session
	driver  tui.PromptDriver
	dirty   bool
}

func newFieldEditor(s *editor.Session, driver tui.PromptDriver) *fieldEditor {
	return &fieldEditor{session: s, driver: driver}
}

func (fe *fieldEditor) run(ctx context.Context) error {
	if fe.driver == nil {
		return tui.ErrNoDriver
	}
	for {
		if err := fe.summary(ctx); err != nil {
			return err
		}
		choice, err := fe.driver.Select(ctx, tui.SelectConfig{Message: "Action", Options: fieldMenu})
		if err != nil {
			return err
		}
		switch fieldMenu[choice] {
		case menuAdd:
			var idx int
			_ = fe.session.Edit(func(e *editor.Editor) error {
				idx = e.Add()
				return nil
			})
			fe.dirty = true
			if err := fe.editField(ctx, idx); err != nil {
				return err
			}
		case menuEdit:
			if err := fe.withField(ctx, fe.editField); err != nil {
				return err
			}
		case menuMoveUp, menuMoveDown, menuRemove:
			action := fieldMenu[choice]
			if err := fe.withField(ctx, func(_ context.Context, i int) error {
				return fe.session.Edit(func(e *editor.Editor) error {
					fe.dirty = true
					switch action {
					case menuMoveUp:
						e.MoveUp(i)
					case menuMoveDown:
						e.MoveDown(i)
					default:
						return e.Remove(i)
					}
					return nil
				})
			}); err != nil {
				return err
			}
		case menuSave, menuPublish:
			err := fe.session.Save(ctx)
			if err == nil && fieldMenu[choice] == menuPublish {
				err = fe.session.Publish(ctx)
			}
			if err == nil {
				fe.dirty = false
			}
			if err := fe.note(ctx); err != nil {
				return err
			}
		case menuQuit:
			if !fe.dirty {
				return nil
			}
			leave, err := fe.driver.Confirm(ctx, tui.ConfirmConfig{Message: "Discard unsaved changes?"})
			if err != nil || leave {
				return err
			}
		}
	}
}

func (fe *fieldEditor) summary(ctx context.Context) error {
	fields := fe.session.Fields()
	var errs fielddef.SetErrors
	_ = fe.session.Edit(func(e *editor.Editor) error {
		errs = e.Errors()
		return nil
	})
	if row, ok := fe.session.Selected(); ok {
		if err := fe.driver.Info(ctx, fmt.Sprintf("Version %d (%s), %d fields", row.Version, row.Status, len(fields))); err != nil {
			return err
		}
	}
	for i, f := range fields {
		line := fmt.Sprintf("%2d. %s [%s]", i+1, fieldTitle(f), f.EffectiveType())
		if f.Required {
			line += " *"
		}
		if problems, ok := errs[i]; ok {
			parts := make([]string, 0, len(problems))
			for _, key := range problems.Keys() {
				parts = append(parts, key+" "+problems[key])
			}
			line += "  ! " + strings.Join(parts, ", ")
		}
		if err := fe.driver.Info(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (fe *fieldEditor) note(ctx context.Context) error {
	if note := fe.session.Note(); note != "" {
		return fe.driver.Info(ctx, note)
	}
	return nil
}

func (fe *fieldEditor) withField(ctx context.Context, fn func(context.Context, int) error) error {
	fields := fe.session.Fields()
	if len(fields) == 0 {
		return fe.driver.Info(ctx, "No fields yet")
	}
	options := make([]string, len(fields))
	for i, f := range fields {
		options[i] = fmt.Sprintf("%d. %s", i+1, fieldTitle(f))
	}
	idx, err := fe.driver.Select(ctx, tui.SelectConfig{Message: "Field", Options: options})
	if err != nil {
		return err
	}
	return fn(ctx, idx)
}

// editField walks through the attributes of the field at i.
func (fe *fieldEditor) editField(ctx context.Context, i int) error {
	var current fielddef.FieldDef
	if err := fe.session.Edit(func(e *editor.Editor) error {
		var err error
		current, err = e.Field(i)
		return err
	}); err != nil {
		return err
	}

	name, err := fe.driver.Input(ctx, tui.InputConfig{Message: "Name", Default: current.Name})
	if err != nil {
		return err
	}
	label, err := fe.driver.Input(ctx, tui.InputConfig{Message: "Label", Default: current.Label})
	if err != nil {
		return err
	}
	types := make([]string, len(fielddef.Types))
	typeIdx := 0
	for j, t := range fielddef.Types {
		types[j] = string(t)
		if t == current.EffectiveType() {
			typeIdx = j
		}
	}
	picked, err := fe.driver.Select(ctx, tui.SelectConfig{Message: "Type", Options: types, DefaultIndex: typeIdx})
	if err != nil {
		return err
	}
	required, err := fe.driver.Confirm(ctx, tui.ConfirmConfig{Message: "Required?", Default: current.Required})
	if err != nil {
		return err
	}

	fieldType := fielddef.Types[picked]
	err = fe.session.Edit(func(e *editor.Editor) error {
		errs := []error{e.SetName(i, strings.TrimSpace(name))}
		// an untouched label keeps the one derived from the name
		if label != current.Label {
			errs = append(errs, e.SetLabel(i, label))
		}
		errs = append(errs, e.SetType(i, fieldType), e.SetRequired(i, required))
		return errors.Join(errs...)
	})
	if err != nil {
		return err
	}
	fe.dirty = true

	switch fieldType {
	case fielddef.TypeEnum:
		options := fielddef.ParseEnumValues(current.EnumValues)
		if current.EffectiveType() != fielddef.TypeEnum {
			options = nil
		}
		raw, err := fe.driver.Input(ctx, tui.InputConfig{
			Message: "Options (comma separated)",
			Default: strings.Join(options, ", "),
		})
		if err != nil {
			return err
		}
		return fe.session.Edit(func(e *editor.Editor) error {
			if err := e.SetEnumValues(i, "[]"); err != nil {
				return err
			}
			for _, option := range strings.Split(raw, ",") {
				if err := e.AddEnumValue(i, option); err != nil {
					return err
				}
			}
			return nil
		})
	case fielddef.TypeBoolean, fielddef.TypeArray:
		return nil
	default:
		pattern := current.Pattern
		if current.EffectiveType() != fieldType {
			pattern = ""
		}
		picked, err := fe.pickPattern(ctx, fieldType, pattern)
		if err != nil {
			return err
		}
		return fe.session.Edit(func(e *editor.Editor) error {
			return e.SetPattern(i, picked)
		})
	}
}

// pickPattern offers the current pattern, the presets and a custom entry.
func (fe *fieldEditor) pickPattern(ctx context.Context, fieldType fielddef.Type, current string) (string, error) {
	keep := "No pattern"
	if current != "" {
		keep = "Keep " + current
	}
	options := []string{keep}
	for _, preset := range fielddef.PatternPresets {
		options = append(options, fmt.Sprintf("%s  %s", preset.Name, preset.Pattern))
	}
	options = append(options, "Custom")

	idx, err := fe.driver.Select(ctx, tui.SelectConfig{
		Message: "Pattern",
		Options: options,
		Help:    fielddef.TypeHint(fieldType),
	})
	if err != nil {
		return "", err
	}
	switch {
	case idx <= 0 || idx >= len(options):
		return current, nil
	case idx <= len(fielddef.PatternPresets):
		return fielddef.PatternPresets[idx-1].Pattern, nil
	}
	raw, err := fe.driver.Input(ctx, tui.InputConfig{
		Message: "Pattern",
		Default: current,
		Help:    "Example: " + fielddef.ExamplePattern(fieldType),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func fieldTitle(f fielddef.FieldDef) string {
	if f.Name == "" {
		return "(unnamed)"
	}
	if f.Label != "" && f.Label != f.Name {
		return f.Label + " (" + f.Name + ")"
	}
	return f.Name
}

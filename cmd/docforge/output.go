package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/goliatone/go-docforge/pkg/client"
	"github.com/goliatone/go-docforge/pkg/fielddef"
	"github.com/goliatone/go-docforge/pkg/wizard"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// printOutput prints data in either JSON or table format based on the --output flag.
func (a *app) printOutput(w io.Writer, v any) error {
	if a.output == outputJSON {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	switch x := v.(type) {
	case []client.TemplateRow:
		tw := newTable(w, "ID", "Key", "Title", "Locale", "Latest", "Published", "Status")
		for _, t := range x {
			status := t.Status
			if t.IsArchived() {
				status = client.StatusArchived
			}
			tw.Append([]string{formatInt64(t.ID), t.TemplateKey, t.Title, t.Locale, optInt(t.LatestVersion), optInt(t.PublishedVersion), status})
		}
		tw.Render()
	case []client.VersionRow:
		tw := newTable(w, "ID", "Version", "Status", "Published At")
		for _, v := range x {
			tw.Append([]string{formatInt64(v.ID), strconv.Itoa(v.Version), v.Status, v.PublishedAt})
		}
		tw.Render()
	case []client.TemplateSummary:
		tw := newTable(w, "Key", "Title", "Locale", "Latest", "Status")
		for _, t := range x {
			tw.Append([]string{t.TemplateKey, t.Title, t.Locale, optInt(t.LatestVersion), t.Status})
		}
		tw.Render()
	case []fielddef.FieldDef:
		tw := newTable(w, "#", "Name", "Label", "Type", "Required", "Pattern", "Options")
		for i, f := range x {
			options := ""
			if f.EffectiveType() == fielddef.TypeEnum {
				options = strings.Join(fielddef.ParseEnumValues(f.EnumValues), ", ")
			}
			tw.Append([]string{strconv.Itoa(i + 1), f.Name, f.Label, string(f.EffectiveType()), strconv.FormatBool(f.Required), f.Pattern, options})
		}
		tw.Render()
	case *wizard.Preview:
		fmt.Fprintf(w, "%s (%s)\n", x.Title, x.DraftID)
		if x.Summary != "" {
			fmt.Fprintf(w, "\n%s\n", x.Summary)
		}
		if x.PreviewText != "" {
			fmt.Fprintf(w, "\n%s\n", x.PreviewText)
		}
		if x.DownloadURL != "" {
			fmt.Fprintln(w, "\nPreview:", x.DownloadURL)
		}
		fmt.Fprintln(w, "Draft download:", x.DraftDownloadURL)
	case *client.Verification:
		fmt.Fprintf(w, "Payment confirmed for %s (%s)\n", x.Title, x.DraftID)
		fmt.Fprintln(w, "Download:", x.DownloadURL)
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(b))
	}
	return nil
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetAutoWrapText(false)
	return tw
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func formatInt64(v int64) string {
	return strconv.FormatInt(v, 10)
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docforge/pkg/orchestrator"
	"github.com/goliatone/go-docforge/pkg/render"
	"github.com/goliatone/go-docforge/pkg/renderers/html"
	"github.com/goliatone/go-docforge/pkg/renderers/tui"
)

func newFormCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "form", Short: "Render or fill the form of a published template"}

	var (
		sets     []string
		outFile  string
		action   string
		tplDir   string
		format   string
		generate bool
		dir      string
	)

	renderCmd := &cobra.Command{
		Use:   "render [template-key]",
		Short: "Render the form as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefill, err := parseSets(sets)
			if err != nil {
				return err
			}
			opts := []html.Option{html.WithLogger(a.log)}
			if tplDir != "" {
				opts = append(opts, html.WithTemplatesDir(tplDir))
			}
			renderer, err := html.New(opts...)
			if err != nil {
				return err
			}
			res, err := a.orchestrator(renderer).Generate(cmd.Context(), orchestrator.Request{
				TemplateKey:   args[0],
				Prefill:       prefill,
				RenderOptions: render.RenderOptions{Action: action},
			})
			if err != nil {
				return err
			}
			if outFile == "" {
				_, err = a.stdout(cmd).Write(res.Output)
				return err
			}
			if err := os.WriteFile(outFile, res.Output, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout(cmd), "Form written to %s\n", outFile)
			return nil
		},
	}
	renderCmd.Flags().StringArrayVar(&sets, "set", nil, "prefill a field as name=value (repeatable)")
	renderCmd.Flags().StringVar(&outFile, "out", "", "output file (stdout if empty)")
	renderCmd.Flags().StringVar(&action, "action", "", "form action URL")
	renderCmd.Flags().StringVar(&tplDir, "templates", "", "directory overriding the built-in templates")

	fillCmd := &cobra.Command{
		Use:   "fill [template-key]",
		Short: "Fill the form in the terminal and print or generate the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefill, err := parseSets(sets)
			if err != nil {
				return err
			}
			renderer := tui.New(
				tui.WithPromptDriver(a.driver),
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithLogger(a.log),
			)
			res, err := a.orchestrator(renderer).Generate(cmd.Context(), orchestrator.Request{
				TemplateKey: args[0],
				Prefill:     prefill,
			})
			if err != nil {
				return err
			}
			if !generate {
				fmt.Fprintln(a.stdout(cmd), strings.TrimRight(string(res.Output), "\n"))
				return nil
			}
			payload, err := res.Form.Submit()
			if err != nil {
				return err
			}
			return a.writeDocument(cmd.Context(), cmd, args[0], payload, dir)
		},
	}
	fillCmd.Flags().StringArrayVar(&sets, "set", nil, "prefill a field as name=value (repeatable)")
	fillCmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "result format: json|form|pretty")
	fillCmd.Flags().BoolVar(&generate, "generate", false, "generate the document instead of printing the answers")
	fillCmd.Flags().StringVar(&dir, "dir", ".", "directory for the generated document")

	cmd.AddCommand(renderCmd, fillCmd)
	return cmd
}

func (a *app) orchestrator(renderer render.Renderer) *orchestrator.Orchestrator {
	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	return orchestrator.New(a.api, orchestrator.WithRegistry(registry), orchestrator.WithLogger(a.log))
}

// writeDocument generates a document and stores it in dir under the name
// the backend suggested.
func (a *app) writeDocument(ctx context.Context, cmd *cobra.Command, templateKey string, data any, dir string) error {
	doc, err := a.api.Generate(ctx, templateKey, data)
	if err != nil {
		return err
	}
	name := filepath.Base(doc.Filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = templateKey + ".docx"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, doc.Body, 0o644); err != nil {
		return err
	}
	a.log.Infow("document generated", "template", templateKey, "file", path, "bytes", len(doc.Body))
	fmt.Fprintf(a.stdout(cmd), "Document written to %s\n", path)
	return nil
}

// parseSets turns name=value flags into a map. Later flags win.
func parseSets(sets []string) (map[string]string, error) {
	out := make(map[string]string, len(sets))
	for _, set := range sets {
		name, value, ok := strings.Cut(set, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q (want name=value)", set)
		}
		out[name] = value
	}
	return out, nil
}

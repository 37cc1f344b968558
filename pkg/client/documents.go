package client

import (
	"context"
	"mime"
	"net/url"
	"regexp"
	"strings"

	"github.com/goliatone/go-docforge/pkg/fielddef"
	"github.com/goliatone/go-docforge/pkg/form"
)

const (
	pathCatalog   = "/api/templates"
	pathFieldDefs = "/api/templates/{key}/field-defs"
	pathGenerate  = "/api/documents/generate"

	// DocxContentType is requested from the generation endpoint.
	DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	starFilename   = regexp.MustCompile(`(?i)filename\*=UTF-8''([^;]+)$`)
	simpleFilename = regexp.MustCompile(`(?i)filename="?([^";]+)"?`)
)

// Catalog returns the public template catalog.
func (c *Client) Catalog(ctx context.Context) ([]TemplateSummary, error) {
	resp, err := c.http.R().SetContext(ctx).Get(pathCatalog)
	if err != nil {
		return nil, err
	}
	if err := c.check(resp); err != nil {
		return nil, err
	}
	return decodeList[TemplateSummary](resp)
}

// PublishedSchema fetches the field schema of the published version of a
// template.
func (c *Client) PublishedSchema(ctx context.Context, templateKey string) (form.Schema, error) {
	var out struct {
		TemplateKey string             `json:"templateKey"`
		Version     int                `json:"version"`
		FieldDefs   *fielddef.Document `json:"fieldDefs"`
		UIHints     map[string]any     `json:"uiHints"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("key", templateKey).
		Get(pathFieldDefs)
	if err != nil {
		return form.Schema{}, err
	}
	if err := c.check(resp); err != nil {
		return form.Schema{}, err
	}
	if err := decode(resp, &out); err != nil {
		return form.Schema{}, err
	}
	schema := form.Schema{
		TemplateKey: out.TemplateKey,
		Version:     out.Version,
		Fields:      []fielddef.FieldDef{},
		UIHints:     out.UIHints,
	}
	if schema.TemplateKey == "" {
		schema.TemplateKey = templateKey
	}
	if out.FieldDefs != nil && out.FieldDefs.Fields != nil {
		schema.Fields = out.FieldDefs.Fields
	}
	return schema, nil
}

// FetchSchema implements form.SchemaFetcher.
func (c *Client) FetchSchema(ctx context.Context, templateKey string) (form.Schema, error) {
	return c.PublishedSchema(ctx, templateKey)
}

// Generate renders a document for templateKey from data and returns the
// file. The filename comes from Content-Disposition and falls back to
// "<templateKey>.docx".
func (c *Client) Generate(ctx context.Context, templateKey string, data any) (*Document, error) {
	if data == nil {
		data = map[string]any{}
	}
	body := struct {
		TemplateKey string `json:"templateKey"`
		Data        any    `json:"data"`
	}{TemplateKey: templateKey, Data: data}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", DocxContentType).
		SetBody(body).
		Post(pathGenerate)
	if err != nil {
		return nil, err
	}
	if err := c.check(resp); err != nil {
		return nil, err
	}
	return &Document{
		Filename:    FilenameFromDisposition(resp.Header().Get("Content-Disposition"), templateKey+".docx"),
		ContentType: resp.Header().Get("Content-Type"),
		Body:        resp.Body(),
	}, nil
}

// FilenameFromDisposition extracts the download name from a
// Content-Disposition header. The RFC 5987 filename* form wins over the
// plain filename parameter.
func FilenameFromDisposition(header, fallback string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return fallback
	}
	if _, params, err := mime.ParseMediaType(header); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}
	if m := starFilename.FindStringSubmatch(header); m != nil {
		if name, err := url.PathUnescape(m[1]); err == nil && name != "" {
			return name
		}
	}
	if m := simpleFilename.FindStringSubmatch(header); m != nil && m[1] != "" {
		return m[1]
	}
	return fallback
}

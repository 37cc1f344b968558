package client

import (
	"context"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/goliatone/go-docforge/pkg/fielddef"
)

const (
	pathTemplates   = "/api/admin/templates"
	pathTemplate    = "/api/admin/templates/{id}"
	pathVersions    = "/api/admin/templates/{id}/versions"
	pathVersion     = "/api/admin/templates/{id}/versions/{version}"
	pathVersionByID = "/api/admin/templates/versions/{versionId}"
	suffixArchive   = "/archive"
	suffixUnarchive = "/unarchive"
	suffixPublish   = "/publish"
	suffixFields    = "/fields"
)

// ListTemplates returns the admin template list. A response that is not a
// JSON array yields an empty list.
func (c *Client) ListTemplates(ctx context.Context) ([]TemplateRow, error) {
	resp, err := c.http.R().SetContext(ctx).Get(pathTemplates)
	if err != nil {
		return nil, err
	}
	if err := c.check(resp); err != nil {
		return nil, err
	}
	return decodeList[TemplateRow](resp)
}

// ArchiveTemplate moves a whole template into the archive.
func (c *Client) ArchiveTemplate(ctx context.Context, templateID int64) error {
	return c.postTemplate(ctx, templateID, suffixArchive)
}

// UnarchiveTemplate restores an archived template.
func (c *Client) UnarchiveTemplate(ctx context.Context, templateID int64) error {
	return c.postTemplate(ctx, templateID, suffixUnarchive)
}

// ListVersions returns the versions of a template.
func (c *Client) ListVersions(ctx context.Context, templateID int64) ([]VersionRow, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", formatID(templateID)).
		Get(pathVersions)
	if err != nil {
		return nil, err
	}
	if err := c.check(resp); err != nil {
		return nil, err
	}
	return decodeList[VersionRow](resp)
}

// VersionFields loads the field set of one version.
func (c *Client) VersionFields(ctx context.Context, templateID int64, version int) ([]fielddef.FieldDef, error) {
	var out struct {
		FieldDefs *fielddef.Document `json:"fieldDefs"`
	}
	resp, err := c.versionRequest(ctx, templateID, version).Get(pathVersion)
	if err != nil {
		return nil, err
	}
	if err := c.check(resp); err != nil {
		return nil, err
	}
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	if out.FieldDefs == nil || out.FieldDefs.Fields == nil {
		return []fielddef.FieldDef{}, nil
	}
	return out.FieldDefs.Fields, nil
}

// SaveFields replaces the full ordered field set of a version.
func (c *Client) SaveFields(ctx context.Context, templateID int64, version int, fields []fielddef.FieldDef) error {
	if fields == nil {
		fields = []fielddef.FieldDef{}
	}
	resp, err := c.versionRequest(ctx, templateID, version).
		SetHeader("Content-Type", "application/json").
		SetBody(fielddef.Document{Fields: fields}).
		Put(pathVersion + suffixFields)
	if err != nil {
		return err
	}
	return c.check(resp)
}

// PublishVersion publishes a version.
func (c *Client) PublishVersion(ctx context.Context, templateID int64, version int) error {
	return c.postVersion(ctx, templateID, version, suffixPublish)
}

// ArchiveVersion archives a version addressed by template and number.
func (c *Client) ArchiveVersion(ctx context.Context, templateID int64, version int) error {
	return c.postVersion(ctx, templateID, version, suffixArchive)
}

// UnarchiveVersion restores a version addressed by template and number.
func (c *Client) UnarchiveVersion(ctx context.Context, templateID int64, version int) error {
	return c.postVersion(ctx, templateID, version, suffixUnarchive)
}

// ArchiveVersionByID archives a version addressed by its row id.
func (c *Client) ArchiveVersionByID(ctx context.Context, versionID int64) error {
	return c.postVersionByID(ctx, versionID, suffixArchive)
}

// UnarchiveVersionByID restores a version addressed by its row id.
func (c *Client) UnarchiveVersionByID(ctx context.Context, versionID int64) error {
	return c.postVersionByID(ctx, versionID, suffixUnarchive)
}

func (c *Client) postTemplate(ctx context.Context, templateID int64, suffix string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", formatID(templateID)).
		Post(pathTemplate + suffix)
	if err != nil {
		return err
	}
	return c.check(resp)
}

func (c *Client) postVersion(ctx context.Context, templateID int64, version int, suffix string) error {
	resp, err := c.versionRequest(ctx, templateID, version).Post(pathVersion + suffix)
	if err != nil {
		return err
	}
	return c.check(resp)
}

func (c *Client) postVersionByID(ctx context.Context, versionID int64, suffix string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("versionId", formatID(versionID)).
		Post(pathVersionByID + suffix)
	if err != nil {
		return err
	}
	return c.check(resp)
}

func (c *Client) versionRequest(ctx context.Context, templateID int64, version int) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"id":      formatID(templateID),
			"version": strconv.Itoa(version),
		})
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

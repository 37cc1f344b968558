package client

import "strings"

// Version lifecycle states.
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
	StatusArchived  = "ARCHIVED"
)

// TemplateRow is an entry of the admin template list.
type TemplateRow struct {
	ID               int64  `json:"id"`
	TemplateKey      string `json:"templateKey"`
	Title            string `json:"title,omitempty"`
	Locale           string `json:"locale,omitempty"`
	LatestVersion    *int   `json:"latestVersion,omitempty"`
	PublishedVersion *int   `json:"publishedVersion,omitempty"`
	Status           string `json:"status,omitempty"`
	Archived         bool   `json:"archived,omitempty"`
}

// IsArchived reports whether the template sits in the archive.
func (t TemplateRow) IsArchived() bool {
	return t.Archived || strings.EqualFold(t.Status, StatusArchived)
}

// VersionRow is one version of a template.
type VersionRow struct {
	ID          int64  `json:"id"`
	Version     int    `json:"version"`
	Status      string `json:"status"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// IsArchived reports whether the version is archived.
func (v VersionRow) IsArchived() bool {
	return v.Status == StatusArchived
}

// TemplateSummary is an entry of the public template catalog.
type TemplateSummary struct {
	TemplateID    int64  `json:"templateId"`
	TemplateKey   string `json:"templateKey"`
	Title         string `json:"title"`
	Locale        string `json:"locale"`
	LatestVersion *int   `json:"latestVersion,omitempty"`
	Status        string `json:"status,omitempty"`
}

// Document is a generated file.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// DraftRequest starts a business plan draft.
type DraftRequest struct {
	Industry string         `json:"industry"`
	Country  string         `json:"country"`
	Answers  map[string]any `json:"answers"`
}

// Project is a generated draft as returned by the backend.
type Project struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ResultJSON  string `json:"resultJson,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	PreviewURL  string `json:"previewUrl,omitempty"`
}

// Verification is the outcome of a payment check.
type Verification struct {
	DraftID     string `json:"draftId"`
	Title       string `json:"title"`
	DownloadURL string `json:"downloadUrl"`
}

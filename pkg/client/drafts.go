package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	pathDraft         = "/api/business-plan/draft"
	pathProject       = "/api/projects/{id}"
	pathDraftDownload = "/api/projects/%s/draft-download"
	pathCheckout      = "/api/payments/checkout"
	pathVerify        = "/api/payments/verify"
)

var (
	// ErrNoDraftID is returned when the draft endpoint omits the id.
	ErrNoDraftID = errors.New("client: draft response has no draftId")
	// ErrNoCheckoutURL is returned when checkout yields no redirect URL.
	ErrNoCheckoutURL = errors.New("client: checkout response has no checkoutUrl")
)

// CreateDraft asks the backend to generate a business plan draft and
// returns its id.
func (c *Client) CreateDraft(ctx context.Context, req DraftRequest) (string, error) {
	if req.Answers == nil {
		req.Answers = map[string]any{}
	}
	var out struct {
		DraftID string `json:"draftId"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(pathDraft)
	if err != nil {
		return "", err
	}
	if err := c.check(resp); err != nil {
		return "", err
	}
	if err := decode(resp, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.DraftID) == "" {
		return "", ErrNoDraftID
	}
	return out.DraftID, nil
}

// Project loads a generated draft.
func (c *Client) Project(ctx context.Context, id string) (*Project, error) {
	var out Project
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		Get(pathProject)
	if err != nil {
		return nil, err
	}
	if err := c.check(resp); err != nil {
		return nil, err
	}
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		out.ID = id
	}
	return &out, nil
}

// DraftDownloadURL is the absolute URL of a draft's preview download.
func (c *Client) DraftDownloadURL(id string) string {
	return c.ResolveURL(fmt.Sprintf(pathDraftDownload, id))
}

// Checkout starts a payment for a draft and returns the redirect URL.
func (c *Client) Checkout(ctx context.Context, draftID string) (string, error) {
	var out struct {
		CheckoutURL string `json:"checkoutUrl"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"draftId": draftID}).
		Post(pathCheckout)
	if err != nil {
		return "", err
	}
	if err := c.checkJSON(resp); err != nil {
		return "", err
	}
	if err := decode(resp, &out); err != nil {
		return "", err
	}
	if out.CheckoutURL == "" {
		return "", ErrNoCheckoutURL
	}
	return out.CheckoutURL, nil
}

// VerifyPayment confirms a checkout session. The returned download URL is
// made absolute.
func (c *Client) VerifyPayment(ctx context.Context, sessionID string) (*Verification, error) {
	var out Verification
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("sessionId", sessionID).
		Get(pathVerify)
	if err != nil {
		return nil, err
	}
	if err := c.checkJSON(resp); err != nil {
		return nil, err
	}
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	out.DownloadURL = c.ResolveURL(out.DownloadURL)
	return &out, nil
}

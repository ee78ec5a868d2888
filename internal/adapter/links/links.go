// Package links builds public URLs for resources served by the HTTP API.
package links

import (
	"fmt"
	"net/url"
	"strconv"
)

// Builder joins resource paths onto a public base URL.
type Builder struct {
	base *url.URL
}

// NewBuilder parses baseURL, which must be absolute.
func NewBuilder(baseURL string) (*Builder, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("links: parse base url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("links: base url %q must be absolute", baseURL)
	}
	return &Builder{base: u}, nil
}

// InvoicePDF returns the download URL of an invoice PDF.
func (b *Builder) InvoicePDF(id int64) string {
	return b.base.JoinPath("invoices", strconv.FormatInt(id, 10), "pdf").String()
}

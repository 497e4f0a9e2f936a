package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/tomnomnom/linkheader"

	"github.com/fivetwenty-io/restkit/internal/constants"
	"github.com/fivetwenty-io/restkit/pkg/restkit"
)

// Perform issues req and returns the decoded JSON body. When paginate is set
// and the method is GET, "next" links are followed page by page and the
// decoded pages are concatenated. A failure on any page discards what was
// accumulated so far.
func (c *Client) Perform(ctx context.Context, req *Request, paginate bool) (any, error) {
	if !paginate || req.Method != nethttp.MethodGet {
		resp, err := c.Do(ctx, req)
		if err != nil {
			return nil, err
		}

		return DecodeBody(resp)
	}

	var result any

	page := req

	for pages := 1; ; pages++ {
		if c.maxPages > 0 && pages > c.maxPages {
			return nil, fmt.Errorf("%w: more than %d pages at %s", restkit.ErrPageLimitExceeded, c.maxPages, page.Path)
		}

		resp, err := c.Do(ctx, page)
		if err != nil {
			return nil, err
		}

		body, err := DecodeBody(resp)
		if err != nil {
			return nil, err
		}

		result, err = accumulate(result, body)
		if err != nil {
			return nil, fmt.Errorf("page %d from %s: %w", pages, resp.URL, err)
		}

		next := NextURL(resp.Headers, c.linksHeader)
		if next == "" {
			return result, nil
		}

		nextURL, err := resolveReference(resp.URL, next)
		if err != nil {
			return nil, fmt.Errorf("resolving next link %q: %w", next, err)
		}

		if c.debug && c.logger != nil {
			c.logger.Debug("Following pagination link", map[string]interface{}{
				"page": pages + 1,
				"url":  nextURL,
			})
		}

		page = &Request{
			Method:  nethttp.MethodGet,
			Path:    nextURL,
			Headers: req.Headers,
		}
	}
}

// accumulate merges a decoded page into the accumulated result. The first
// non-empty page becomes the result; later pages must be JSON arrays appended
// to it.
func accumulate(result, page any) (any, error) {
	if result == nil {
		return page, nil
	}

	if page == nil {
		return result, nil
	}

	items, ok := result.([]any)
	if !ok {
		return nil, restkit.ErrPageNotSequence
	}

	more, ok := page.([]any)
	if !ok {
		return nil, restkit.ErrPageNotSequence
	}

	return append(items, more...), nil
}

// DecodeBody decodes a successful response body as JSON. An empty body yields
// nil.
func DecodeBody(resp *Response) (any, error) {
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil, nil
	}

	var data any

	err := json.Unmarshal(resp.Body, &data)
	if err != nil {
		return nil, &restkit.DecodeError{
			URL:        resp.URL,
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
			Err:        err,
		}
	}

	return data, nil
}

// NextURL returns the target of the rel="next" entry in the named links
// header, or "" when there is none.
func NextURL(headers nethttp.Header, name string) string {
	values := headers.Values(name)
	if len(values) == 0 {
		return ""
	}

	for _, link := range linkheader.ParseMultiple(values) {
		for _, rel := range strings.Fields(link.Rel) {
			if strings.EqualFold(rel, constants.RelNext) && link.URL != "" {
				return link.URL
			}
		}
	}

	return ""
}

func resolveReference(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}

	return baseURL.ResolveReference(refURL).String(), nil
}

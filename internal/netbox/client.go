// Package netbox implements inventory.Inventory over the NetBox REST API.
//
// Objects are read from the list endpoint of their kind, following
// pagination, and updated with a PATCH of local_context_data on the
// object's detail endpoint.
package netbox

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/nbctx/internal/transport"
	"github.com/agentstation/nbctx/pkg/codec"
	"github.com/agentstation/nbctx/pkg/constants"
	"github.com/agentstation/nbctx/pkg/errors"
	"github.com/agentstation/nbctx/pkg/inventory"
	"github.com/agentstation/nbctx/pkg/logging"
)

// Client reads and updates objects of one kind.
type Client struct {
	transport *transport.Client
	kind      Kind
	pageSize  int
}

// Option configures a Client.
type Option func(*Client)

// WithPageSize sets the page size used when listing objects.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// New creates a client for kind over t.
func New(t *transport.Client, kind Kind, opts ...Option) *Client {
	c := &Client{
		transport: t,
		kind:      kind,
		pageSize:  constants.PageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Kind returns the object kind this client serves.
func (c *Client) Kind() Kind {
	return c.kind
}

// listPath is the list endpoint relative to the base URL.
func (c *Client) listPath() string {
	return strings.TrimPrefix(constants.APIPrefix, "/") + c.kind.Path + "/"
}

func (c *Client) detailURL(id int) string {
	return c.transport.URL(c.listPath()+strconv.Itoa(id)+"/", nil)
}

// Status probes the API and returns the NetBox version.
func (c *Client) Status(ctx context.Context) (string, error) {
	endpoint := c.transport.URL(strings.TrimPrefix(constants.APIPrefix, "/")+constants.StatusPath, nil)
	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return "", err
	}

	var status map[string]any
	if err := transport.DecodeResponse(resp, &status); err != nil {
		var statusErr *transport.StatusError
		if stderrors.As(err, &statusErr) {
			return "", errors.NewRemoteUnavailableError(c.transport.BaseURL(), statusErr.StatusCode,
				"no NetBox API found, the host or token may be wrong", err)
		}
		return "", err
	}

	version, _ := status["netbox-version"].(string)
	if version == "" {
		return "", errors.NewRemoteUnavailableError(c.transport.BaseURL(), resp.StatusCode,
			"status response has no netbox-version, the host or token may be wrong", nil)
	}
	return version, nil
}

// GetAll implements inventory.Inventory.
func (c *Client) GetAll(ctx context.Context) ([]inventory.Object, error) {
	logger := logging.FromContext(ctx)
	next := c.transport.URL(c.listPath(), url.Values{"limit": {strconv.Itoa(c.pageSize)}})
	seen := make(map[string]bool)

	objects := make([]inventory.Object, 0)
	for next != "" {
		if seen[next] {
			return nil, errors.NewRemoteUnavailableError(next, 0, "pagination does not terminate", nil)
		}
		seen[next] = true

		var p page
		if err := c.read(ctx, next, &p); err != nil {
			return nil, unavailable(err)
		}
		for _, rec := range p.Results {
			obj, ok, err := rec.object()
			if err != nil {
				return nil, err
			}
			if !ok {
				logger.Debug().Int("id", rec.ID).Str("kind", c.kind.Name).Msg("Skipping unnamed object")
				continue
			}
			objects = append(objects, obj)
		}

		var err error
		if next, err = c.nextPage(p.Next); err != nil {
			return nil, err
		}
		if next != "" {
			logger.Debug().Str("kind", c.kind.Name).Int("fetched", len(objects)).Int("count", p.Count).Msg("Fetching next page")
		}
	}
	return objects, nil
}

// nextPage maps the API's next link onto the configured base URL, so a
// proxy that rewrites scheme or host does not break pagination.
func (c *Client) nextPage(link *string) (string, error) {
	if link == nil || *link == "" {
		return "", nil
	}
	u, err := url.Parse(*link)
	if err != nil {
		return "", errors.NewRemoteUnavailableError(*link, 0, "invalid pagination link", err)
	}
	return c.transport.URL(c.listPath(), u.Query()), nil
}

// GetOne implements inventory.Inventory.
func (c *Client) GetOne(ctx context.Context, sel inventory.Selector) (inventory.Object, error) {
	if err := sel.Validate(); err != nil {
		return inventory.Object{}, err
	}

	if sel.ID != 0 {
		var rec record
		if err := c.read(ctx, c.detailURL(sel.ID), &rec); err != nil {
			return inventory.Object{}, c.notFound(err, sel)
		}
		obj, _, err := rec.object()
		return obj, err
	}

	var p page
	endpoint := c.transport.URL(c.listPath(), url.Values{"name": {sel.Name}})
	if err := c.read(ctx, endpoint, &p); err != nil {
		return inventory.Object{}, unavailable(err)
	}
	var matches []inventory.Object
	for _, rec := range p.Results {
		obj, ok, err := rec.object()
		if err != nil {
			return inventory.Object{}, err
		}
		if ok && sel.Matches(obj) {
			matches = append(matches, obj)
		}
	}
	switch len(matches) {
	case 0:
		return inventory.Object{}, errors.NewNotFoundError(c.kind.Singular, sel.String())
	case 1:
		return matches[0], nil
	default:
		return inventory.Object{}, errors.NewValidationError("name", sel.Name,
			fmt.Sprintf("%d %s objects share this name, address it by id", len(matches), c.kind.Singular))
	}
}

// Update implements inventory.Inventory.
func (c *Client) Update(ctx context.Context, sel inventory.Selector, value codec.Value) error {
	if err := sel.Validate(); err != nil {
		return err
	}

	id, name := sel.ID, sel.Name
	if id == 0 {
		obj, err := c.GetOne(ctx, sel)
		if err != nil {
			return err
		}
		id = obj.ID
	}

	resp, err := c.transport.Patch(ctx, c.detailURL(id), map[string]any{constants.ContextField: value})
	if err != nil {
		return err
	}
	err = transport.DecodeResponse(resp, nil)
	var statusErr *transport.StatusError
	if !stderrors.As(err, &statusErr) {
		return err
	}
	if statusErr.StatusCode == http.StatusNotFound {
		return errors.NewNotFoundError(c.kind.Singular, sel.String())
	}
	return &errors.UpdateRejectedError{
		Resource:   c.kind.Singular,
		Name:       name,
		ID:         id,
		StatusCode: statusErr.StatusCode,
		Detail:     statusErr.Detail,
	}
}

// read GETs endpoint into target. Unexpected statuses on reads mean the
// API is not usable with these credentials.
func (c *Client) read(ctx context.Context, endpoint string, target any) error {
	resp, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		return err
	}
	err = transport.DecodeResponse(resp, target)
	var statusErr *transport.StatusError
	if stderrors.As(err, &statusErr) && statusErr.StatusCode != http.StatusNotFound {
		return errors.NewRemoteUnavailableError(statusErr.URL, statusErr.StatusCode, statusErr.Detail, err)
	}
	return err
}

// unavailable reports a missing list endpoint as an unusable API.
func unavailable(err error) error {
	var statusErr *transport.StatusError
	if stderrors.As(err, &statusErr) {
		return errors.NewRemoteUnavailableError(statusErr.URL, statusErr.StatusCode, statusErr.Detail, err)
	}
	return err
}

// notFound turns a 404 into a NotFoundError for sel.
func (c *Client) notFound(err error, sel inventory.Selector) error {
	var statusErr *transport.StatusError
	if stderrors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return errors.NewNotFoundError(c.kind.Singular, sel.String())
	}
	return err
}

// page is one page of a list endpoint.
type page struct {
	Count   int      `json:"count"`
	Next    *string  `json:"next"`
	Results []record `json:"results"`
}

// record holds the fields read from a virtual machine or device.
type record struct {
	ID               int             `json:"id"`
	Name             *string         `json:"name"`
	LocalContextData json.RawMessage `json:"local_context_data"`
	LastUpdated      string          `json:"last_updated"`
}

// object converts r. Objects without a name cannot be mapped to a file
// and are reported with ok false.
func (r record) object() (obj inventory.Object, ok bool, err error) {
	obj = inventory.Object{ID: r.ID, Context: map[string]any{}}
	if r.Name != nil {
		obj.Name = *r.Name
	}
	if raw := bytes.TrimSpace(r.LocalContextData); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		value, err := codec.DecodeJSON(bytes.NewReader(raw))
		if err != nil {
			return obj, false, errors.NewRemoteUnavailableError("", 0,
				fmt.Sprintf("undecodable local_context_data on id %d", r.ID), err)
		}
		obj.Context = value
	}
	if r.LastUpdated != "" {
		if t, err := utc.Parse(time.RFC3339Nano, r.LastUpdated); err == nil {
			obj.LastUpdated = t
		}
	}
	return obj, obj.Name != "", nil
}

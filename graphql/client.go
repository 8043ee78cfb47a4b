// Package graphql implements the changediff services against a GraphQL API.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fwojciec/changediff"
	"github.com/fwojciec/changediff/gitdiff"
	"github.com/fwojciec/changediff/zerolog"
	gql "github.com/hasura/go-graphql-client"
)

// Compile-time interface verification.
var (
	_ changediff.ChangesetSpecDiffService = (*Client)(nil)
	_ changediff.ComparisonDiffService    = (*Client)(nil)
	_ changediff.RepositoryResolver       = (*Client)(nil)
	_ changediff.ChangesetSpecSource      = (*Client)(nil)
)

// Client issues queries against a GraphQL endpoint.
type Client struct {
	gql        *gql.Client
	token      string
	httpClient *http.Client
	hunks      changediff.HunkParser
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the access token sent in the Authorization header.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithHunkParser sets the parser used to type hunk body lines.
func WithHunkParser(p changediff.HunkParser) Option {
	return func(c *Client) { c.hunks = p }
}

// NewClient creates a client for the GraphQL endpoint at endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		hunks:      gitdiff.NewParser(),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.gql = gql.NewClient(endpoint, c.httpClient).WithRequestModifier(func(r *http.Request) {
		r.Header.Set("Accept", "application/json")
		if c.token != "" {
			r.Header.Set("Authorization", "token "+c.token)
		}
	})
	return c
}

// Error codes the GraphQL client attaches to failures that happened before
// the server's response could be read as GraphQL.
var transportCodes = map[string]bool{
	"request_error":     true,
	"json_encode_error": true,
	"json_decode_error": true,
}

// do sends one query and returns its data. Any error entry in the response
// fails the call with the entries combined by changediff.NewAggregateError,
// and a response without data and errors fails with changediff.ErrNoData.
func (c *Client) do(ctx context.Context, op, query string, vars map[string]any) (json.RawMessage, error) {
	start := time.Now()

	data, err := c.gql.ExecRaw(ctx, query, vars, gql.OperationName(op))
	if err != nil {
		var gqlErrs gql.Errors
		if !errors.As(err, &gqlErrs) {
			c.log.Warn().Err(err).Str("op", op).Msg("graphql request failed")
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		errs := make([]error, 0, len(gqlErrs))
		for _, e := range gqlErrs {
			if code, _ := e.Extensions["code"].(string); transportCodes[code] {
				c.log.Warn().Str("op", op).Str("code", code).Msg(e.Message)
				return nil, fmt.Errorf("%s: %s", op, e.Message)
			}
			errs = append(errs, &changediff.QueryError{Message: e.Message})
		}
		c.log.Debug().
			Str("op", op).
			Dur("took", time.Since(start)).
			Int("errors", len(errs)).
			Msg("graphql query")
		return nil, changediff.NewAggregateError(errs...)
	}

	c.log.Debug().
		Str("op", op).
		Dur("took", time.Since(start)).
		Msg("graphql query")
	if len(data) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, changediff.ErrNoData
	}
	return data, nil
}

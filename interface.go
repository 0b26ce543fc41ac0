package datacanvas

import (
	"context"
	"iter"
	"time"
)

// API defines the DataCanvas client surface. Client implements it; programs
// can depend on API and substitute a fake in tests.
type API interface {
	// ============================================================================
	// Device Operations
	// ============================================================================

	ListDevices(ctx context.Context) (*DeviceListResult, error)

	// ============================================================================
	// Data Operations
	// ============================================================================

	ListData(ctx context.Context, q DataQuery) (*DataListResult, error)
	DataPages(ctx context.Context, q DataQuery) iter.Seq2[*DataListResult, error]
	ListAllData(ctx context.Context, q DataQuery) (*DataListResult, error)
	ListDataBatch(ctx context.Context, queries []DataQuery, cfg *BatchConfig) []BatchResult

	// ============================================================================
	// Configuration
	// ============================================================================

	BaseURL() string
	ProjectID() int
	Timeout() time.Duration
	DataDefaults() DataDefaults
}

var _ API = (*Client)(nil)

// DataPages is shorthand for c.Data.Pages.
func (c *Client) DataPages(ctx context.Context, q DataQuery) iter.Seq2[*DataListResult, error] {
	return c.Data.Pages(ctx, q)
}

// ListAllData is shorthand for c.Data.All.
func (c *Client) ListAllData(ctx context.Context, q DataQuery) (*DataListResult, error) {
	return c.Data.All(ctx, q)
}

// ListDataBatch is shorthand for c.Data.ListBatch.
func (c *Client) ListDataBatch(ctx context.Context, queries []DataQuery, cfg *BatchConfig) []BatchResult {
	return c.Data.ListBatch(ctx, queries, cfg)
}

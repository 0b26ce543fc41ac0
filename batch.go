package datacanvas

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchResult contains the outcome of one query of a batch.
type BatchResult struct {
	Query  DataQuery       // The query as given
	Result *DataListResult // nil on error
	Err    error           // Error if the query failed, nil on success
}

// BatchConfig configures batch execution behavior.
type BatchConfig struct {
	// MaxConcurrent is the maximum number of concurrent API calls.
	// Defaults to 10 if not specified.
	MaxConcurrent int

	// StopOnError cancels the queries that have not finished when one fails.
	// Default is false (run all queries).
	StopOnError bool
}

// DefaultBatchConfig returns sensible defaults for batch operations.
func DefaultBatchConfig() *BatchConfig {
	return &BatchConfig{
		MaxConcurrent: 10,
		StopOnError:   false,
	}
}

// ListBatch runs several data queries concurrently. Results are returned in
// the order of queries, one per query. Each query is validated and sent
// exactly as List would.
//
// Example:
//
//	results := client.Data.ListBatch(ctx, []datacanvas.DataQuery{
//	    {TableName: "sensor_readings", DeviceIDs: []int64{1}},
//	    {TableName: "alarms"},
//	}, nil)
//	for _, r := range results {
//	    if r.Err != nil {
//	        log.Printf("%s failed: %v", r.Query.TableName, r.Err)
//	    }
//	}
func (s *DataService) ListBatch(ctx context.Context, queries []DataQuery, cfg *BatchConfig) []BatchResult {
	if len(queries) == 0 {
		return nil
	}

	if cfg == nil {
		cfg = DefaultBatchConfig()
	}
	limit := cfg.MaxConcurrent
	if limit <= 0 {
		limit = 10
	}

	var g *errgroup.Group
	gctx := ctx
	if cfg.StopOnError {
		g, gctx = errgroup.WithContext(ctx)
	} else {
		g = new(errgroup.Group)
	}
	g.SetLimit(limit)

	results := make([]BatchResult, len(queries))
	for i, q := range queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = BatchResult{
					Query: q,
					Err:   &Error{Kind: KindNetwork, Message: "context done: " + err.Error(), Err: err},
				}
				return nil
			}

			res, err := s.List(gctx, q)
			results[i] = BatchResult{Query: q, Result: res, Err: err}
			if err != nil && cfg.StopOnError {
				return err
			}
			return nil
		})
	}

	_ = g.Wait() // per-query errors are in results
	return results
}

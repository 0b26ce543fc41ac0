package datacanvas

import (
	"context"
	"iter"
)

// Pages returns an iterator over consecutive pages of q, starting at q.Page.
// Iteration stops after the page whose window reaches the reported Count, after
// an empty page, or at the first error. Each page is a separate List call; no
// call is retried.
//
// Example:
//
//	for page, err := range client.Data.Pages(ctx, datacanvas.DataQuery{TableName: "sensor_readings", Limit: 100}) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Printf("%d of %d records\n", page.Returned(), page.Count)
//	}
func (s *DataService) Pages(ctx context.Context, q DataQuery) iter.Seq2[*DataListResult, error] {
	return func(yield func(*DataListResult, error) bool) {
		resolved, err := s.resolve(q)
		if err != nil {
			yield(nil, err)
			return
		}

		for page := resolved.Page; ; page++ {
			if err := ctx.Err(); err != nil {
				yield(nil, &Error{Kind: KindNetwork, Message: "context done: " + err.Error(), Err: err})
				return
			}

			pq := resolved
			pq.Page = page
			res, err := s.List(ctx, pq)
			if err != nil {
				yield(nil, err)
				return
			}

			if !yield(res, nil) {
				return // caller stopped iteration
			}

			if res.Returned() == 0 || (page+1)*pq.Limit >= res.Count {
				return // no more pages
			}
		}
	}
}

// All fetches every page of q and merges the records per device, in page
// order. Count is taken from the last page.
func (s *DataService) All(ctx context.Context, q DataQuery) (*DataListResult, error) {
	merged := &DataListResult{Data: make(map[string][]DataPoint)}
	for page, err := range s.Pages(ctx, q) {
		if err != nil {
			return nil, err
		}
		merged.Count = page.Count
		for device, points := range page.Data {
			merged.Data[device] = append(merged.Data[device], points...)
		}
	}
	return merged, nil
}

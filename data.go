package datacanvas

import (
	"context"
	"strings"
)

const (
	// DefaultLimit is the page size used when a query sets none.
	DefaultLimit = 20

	// MaxLimit is the largest page size a query may request.
	MaxLimit = 1000

	// DefaultOrder is the sort order used when a query sets none.
	DefaultOrder = OrderDesc
)

// Order is the sort order of datatable records.
type Order string

const (
	OrderAsc  Order = "ASC"
	OrderDesc Order = "DESC"
)

// normalize returns the canonical spelling of o and whether it is valid.
// The empty order is valid and stays empty.
func (o Order) normalize() (Order, bool) {
	switch up := Order(strings.ToUpper(strings.TrimSpace(string(o)))); up {
	case "", OrderAsc, OrderDesc:
		return up, true
	default:
		return o, false
	}
}

// DataDefaults are the per-client defaults and bounds for data queries.
type DataDefaults struct {
	Limit    int   // Page size when a query sets none
	MaxLimit int   // Largest page size accepted
	Order    Order // Sort order when a query sets none
}

// DefaultDataDefaults returns DefaultLimit, MaxLimit and DefaultOrder.
func DefaultDataDefaults() DataDefaults {
	return DataDefaults{
		Limit:    DefaultLimit,
		MaxLimit: MaxLimit,
		Order:    DefaultOrder,
	}
}

func (d *DataDefaults) validate() error {
	if d.Limit <= 0 {
		return configurationErrorf("default limit must be positive, got %d", d.Limit)
	}
	if d.MaxLimit < d.Limit {
		return configurationErrorf("max limit %d is below default limit %d", d.MaxLimit, d.Limit)
	}
	order, ok := d.Order.normalize()
	if !ok || order == "" {
		return configurationErrorf("default order must be ASC or DESC, got %q", d.Order)
	}
	d.Order = order
	return nil
}

// WithDataDefaults replaces the default page size, maximum page size and sort
// order applied to data queries.
func WithDataDefaults(d DataDefaults) Option {
	return func(c *Client) {
		c.defaults = d
	}
}

// DataQuery selects datatable records. Zero values mean "unset".
type DataQuery struct {
	// TableName is the datatable to read. Required.
	TableName string
	// DeviceIDs restricts the query to these devices. Empty means all devices.
	DeviceIDs []int64
	// Page is the 0-based page number.
	Page int
	// Limit is the page size. Zero takes the client default; it may not
	// exceed the client's maximum.
	Limit int
	// Order is ASC or DESC (case-insensitive). Empty takes the client default.
	Order Order
}

// DataService retrieves datatable records grouped by device.
type DataService struct {
	exec     *executor
	defaults DataDefaults
}

// List returns one page of records of q.TableName.
//
// The query is validated before anything is sent; the first violation is
// returned as a KindValidation error. The server's response is returned as is.
func (s *DataService) List(ctx context.Context, q DataQuery) (*DataListResult, error) {
	fields, err := s.buildFields(q)
	if err != nil {
		return nil, err
	}
	return send[DataListResult](ctx, s.exec, EndpointData, fields)
}

// resolve validates q and applies the defaults.
func (s *DataService) resolve(q DataQuery) (DataQuery, error) {
	q.TableName = strings.TrimSpace(q.TableName)
	if q.TableName == "" {
		return q, validationErrorf("table name is required")
	}
	if q.Page < 0 {
		return q, validationErrorf("page must be a non-negative integer, got %d", q.Page)
	}
	if q.Limit < 0 {
		return q, validationErrorf("limit must be a positive integer, got %d", q.Limit)
	}
	for i, id := range q.DeviceIDs {
		if id <= 0 {
			return q, validationErrorf("device id at index %d must be a positive integer, got %d", i, id)
		}
	}
	order, ok := q.Order.normalize()
	if !ok {
		return q, validationErrorf("order must be ASC or DESC, got %q", q.Order)
	}

	if q.DeviceIDs == nil {
		q.DeviceIDs = []int64{}
	}
	if q.Limit == 0 {
		q.Limit = s.defaults.Limit
	}
	if order == "" {
		order = s.defaults.Order
	}
	q.Order = order

	if q.Limit > s.defaults.MaxLimit {
		return q, validationErrorf("limit %d exceeds the maximum of %d", q.Limit, s.defaults.MaxLimit)
	}
	return q, nil
}

func (s *DataService) buildFields(q DataQuery) (map[string]any, error) {
	q, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"datatable_name": q.TableName,
		"devices":        q.DeviceIDs,
		"page":           q.Page,
		"limit":          q.Limit,
		"order":          q.Order,
	}, nil
}

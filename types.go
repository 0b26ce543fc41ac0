package datacanvas

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// Device is a device registered in a DataCanvas project.
type Device struct {
	DeviceID   int64  `json:"device_id"`
	DeviceName string `json:"device_name"`
}

// DeviceListResult is the response of the device listing endpoint.
type DeviceListResult struct {
	Success bool     `json:"success"`
	Devices []Device `json:"devices"`
}

func (r *DeviceListResult) validate() error {
	if r.Devices == nil {
		return errors.New(`response has no "devices" field`)
	}
	return nil
}

// IDs returns the device ids in response order.
func (r *DeviceListResult) IDs() []int64 {
	ids := make([]int64, len(r.Devices))
	for i, d := range r.Devices {
		ids[i] = d.DeviceID
	}
	return ids
}

// FilterByName returns the devices whose name contains substr, ignoring case.
func (r *DeviceListResult) FilterByName(substr string) []Device {
	needle := strings.ToLower(substr)
	var out []Device
	for _, d := range r.Devices {
		if strings.Contains(strings.ToLower(d.DeviceName), needle) {
			out = append(out, d)
		}
	}
	return out
}

// DataPoint is one datatable record as returned by the server. Apart from
// "id" and "device" its fields depend on the datatable schema.
// JSON numbers decode as float64.
type DataPoint map[string]any

// ID returns the record id.
func (p DataPoint) ID() (int64, bool) {
	return GetInt(p, "id")
}

// DeviceID returns the id of the device that produced the record.
func (p DataPoint) DeviceID() (int64, bool) {
	return GetInt(p, "device")
}

// Fields returns the schema-specific fields, without "id" and "device".
func (p DataPoint) Fields() map[string]any {
	fields := make(map[string]any, len(p))
	for k, v := range p {
		if k == "id" || k == "device" {
			continue
		}
		fields[k] = v
	}
	return fields
}

// String returns a string field.
func (p DataPoint) String(field string) (string, bool) { return GetString(p, field) }

// Float returns a numeric field as float64.
func (p DataPoint) Float(field string) (float64, bool) { return GetFloat(p, field) }

// Int returns an integral numeric field.
func (p DataPoint) Int(field string) (int64, bool) { return GetInt(p, field) }

// Bool returns a boolean field.
func (p DataPoint) Bool(field string) (bool, bool) { return GetBool(p, field) }

// DataListResult is the response of the data listing endpoint.
// Count is the total number of matching records across the requested devices;
// it is not the number of records in Data when the page window limits it.
type DataListResult struct {
	Count int                    `json:"count"`
	Data  map[string][]DataPoint `json:"data"`
}

func (r *DataListResult) validate() error {
	if r.Data == nil {
		return errors.New(`response has no "data" field`)
	}
	return nil
}

// ForDevice returns the records of one device, or nil if it has none.
func (r *DataListResult) ForDevice(deviceID int64) []DataPoint {
	return r.Data[strconv.FormatInt(deviceID, 10)]
}

// DeviceIDs returns the device keys of Data in ascending order. Keys that are
// not integers are skipped.
func (r *DataListResult) DeviceIDs() []int64 {
	ids := make([]int64, 0, len(r.Data))
	for k := range r.Data {
		if id, err := strconv.ParseInt(k, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Returned is the number of records present in Data.
func (r *DataListResult) Returned() int {
	n := 0
	for _, points := range r.Data {
		n += len(points)
	}
	return n
}

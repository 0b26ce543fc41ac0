package datacanvas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// BenchmarkJSONUnmarshalDataList benchmarks decoding of a data response.
func BenchmarkJSONUnmarshalDataList(b *testing.B) {
	body := []byte(`{
		"count": 4,
		"data": {
			"1": [
				{"id": 1, "device": 1, "temperature": 21.5, "humidity": 40},
				{"id": 2, "device": 1, "temperature": 21.7, "humidity": 41}
			],
			"2": [
				{"id": 3, "device": 2, "temperature": 19.0, "humidity": 55},
				{"id": 4, "device": 2, "temperature": 18.8, "humidity": 56}
			]
		}
	}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var res DataListResult
		if err := json.Unmarshal(body, &res); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkBuildFields benchmarks query validation and body construction.
func BenchmarkBuildFields(b *testing.B) {
	client, err := NewClient(testConfig(""))
	if err != nil {
		b.Fatal(err)
	}
	q := DataQuery{TableName: "sensor_readings", DeviceIDs: []int64{1, 2, 3}, Limit: 100, Order: "asc"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fields, err := client.Data.buildFields(q)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := client.Data.exec.buildBody(fields); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkMapStatus benchmarks status classification.
func BenchmarkMapStatus(b *testing.B) {
	statuses := []int{400, 401, 403, 404, 422, 429, 500, 503, 418}
	for i := 0; i < b.N; i++ {
		_ = MapStatus(statuses[i%len(statuses)], "")
	}
}

// BenchmarkDataList benchmarks a full request against a local server.
func BenchmarkDataList(b *testing.B) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"count":1,"data":{"1":[{"id":1,"device":1,"temperature":21.5}]}}`)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	q := DataQuery{TableName: "sensor_readings"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := client.Data.List(ctx, q); err != nil {
			b.Fatal(err)
		}
	}
}

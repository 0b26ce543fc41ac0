// Package datacanvas provides a Go client library for the DataCanvas IoT data API.
//
// The API authenticates every request with an access key pair scoped to a
// project, lists the project's devices, and returns records from named
// datatables grouped by device.
//
// # Authentication
//
// Create a client with the access key pair and project id:
//
//	client, err := datacanvas.NewClient(datacanvas.Config{
//	    ClientKey: "your-access-key-client",
//	    SecretKey: "your-access-key-secret",
//	    ProjectID: 10,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The keys are sent in the JSON body of every request and never appear in
// error messages or logs.
//
// # Basic Usage
//
// List all devices:
//
//	res, err := client.Devices.List(ctx)
//	for _, d := range res.Devices {
//	    fmt.Printf("Device: %s (%d)\n", d.DeviceName, d.DeviceID)
//	}
//
// Read records from a datatable:
//
//	data, err := client.Data.List(ctx, datacanvas.DataQuery{
//	    TableName: "sensor_readings",
//	    DeviceIDs: []int64{1, 2},
//	    Limit:     50,
//	})
//	for _, p := range data.ForDevice(1) {
//	    temp, _ := p.Float("temp")
//	    fmt.Println(temp)
//	}
//
// Queries are validated before anything is sent. Page defaults to 0, Limit to
// 20 (at most 1000) and Order to DESC; see WithDataDefaults.
//
// # Pagination
//
//	for page, err := range client.Data.Pages(ctx, q) {
//	    ...
//	}
//
// or fetch and merge every page with client.Data.All.
//
// # Error Handling
//
// Every failure is an *Error with a Kind. Check kinds with errors.Is or the
// Is* helpers:
//
//	_, err := client.Data.List(ctx, q)
//	switch {
//	case datacanvas.IsAuthentication(err):
//	    // keys rejected (401)
//	case datacanvas.IsValidation(err):
//	    // fix the query (local check, 400 or 422)
//	case datacanvas.IsRetryable(err):
//	    // rate limit, 5xx or network: try again later
//	}
//
// The client never retries. WaitRetryAfter honours the server's Retry-After
// hint for callers that do.
package datacanvas

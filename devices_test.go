package datacanvas

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevicesService_List(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, EndpointDevices, r.URL.Path)

		body := decodeBody(t, r)
		assert.Equal(t, map[string]any{
			"access_key_client": testClientKey,
			"access_key_secret": testSecretKey,
			"project_id":        float64(testProjectID),
		}, body)

		writeJSON(w, http.StatusOK, `{
			"success": true,
			"devices": [
				{"device_id": 1, "device_name": "Boiler Room Sensor"},
				{"device_id": 2, "device_name": "Roof Weather Station"}
			]
		}`)
	})

	res, err := client.Devices.List(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, []Device{
		{DeviceID: 1, DeviceName: "Boiler Room Sensor"},
		{DeviceID: 2, DeviceName: "Roof Weather Station"},
	}, res.Devices)
	assert.Equal(t, []int64{1, 2}, res.IDs())
}

func TestDevicesService_List_Empty(t *testing.T) {
	rt := &recordingTransport{body: `{"success":true,"devices":[]}`}
	client := newRecordingClient(t, rt)

	res, err := client.ListDevices(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, res.Devices)
	assert.Empty(t, res.Devices)
	assert.Empty(t, res.IDs())
}

func TestDevicesService_List_MissingDevices(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"field absent", `{"success":true}`},
		{"field null", `{"success":true,"devices":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &recordingTransport{body: tt.body}
			client := newRecordingClient(t, rt)

			res, err := client.Devices.List(context.Background())
			assert.Nil(t, res)
			apiErr := requireKind(t, err, KindNetwork)
			assert.Contains(t, apiErr.Message, "devices")
		})
	}
}

func TestDevicesService_List_Unauthorized(t *testing.T) {
	rt := &recordingTransport{status: http.StatusUnauthorized, body: `{"message":"bad key"}`}
	client := newRecordingClient(t, rt)

	_, err := client.Devices.List(context.Background())
	apiErr := requireKind(t, err, KindAuthentication)
	assert.Equal(t, "bad key", apiErr.Message)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.True(t, IsAuthentication(err))
	assert.False(t, IsRetryable(err))
}

func TestDeviceListResult_FilterByName(t *testing.T) {
	res := &DeviceListResult{Devices: []Device{
		{DeviceID: 1, DeviceName: "Boiler Room Sensor"},
		{DeviceID: 2, DeviceName: "Roof Weather Station"},
		{DeviceID: 3, DeviceName: "boiler backup"},
	}}

	got := res.FilterByName("BOILER")
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].DeviceID)
	assert.Equal(t, int64(3), got[1].DeviceID)

	assert.Len(t, res.FilterByName(""), 3)
	assert.Empty(t, res.FilterByName("garage"))
}

package datacanvas

import "context"

// DevicesService lists the devices of a project.
type DevicesService struct {
	exec *executor
}

// List returns all devices registered in the client's project.
// The request carries only the credentials.
func (s *DevicesService) List(ctx context.Context) (*DeviceListResult, error) {
	return send[DeviceListResult](ctx, s.exec, EndpointDevices, nil)
}

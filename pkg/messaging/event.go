// Package messaging carries vehicle registration events over a redis stream.
package messaging

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// VehicleRegisteredType is the routing designation of registration events. It
// is also the default stream name.
const VehicleRegisteredType = "vehicle.registered"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// VehicleRegistered is published once per motorcycle registration.
type VehicleRegistered struct {
	VehicleID    string    `json:"vehicleId"`
	Identifier   string    `json:"identifier"`
	Year         int       `json:"year"`
	Model        string    `json:"model"`
	LicensePlate string    `json:"licensePlate"`
	Timestamp    time.Time `json:"timestamp"`
}

func EncodeVehicleRegistered(evt VehicleRegistered) ([]byte, error) {
	return json.Marshal(evt)
}

// DecodeVehicleRegistered parses a payload. Unknown fields are ignored.
func DecodeVehicleRegistered(payload []byte) (VehicleRegistered, error) {
	var evt VehicleRegistered
	if err := json.Unmarshal(payload, &evt); err != nil {
		return VehicleRegistered{}, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	return evt, nil
}

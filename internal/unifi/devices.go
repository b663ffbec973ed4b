package unifi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/unifi-search-tool/unifi-search/internal/macaddr"
)

var errMissingField = errors.New("missing required field")

// Site is a management partition on the controller.
type Site struct {
	// Code is the opaque site id used in API paths (the "name" field).
	Code        string `json:"code"`
	Description string `json:"description"`
}

type rawSite struct {
	Name *string `json:"name"`
	Desc *string `json:"desc"`
}

func decodeSite(raw json.RawMessage) (Site, error) {
	var rs rawSite
	if err := json.Unmarshal(raw, &rs); err != nil {
		return Site{}, err
	}

	switch {
	case rs.Name == nil:
		return Site{}, fmt.Errorf("%w: site name", errMissingField)
	case rs.Desc == nil:
		return Site{}, fmt.Errorf("%w: site desc", errMissingField)
	}

	return Site{Code: *rs.Name, Description: *rs.Desc}, nil
}

// DeviceState is the controller's numeric device state.
// Codes follow the controller's device-basic "state" field.
type DeviceState int

const (
	StateOffline         DeviceState = 0
	StateConnected       DeviceState = 1
	StatePendingAdoption DeviceState = 2
	StateUpdating        DeviceState = 4
	StateProvisioning    DeviceState = 5
	StateUnreachable     DeviceState = 6
	StateAdopting        DeviceState = 7
	StateAdoptionError   DeviceState = 9
	StateAdoptionFailed  DeviceState = 10
	StateIsolated        DeviceState = 11
)

var stateNames = map[DeviceState]string{
	StateOffline:         "Offline",
	StateConnected:       "Connected",
	StatePendingAdoption: "Pending Adoption",
	StateUpdating:        "Updating",
	StateProvisioning:    "Provisioning",
	StateUnreachable:     "Unreachable",
	StateAdopting:        "Adopting",
	StateAdoptionError:   "Adoption Error",
	StateAdoptionFailed:  "Adoption Failed",
	StateIsolated:        "Isolated",
}

// Known reports whether s is one of the documented state codes.
func (s DeviceState) Known() bool {
	_, ok := stateNames[s]
	return ok
}

// String returns the human label, or "Unknown" for undocumented codes.
func (s DeviceState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return "Unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s DeviceState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Device is a network device as reported by stat/device-basic.
type Device struct {
	MAC         string       `json:"mac"`
	Addr        macaddr.Addr `json:"-"`
	State       DeviceState  `json:"state"`
	Adopted     bool         `json:"adopted"`
	Type        string       `json:"type"`
	Model       string       `json:"model"`
	GatewayMode *bool        `json:"in_gateway_mode,omitempty"`
	Name        string       `json:"name,omitempty"`
	// ModelName is the marketing name resolved from Type and Model.
	ModelName string `json:"model_name,omitempty"`
	// Site is the description of the site the device was found in.
	Site string `json:"site,omitempty"`
}

type rawDevice struct {
	MAC           *string `json:"mac"`
	State         *int    `json:"state"`
	Adopted       *bool   `json:"adopted"`
	Type          *string `json:"type"`
	Model         *string `json:"model"`
	InGatewayMode *bool   `json:"in_gateway_mode"`
	Name          *string `json:"name"`
}

// decodeDevice decodes a single device record and parses its MAC once so
// matching can compare bytes.
func decodeDevice(raw json.RawMessage) (Device, error) {
	var rd rawDevice
	if err := json.Unmarshal(raw, &rd); err != nil {
		return Device{}, err
	}

	switch {
	case rd.MAC == nil:
		return Device{}, fmt.Errorf("%w: mac", errMissingField)
	case rd.State == nil:
		return Device{}, fmt.Errorf("%w: state", errMissingField)
	case rd.Adopted == nil:
		return Device{}, fmt.Errorf("%w: adopted", errMissingField)
	case rd.Type == nil:
		return Device{}, fmt.Errorf("%w: type", errMissingField)
	case rd.Model == nil:
		return Device{}, fmt.Errorf("%w: model", errMissingField)
	}

	addr, err := macaddr.Parse(*rd.MAC)
	if err != nil {
		return Device{}, err
	}

	d := Device{
		MAC:         *rd.MAC,
		Addr:        addr,
		State:       DeviceState(*rd.State),
		Adopted:     *rd.Adopted,
		Type:        *rd.Type,
		Model:       *rd.Model,
		GatewayMode: rd.InGatewayMode,
	}
	if rd.Name != nil {
		d.Name = *rd.Name
	}

	return d, nil
}

// ResolveModelName fills ModelName from the static model table.
func (d *Device) ResolveModelName() {
	if name, ok := LookupModel(d.Type, d.Model); ok {
		d.ModelName = name
	}
}

// Label is the display label: the device name, else the marketing model
// name, else the raw type and model codes.
func (d *Device) Label() string {
	if strings.TrimSpace(d.Name) != "" {
		return d.Name
	}

	if d.ModelName != "" {
		return d.ModelName
	}

	if name, ok := LookupModel(d.Type, d.Model); ok {
		return name
	}

	return d.Type + " " + d.Model
}

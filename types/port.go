package types

import "portcode-go/errcode"

// Topic tokens used by the port services.
const (
	TokConfig  = "config"
	TokPort    = "port"
	TokState   = "state"
	TokRefresh = "refresh"
	TokDet     = "det"
	TokSetDir  = "set_direction"
	TokSetMode = "set_mode"
	TokVersion = "version"
)

// ---- Pin table supplied on "config/port" (retained) ----

type PortConfig struct {
	Board string      `json:"board,omitempty"`
	Pins  []PinRecord `json:"pins"`
}

// PinRecord is the JSON form of one pin configuration record.
// Empty strings take the defaults: dio, in, no resistor, low.
type PinRecord struct {
	Port           string `json:"port"` // "A".."F"
	Pin            int    `json:"pin"`
	Mode           string `json:"mode,omitempty"`
	Dir            string `json:"dir,omitempty"`
	Pull           string `json:"pull,omitempty"`  // "none", "up", "down"
	Level          string `json:"level,omitempty"` // "low", "high"
	DirChangeable  bool   `json:"dir_changeable"`
	ModeChangeable bool   `json:"mode_changeable"`
	OpenDrain      bool   `json:"open_drain,omitempty"`
	DriveMA        int    `json:"drive_ma,omitempty"` // 2, 4, 8 or 0
	Slew           bool   `json:"slew,omitempty"`
}

// ---- Requests on "port/..." ----

type SetDirectionReq struct {
	Pin       int    `json:"pin"`
	Direction string `json:"dir"`
}

type SetModeReq struct {
	Pin  int    `json:"pin"`
	Mode string `json:"mode"`
}

// Reply answers every port request.
type Reply struct {
	OK    bool         `json:"ok"`
	Error errcode.Code `json:"error,omitempty"`
}

// VersionReply answers "port/version".
type VersionReply struct {
	VendorID uint16 `json:"vendor_id"`
	ModuleID uint16 `json:"module_id"`
	SW       string `json:"sw"` // "1.0.0"
	AR       string `json:"ar"` // AUTOSAR release, "4.0.3"
}

// ---- Retained state on "port/state" ----

type PortState struct {
	Initialized bool   `json:"initialized"`
	Board       string `json:"board,omitempty"`
	Pins        int    `json:"pins"`
	Refreshes   uint32 `json:"refreshes"`
	LastError   string `json:"last_error,omitempty"`
}

// ---- "config/refresh" (retained) ----

type RefreshConfig struct {
	IntervalMS int `json:"interval_ms"`
}

// ---- "det/<module>" ----

type DetReport struct {
	ModuleID   uint16       `json:"module_id"`
	InstanceID uint8        `json:"instance_id"`
	APIID      uint8        `json:"api_id"`
	ErrorID    uint8        `json:"error_id"`
	API        string       `json:"api,omitempty"`
	Code       errcode.Code `json:"code,omitempty"`
}

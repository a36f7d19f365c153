package tm4cport

import "portcode-go/errcode"

// Identification reported to the error tracer and by GetVersionInfo.
const (
	VendorID   uint16 = 1000
	ModuleID   uint16 = 124
	InstanceID uint8  = 0

	SWMajorVersion uint8 = 1
	SWMinorVersion uint8 = 0
	SWPatchVersion uint8 = 0

	ARMajorVersion uint8 = 4
	ARMinorVersion uint8 = 0
	ARPatchVersion uint8 = 3
)

// Service ids.
const (
	SIDInit                 uint8 = 0x00
	SIDSetPinDirection      uint8 = 0x01
	SIDRefreshPortDirection uint8 = 0x02
	SIDGetVersionInfo       uint8 = 0x03
	SIDSetPinMode           uint8 = 0x04
)

// Development error ids.
const (
	EParamPin              uint8 = 0x0A
	EDirectionUnchangeable uint8 = 0x0B
	EParamConfig           uint8 = 0x0C
	EParamInvalidMode      uint8 = 0x0D
	EModeUnchangeable      uint8 = 0x0E
	EUninit                uint8 = 0x0F
	EParamPointer          uint8 = 0x10
)

// ErrorCode maps a development error id to its bus-facing code.
func ErrorCode(errorID uint8) errcode.Code {
	switch errorID {
	case EParamPin:
		return errcode.InvalidPin
	case EDirectionUnchangeable:
		return errcode.DirectionUnchangeable
	case EParamConfig:
		return errcode.NullConfig
	case EParamInvalidMode:
		return errcode.InvalidMode
	case EModeUnchangeable:
		return errcode.ModeUnchangeable
	case EUninit:
		return errcode.NotInitialized
	case EParamPointer:
		return errcode.NullPointer
	}
	return errcode.Error
}

// ServiceName names a service id for logs.
func ServiceName(sid uint8) string {
	switch sid {
	case SIDInit:
		return "init"
	case SIDSetPinDirection:
		return "set_pin_direction"
	case SIDRefreshPortDirection:
		return "refresh_port_direction"
	case SIDGetVersionInfo:
		return "get_version_info"
	case SIDSetPinMode:
		return "set_pin_mode"
	}
	return "unknown"
}

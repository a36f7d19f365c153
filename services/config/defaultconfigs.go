package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: board ID (same value placed in ctx under CtxBoardKey)
// Val: raw JSON bytes for that board
// -----------------------------------------------------------------------------

// DefaultBoard needs no embedded document; it maps to the full pin table.
const DefaultBoard = "default"

// EK-TM4C123GXL LaunchPad: UART0 on the debug USB, RGB LED on PF1..PF3,
// SW1 on PF4 and SW2 on PF0 (locked pin), I2C0 header on PB2/PB3.
const cfgLaunchpad = `{
  "port": {
    "pins": [
      {"port": "A", "pin": 0, "mode": "uart", "dir": "in"},
      {"port": "A", "pin": 1, "mode": "uart", "dir": "out"},
      {"port": "B", "pin": 2, "mode": "i2c", "dir": "out", "pull": "up", "mode_changeable": true},
      {"port": "B", "pin": 3, "mode": "i2c", "dir": "out", "pull": "up", "open_drain": true, "mode_changeable": true},
      {"port": "E", "pin": 3, "mode": "adc", "dir": "in"},
      {"port": "F", "pin": 0, "mode": "dio", "dir": "in", "pull": "up"},
      {"port": "F", "pin": 1, "mode": "dio", "dir": "out", "level": "low", "drive_ma": 8, "slew": true},
      {"port": "F", "pin": 2, "mode": "dio", "dir": "out", "level": "low", "mode_changeable": true},
      {"port": "F", "pin": 3, "mode": "dio", "dir": "out", "level": "low", "dir_changeable": true},
      {"port": "F", "pin": 4, "mode": "dio", "dir": "in", "pull": "up"}
    ]
  },
  "refresh": {
    "interval_ms": 1000
  }
}`

var embeddedConfigs = map[string][]byte{
	"ek-tm4c123gxl": []byte(cfgLaunchpad),
}

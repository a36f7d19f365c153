//go:build rp2040 || rp2350

// Bring-up tool on a Pico: applies a board table to a TM4C123 target
// through the I2C register bridge on i2c0, then keeps refreshing it and
// prints the port registers.
package main

import (
	"machine"
	"time"

	"portcode-go/det"
	"portcode-go/drivers/tm4cport"
	"portcode-go/drivers/tm4cport/regbank"
	"portcode-go/services/config"
	"portcode-go/x/bitx"
	"portcode-go/x/conv"
)

const board = "ek-tm4c123gxl"

func main() {
	time.Sleep(2 * time.Second)
	println("[bringup] target board", board)

	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	}); err != nil {
		println("[bringup] i2c0:", err.Error())
		return
	}
	bank := regbank.NewI2CBridge(i2c, regbank.DefaultBridgeAddress)

	b, err := config.Lookup(board)
	if err != nil || b.Port == nil {
		println("[bringup] no port table for", board)
		return
	}
	tbl, err := config.ToTable(*b.Port)
	if err != nil {
		println("[bringup] table:", err.Error())
		return
	}

	eng := tm4cport.New(bank, det.Console{}, tm4cport.DefaultOptions())
	eng.Init(tbl)
	report(bank)

	for range time.Tick(time.Second) {
		eng.RefreshPortDirection()
		report(bank)
	}
}

// report prints DIR, DEN and PCTL of every clocked port, or the bridge
// error if the last round failed.
func report(bank *regbank.Bridge) {
	var h [8]byte
	gate := bank.Load32(tm4cport.SysctlRCGC2)
	for p := tm4cport.PortA; p < tm4cport.NumPorts; p++ {
		if !bitx.IsSet(gate, uint8(p)) {
			continue
		}
		base, _ := tm4cport.Base(p)
		dir := string(conv.U8Hex(h[:], uint8(bank.Load32(base+tm4cport.OffDir))))
		den := string(conv.U8Hex(h[:], uint8(bank.Load32(base+tm4cport.OffDEN))))
		pctl := string(conv.U32Hex(h[:], bank.Load32(base+tm4cport.OffPCTL)))
		println("[bringup] port", p.String(), "dir", dir, "den", den, "pctl", pctl)
	}
	if err := bank.Err(); err != nil {
		println("[bringup] bridge:", err.Error())
		bank.ClearErr()
	}
}

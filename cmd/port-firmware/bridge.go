//go:build tinygo

package main

import (
	"machine"
	"time"

	"portcode-go/drivers/tm4cport/mmio"
	"portcode-go/drivers/tm4cport/regbank"
)

const bridgeBaud = 115200

// serveBridge exposes the port registers on UART1 for portdump -serial.
// The console keeps UART0.
func serveBridge() {
	uart := machine.UART1
	if err := uart.Configure(machine.UARTConfig{BaudRate: bridgeBaud}); err != nil {
		println("[bridge] uart1:", err.Error())
		return
	}
	println("[bridge] serving registers on uart1")
	for {
		if err := regbank.Serve(regbank.NewLink(uart, 0), mmio.Bank{}); err != nil {
			println("[bridge] serve:", err.Error())
			time.Sleep(100 * time.Millisecond)
		}
	}
}

//go:build tinygo

// Firmware for the EK-TM4C123GXL: the pin engine on the real registers,
// driven over the in-process bus. UART1 carries the register bridge.
package main

import (
	"context"
	"time"

	"portcode-go/bus"
	"portcode-go/det"
	"portcode-go/drivers/tm4cport"
	"portcode-go/drivers/tm4cport/mmio"
	"portcode-go/services/config"
	"portcode-go/services/port"
	"portcode-go/services/refresh"
	"portcode-go/types"
)

const board = "ek-tm4c123gxl"

func main() {
	// Allow the debug UART to settle before we print.
	time.Sleep(500 * time.Millisecond)
	println("[main] boot", board)

	ctx := context.WithValue(context.Background(), config.CtxBoardKey, board)
	b := bus.NewBus(4)

	detConn := b.NewConnection("det")
	rep := det.Multi(det.Console{}, &det.BusReporter{
		Conn:     detConn,
		Describe: tm4cport.ErrorCode,
		APIName:  tm4cport.ServiceName,
	})

	opts := tm4cport.DefaultOptions()
	opts.OptionalConfig = true
	svc := port.New(mmio.Bank{}, rep, opts)
	if err := svc.Start(ctx, b.NewConnection("port")); err != nil {
		println("[main] port service:", err.Error())
	}

	ref := &refresh.Service{}
	if err := ref.Start(ctx, b.NewConnection("refresh")); err != nil {
		println("[main] refresh service:", err.Error())
	}

	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	go serveBridge()

	ui := b.NewConnection("ui")
	state := ui.Subscribe(bus.T(types.TokPort, types.TokState))
	for m := range state.Channel() {
		st, ok := m.Payload.(types.PortState)
		if !ok {
			continue
		}
		if st.LastError != "" {
			println("[main] port state: initialized", st.Initialized, "pins", st.Pins, "error", st.LastError)
			continue
		}
		println("[main] port state: initialized", st.Initialized, "pins", st.Pins, "refreshes", st.Refreshes)
	}
}

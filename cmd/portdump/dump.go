package main

import (
	"encoding/json"
	"fmt"
	"io"

	"portcode-go/drivers/tm4cport"
	"portcode-go/types"
	"portcode-go/x/bitx"
)

// dump prints the registers of every clocked port.
func dump(out io.Writer, bank tm4cport.RegisterBank) {
	gate := bank.Load32(tm4cport.SysctlRCGC2)
	fmt.Fprintf(out, "RCGC2 %08X\n", gate)
	for p := tm4cport.PortA; p < tm4cport.NumPorts; p++ {
		if !bitx.IsSet(gate, uint8(p)) {
			continue
		}
		base, _ := tm4cport.Base(p)
		fmt.Fprintf(out, "port %v @ %08X\n", p, base)
		for _, r := range tm4cport.Registers {
			fmt.Fprintf(out, "  %-5s %08X\n", r.Name, bank.Load32(base+r.Off))
		}
	}
}

func writeJSON(out io.Writer, pc types.PortConfig) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(pc)
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
	"github.com/pkg/errors"

	"portcode-go/drivers/tm4cport"
	"portcode-go/x/conv"
)

// console executes script lines against an initialised engine:
//
//	dir <pin> in|out
//	mode <pin> <mode>
//	refresh
//	version
//	dump
//
// Blank lines and lines starting with # are skipped.
type console struct {
	eng  *tm4cport.Engine
	bank tm4cport.RegisterBank
}

func runScript(in io.Reader, out io.Writer, c *console) error {
	sc := bufio.NewScanner(in)
	line := 0
	for sc.Scan() {
		line++
		args, err := shlex.Split(sc.Text())
		if err != nil {
			return errors.Wrapf(err, "line %d", line)
		}
		if len(args) == 0 || strings.HasPrefix(args[0], "#") {
			continue
		}
		if err := c.exec(out, args); err != nil {
			return errors.Wrapf(err, "line %d", line)
		}
	}
	return sc.Err()
}

func (c *console) exec(out io.Writer, args []string) error {
	switch args[0] {
	case "dir":
		if len(args) != 3 {
			return errors.New("usage: dir <pin> in|out")
		}
		pin, ok := parsePin(args[1])
		if !ok {
			return errors.Errorf("bad pin %q", args[1])
		}
		d, ok := tm4cport.ParseDirection(args[2])
		if !ok {
			return errors.Errorf("unknown direction %q", args[2])
		}
		c.eng.SetPinDirection(pin, d)
	case "mode":
		if len(args) != 3 {
			return errors.New("usage: mode <pin> <mode>")
		}
		pin, ok := parsePin(args[1])
		if !ok {
			return errors.Errorf("bad pin %q", args[1])
		}
		m, ok := tm4cport.ParseMode(args[2])
		if !ok {
			return errors.Errorf("unknown mode %q", args[2])
		}
		c.eng.SetPinMode(pin, m)
		if t := c.eng.Table(); pin < len(t) {
			fmt.Fprintf(out, "%s -> %s\n", tm4cport.PinName(t[pin].Port, t[pin].Pin), m.Func())
		}
	case "refresh":
		c.eng.RefreshPortDirection()
	case "version":
		var vi tm4cport.VersionInfo
		c.eng.GetVersionInfo(&vi)
		ma, mi, pa := tm4cport.ARVersion()
		fmt.Fprintf(out, "vendor %d module %d sw %d.%d.%d ar %d.%d.%d\n",
			vi.VendorID, vi.ModuleID, vi.SWMajor, vi.SWMinor, vi.SWPatch, ma, mi, pa)
	case "dump":
		dump(out, c.bank)
	default:
		return errors.Errorf("unknown command %q", args[0])
	}
	return nil
}

func parsePin(s string) (int, bool) {
	n, ok := conv.Atou(s)
	if !ok || n > 0xFFFF {
		return 0, false
	}
	return int(n), true
}

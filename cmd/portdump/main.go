// Command portdump applies a pin table and prints the resulting port
// register image.
//
// By default the table is applied to an emulated TM4C123 coming out of
// reset. With -serial the same accesses go to a real target running the
// register bridge.
//
//	portdump -board ek-tm4c123gxl
//	portdump -config board.json -optional -script cmds.txt
//	portdump -serial /dev/ttyACM0 -board default
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/tarm/serial"

	"portcode-go/det"
	"portcode-go/drivers/tm4cport"
	"portcode-go/drivers/tm4cport/regbank"
	"portcode-go/services/config"
)

func main() {
	board := flag.String("board", config.DefaultBoard, "embedded board table")
	file := flag.String("config", "", "board JSON file (overrides -board)")
	optional := flag.Bool("optional", false, "apply open drain, drive strength and slew rate")
	device := flag.String("serial", "", "serial device of a target running the register bridge")
	baud := flag.Int("baud", 115200, "serial baud rate")
	script := flag.String("script", "", `command script run after init ("-" for stdin)`)
	asJSON := flag.Bool("json", false, "print the table as JSON instead of applying it")
	flag.Parse()

	if err := run(os.Stdout, options{
		board:    *board,
		file:     *file,
		optional: *optional,
		device:   *device,
		baud:     *baud,
		script:   *script,
		asJSON:   *asJSON,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "portdump:", err)
		os.Exit(1)
	}
}

type options struct {
	board    string
	file     string
	optional bool
	device   string
	baud     int
	script   string
	asJSON   bool
}

func run(out io.Writer, o options) error {
	var (
		b   config.Board
		err error
	)
	if o.file != "" {
		b, err = config.LoadFile(o.file)
	} else {
		b, err = config.Lookup(o.board)
	}
	if err != nil {
		return err
	}
	if b.Port == nil {
		return errors.New("board has no port section")
	}
	tbl, err := config.ToTable(*b.Port)
	if err != nil {
		return err
	}
	if o.asJSON {
		return writeJSON(out, config.FromTable(b.Port.Board, tbl))
	}

	bank, closeBank, err := openBank(o.device, o.baud)
	if err != nil {
		return err
	}
	defer closeBank()

	opts := tm4cport.DefaultOptions()
	opts.OptionalConfig = o.optional
	rec := &det.Recorder{}
	eng := tm4cport.New(bank, det.Multi(rec, det.Console{}), opts)
	eng.Init(tbl)

	if o.script != "" {
		in, closeIn, err := openScript(o.script)
		if err != nil {
			return err
		}
		defer closeIn()
		if err := runScript(in, out, &console{eng: eng, bank: bank}); err != nil {
			return err
		}
	} else {
		dump(out, bank)
	}

	if br, ok := bank.(*regbank.Bridge); ok && br.Err() != nil {
		return br.Err()
	}
	if n := rec.Len(); n > 0 {
		fmt.Fprintf(out, "%d development error(s) reported\n", n)
	}
	return nil
}

func openBank(device string, baud int) (tm4cport.RegisterBank, func(), error) {
	if device == "" {
		return regbank.NewTM4C123(), func() {}, nil
	}
	p, err := serial.OpenPort(&serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: 500 * time.Millisecond,
	})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open %s", device)
	}
	return regbank.NewStreamBridge(p), func() { _ = p.Close() }, nil
}

func openScript(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open script")
	}
	return f, func() { _ = f.Close() }, nil
}

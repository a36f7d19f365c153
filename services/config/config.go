package config

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"portcode-go/bus"
	"portcode-go/errcode"
	"portcode-go/types"
)

// -----------------------------------------------------------------------------
// String constants (live in flash, not RAM)
// -----------------------------------------------------------------------------

const (
	serviceName  = "config"
	configPrefix = types.TokConfig
	CtxBoardKey  = "board" // context key used for board ID
)

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(board string) ([]byte, bool) {
	b, ok := embeddedConfigs[board]
	return b, ok
}

// Board is the document stored per board: one section per configured
// service.
type Board struct {
	Port    *types.PortConfig    `json:"port,omitempty"`
	Refresh *types.RefreshConfig `json:"refresh,omitempty"`
}

// Decode parses a board document and checks that its pin table converts
// into a valid table.
func Decode(raw []byte) (Board, error) {
	var b Board
	if err := json.Unmarshal(raw, &b); err != nil {
		return Board{}, errors.Wrap(errcode.InvalidPayload, err.Error())
	}
	if b.Port != nil {
		if _, err := ToTable(*b.Port); err != nil {
			return Board{}, err
		}
	}
	return b, nil
}

// LoadFile reads a board document from disk.
func LoadFile(path string) (Board, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Board{}, errors.Wrapf(err, "read %s", path)
	}
	b, err := Decode(raw)
	if err != nil {
		return Board{}, errors.Wrapf(err, "load %s", path)
	}
	return b, nil
}

// Lookup resolves a board by ID from the embedded set. The "default" board
// is the full pin table of the device.
func Lookup(board string) (Board, error) {
	raw, ok := EmbeddedConfigLookup(board)
	if !ok || len(raw) == 0 {
		if board == DefaultBoard {
			pc := DefaultPortConfig()
			return Board{Port: &pc}, nil
		}
		return Board{}, errcode.New(errcode.InvalidConfig, "config.lookup", "no embedded config for board: "+board)
	}
	b, err := Decode(raw)
	if err != nil {
		return Board{}, errors.Wrapf(err, "board %s", board)
	}
	if b.Port != nil && b.Port.Board == "" {
		b.Port.Board = board
	}
	return b, nil
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// Publish sends each section of b as a retained message on config/<section>.
func Publish(conn *bus.Connection, b Board) {
	if b.Port != nil {
		conn.Publish(conn.NewMessage(bus.T(configPrefix, types.TokPort), *b.Port, true))
	}
	if b.Refresh != nil {
		conn.Publish(conn.NewMessage(bus.T(configPrefix, types.TokRefresh), *b.Refresh, true))
	}
}

// publishConfig resolves the board named in ctx and publishes it.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	board, _ := ctx.Value(CtxBoardKey).(string)
	if board == "" {
		return errcode.New(errcode.InvalidConfig, "config.publish", "missing board ID in context")
	}
	b, err := Lookup(board)
	if err != nil {
		return err
	}
	Publish(conn, b)
	return nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			println("[config] publish failed:", err.Error())
		}
	}()
}

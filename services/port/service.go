// Package port puts a pin configuration engine on the bus.
//
// Topics:
//
//	config/port        (in, retained)  types.PortConfig; applying it runs Init
//	port/set_direction (request)       types.SetDirectionReq
//	port/set_mode      (request)       types.SetModeReq
//	port/refresh       (request)       any payload
//	port/version       (request)       any payload, answered with types.VersionReply
//	port/state         (out, retained) types.PortState
//
// Requests are answered with types.Reply on the message's ReplyTo topic.
package port

import (
	"context"
	"encoding/json"

	"portcode-go/bus"
	"portcode-go/det"
	"portcode-go/drivers/tm4cport"
	"portcode-go/errcode"
	"portcode-go/services/config"
	"portcode-go/types"
	"portcode-go/x/conv"
)

var (
	topicConfig  = bus.T(types.TokConfig, types.TokPort)
	topicSetDir  = bus.T(types.TokPort, types.TokSetDir)
	topicSetMode = bus.T(types.TokPort, types.TokSetMode)
	topicRefresh = bus.T(types.TokPort, types.TokRefresh)
	topicVersion = bus.T(types.TokPort, types.TokVersion)
	topicState   = bus.T(types.TokPort, types.TokState)
)

// Service owns one engine and serialises every call into it.
type Service struct {
	eng     *tm4cport.Engine
	capture *det.Recorder
	state   types.PortState
}

// New builds the engine on bank. Development errors go to rep as well as
// to the service, which turns them into request replies.
func New(bank tm4cport.RegisterBank, rep det.Reporter, opts tm4cport.Options) *Service {
	capture := &det.Recorder{}
	// Replies are built from the development checks, so they are always on.
	opts.ErrorDetect = true
	return &Service{
		eng:     tm4cport.New(bank, det.Multi(capture, rep), opts),
		capture: capture,
	}
}

// Engine exposes the engine for read-only inspection.
func (s *Service) Engine() *tm4cport.Engine { return s.eng }

// Start subscribes to the service topics and runs the service loop until
// ctx is cancelled. Requests published after Start returns are served.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	subs := serviceSubs{
		cfg:  conn.Subscribe(topicConfig),
		dir:  conn.Subscribe(topicSetDir),
		mode: conn.Subscribe(topicSetMode),
		ref:  conn.Subscribe(topicRefresh),
		ver:  conn.Subscribe(topicVersion),
	}
	go s.serviceLoop(ctx, conn, subs)
	return nil
}

type serviceSubs struct {
	cfg, dir, mode, ref, ver *bus.Subscription
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, subs serviceSubs) {
	defer conn.Unsubscribe(subs.cfg)
	defer conn.Unsubscribe(subs.dir)
	defer conn.Unsubscribe(subs.mode)
	defer conn.Unsubscribe(subs.ref)
	defer conn.Unsubscribe(subs.ver)

	println("[port] service started")
	for {
		select {
		case <-ctx.Done():
			println("[port] service stopping")
			return
		case m, ok := <-subs.cfg.Channel():
			if !ok {
				return
			}
			s.applyConfig(conn, m)
		case m, ok := <-subs.dir.Channel():
			if !ok {
				return
			}
			conn.Reply(m, s.setDirection(m.Payload), false)
			s.publishState(conn)
		case m, ok := <-subs.mode.Channel():
			if !ok {
				return
			}
			conn.Reply(m, s.setMode(m.Payload), false)
			s.publishState(conn)
		case m, ok := <-subs.ref.Channel():
			if !ok {
				return
			}
			conn.Reply(m, s.refresh(), false)
			s.publishState(conn)
		case m, ok := <-subs.ver.Channel():
			if !ok {
				return
			}
			conn.Reply(m, s.version(), false)
		}
	}
}

func (s *Service) applyConfig(conn *bus.Connection, m *bus.Message) {
	pc, ok := decode[types.PortConfig](m.Payload)
	if !ok {
		s.fail(conn, errcode.InvalidPayload)
		return
	}
	t, err := config.ToTable(pc)
	if err != nil {
		println("[port] rejecting table:", err.Error())
		s.fail(conn, errcode.Of(err))
		return
	}
	s.capture.Reset()
	s.eng.Init(t)
	s.state.Board = pc.Board
	s.state.LastError = ""
	if r, ok := s.capture.Last(); ok {
		s.state.LastError = string(tm4cport.ErrorCode(r.ErrorID))
	}
	println("[port] applied table with", len(t), "pins")
	s.publishState(conn)
}

func (s *Service) fail(conn *bus.Connection, c errcode.Code) {
	s.state.LastError = string(c)
	s.publishState(conn)
}

// call runs fn and converts any development error it raised into a reply.
func (s *Service) call(fn func()) types.Reply {
	s.capture.Reset()
	fn()
	if r, ok := s.capture.Last(); ok {
		c := tm4cport.ErrorCode(r.ErrorID)
		s.state.LastError = string(c)
		return types.Reply{Error: c}
	}
	s.state.LastError = ""
	return types.Reply{OK: true}
}

func (s *Service) setDirection(payload any) types.Reply {
	req, ok := decode[types.SetDirectionReq](payload)
	if !ok {
		return types.Reply{Error: errcode.InvalidPayload}
	}
	dir, ok := tm4cport.ParseDirection(req.Direction)
	if !ok {
		return types.Reply{Error: errcode.InvalidParams}
	}
	return s.call(func() { s.eng.SetPinDirection(req.Pin, dir) })
}

func (s *Service) setMode(payload any) types.Reply {
	req, ok := decode[types.SetModeReq](payload)
	if !ok {
		return types.Reply{Error: errcode.InvalidPayload}
	}
	mode, ok := tm4cport.ParseMode(req.Mode)
	if !ok {
		return types.Reply{Error: errcode.InvalidMode}
	}
	return s.call(func() { s.eng.SetPinMode(req.Pin, mode) })
}

func (s *Service) refresh() types.Reply {
	r := s.call(s.eng.RefreshPortDirection)
	if r.OK {
		s.state.Refreshes++
	}
	return r
}

func (s *Service) version() types.VersionReply {
	var vi tm4cport.VersionInfo
	s.eng.GetVersionInfo(&vi)
	return types.VersionReply{
		VendorID: vi.VendorID,
		ModuleID: vi.ModuleID,
		SW:       dotted(vi.SWMajor, vi.SWMinor, vi.SWPatch),
		AR:       dotted(tm4cport.ARVersion()),
	}
}

func (s *Service) publishState(conn *bus.Connection) {
	s.state.Initialized = s.eng.Initialized()
	s.state.Pins = len(s.eng.Table())
	conn.Publish(conn.NewMessage(topicState, s.state, true))
}

func dotted(a, b, c uint8) string {
	var buf [4]byte
	s := string(conv.Utoa(buf[:], uint64(a)))
	s += "." + string(conv.Utoa(buf[:], uint64(b)))
	s += "." + string(conv.Utoa(buf[:], uint64(c)))
	return s
}

// decode accepts a payload as T, *T or raw JSON.
func decode[T any](payload any) (T, bool) {
	var v T
	switch p := payload.(type) {
	case T:
		return p, true
	case *T:
		if p == nil {
			return v, false
		}
		return *p, true
	case []byte:
		if err := json.Unmarshal(p, &v); err != nil {
			return v, false
		}
		return v, true
	case json.RawMessage:
		if err := json.Unmarshal(p, &v); err != nil {
			return v, false
		}
		return v, true
	}
	return v, false
}

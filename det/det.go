// Package det is the development error tracer: the sink drivers report
// precondition violations to. Reports never flow back to the caller.
package det

import (
	"sync"

	"portcode-go/bus"
	"portcode-go/errcode"
	"portcode-go/types"
	"portcode-go/x/conv"
)

// Reporter receives development errors.
type Reporter interface {
	ReportError(moduleID uint16, instanceID, apiID, errorID uint8)
}

// Report is one recorded development error.
type Report struct {
	ModuleID   uint16
	InstanceID uint8
	APIID      uint8
	ErrorID    uint8
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(moduleID uint16, instanceID, apiID, errorID uint8)

func (f ReporterFunc) ReportError(moduleID uint16, instanceID, apiID, errorID uint8) {
	f(moduleID, instanceID, apiID, errorID)
}

// Discard drops every report.
var Discard Reporter = ReporterFunc(func(uint16, uint8, uint8, uint8) {})

// Recorder keeps every report in memory. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	reports []Report
}

func (r *Recorder) ReportError(moduleID uint16, instanceID, apiID, errorID uint8) {
	r.mu.Lock()
	r.reports = append(r.reports, Report{moduleID, instanceID, apiID, errorID})
	r.mu.Unlock()
}

// Reports returns a copy of the recorded reports.
func (r *Recorder) Reports() []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Report(nil), r.reports...)
}

// Last returns the most recent report.
func (r *Recorder) Last() (Report, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.reports) == 0 {
		return Report{}, false
	}
	return r.reports[len(r.reports)-1], true
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.reports = nil
	r.mu.Unlock()
}

// Console prints one tagged line per report.
type Console struct{}

func (Console) ReportError(moduleID uint16, instanceID, apiID, errorID uint8) {
	println(Format(Report{moduleID, instanceID, apiID, errorID}))
}

// Format renders a report as "[det] module=124 instance=0 api=0x01 error=0x0B".
func Format(r Report) string {
	var num [20]byte
	var hex [8]byte
	s := "[det] module=" + string(conv.Utoa(num[:], uint64(r.ModuleID)))
	s += " instance=" + string(conv.Utoa(num[:], uint64(r.InstanceID)))
	s += " api=0x" + string(conv.U8Hex(hex[:], r.APIID))
	s += " error=0x" + string(conv.U8Hex(hex[:], r.ErrorID))
	return s
}

// Multi fans a report out to every reporter in order.
func Multi(rs ...Reporter) Reporter {
	return ReporterFunc(func(moduleID uint16, instanceID, apiID, errorID uint8) {
		for _, r := range rs {
			if r != nil {
				r.ReportError(moduleID, instanceID, apiID, errorID)
			}
		}
	})
}

// BusReporter publishes each report on det/<module_id>.
type BusReporter struct {
	Conn *bus.Connection
	// Describe maps an error id to its stable code; optional.
	Describe func(errorID uint8) errcode.Code
	// APIName names a service id; optional.
	APIName func(apiID uint8) string
}

func (b *BusReporter) ReportError(moduleID uint16, instanceID, apiID, errorID uint8) {
	if b == nil || b.Conn == nil {
		return
	}
	p := types.DetReport{
		ModuleID:   moduleID,
		InstanceID: instanceID,
		APIID:      apiID,
		ErrorID:    errorID,
	}
	if b.Describe != nil {
		p.Code = b.Describe(errorID)
	}
	if b.APIName != nil {
		p.API = b.APIName(apiID)
	}
	b.Conn.Publish(b.Conn.NewMessage(bus.T(types.TokDet, int(moduleID)), p, false))
}

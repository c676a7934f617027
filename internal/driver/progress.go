package driver

// Status is the lifecycle state of one record during Generate.
type Status uint8

const (
	StatusQueued Status = iota + 1
	StatusRendering
	StatusDone
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusRendering:
		return "rendering"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// ProgressEvent reports a status change of one record.
type ProgressEvent struct {
	Record string
	Status Status
}

// ProgressSink receives progress events. Report is called from renderer
// goroutines and must be goroutine-safe.
type ProgressSink interface {
	Report(ev ProgressEvent)
}

// ChannelSink forwards events to a channel. The reader must keep draining
// it until Generate returns.
type ChannelSink struct {
	Ch chan<- ProgressEvent
}

func (s ChannelSink) Report(ev ProgressEvent) {
	s.Ch <- ev
}

func report(sink ProgressSink, name string, status Status) {
	if sink != nil {
		sink.Report(ProgressEvent{Record: name, Status: status})
	}
}

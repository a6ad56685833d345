package driver

// Stage describes a phase of linting one file.
type Stage string

const (
	// StageCompile is the luac disassembly stage.
	StageCompile Stage = "compile"
	// StageScan is the listing scan stage.
	StageScan Stage = "scan"
	// StageResolve is the import resolution stage.
	StageResolve Stage = "resolve"
	// StageLint is the reference classification stage.
	StageLint Stage = "lint"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is currently being linted.
	StatusWorking Status = "working"
	// StatusDone indicates the file finished.
	StatusDone Status = "done"
	// StatusError indicates the file could not be linted.
	StatusError Status = "error"
)

// Event reports progress for one file.
type Event struct {
	File   string
	Stage  Stage
	Status Status
	// Warnings is meaningful on StatusDone only.
	Warnings int
}

// ProgressSink consumes progress events. Implementations must be safe
// for concurrent use; workers emit from multiple goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel, dropping them when the
// channel is full rather than stalling a worker.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	select {
	case s.Ch <- ev:
	default:
	}
}

type nopSink struct{}

func (nopSink) OnEvent(Event) {}

package importer

// ProgressSink receives the side-channel progress events of one import
// attempt. The host owns the implementation; the orchestrator only calls it.
type ProgressSink interface {
	OnStart(taskID string)
	OnOutputLine(taskID string, text string, isError bool)
	OnFinish(taskID string, success bool)
}

// NopSink discards all progress events.
type NopSink struct{}

func (NopSink) OnStart(string)                    {}
func (NopSink) OnOutputLine(string, string, bool) {}
func (NopSink) OnFinish(string, bool)             {}

package logger

import (
	"runtime/debug"

	"github.com/redhatinsights/platform-go-middlewares/v2/request_id"
	"github.com/sirupsen/logrus"
)

var (
	// BuildCommit is git SHA commit
	BuildCommit = "HEAD"

	// BuildTime is date and time
	BuildTime = "N/A"
)

func init() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	for _, bs := range bi.Settings {
		switch bs.Key {
		case "vcs.revision":
			if len(bs.Value) > 5 {
				BuildCommit = bs.Value[0:5]
			}
		case "vcs.time":
			BuildTime = bs.Value
		}
	}
}

// Use request id from the standard context and add it to the message as a field.
type ctxHook struct {
}

func (h *ctxHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire adds build info, and the request id when the entry carries a request context.
func (h *ctxHook) Fire(e *logrus.Entry) error {
	e.Data["build_commit"] = BuildCommit
	e.Data["build_time"] = BuildTime

	if e.Context == nil {
		return nil
	}

	if rid := request_id.GetReqID(e.Context); rid != "" {
		e.Data["request_id"] = rid
	}

	return nil
}

package download

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

func (l ProgressLevel) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Disclaimer is shown by the front ends at startup.
const Disclaimer = "This tool is for personal use only. Ensure you have rights to download content."

// ProgressEvent represents a status update. JobID is empty for run-level
// messages. Done marks the last event of a job.
type ProgressEvent struct {
	JobID   string
	Message string
	Level   ProgressLevel
	Done    bool
}

package sealevel

// Logger receives program log lines ("Program log: ...", invoke/success
// markers) for the duration of a transaction.
type Logger interface {
	Log(s string)
}

type LogRecorder struct {
	Logs []string
}

func (r *LogRecorder) Log(s string) {
	r.Logs = append(r.Logs, s)
}

// Package status holds the ACK/NACK status codes shared by the command
// handler, the ACK builders, and the ACK tracker.
package status

import "fmt"

// Code is a one-byte (or, for FTP phases, 4-byte) status value carried
// in ACK/NACK payloads.
type Code uint32

const (
	Success          Code = 0
	InvalidParams    Code = 1
	Unsupported      Code = 2
	ExecutionFailed  Code = 3
	NotMaster        Code = 10
	MissingTelemetry Code = 11
	Exception        Code = 99
)

var names = map[Code]string{
	Success:          "SUCCESS",
	InvalidParams:    "INVALID_PARAMS",
	Unsupported:      "UNSUPPORTED",
	ExecutionFailed:  "EXECUTION_FAILED",
	NotMaster:        "NOT_MASTER",
	MissingTelemetry: "MISSING_TELEMETRY",
	Exception:        "EXCEPTION",
}

// String returns the human-readable label for c, or "UNKNOWN(n)".
func (c Code) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint32(c))
}

package payload

import "errors"

// ErrShortSwarm is returned when a swarm task payload is shorter than
// its fixed layout requires.
var ErrShortSwarm = errors.New("payload: swarm task payload too short")

// SwarmTask is the S-type payload: a task identifier, the leader
// node's address, and arbitrary task-specific parameters. It is
// decoded and logged/cached, not acted upon.
type SwarmTask struct {
	TaskID   byte
	LeaderID byte
	Params   []byte
}

// EncodeSwarmTask serializes TASK_ID(1) | LEADER_ID(1) | PARAMS(...).
func EncodeSwarmTask(t SwarmTask) []byte {
	out := make([]byte, 2, 2+len(t.Params))
	out[0] = t.TaskID
	out[1] = t.LeaderID
	return append(out, t.Params...)
}

// DecodeSwarmTask parses TASK_ID(1) | LEADER_ID(1) | PARAMS(...).
func DecodeSwarmTask(data []byte) (SwarmTask, error) {
	if len(data) < 2 {
		return SwarmTask{}, ErrShortSwarm
	}
	params := make([]byte, len(data)-2)
	copy(params, data[2:])
	return SwarmTask{TaskID: data[0], LeaderID: data[1], Params: params}, nil
}

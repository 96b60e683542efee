package payload

import "errors"

// ErrUnknownFTPPhase is returned by DecodeFTPPhase for an
// unrecognised leading phase byte.
var ErrUnknownFTPPhase = errors.New("payload: unknown ftp phase")

// FTPPhase is the decoded result of DecodeFTPPhase: exactly one of
// Start, Chunk, or End is non-nil, matching Phase.
type FTPPhase struct {
	Phase byte
	Start *FTPStart
	Chunk *FTPChunk
	End   *FTPEnd
}

// EncodeFTPPhase wraps body with its leading phase tag to form a
// complete F-type frame payload.
func EncodeFTPPhase(phase byte, body []byte) []byte {
	out := make([]byte, 0, 1+len(body))
	out = append(out, phase)
	return append(out, body...)
}

// DecodeFTPPhase reads the leading phase tag and dispatches to the
// phase-specific decoder.
func DecodeFTPPhase(data []byte) (FTPPhase, error) {
	if len(data) < 1 {
		return FTPPhase{}, ErrShortFTP
	}
	phase := data[0]
	body := data[1:]

	switch phase {
	case PhaseStart:
		s, err := DecodeFTPStart(body)
		if err != nil {
			return FTPPhase{}, err
		}
		return FTPPhase{Phase: phase, Start: &s}, nil
	case PhaseChunk:
		c, err := DecodeFTPChunk(body)
		if err != nil {
			return FTPPhase{}, err
		}
		return FTPPhase{Phase: phase, Chunk: &c}, nil
	case PhaseEnd:
		e, err := DecodeFTPEnd(body)
		if err != nil {
			return FTPPhase{}, err
		}
		return FTPPhase{Phase: phase, End: &e}, nil
	default:
		return FTPPhase{}, ErrUnknownFTPPhase
	}
}

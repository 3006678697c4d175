package password

import "errors"

// HistorySize is an exported constant or variable used by the authentication engine.
const HistorySize = 3

var (
	// ErrSameAsCurrent is an exported constant or variable used by the authentication engine.
	ErrSameAsCurrent = errors.New("password matches current password")
	// ErrPreviouslyUsed is an exported constant or variable used by the authentication engine.
	ErrPreviouslyUsed = errors.New("password previously used")
)

// CheckHistory rejects candidate when it matches currentHash or any retained
// prior hash. Each comparison goes through the one-way hash, so no plaintext
// history is ever needed.
func (h *Hasher) CheckHistory(candidate, currentHash string, history []string) error {
	if currentHash != "" {
		match, err := h.Verify(candidate, currentHash)
		if err != nil {
			return err
		}
		if match {
			return ErrSameAsCurrent
		}
	}

	for _, prior := range history {
		if prior == "" {
			continue
		}
		match, err := h.Verify(candidate, prior)
		if err != nil {
			return err
		}
		if match {
			return ErrPreviouslyUsed
		}
	}

	return nil
}

// RotateHistory appends oldHash and evicts oldest-first beyond max entries.
// max <= 0 disables retention and returns nil.
func RotateHistory(history []string, oldHash string, max int) []string {
	if max <= 0 {
		return nil
	}

	out := make([]string, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, oldHash)

	if len(out) > max {
		out = out[len(out)-max:]
	}

	return out
}

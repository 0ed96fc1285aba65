package messaging

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
)

const MaxBodyLength = 5000

// Body trims and validates a message body.
func Body(raw string) (string, error) {
	body := strings.TrimSpace(raw)
	if body == "" {
		return "", httperr.ErrBusiness("empty_message")
	}
	if utf8.RuneCountInString(body) > MaxBodyLength {
		return "", httperr.ErrBusiness("message_too_long")
	}
	return body, nil
}

// Participants returns the sorted, de-duplicated member list including the
// creator. A conversation needs somebody besides the creator.
func Participants(creator uint, ids []uint) ([]uint, error) {
	seen := map[uint]bool{creator: true}
	out := []uint{creator}
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) < 2 {
		return nil, httperr.ErrBusiness("participants_required")
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Recipients is everyone in the conversation except the sender.
func Recipients(participants []uint, sender uint) []uint {
	out := make([]uint, 0, len(participants))
	for _, id := range participants {
		if id != sender {
			out = append(out, id)
		}
	}
	return out
}

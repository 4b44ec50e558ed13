package advancement

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/ebladvance/internal/domain/model"
)

// SelectionKind says which point source a selection label feeds.
type SelectionKind int

// Selection kinds.
const (
	SelectionAward SelectionKind = iota
	SelectionAlliance
	SelectionPlayoff
)

func (k SelectionKind) String() string {
	switch k {
	case SelectionAlliance:
		return "alliance"
	case SelectionPlayoff:
		return "playoff"
	default:
		return "award"
	}
}

// Selection is a parsed advancement entry such as "Inspire 1st (60)".
type Selection struct {
	Kind   SelectionKind
	Points int
	// Slot is the alliance rank for SelectionAlliance entries.
	Slot int
}

// ParseSelection parses an advancement label. Points come from the
// trailing "(N)". "Alliance N Captain" labels set an alliance slot,
// "Winning Alliance" and "Finalist Alliance" labels set the playoff result,
// anything else is an award.
func ParseSelection(label string) (Selection, error) {
	label = strings.TrimSpace(label)
	open := strings.LastIndex(label, "(")
	if open < 0 || !strings.HasSuffix(label, ")") {
		return Selection{}, fmt.Errorf("%w: %q has no (points) suffix", ErrInvalidSelection, label)
	}
	pts, err := strconv.Atoi(strings.TrimSpace(label[open+1 : len(label)-1]))
	if err != nil {
		return Selection{}, fmt.Errorf("%w: %q: %v", ErrInvalidSelection, label, err)
	}

	switch {
	case strings.Contains(label, "Alliance") && strings.Contains(label, "Captain"):
		fields := strings.Fields(label)
		if len(fields) < 2 {
			return Selection{}, fmt.Errorf("%w: %q has no alliance number", ErrInvalidSelection, label)
		}
		slot, err := strconv.Atoi(fields[1])
		if err != nil {
			return Selection{}, fmt.Errorf("%w: %q has no alliance number", ErrInvalidSelection, label)
		}
		if slot < 1 || slot > model.AllianceCount {
			return Selection{}, fmt.Errorf("%w: %q alliance must be 1..%d", ErrInvalidSelection, label, model.AllianceCount)
		}
		return Selection{Kind: SelectionAlliance, Points: pts, Slot: slot}, nil
	case strings.Contains(label, "Winning Alliance"), strings.Contains(label, "Finalist Alliance"):
		return Selection{Kind: SelectionPlayoff, Points: pts}, nil
	default:
		return Selection{Kind: SelectionAward, Points: pts}, nil
	}
}

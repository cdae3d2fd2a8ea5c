package strategy

import (
	"fmt"

	"github.com/kirillkom/prospect-radar/internal/core/ports"
)

const (
	ModeLive     = "live"
	ModeFallback = "fallback"
	ModeAuto     = "auto"
)

// Select picks the strategy named by configuration. Auto uses the live
// strategy when one could be built and the fallback otherwise.
func Select(mode string, live ports.Strategy, fallback ports.Strategy) (ports.Strategy, error) {
	switch mode {
	case ModeLive:
		if live == nil {
			return nil, fmt.Errorf("strategy %q requested but live collaborators are not configured", mode)
		}
		return live, nil
	case ModeFallback:
		return fallback, nil
	case ModeAuto, "":
		if live != nil {
			return live, nil
		}
		return fallback, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", mode)
	}
}

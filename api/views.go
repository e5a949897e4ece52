package api

import (
	"github.com/wricardo/robot-colony/game/engine"
)

// legend maps every display glyph to what it shows
func legend() map[string]string {
	out := make(map[string]string)
	for t := engine.Empty; t <= engine.Base; t++ {
		out[string(t.Glyph())] = t.String()
	}
	for _, kind := range engine.AllRobotKinds {
		out[string(kind.Glyph())] = kind.String()
	}
	return out
}

// Package action maps action tokens to window operations.
package action

import (
	"fmt"
	"strings"

	"github.com/1broseidon/winjitsu/internal/placement"
)

// Action is a single command-line action token.
type Action string

const (
	North                   = Action(placement.North)
	South                   = Action(placement.South)
	East                    = Action(placement.East)
	West                    = Action(placement.West)
	NorthEast               = Action(placement.NorthEast)
	NorthWest               = Action(placement.NorthWest)
	SouthEast               = Action(placement.SouthEast)
	SouthWest               = Action(placement.SouthWest)
	Center                  = Action(placement.Center)
	Fullscreen       Action = "F"
	Unscreen         Action = "U"
	ToggleFullscreen Action = "TF"
	ToggleDisplay    Action = "TD"
	ClearCache       Action = "CC"
)

// All lists every action in usage order.
var All = []Action{
	North, South, East, West,
	NorthEast, NorthWest, SouthEast, SouthWest,
	Center, Fullscreen, Unscreen, ToggleFullscreen, ToggleDisplay, ClearCache,
}

var descriptions = map[Action]string{
	North:            "snap to the top half",
	South:            "snap to the bottom half",
	East:             "snap to the right half",
	West:             "snap to the left half",
	NorthEast:        "snap to the top-right quarter",
	NorthWest:        "snap to the top-left quarter",
	SouthEast:        "snap to the bottom-right quarter",
	SouthWest:        "snap to the bottom-left quarter",
	Center:           "center without resizing",
	Fullscreen:       "fill the screen, remembering the current geometry",
	Unscreen:         "restore the geometry saved by F",
	ToggleFullscreen: "F, or U when already fullscreen",
	ToggleDisplay:    "move to the same position on the other display",
	ClearCache:       "delete every saved geometry",
}

// Description returns a one-line summary of the action.
func (a Action) Description() string {
	return descriptions[a]
}

// IsDirectional reports whether a is a snap or center placement.
func (a Action) IsDirectional() bool {
	for _, d := range placement.Directions {
		if Action(d) == a {
			return true
		}
	}
	return false
}

// Parse validates an action token. Tokens are case-sensitive.
func Parse(token string) (Action, error) {
	for _, a := range All {
		if string(a) == token {
			return a, nil
		}
	}
	names := make([]string, len(All))
	for i, a := range All {
		names[i] = string(a)
	}
	return "", fmt.Errorf("unknown action %q; valid actions: %s", token, strings.Join(names, " "))
}

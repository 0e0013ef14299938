package mcp

// PlaceWindowInput is the input for the place_window tool.
type PlaceWindowInput struct {
	Action string `json:"action" jsonschema:"required,Action token: N S E W NE NW SE SW C (halves, quarters, center), F U TF (fullscreen, restore, toggle), TD (toggle display) or CC (clear saved geometry)"`
}

// PlaceWindowOutput is the output for the place_window tool.
type PlaceWindowOutput struct {
	Action   string `json:"action"`
	WindowID uint32 `json:"window_id,omitempty"`
}

// ListDisplaysInput is the input for the list_displays tool.
type ListDisplaysInput struct{}

// DisplayInfo describes one connected display.
type DisplayInfo struct {
	Name    string `json:"name"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Primary bool   `json:"primary"`
}

// ListDisplaysOutput is the output for the list_displays tool.
type ListDisplaysOutput struct {
	Displays []DisplayInfo `json:"displays"`
}

// ActiveWindowInput is the input for the active_window tool.
type ActiveWindowInput struct{}

// ActiveWindowOutput is the output for the active_window tool.
type ActiveWindowOutput struct {
	WindowID uint32 `json:"window_id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

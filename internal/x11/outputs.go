package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
)

// Output is a connected RandR output driving an active CRTC.
type Output struct {
	ID      int
	Name    string
	X       int
	Y       int
	Width   int
	Height  int
	Primary bool
}

// GetOutputs returns connected outputs in RandR output order, flagging the
// primary one.
func (c *Connection) GetOutputs() ([]Output, error) {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	// A server without a primary output answers with output 0.
	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(conn, c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var outputs []Output
	for i, id := range resources.Outputs {
		info, err := randr.GetOutputInfo(conn, id, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(conn, info.Crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if out, ok := outputFromInfo(i, id, info, crtc, primary); ok {
			outputs = append(outputs, out)
		}
	}

	return outputs, nil
}

func outputFromInfo(index int, id randr.Output, info *randr.GetOutputInfoReply, crtc *randr.GetCrtcInfoReply, primary randr.Output) (Output, bool) {
	if info == nil || crtc == nil {
		return Output{}, false
	}
	// Disabled CRTC
	if crtc.Width == 0 || crtc.Height == 0 {
		return Output{}, false
	}

	name := string(info.Name)
	if name == "" {
		name = fmt.Sprintf("Output%d", index)
	}

	return Output{
		ID:      index,
		Name:    name,
		X:       int(crtc.X),
		Y:       int(crtc.Y),
		Width:   int(crtc.Width),
		Height:  int(crtc.Height),
		Primary: primary != 0 && id == primary,
	}, true
}

package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winjitsu/internal/action"
	"github.com/1broseidon/winjitsu/internal/platform"
)

const (
	ServerName    = "winjitsu"
	ServerVersion = "0.1.0"
)

// ActionRunner performs one window action.
type ActionRunner interface {
	Run(a action.Action) error
}

// Server exposes window placement over MCP.
type Server struct {
	mcpServer *mcpsdk.Server
	runner    ActionRunner
	backend   platform.Backend
	logger    *slog.Logger

	// mu keeps tool calls from animating windows concurrently.
	mu sync.Mutex
}

// NewServer creates an MCP server over the given runner and backend.
func NewServer(runner ActionRunner, backend platform.Backend, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		runner:  runner,
		backend: backend,
		logger:  logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "place_window",
		Description: "Move or resize the focused window. Directional actions snap it to a half, quarter or the center of its display; F/U/TF fullscreen and restore it; TD moves it to the other display; CC forgets all saved geometry.",
	}, s.handlePlaceWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_displays",
		Description: "List connected displays with their resolution and which one is primary.",
	}, s.handleListDisplays)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "active_window",
		Description: "Report the focused window's id, position and size.",
	}, s.handleActiveWindow)
}

func (s *Server) handlePlaceWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args PlaceWindowInput) (*mcpsdk.CallToolResult, PlaceWindowOutput, error) {
	a, err := action.Parse(args.Action)
	if err != nil {
		return nil, PlaceWindowOutput{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := PlaceWindowOutput{Action: string(a)}
	if a != action.ClearCache {
		id, err := s.backend.ActiveWindow()
		if err != nil {
			return nil, PlaceWindowOutput{}, fmt.Errorf("failed to get active window: %w", err)
		}
		out.WindowID = uint32(id)
	}

	if err := s.runner.Run(a); err != nil {
		s.logger.Error("place_window failed", "action", string(a), "error", err)
		return nil, PlaceWindowOutput{}, err
	}
	s.logger.Info("place_window", "action", string(a), "window_id", out.WindowID)
	return nil, out, nil
}

func (s *Server) handleListDisplays(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListDisplaysInput) (*mcpsdk.CallToolResult, ListDisplaysOutput, error) {
	layout, err := s.backend.Displays()
	if err != nil {
		return nil, ListDisplaysOutput{}, fmt.Errorf("failed to query displays: %w", err)
	}

	out := ListDisplaysOutput{Displays: make([]DisplayInfo, 0, len(layout.Displays))}
	for _, d := range layout.Displays {
		out.Displays = append(out.Displays, DisplayInfo{
			Name:    d.Name,
			Width:   d.Width,
			Height:  d.Height,
			Primary: d.Primary,
		})
	}
	return nil, out, nil
}

func (s *Server) handleActiveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, _ ActiveWindowInput) (*mcpsdk.CallToolResult, ActiveWindowOutput, error) {
	win, err := platform.QueryActiveWindow(s.backend)
	if err != nil {
		return nil, ActiveWindowOutput{}, err
	}
	return nil, ActiveWindowOutput{
		WindowID: uint32(win.ID),
		X:        win.Bounds.X,
		Y:        win.Bounds.Y,
		Width:    win.Bounds.Width,
		Height:   win.Bounds.Height,
	}, nil
}

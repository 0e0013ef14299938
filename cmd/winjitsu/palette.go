package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/winjitsu/internal/action"
	"github.com/1broseidon/winjitsu/internal/palette"
)

func runPalette(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: winjitsu palette")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Pick an action from rofi, fuzzel, wofi or dmenu and apply it to the focused window.")
		return 0
	}
	if len(args) > 0 {
		fmt.Fprintln(stderr, "palette takes no arguments")
		return 2
	}

	cfg, err := loadConfig()
	if err != nil {
		return fail(stdout, err)
	}
	picker, err := palette.New(cfg.Palette)
	if err != nil {
		return fail(stdout, err)
	}

	a, err := palette.ChooseAction(picker, action.All)
	if errors.Is(err, palette.ErrCancelled) {
		return 0
	}
	if err != nil {
		return fail(stdout, err)
	}
	return runAction(a, stdout, stderr)
}

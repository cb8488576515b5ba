package commands

import (
	"olasagents-backend/lib/render"
	"os"

	"github.com/mattn/go-isatty"
)

func renderOptions() render.Options {
	return render.Options{
		Color: isatty.IsTerminal(os.Stdout.Fd()),
	}
}

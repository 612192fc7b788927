package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the formstate banner to w, colored when the terminal supports it.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   __                           _        _       ", "#34d399"},
		{"  / _| ___  _ __ _ __ ___  ___| |_ __ _| |_ ___ ", "#2dd4bf"},
		{" | |_ / _ \\| '__| '_ ` _ \\/ __| __/ _` | __/ _ \\", "#22d3ee"},
		{" |  _| (_) | |  | | | | | \\__ \\ || (_| | ||  __/", "#38bdf8"},
		{" |_|  \\___/|_|  |_| |_| |_|___/\\__\\__,_|\\__\\___|", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

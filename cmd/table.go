package main

import (
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"

	"fotofiler/pkg/placement"
)

// renderDecisionTable prints the planned placements. Paths are shown
// relative to source and destination roots to keep the table readable.
func renderDecisionTable(decisions []placement.Decision, source, destination string) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "SOURCE", "DESTINATION", "COLLISION"})

	for i, d := range decisions {
		collision := ""
		if d.WouldCollide {
			collision = "renamed"
		}
		t.AppendRow(table.Row{
			i + 1,
			relativeTo(source, d.SourcePath),
			relativeTo(destination, d.DestinationPath),
			collision,
		})
	}

	if isatty.IsTerminal(os.Stdout.Fd()) {
		t.SetStyle(table.StyleRounded)
	} else {
		t.SetStyle(table.StyleDefault)
	}
	t.Render()
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || len(rel) >= len(path) {
		return path
	}
	return rel
}

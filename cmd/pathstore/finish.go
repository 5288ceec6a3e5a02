package main

import (
	"github.com/spf13/cobra"

	"github.com/reoring/pathstore/store"
)

// finish prints the prior values with the resulting collection and saves it
// when --write is set.
func (g *globals) finish(cmd *cobra.Command, items *store.Items, mem *store.Memory, old map[string]any) error {
	data, err := snapshot(cmd.Context(), items, mem)
	if err != nil {
		return err
	}
	if g.write {
		if err := g.save(data); err != nil {
			return err
		}
	}
	return g.print(cmd, map[string]any{"old": old, "data": data})
}

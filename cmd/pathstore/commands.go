package main

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func describeCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "describe [path]",
		Short: "Print the field model tree, or the model governing path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := g.schema()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				sub, ok := m.Resolve(args[0])
				if !ok {
					return fmt.Errorf("no field model at %q", args[0])
				}
				m = sub
			}
			return g.print(cmd, m.Describe())
		},
	}
}

func getCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "get PATH...",
		Short: "Print the values at collection paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			items, _, err := g.open(ctx)
			if err != nil {
				return err
			}
			vals, err := items.GetMultipleAttrs(ctx, args)
			if err != nil {
				return err
			}
			return g.print(cmd, plainMap(vals))
		},
	}
}

func setCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set PATH=VALUE...",
		Short: "Update collection paths; VALUE is JSON, or a plain string",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mutators := make(map[string]any, len(args))
			for _, a := range args {
				path, raw, ok := strings.Cut(a, "=")
				if !ok || path == "" {
					return fmt.Errorf("expected PATH=VALUE, got %q", a)
				}
				var v any
				if err := json.Unmarshal([]byte(raw), &v); err != nil {
					v = raw
				}
				mutators[path] = v
			}
			ctx := cmd.Context()
			items, mem, err := g.open(ctx)
			if err != nil {
				return err
			}
			res, err := items.UpdateMultipleAttrs(ctx, mutators)
			if err != nil {
				return err
			}
			return g.finish(cmd, items, mem, plainMap(res.Old))
		},
	}
	cmd.Flags().BoolVarP(&g.write, "write", "w", false, "write the result back to the data file")
	return cmd
}

func deleteCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete PATH...",
		Short: "Remove collection paths and print the removed values",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			items, mem, err := g.open(ctx)
			if err != nil {
				return err
			}
			res, err := items.RemoveMultipleAttrs(ctx, args)
			if err != nil {
				return err
			}
			return g.finish(cmd, items, mem, plainMap(res.Old))
		},
	}
	cmd.Flags().BoolVarP(&g.write, "write", "w", false, "write the result back to the data file")
	return cmd
}

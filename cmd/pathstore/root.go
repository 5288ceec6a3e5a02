package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/reoring/pathstore/field"
	"github.com/reoring/pathstore/pvalue"
	"github.com/reoring/pathstore/schemafile"
	"github.com/reoring/pathstore/store"
)

type globals struct {
	schemaPath string
	dataPath   string
	format     string
	verbose    bool
	write      bool
	log        *logrus.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	g := &globals{log: logrus.New()}
	g.log.SetOutput(os.Stderr)

	root := &cobra.Command{
		Use:           "pathstore",
		Short:         "Path-addressed access to schema-shaped records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.verbose {
				g.log.SetLevel(logrus.DebugLevel)
			} else {
				g.log.SetLevel(logrus.WarnLevel)
			}
			field.SetLogger(g.log)
		},
	}
	root.SetOut(out)
	pf := root.PersistentFlags()
	pf.StringVar(&g.schemaPath, "schema", "", "schema document (YAML or JSON)")
	pf.StringVar(&g.dataPath, "data", "", "data file mapping record keys to records (YAML or JSON)")
	pf.StringVar(&g.format, "format", "json", "output format: json or yaml")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log debug output")
	_ = root.MarkPersistentFlagRequired("schema")

	root.AddCommand(describeCmd(g), getCmd(g), setCmd(g), deleteCmd(g))
	return root
}

func (g *globals) schema() (*field.Model, error) {
	m, err := schemafile.ParseFile(g.schemaPath)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", g.schemaPath, err)
	}
	return m, nil
}

// open loads the data file into a fresh in-memory collection.
func (g *globals) open(ctx context.Context) (*store.Items, *store.Memory, error) {
	if g.dataPath == "" {
		return nil, nil, fmt.Errorf("--data is required")
	}
	m, err := g.schema()
	if err != nil {
		return nil, nil, err
	}
	raw, err := os.ReadFile(g.dataPath)
	if err != nil {
		return nil, nil, err
	}
	data := map[string]any{}
	if schemafile.FormatFor(g.dataPath) == schemafile.FormatJSON {
		err = json.Unmarshal(raw, &data)
	} else {
		err = yaml.Unmarshal(raw, &data)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("data %s: %w", g.dataPath, err)
	}
	mem := store.NewMemory()
	items := store.New(m, mem, store.WithLogger(g.log))
	if _, err := items.LoadFromData(ctx, data); err != nil {
		// missing required fields are reported but do not stop the command
		g.log.WithError(err).Warn("data violates schema")
	}
	return items, mem, nil
}

// snapshot returns the whole collection as plain values.
func snapshot(ctx context.Context, items *store.Items, mem *store.Memory) (map[string]any, error) {
	vals, err := items.GetMultipleAttrs(ctx, mem.Keys())
	if err != nil {
		return nil, err
	}
	return plainMap(vals), nil
}

func plainMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = pvalue.ToJS(v)
	}
	return out
}

// save writes the collection back to the data file.
func (g *globals) save(data map[string]any) error {
	var (
		b   []byte
		err error
	)
	if schemafile.FormatFor(g.dataPath) == schemafile.FormatJSON {
		b, err = json.MarshalIndent(data, "", "  ")
	} else {
		b, err = yaml.Marshal(data)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(g.dataPath, b, 0o644)
}

func (g *globals) print(cmd *cobra.Command, v any) error {
	var (
		b   []byte
		err error
	)
	switch strings.ToLower(g.format) {
	case "yaml", "yml":
		b, err = yaml.Marshal(v)
	case "json", "":
		b, err = json.MarshalIndent(v, "", "  ")
		b = append(b, '\n')
	default:
		return fmt.Errorf("unknown output format %q", g.format)
	}
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(b)
	return err
}

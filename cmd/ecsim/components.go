package main

import (
	"fmt"
	"os"
	"reflect"
	"sort"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"pkg.world.dev/world-engine/ecsim"
	"pkg.world.dev/world-engine/ecsim/codec"
	"pkg.world.dev/world-engine/ecsim/component"
	"pkg.world.dev/world-engine/ecsim/sim"
)

func newComponentsCmd() *cobra.Command {
	var checkFile string

	cmd := &cobra.Command{
		Use:   "components",
		Short: "Print the JSON schema of every simulation component",
		Long: "Print the JSON schema of every simulation component as one JSON object keyed by component name.\n" +
			"With --check, compare the schemas against a file previously produced by this command instead.",
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			components, err := simulationComponents()
			if err != nil {
				return err
			}
			if checkFile != "" {
				return checkSchemas(cmd, components, checkFile)
			}
			return printSchemas(cmd, components)
		},
	}
	cmd.Flags().StringVar(&checkFile, "check", "", "schema file to validate the components against")
	return cmd
}

func simulationComponents() ([]component.ComponentMetadata, error) {
	cfg := sim.DefaultConfig()
	cfg.InitialEntities = 0
	worldCfg := ecsim.DefaultWorldConfig()
	worldCfg.LogLevel = "error"
	s, err := sim.New(cfg, ecsim.WithConfig(worldCfg))
	if err != nil {
		return nil, err
	}
	return s.World().GetComponents(), nil
}

func printSchemas(cmd *cobra.Command, components []component.ComponentMetadata) error {
	schemas := make(map[string]json.RawMessage, len(components))
	for _, c := range components {
		schema, err := c.GetSchema()
		if err != nil {
			return eris.Wrapf(err, "failed to get schema of %s", c.Name())
		}
		schemas[c.Name()] = schema
	}
	bz, err := codec.EncodeLine(schemas)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(bz)
	return eris.Wrap(err, "failed to write schemas")
}

func checkSchemas(cmd *cobra.Command, components []component.ComponentMetadata, path string) error {
	bz, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "failed to read %s", path)
	}
	schemas, err := codec.Decode[map[string]json.RawMessage](bz)
	if err != nil {
		return eris.Wrapf(err, "failed to decode %s", path)
	}

	var mismatched []string
	for _, c := range components {
		schema, ok := schemas[c.Name()]
		if !ok {
			mismatched = append(mismatched, c.Name())
			continue
		}
		zero, ok := reflect.New(c.Type()).Elem().Interface().(component.Component)
		if !ok {
			return eris.Errorf("%s is not a component", c.Type())
		}
		valid, err := component.IsComponentValid(zero, schema)
		if err != nil {
			return err
		}
		if !valid {
			mismatched = append(mismatched, c.Name())
		}
	}
	if len(mismatched) > 0 {
		sort.Strings(mismatched)
		return eris.Errorf("component schemas do not match: %v", mismatched)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d component schemas match\n", len(components))
	return eris.Wrap(err, "failed to write result")
}

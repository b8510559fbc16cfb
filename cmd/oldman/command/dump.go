package command

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cayleygraph/quad"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oldman-go/oldman/clog"
	"github.com/oldman-go/oldman/om"
	"github.com/oldman-go/oldman/store"
)

func writeResourcesTo(path, typ string, resources []*om.Resource) error {
	var f *os.File
	if path == "-" {
		f = os.Stdout
		clog.Infof("writing resources to stdout")
	} else {
		var err error
		f, err = os.Create(path)
		if err != nil {
			return fmt.Errorf("could not create file %q: %v", path, err)
		}
		defer f.Close()
		fmt.Printf("writing resources to file %q\n", path)
	}

	var w io.Writer = f
	ext := filepath.Ext(path)
	if ext == ".gz" {
		ext = filepath.Ext(path[:len(path)-len(ext)])
		gzip := gzip.NewWriter(f)
		defer gzip.Close()
		w = gzip
	}
	if typ == "" {
		switch ext {
		case ".json":
			typ = "json"
		case ".jsonld":
			typ = "jsonld"
		default:
			typ = "ntriples"
		}
	}

	n := 0
	for _, r := range resources {
		var (
			data []byte
			err  error
		)
		switch typ {
		case "ntriples", "nt":
			var text string
			text, err = r.ToRDF()
			data = []byte(text)
		case "json":
			data, err = r.ToJSON()
			data = append(data, '\n')
		case "jsonld":
			data, err = r.ToJSONLD()
			data = append(data, '\n')
		default:
			return fmt.Errorf("unsupported format: %q", typ)
		}
		if err != nil {
			return fmt.Errorf("cannot serialize %s: %w", r.ID().IRI(), err)
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		n++
	}
	if path != "-" {
		fmt.Printf("%d resources were written\n", n)
	}
	return nil
}

func NewDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Export mapped resources to a file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, g, err := openManager()
			if err != nil {
				return err
			}
			if load, _ := cmd.Flags().GetString("load"); load != "" {
				if g == nil {
					return fmt.Errorf("--load requires the in-memory store")
				}
				data, err := os.ReadFile(load)
				if err != nil {
					return err
				}
				if err := g.LoadText(string(data)); err != nil {
					return err
				}
			}

			models, _ := cmd.Flags().GetStringSlice("model")
			ctx := context.Background()
			var types []quad.IRI
			for _, path := range models {
				def, err := loadModelDefinition(path)
				if err != nil {
					return err
				}
				mdl, err := m.RegisterModel(ctx, def)
				if err != nil {
					return err
				}
				types = append(types, mdl.ClassIRI())
			}
			if len(types) == 0 {
				return fmt.Errorf("at least one --model is required to know what to export")
			}

			s := m.NewSession()
			var resources []*om.Resource
			for _, t := range types {
				found, err := s.Filter(ctx, store.Filter{Types: []quad.IRI{t}})
				if err != nil {
					return err
				}
				resources = append(resources, found...)
			}

			out, _ := cmd.Flags().GetString("out")
			typ, _ := cmd.Flags().GetString("format")
			return writeResourcesTo(out, typ, resources)
		},
	}
	cmd.Flags().StringP("out", "o", "-", `output file, "-" for stdout`)
	cmd.Flags().String("format", "", "export format: ntriples, json or jsonld (default by extension)")
	cmd.Flags().String("endpoint", "", "SPARQL endpoint URL backing the store")
	cmd.Flags().StringSlice("model", nil, "model definition file, repeatable")
	cmd.Flags().String("load", "", "triple file to load into the in-memory store")
	viper.BindPFlag(KeyEndpoint, cmd.Flags().Lookup("endpoint"))
	return cmd
}

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oldman-go/oldman"
	"github.com/oldman-go/oldman/clog"
	chttp "github.com/oldman-go/oldman/http"
	"github.com/oldman-go/oldman/om"
	"github.com/oldman-go/oldman/store/memstore"
)

const (
	KeyAddress   = "server.address"
	KeyBaseIRI   = "server.base_iri"
	KeyReadOnly  = "server.read_only"
	KeyEndpoint  = "store.endpoint"
	KeyTimeout   = "store.timeout"
	KeyCacheSize = "cache.size"
)

// modelFile is the on-disk shape of one model definition: a name, the
// mapped class and the JSON-LD context document the attribute names come
// from.
type modelFile struct {
	Name    string          `json:"name"`
	Class   string          `json:"class"`
	Context json.RawMessage `json:"@context"`
}

func loadModelDefinition(path string) (om.ModelDefinition, error) {
	var def om.ModelDefinition
	data, err := os.ReadFile(path)
	if err != nil {
		return def, err
	}
	var mf modelFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return def, fmt.Errorf("cannot parse model file %q: %w", path, err)
	}
	if mf.Name == "" || mf.Class == "" {
		return def, fmt.Errorf("model file %q must set name and class", path)
	}
	payload := map[string]interface{}{"@context": map[string]interface{}{}}
	if len(mf.Context) != 0 {
		var ctx interface{}
		if err := json.Unmarshal(mf.Context, &ctx); err != nil {
			return def, fmt.Errorf("cannot parse @context in %q: %w", path, err)
		}
		payload["@context"] = ctx
	}
	def = om.ModelDefinition{
		Name:           mf.Name,
		ClassIRI:       quad.IRI(mf.Class),
		ContextPayload: payload,
	}
	return def, nil
}

func openManager() (*oldman.Manager, *memstore.Graph, error) {
	endpoint := viper.GetString(KeyEndpoint)
	if endpoint == "" {
		clog.Infof("no SPARQL endpoint configured, using in-memory store")
		m, g := oldman.NewMemory()
		return m, g, nil
	}
	timeout := viper.GetDuration(KeyTimeout)
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	m, err := oldman.Dial(endpoint, timeout, viper.GetInt(KeyCacheSize))
	if err != nil {
		return nil, nil, err
	}
	return m, nil, nil
}

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mapped resources over HTTP.",
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
				clog.Infof("loaded %q, %d triples", load, g.Size())
			}

			models, _ := cmd.Flags().GetStringSlice("model")
			for _, path := range models {
				def, err := loadModelDefinition(path)
				if err != nil {
					return err
				}
				mdl, err := m.RegisterModel(context.Background(), def)
				if err != nil {
					return err
				}
				clog.Infof("registered model %s for %s", mdl.Name(), mdl.ClassIRI())
			}

			chttp.SetupRoutes(m.Selector(), &chttp.Config{
				BaseIRI:  viper.GetString(KeyBaseIRI),
				Timeout:  viper.GetDuration(KeyTimeout),
				ReadOnly: viper.GetBool(KeyReadOnly),
			}, m.Cache())

			host := viper.GetString(KeyAddress)
			phost := host
			if h, port, err := net.SplitHostPort(host); err == nil && h == "" {
				phost = net.JoinHostPort("localhost", port)
			}
			clog.Infof("listening on %s, resources at http://%s", host, phost)
			return http.ListenAndServe(host, nil)
		},
	}
	cmd.Flags().String("host", "127.0.0.1:64220", "host:port to listen on")
	cmd.Flags().String("endpoint", "", "SPARQL endpoint URL backing the store")
	cmd.Flags().String("base", "http://localhost:64220", "base IRI prepended to resource paths")
	cmd.Flags().Bool("read_only", false, "disable writing via HTTP")
	cmd.Flags().DurationP("timeout", "t", 30*time.Second, "elapsed time until a store call times out")
	cmd.Flags().Int("cache", 1024, "resource cache size, 0 disables")
	cmd.Flags().StringSlice("model", nil, "model definition file, repeatable")
	cmd.Flags().String("load", "", "triple file to load into the in-memory store")
	viper.BindPFlag(KeyAddress, cmd.Flags().Lookup("host"))
	viper.BindPFlag(KeyEndpoint, cmd.Flags().Lookup("endpoint"))
	viper.BindPFlag(KeyBaseIRI, cmd.Flags().Lookup("base"))
	viper.BindPFlag(KeyReadOnly, cmd.Flags().Lookup("read_only"))
	viper.BindPFlag(KeyTimeout, cmd.Flags().Lookup("timeout"))
	viper.BindPFlag(KeyCacheSize, cmd.Flags().Lookup("cache"))
	return cmd
}

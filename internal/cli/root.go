// Package cli implements the reserva command line, one subcommand per hub
// operation. Results are printed to stdout as indented JSON.
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hmax-erp/reserva-online-go/internal/app"
	"github.com/hmax-erp/reserva-online-go/internal/config"
	"github.com/hmax-erp/reserva-online-go/internal/logger"
	"github.com/hmax-erp/reserva-online-go/pkg/reservaonline"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var version = "0.1.0"

type flags struct {
	dialect  string
	test     bool
	baseURL  string
	token    string
	user     string
	password string
}

// runner carries state shared by every subcommand once the root pre-run has
// resolved config and built the client.
type runner struct {
	out    io.Writer
	flags  flags
	client *reservaonline.Client
}

// NewRootCommand builds the command tree writing results to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	r := &runner{out: out}

	root := &cobra.Command{
		Use:   "reserva",
		Short: "reserva-online hub client",
		Long: `Talk to the HMAX reserva-online hub from the command line.

Connection settings come from configs/.env and the environment
(RESERVA_TOKEN, RESERVA_USER, RESERVA_PASSWORD, RESERVA_DIALECT, ...);
flags override them.

Examples:
  reserva portals list
  reserva inventory 2024-03-01 2024-03-07 --types 10,11
  reserva --dialect legacy echo hello
  reserva reservations submit reservations.yaml --user hotel --password s3cret`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return r.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&r.flags.dialect, "dialect", "", "API generation (revised/legacy)")
	pf.BoolVar(&r.flags.test, "test", false, "Target the local test endpoint")
	pf.StringVar(&r.flags.baseURL, "base-url", "", "Override the hub base URL")
	pf.StringVar(&r.flags.token, "token", "", "Integrator token")
	pf.StringVar(&r.flags.user, "user", "", "Hotel user")
	pf.StringVar(&r.flags.password, "password", "", "Hotel password")

	root.AddCommand(
		r.portalsCommand(),
		r.integratorCommand(),
		r.cardsCommand(),
		r.hotelCommand(),
		r.roomTypesCommand(),
		r.reservationsCommand(),
		r.inventoryCommand(),
		r.echoCommand(),
		r.routesCommand(),
	)
	return root
}

func (r *runner) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pf := cmd.Flags()
	if pf.Changed("dialect") {
		cfg.Dialect = r.flags.dialect
	}
	if pf.Changed("test") {
		cfg.Test = r.flags.test
	}
	if pf.Changed("base-url") {
		cfg.BaseURL = r.flags.baseURL
	}
	if pf.Changed("token") {
		cfg.Token = r.flags.token
	}
	if pf.Changed("user") {
		cfg.User = r.flags.user
	}
	if pf.Changed("password") {
		cfg.Password = r.flags.password
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	client, err := app.NewReservaClient(cfg, log)
	if err != nil {
		return err
	}
	r.client = client
	return nil
}

// printJSON writes v as indented JSON.
func (r *runner) printJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// rawOnly reports whether the dialect only yields undecoded envelopes.
func (r *runner) rawOnly() bool {
	return !r.client.Dialect().DecodeResponses
}

// printRaw prints the envelope of a RawClient call.
func (r *runner) printRaw(env *reservaonline.Envelope, err error) error {
	if err != nil {
		return err
	}
	return r.printEnvelope(env)
}

// printEnvelope writes a raw response body, indenting it when it is JSON.
func (r *runner) printEnvelope(env *reservaonline.Envelope) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, env.Body, "", "  "); err != nil {
		_, werr := fmt.Fprintln(r.out, strings.TrimSpace(string(env.Body)))
		return werr
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(r.out)
	return err
}

// readInput decodes a JSON or YAML file into v, chosen by extension. YAML is
// converted to JSON first, so both formats reach v through its JSON decoding
// and members v does not model are kept.
func readInput(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input file: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) != ".json" {
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("decode input file %s: %w", filepath.Base(path), err)
		}
		if raw, err = json.Marshal(doc); err != nil {
			return fmt.Errorf("convert input file %s to JSON: %w", filepath.Base(path), err)
		}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode input file %s: %w", filepath.Base(path), err)
	}
	return nil
}

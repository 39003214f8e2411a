package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/reoring/dtobind/internal/gen"
)

// GenOptions holds flags for the gen command.
type GenOptions struct {
	*RootOptions
	Config    string
	Dir       string
	Out       string
	Interface string
	Record    string
	Func      string
	Dump      bool
}

// GenConfig is the YAML form of a gen job. Relative paths are resolved
// against the directory holding the config file.
//
//	dir: ./users
//	out: ./users/schema_gen.go
//	bindings:
//	  - interface: User
//	    record: user
type GenConfig struct {
	Dir      string        `yaml:"dir"`
	Out      string        `yaml:"out"`
	Bindings []gen.Request `yaml:"bindings"`
}

// NewGenCommand creates the gen command.
func NewGenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate schema declarations from Go source",
		Long: `Generate dtobind schema declarations.

The package in --dir is parsed for the capability interface and the record
type. Functions returning the record (or the interface) become constructors;
interface accessors named by a constructor parameter become fields, the rest
computed members.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "YAML file listing bindings")
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "package directory (default \".\")")
	cmd.Flags().StringVarP(&opts.Out, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.Interface, "interface", "", "capability interface name")
	cmd.Flags().StringVar(&opts.Record, "record", "", "record type name")
	cmd.Flags().StringVar(&opts.Func, "func", "", "generated function name (default <interface>Schema)")
	cmd.Flags().BoolVar(&opts.Dump, "dump", false, "print the parsed model instead of code")

	return cmd
}

func runGen(opts *GenOptions, cmd *cobra.Command) error {
	log := opts.logger()
	cfg, err := opts.resolve()
	if err != nil {
		return err
	}
	log.Debug("parsing package", slog.String("dir", cfg.Dir), slog.Int("bindings", len(cfg.Bindings)))

	model, err := gen.Load(cfg.Dir, cfg.Bindings)
	if err != nil {
		return err
	}
	if opts.Dump {
		dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		dumper.Fdump(cmd.OutOrStdout(), model)
		return nil
	}
	code, err := gen.Render(model)
	if err != nil {
		return err
	}

	if cfg.Out == "" {
		_, err = cmd.OutOrStdout().Write(code)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Out), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(cfg.Out, code, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	log.Info("generated", slog.String("file", cfg.Out), slog.String("package", model.Package), slog.Int("bindings", len(model.Bindings)))
	return nil
}

// resolve merges the config file with flags. Flags win; a binding given by
// flags is added to those of the file.
func (o *GenOptions) resolve() (*GenConfig, error) {
	cfg := &GenConfig{}
	if o.Config != "" {
		var err error
		if cfg, err = LoadGenConfig(o.Config); err != nil {
			return nil, err
		}
	}
	if o.Dir != "" {
		cfg.Dir = o.Dir
	}
	if o.Out != "" {
		cfg.Out = o.Out
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	switch {
	case o.Interface != "" && o.Record != "":
		cfg.Bindings = append(cfg.Bindings, gen.Request{Interface: o.Interface, Record: o.Record, Func: o.Func})
	case o.Interface != "" || o.Record != "":
		return nil, fmt.Errorf("--interface and --record must be given together")
	}
	if len(cfg.Bindings) == 0 {
		return nil, fmt.Errorf("no bindings: pass --interface and --record, or --config")
	}
	return cfg, nil
}

// LoadGenConfig reads a YAML gen job from path.
func LoadGenConfig(path string) (*GenConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := &GenConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	base := filepath.Dir(path)
	if cfg.Dir != "" && !filepath.IsAbs(cfg.Dir) {
		cfg.Dir = filepath.Join(base, cfg.Dir)
	}
	if cfg.Out != "" && !filepath.IsAbs(cfg.Out) {
		cfg.Out = filepath.Join(base, cfg.Out)
	}
	for i, b := range cfg.Bindings {
		if b.Interface == "" || b.Record == "" {
			return nil, fmt.Errorf("config %s: binding %d needs interface and record", path, i)
		}
	}
	return cfg, nil
}

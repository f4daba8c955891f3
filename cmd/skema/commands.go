package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/config"
	"github.com/reoring/skema/format"
	"github.com/reoring/skema/internal/app"
	"github.com/reoring/skema/internal/batch"
	"github.com/reoring/skema/internal/watch"
	"github.com/reoring/skema/kubeopenapi"
	"github.com/reoring/skema/schema"
	"github.com/reoring/skema/source"
)

// errInvalid signals that at least one document failed validation.
var errInvalid = errors.New("validation failed")

// errChanged signals a non-empty diff under --exit-code.
var errChanged = errors.New("schemas differ")

func newCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "skema",
		Usage:  "Validate JSON/YAML documents against schemas with prime-stride sampling, and diff schemas",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (defaults are used when empty)",
				Sources: cli.EnvVars("SKEMA_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "lang",
				Usage:   "Message language (en, ja); overrides the config file",
				Sources: cli.EnvVars("SKEMA_LANG"),
			},
		},
		Commands: []*cli.Command{
			validateCommand(),
			diffCommand(),
			crdCommand(),
			watchCommand(),
			serveCommand(),
			mcpCommand(),
			formatsCommand(),
		},
	}
}

func validationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "schema",
			Aliases:  []string{"s"},
			Usage:    "Schema file (.json, .yaml, .yml)",
			Required: true,
		},
		&cli.BoolFlag{
			Name:    "full-scan",
			Usage:   "Check every array element and dictionary key instead of sampling",
			Sources: cli.EnvVars("SKEMA_FULL_SCAN"),
		},
		&cli.IntFlag{
			Name:    "stride",
			Usage:   "Sampling stride (0 keeps the configured value)",
			Sources: cli.EnvVars("SKEMA_STRIDE"),
		},
	}
}

// setup loads configuration, applies command-line overrides and builds the
// runtime environment.
func setup(cmd *cli.Command) (*app.Env, error) {
	cfg := config.NewDefaultConfig()
	if err := config.LoadOrDefault(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if lang := cmd.String("lang"); lang != "" {
		cfg.App.Language = lang
	}
	if cmd.IsSet("full-scan") {
		cfg.Validation.FullScan = cmd.Bool("full-scan")
	}
	if stride := int(cmd.Int("stride")); stride > 0 {
		cfg.Validation.Stride = stride
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return app.Setup(app.WithConfig(cfg))
}

func validateCommand() *cli.Command {
	flags := append(validationFlags(), &cli.IntFlag{
		Name:  "concurrency",
		Usage: "Documents validated in parallel (0 keeps the configured value)",
	})
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate documents against a schema; exits non-zero if any is invalid",
		ArgsUsage: "DOC...",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			docs := cmd.Args().Slice()
			if len(docs) == 0 {
				return fmt.Errorf("at least one document is required")
			}
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			node, err := source.LoadSchema(cmd.String("schema"))
			if err != nil {
				return err
			}
			concurrency := env.Config.Validation.Concurrency
			if c := int(cmd.Int("concurrency")); c > 0 {
				concurrency = c
			}
			runner := batch.New(env.Validator, batch.Options{
				FullScan:    env.Config.Validation.FullScan,
				Concurrency: concurrency,
			})
			results, err := runner.Files(ctx, node, docs)
			if err != nil {
				return err
			}
			out := cmd.Root().Writer
			for _, r := range results {
				if r.Valid() {
					fmt.Fprintf(out, "ok   %s\n", r.Name)
					continue
				}
				fmt.Fprintf(out, "FAIL %s: %v\n", r.Name, r.Err)
			}
			if n := batch.Invalid(results); n > 0 {
				return fmt.Errorf("%w: %d of %d documents", errInvalid, n, len(results))
			}
			return nil
		},
	}
}

func diffCommand() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "Report structural differences from schema A to schema B as JSON",
		ArgsUsage: "A B",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "exit-code",
				Usage: "Exit non-zero when the schemas differ",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) != 2 {
				return fmt.Errorf("diff needs exactly two schema files, got %d", len(args))
			}
			if _, err := setup(cmd); err != nil {
				return err
			}
			a, err := source.LoadSchema(args[0])
			if err != nil {
				return err
			}
			b, err := source.LoadSchema(args[1])
			if err != nil {
				return err
			}
			c := skema.Diff(a, b)
			out := cmd.Root().Writer
			if c == nil {
				fmt.Fprintln(out, "null")
				return nil
			}
			data, err := json.MarshalIndent(c, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			if cmd.Bool("exit-code") {
				return errChanged
			}
			return nil
		},
	}
}

func crdCommand() *cli.Command {
	return &cli.Command{
		Name:      "crd",
		Usage:     "Extract a CustomResourceDefinition's openAPIV3Schema from a YAML bundle as a skema schema",
		ArgsUsage: "BUNDLE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Usage: "Select the CRD by spec.names.kind"},
			&cli.StringFlag{Name: "name", Usage: "Select the CRD by metadata.name"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("crd needs exactly one bundle file, got %d", cmd.NArg())
			}
			kind, name := cmd.String("kind"), cmd.String("name")
			if (kind == "") == (name == "") {
				return fmt.Errorf("exactly one of --kind or --name is required")
			}
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(cmd.Args().First())
			if err != nil {
				return err
			}
			var (
				node *schema.Node
				diag kubeopenapi.Diag
			)
			if kind != "" {
				node, diag, err = kubeopenapi.ImportYAMLForCRDKind(data, kind)
			} else {
				node, diag, err = kubeopenapi.ImportYAMLForCRDName(data, name)
			}
			if err != nil {
				return err
			}
			for _, w := range diag.Warnings() {
				env.Logger.Warn("crd import", "warning", w)
			}
			out, err := json.MarshalIndent(node, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.Root().Writer, string(out))
			return nil
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Re-validate documents whenever they or the schema change",
		ArgsUsage: "DOC...",
		Flags:     validationFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			docs := cmd.Args().Slice()
			if len(docs) == 0 {
				return fmt.Errorf("at least one document is required")
			}
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			out := cmd.Root().Writer
			return watch.Watch(ctx, env.Validator, watch.Options{
				SchemaPath: cmd.String("schema"),
				Docs:       docs,
				FullScan:   env.Config.Validation.FullScan,
			}, env.Logger, func(path string, err error) {
				if err != nil {
					fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
					return
				}
				fmt.Fprintf(out, "ok   %s\n", path)
			})
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the validation and diff HTTP API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Usage:   "HTTP port (0 keeps the configured value)",
				Sources: cli.EnvVars("SKEMA_HTTP_PORT"),
			},
			&cli.StringFlag{
				Name:    "crd",
				Usage:   "CRD YAML bundle; enables the admission webhook at /v1/admission",
				Sources: cli.EnvVars("SKEMA_ADMISSION_CRD_FILE"),
			},
			&cli.StringFlag{
				Name:    "crd-kind",
				Usage:   "Kind of the CRD to admit",
				Sources: cli.EnvVars("SKEMA_ADMISSION_KIND"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			if p := int(cmd.Int("port")); p > 0 {
				env.Config.HTTP.Port = p
			}
			if crd := cmd.String("crd"); crd != "" {
				env.Config.Admission.CRDFile = crd
			}
			if kind := cmd.String("crd-kind"); kind != "" {
				env.Config.Admission.Kind = kind
			}
			if err := env.Config.Admission.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return app.Serve(ctx, env)
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP stdio server exposing validate_value and diff_schemas",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}
			return app.ServeMCP(env)
		},
	}
}

func formatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "formats",
		Usage: "List supported string formats",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Fprintln(cmd.Root().Writer, strings.Join(format.Names(), "\n"))
			return nil
		},
	}
}

package fwmaker

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/fwmaker/internal/version"
	"github.com/arthur-debert/fwmaker/pkg/cobrax/topics"
	"github.com/arthur-debert/fwmaker/pkg/config"
	"github.com/arthur-debert/fwmaker/pkg/engine"
	"github.com/arthur-debert/fwmaker/pkg/errors"
	"github.com/arthur-debert/fwmaker/pkg/layout"
	"github.com/arthur-debert/fwmaker/pkg/logging"
	"github.com/arthur-debert/fwmaker/pkg/style"
)

//go:embed topics
var topicsFS embed.FS

// app holds the global flags and the state derived from them for one
// invocation.
type app struct {
	verbosity  int
	configFile string
	format     string
	dir        string

	fs       afero.Fs
	cfg      *config.Config
	renderer style.Renderer
	topics   *topics.TopicManager
}

func newApp() *app {
	return &app{fs: afero.NewOsFs()}
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes fwmaker with args, printing results to stdout and errors to
// stderr.
func Run(args []string, stdout, stderr io.Writer) int {
	a := newApp()
	rootCmd := a.rootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		renderer := a.renderer
		if renderer == nil {
			// Flag errors happen before the output format is known.
			renderer = style.NewRenderer(style.FormatText)
		}
		_, _ = fmt.Fprintln(stderr, renderer.RenderError(err))
		return 1
	}
	return 0
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	initTemplateFormatting()

	rootCmd := &cobra.Command{
		Use:     "fwmaker",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLoggerWithOutput(a.verbosity, cmd.ErrOrStderr())
			logging.LogCommand(cmd.Name(), args)
			return a.setupOutput()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, "no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	rootCmd.SetVersionTemplate("fwmaker " + version.String() + "\n")

	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&a.format, "format", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().StringVarP(&a.dir, "dir", "C", "", MsgFlagDir)
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "term", "text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{ID: "image", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(a.newInitCmd())
	rootCmd.AddCommand(a.newCheckCmd())
	rootCmd.AddCommand(a.newBuildCmd())
	rootCmd.AddCommand(a.newConvertCmd())
	rootCmd.AddCommand(a.newComponentsCmd())
	rootCmd.AddCommand(a.newConfigCmd())
	rootCmd.AddCommand(a.newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	sub, err := fs.Sub(topicsFS, "topics")
	if err == nil {
		renderer := topics.NewGlamourRenderer()
		if !stdoutIsTerminal() || os.Getenv("NO_COLOR") != "" {
			renderer = topics.NewPlainGlamourRenderer()
		}
		tm, err := topics.InitializeWithOptions(rootCmd, sub, topics.Options{
			Extensions: []string{".txt", ".md"},
			Renderer:   renderer,
		})
		if err == nil {
			a.topics = tm
		}
	}

	return rootCmd
}

func (a *app) setupOutput() error {
	format, err := style.ParseFormat(a.format)
	if err != nil {
		return err
	}
	a.renderer = style.NewRenderer(format.Resolve(os.Stdout))
	return nil
}

// path resolves p against --dir.
func (a *app) path(p string) string {
	if p == "" || a.dir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.dir, p)
}

func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load(config.Options{
		ProjectDir: a.dir,
		File:       a.path(a.configFile),
	})
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	return cfg, nil
}

// engine builds an engine from the configuration. baseDir defaults to --dir.
func (a *app) engine(baseDir string) (*engine.Engine, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	size, err := cfg.RegionSize()
	if err != nil {
		return nil, err
	}

	if baseDir == "" {
		baseDir = a.dir
	} else {
		baseDir = a.path(baseDir)
	}

	return engine.New(
		engine.WithFs(a.fs),
		engine.WithCatalog(cfg.Catalog()),
		engine.WithRegionSize(size),
		engine.WithBaseDir(baseDir),
	), nil
}

// layoutPath returns the layout file to use, falling back to layout.path.
func (a *app) layoutPath(flag string) (string, error) {
	if flag != "" {
		return a.path(flag), nil
	}
	cfg, err := a.config()
	if err != nil {
		return "", err
	}
	return a.path(cfg.Layout.Path), nil
}

func (a *app) refuseOverwrite(path string, force bool) error {
	if force {
		return nil
	}
	exists, err := afero.Exists(a.fs, path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot check %s", path)
	}
	if exists {
		return errors.Newf(errors.ErrInvalidInput, MsgErrLayoutExists, path).
			WithDetail("path", path)
	}
	return nil
}

func (a *app) newInitCmd() *cobra.Command {
	var (
		write     bool
		force     bool
		essential bool
		all       bool
		layoutArg string
	)

	cmd := &cobra.Command{
		Use:     "init [components...]",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Example: MsgInitExample,
		GroupID: "image",
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			cfg, err := a.config()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return remaining(cfg.Components.Recognized, args), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}

			names := args
			if len(names) == 0 {
				if essential {
					names = cfg.Components.Essential
				} else {
					names = cfg.Components.Recognized
				}
			}
			if len(names) == 0 {
				return errors.New(errors.ErrInvalidInput, MsgErrNoComponents)
			}

			e, err := a.engine("")
			if err != nil {
				return err
			}
			l, err := e.GenerateDefaultLayout(names)
			if err != nil {
				return err
			}

			path, err := a.layoutPath(layoutArg)
			if err != nil {
				return err
			}
			format, err := layout.FormatFromPath(path)
			if err != nil {
				return err
			}

			if !write {
				data, err := layout.Marshal(l, format)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if err := a.refuseOverwrite(path, force); err != nil {
				return err
			}
			if err := layout.Save(a.fs, path, l); err != nil {
				return err
			}
			log.Info().Str("path", path).Strs("components", names).Msg("Layout written")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgLayoutWritten, path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	cmd.Flags().BoolVarP(&essential, "essential", "e", false, MsgFlagEssential)
	cmd.Flags().BoolVarP(&all, "all", "a", false, MsgFlagAll)
	cmd.Flags().StringVarP(&layoutArg, "layout", "l", "", MsgFlagLayout)
	cmd.MarkFlagsMutuallyExclusive("essential", "all")

	return cmd
}

// loadForCheck loads the layout and the engine for check and build.
func (a *app) loadForCheck(layoutArg, baseDir string) (*engine.Engine, layout.Layout, error) {
	path, err := a.layoutPath(layoutArg)
	if err != nil {
		return nil, nil, err
	}
	e, err := a.engine(baseDir)
	if err != nil {
		return nil, nil, err
	}

	log.Info().Str("layout", path).Msg("Loading layout")
	l, err := layout.Load(a.fs, path)
	if err != nil {
		return nil, nil, err
	}
	return e, l, nil
}

func (a *app) newCheckCmd() *cobra.Command {
	var layoutArg, baseDir string

	cmd := &cobra.Command{
		Use:     "check",
		Short:   MsgCheckShort,
		Long:    MsgCheckLong,
		GroupID: "image",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, l, err := a.loadForCheck(layoutArg, baseDir)
			if err != nil {
				return err
			}
			plan, err := e.Check(l)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), a.renderer.RenderPlan(plan))
			return nil
		},
	}

	cmd.Flags().StringVarP(&layoutArg, "layout", "l", "", MsgFlagLayout)
	cmd.Flags().StringVarP(&baseDir, "base-dir", "b", "", MsgFlagBaseDir)
	return cmd
}

func (a *app) newBuildCmd() *cobra.Command {
	var layoutArg, baseDir, output string

	cmd := &cobra.Command{
		Use:     "build",
		Short:   MsgBuildShort,
		Long:    MsgBuildLong,
		Example: MsgBuildExample,
		GroupID: "image",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, l, err := a.loadForCheck(layoutArg, baseDir)
			if err != nil {
				return err
			}
			if output == "" {
				output = a.cfg.Output.Path
			}
			result, err := e.Build(l, a.path(output))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), a.renderer.RenderResult(result))
			return nil
		},
	}

	cmd.Flags().StringVarP(&layoutArg, "layout", "l", "", MsgFlagLayout)
	cmd.Flags().StringVarP(&baseDir, "base-dir", "b", "", MsgFlagBaseDir)
	cmd.Flags().StringVarP(&output, "output", "o", "", MsgFlagOutput)
	return cmd
}

func (a *app) newConvertCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "convert <input> <output>",
		Short:   MsgConvertShort,
		Long:    MsgConvertLong,
		GroupID: "image",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := a.path(args[0]), a.path(args[1])

			l, err := layout.Load(a.fs, in)
			if err != nil {
				return err
			}
			if err := a.refuseOverwrite(out, force); err != nil {
				return err
			}
			if err := layout.Save(a.fs, out, l); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgConverted, in, out)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	return cmd
}

func (a *app) newComponentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "components",
		Short:   MsgComponentsShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), a.renderer.RenderCatalog(cfg.Catalog()))
			return nil
		},
	}
}

func (a *app) newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), config.Template())
			return err
		},
	}
}

func (a *app) newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics [topic]",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.topics == nil {
				return errors.New(errors.ErrInternal, "help topics are not available")
			}
			if len(args) == 0 {
				a.topics.WriteIndex(cmd.OutOrStdout(), cmd.Root().Name())
				return nil
			}
			topic, ok := a.topics.GetTopic(args[0])
			if !ok {
				return errors.Newf(errors.ErrNotFound, "no help topic %q", args[0]).
					WithDetail("topic", args[0])
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), a.topics.Render(topic))
			return err
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// remaining returns the names not already in args.
func remaining(names, args []string) []string {
	used := make(map[string]bool, len(args))
	for _, arg := range args {
		used[arg] = true
	}
	var out []string
	for _, name := range names {
		if !used[name] {
			out = append(out, name)
		}
	}
	return out
}

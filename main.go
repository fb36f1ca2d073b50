// aboutdesc translates the <description> of mod about.xml files with an
// OpenAI-compatible chat API and marks them so reruns skip finished files.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/minios-linux/aboutdesc/config"
	"github.com/minios-linux/aboutdesc/i18n"
	"github.com/minios-linux/aboutdesc/langmeta"
	"github.com/minios-linux/aboutdesc/logging"
	"github.com/minios-linux/aboutdesc/pipeline"
	"github.com/minios-linux/aboutdesc/settings"
	"github.com/minios-linux/aboutdesc/translate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

type globalFlags struct {
	configPath string
	verbose    bool
	logFile    string
	langUI     string
}

var global globalFlags

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "aboutdesc",
		Short: i18n.T("Translate mod about.xml descriptions with AI"),
		Long: i18n.T(`aboutdesc finds every about.xml under a directory, translates the text of
its <description> element through an OpenAI-compatible chat API, and writes
the result back with a marker comment so later runs skip the file.

The original file is kept next to it as about.xml.bak.

Commands:
  translate   Translate all pending files
  status      Show which files are translated, pending or empty
  restore     Put the .bak copies back in place
  config      Show or change config.yaml
  auth        Manage the stored API key`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&global.configPath, "config", "", i18n.T("Path to config.yaml (default: data directory)"))
	pf.BoolVarP(&global.verbose, "verbose", "v", false, i18n.T("Enable debug logging"))
	pf.StringVar(&global.logFile, "log-file", "", i18n.T("Also write JSON log lines to this file"))
	pf.StringVar(&global.langUI, "lang-ui", "", i18n.T("Interface language (default: from LANG)"))

	root.AddCommand(
		newTranslateCmd(),
		newStatusCmd(),
		newRestoreCmd(),
		newConfigCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	// Messages are looked up while the commands are built, so the UI
	// language has to be known before cobra parses flags.
	i18n.Init(uiLangFromArgs(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		console, _ := logging.New(logging.Options{})
		console.Error("%v", err)
		os.Exit(1)
	}
}

// uiLangFromArgs extracts --lang-ui from raw arguments.
func uiLangFromArgs(args []string) string {
	for i, a := range args {
		if a == "--" {
			break
		}
		if v, ok := strings.CutPrefix(a, "--lang-ui="); ok {
			return v
		}
		if a == "--lang-ui" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func configPath() (string, error) {
	path, err := config.Path(global.configPath)
	if err != nil {
		return "", fmt.Errorf("cannot determine config path: %w", err)
	}
	return path, nil
}

func loadConfig() (*config.Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

func openLogger(cfg *config.Config, out io.Writer) (*logging.Logger, error) {
	file := cfg.LogFile
	if global.logFile != "" {
		file = global.logFile
	}
	return logging.New(logging.Options{Verbose: global.verbose, File: file, Out: out})
}

func newDriver(cfg *config.Config, proc pipeline.Processor, log pipeline.Logger) *pipeline.Driver {
	d := pipeline.NewDriver(proc, log)
	d.FileName = cfg.FileName
	d.Delay = cfg.RequestDelay
	return d
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

type translateFlags struct {
	targetLang string
	marker     string
	model      string
	baseURL    string
	apiKey     string
	delay      time.Duration
	timeout    time.Duration
	proxy      string
	fileName   string
	dryRun     bool
	noProgress bool
}

func newTranslateCmd() *cobra.Command {
	var f translateFlags

	cmd := &cobra.Command{
		Use:   "translate [root]",
		Short: i18n.T("Translate the description of every about.xml under root"),
		Long: i18n.T(`Translate the description of every about.xml under root (default: current
directory). Files carrying a translation marker are skipped, so the command
can be re-run after failures.

Examples:
  # Translate a RimWorld Mods folder into Simplified Chinese
  aboutdesc translate ~/.steam/steam/steamapps/workshop/content/294100

  # Use a local OpenAI-compatible server
  aboutdesc translate Mods --base-url http://localhost:11434/v1 --model qwen2.5

  # Show what would be translated
  aboutdesc translate Mods --dry-run`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, rootArg(args), f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.targetLang, "target-lang", "l", "", i18n.T("Target language code (e.g. zh-CN, de, pt-BR)"))
	fl.StringVar(&f.marker, "marker", "", i18n.T("Text of the marker comment"))
	fl.StringVar(&f.model, "model", "", i18n.T("Model name"))
	fl.StringVar(&f.baseURL, "base-url", "", i18n.T("API base URL"))
	fl.StringVar(&f.apiKey, "api-key", "", i18n.T("API key (or ABOUTDESC_API_KEY / OPENAI_API_KEY)"))
	fl.DurationVar(&f.delay, "delay", 0, i18n.T("Pause between files"))
	fl.DurationVar(&f.timeout, "timeout", 0, i18n.T("Request timeout (0 = none)"))
	fl.StringVar(&f.proxy, "proxy", "", i18n.T("HTTP/HTTPS proxy URL"))
	fl.StringVar(&f.fileName, "file-name", "", i18n.T("Name of the files to process"))
	fl.BoolVar(&f.dryRun, "dry-run", false, i18n.T("List pending files without calling the API"))
	fl.BoolVar(&f.noProgress, "no-progress", false, i18n.T("Disable the progress bar"))

	_ = cmd.RegisterFlagCompletionFunc("target-lang", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for code := range translate.LanguagePrompts {
			out = append(out, code+"\t"+langmeta.Resolve(code).Name)
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// applyTranslateFlags copies the flags the user actually set onto cfg.
func applyTranslateFlags(fs *pflag.FlagSet, cfg *config.Config, f translateFlags) error {
	if fs.Changed("target-lang") {
		cfg.TargetLanguage = langmeta.Canonicalize(f.targetLang)
	}
	if fs.Changed("marker") {
		cfg.TranslationMarker = f.marker
	}
	if fs.Changed("model") {
		cfg.API.Model = f.model
	}
	if fs.Changed("base-url") {
		cfg.API.BaseURL = f.baseURL
	}
	if fs.Changed("delay") {
		cfg.RequestDelay = f.delay
	}
	if fs.Changed("timeout") {
		cfg.API.Timeout = f.timeout
	}
	if fs.Changed("proxy") {
		cfg.API.Proxy = f.proxy
	}
	if fs.Changed("file-name") {
		cfg.FileName = f.fileName
	}
	return cfg.Validate()
}

func runTranslate(cmd *cobra.Command, root string, f translateFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyTranslateFlags(cmd.Flags(), cfg, f); err != nil {
		return err
	}

	log, err := openLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer log.Close()

	key, source := settings.ResolveAPIKey(f.apiKey, cfg.API.APIKey)
	if key == "" && !f.dryRun {
		return errors.New(i18n.T("no API key configured; use 'aboutdesc auth set', --api-key or ABOUTDESC_API_KEY"))
	}
	if key != "" {
		log.Debug("API key from %s: %s", source, settings.MaskKey(key))
	}

	prompts := map[string]string{}
	if path, err := settings.PromptsFilePath(); err == nil {
		if prompts, err = translate.LoadPrompts(path); err != nil {
			log.Warning("%v", err)
			prompts = map[string]string{}
		} else if len(prompts) > 0 {
			log.Debug("Loaded prompt overrides from %s", path)
		}
	}

	client := translate.NewClient(translate.Options{
		Provider: translate.Provider{
			BaseURL: cfg.API.BaseURL,
			APIKey:  key,
			Model:   cfg.API.Model,
			Proxy:   cfg.API.Proxy,
			Timeout: cfg.API.Timeout,
		},
		Language:    cfg.TargetLanguage,
		Temperature: cfg.API.Temperature,
		Prompts:     prompts,
		OnLog:       log.Debug,
		Verbose:     log.Verbose(),
	})

	lang := langmeta.Resolve(cfg.TargetLanguage)
	log.Info(i18n.T("Target language: %s (%s), model %s"), lang.Name, lang.Code, cfg.API.Model)
	log.Debug("Endpoint: %s", client.Endpoint())

	proc := pipeline.New(client, log, pipeline.Options{
		Marker: cfg.TranslationMarker,
		DryRun: f.dryRun,
	})
	d := newDriver(cfg, proc, log)

	if !f.noProgress && !global.verbose && isTerminal(cmd.ErrOrStderr()) {
		var bar *progressbar.ProgressBar
		d.OnStart = func(total int) {
			bar = newProgressBar(total, cmd.ErrOrStderr())
			log.SetOutput(&barWriter{bar: bar, w: cmd.ErrOrStderr()})
		}
		d.OnResult = func(pipeline.Result) {
			_ = bar.Add(1)
		}
		defer func() {
			if bar != nil {
				_ = bar.Finish()
				log.SetOutput(cmd.ErrOrStderr())
			}
		}()
	}

	sum, err := d.Run(cmd.Context(), root)
	if errors.Is(err, context.Canceled) {
		log.Warning(i18n.T("Interrupted after %d file(s)"), sum.Total)
	} else if err != nil {
		return err
	}

	log.Info(i18n.T("Done: %d total, %d succeeded, %d skipped, %d failed"),
		sum.Total, sum.Succeeded, sum.Skipped, sum.Failed)

	if err != nil {
		return err
	}
	if sum.Failed > 0 {
		return fmt.Errorf(i18n.N("%d file failed", "%d files failed", sum.Failed), sum.Failed)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Progress bar
// ---------------------------------------------------------------------------

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newProgressBar(total int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(i18n.T("Translating")),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(!color.NoColor),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// barWriter keeps log lines from being drawn over the progress bar.
type barWriter struct {
	bar *progressbar.ProgressBar
	w   io.Writer
}

func (b *barWriter) Write(p []byte) (int, error) {
	_ = b.bar.Clear()
	n, err := b.w.Write(p)
	_ = b.bar.RenderBlank()
	return n, err
}

// ---------------------------------------------------------------------------
// status (read-only scan)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [root]",
		Short: i18n.T("Show the translation state of every about.xml under root"),
		Long: i18n.T(`List every about.xml under root with its state:

  translated      carries a translation marker
  pending         has a description that will be translated
  no description  has nothing to translate
  unreadable      could not be read

Does not modify any files.`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.OutOrStdout(), cmd.ErrOrStderr(), rootArg(args))
		},
	}
}

func runStatus(out, errOut io.Writer, root string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := openLogger(cfg, errOut)
	if err != nil {
		return err
	}
	defer log.Close()

	rows, err := newDriver(cfg, nil, log).Scan(root, cfg.TranslationMarker)
	if err != nil {
		return err
	}

	lang := langmeta.Resolve(cfg.TargetLanguage)
	fmt.Fprintf(out, "%s %s (%s)\n", color.BlueString(i18n.T("Target language:")), lang.Name, lang.Native)
	fmt.Fprintf(out, "%s %s\n\n", color.BlueString(i18n.T("Marker:")), cfg.TranslationMarker)

	counts := map[pipeline.Status]int{}
	backups := 0
	for _, r := range rows {
		counts[r.Status]++
		if r.HasBackup {
			backups++
		}
		bak := "   "
		if r.HasBackup {
			bak = "bak"
		}
		detail := truncate(oneLine(r.Description), 50)
		if r.Err != nil {
			detail = r.Err.Error()
		}
		fmt.Fprintf(out, "  %-14s %s  %s  %s\n", statusLabel(r.Status), bak, relPath(root, r.Path), color.HiBlackString(detail))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, i18n.N("%d file", "%d files", len(rows))+": ", len(rows))
	fmt.Fprintf(out, "%d %s, %d %s, %d %s, %d %s; %d %s\n",
		counts[pipeline.StatusTranslated], i18n.T("translated"),
		counts[pipeline.StatusPending], i18n.T("pending"),
		counts[pipeline.StatusNoDescription], i18n.T("no description"),
		counts[pipeline.StatusUnreadable], i18n.T("unreadable"),
		backups, i18n.T("with backup"))
	return nil
}

func statusLabel(s pipeline.Status) string {
	label := fmt.Sprintf("%-14s", i18n.T(s.String()))
	switch s {
	case pipeline.StatusTranslated:
		return color.GreenString(label)
	case pipeline.StatusPending:
		return color.YellowString(label)
	case pipeline.StatusUnreadable:
		return color.RedString(label)
	default:
		return label
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, maxRunes int) string {
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes]) + "..."
}

// ---------------------------------------------------------------------------
// restore
// ---------------------------------------------------------------------------

func newRestoreCmd() *cobra.Command {
	var clean bool

	cmd := &cobra.Command{
		Use:   "restore [root]",
		Short: i18n.T("Restore files from their .bak copies"),
		Long: i18n.T(`Copy every about.xml.bak under root back over its about.xml, undoing the
translation. With --clean the backup is removed afterwards.`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd.ErrOrStderr(), rootArg(args), clean)
		},
	}
	cmd.Flags().BoolVar(&clean, "clean", false, i18n.T("Delete each backup after restoring it"))
	return cmd
}

func runRestore(errOut io.Writer, root string, clean bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := openLogger(cfg, errOut)
	if err != nil {
		return err
	}
	defer log.Close()

	backups, err := newDriver(cfg, nil, log).Backups(root)
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		log.Info(i18n.T("No backups found under %s"), root)
		return nil
	}

	failed := 0
	for _, bak := range backups {
		path := strings.TrimSuffix(bak, ".bak")
		if err := pipeline.Restore(path, clean); err != nil {
			log.Error("%s: %v", relPath(root, path), err)
			failed++
			continue
		}
		log.Success(i18n.T("Restored %s"), relPath(root, path))
	}

	if failed > 0 {
		return fmt.Errorf(i18n.N("%d file failed", "%d files failed", failed), failed)
	}
	log.Info(i18n.N("Restored %d file", "Restored %d files", len(backups)), len(backups))
	return nil
}

// ---------------------------------------------------------------------------
// config
// ---------------------------------------------------------------------------

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: i18n.T("Show or change config.yaml"),
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: i18n.T("Write config.yaml and prompts.json with default values"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd.ErrOrStderr(), force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, i18n.T("Overwrite existing files"))

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: i18n.T("Print the effective configuration"),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigShow(cmd.OutOrStdout())
			},
		},
		initCmd,
		&cobra.Command{
			Use:   "path",
			Short: i18n.T("Print the config.yaml path"),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := configPath()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: i18n.T("Change one setting in config.yaml"),
			Long:  i18n.T("Change one setting in config.yaml.\n\nKeys:\n  ") + strings.Join(config.Keys(), "\n  "),
			Args:  cobra.ExactArgs(2),
			ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
				if len(args) == 0 {
					return config.Keys(), cobra.ShellCompDirectiveNoFileComp
				}
				return nil, cobra.ShellCompDirectiveNoFileComp
			},
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigSet(cmd.ErrOrStderr(), args[0], args[1])
			},
		},
	)
	return cmd
}

func runConfigShow(out io.Writer) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	shown := *cfg
	if shown.API.APIKey != "" {
		shown.API.APIKey = settings.MaskKey(shown.API.APIKey)
	}
	text, err := shown.Marshal()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "# %s\n%s", path, text)
	return nil
}

func runConfigInit(errOut io.Writer, force bool) error {
	log, err := logging.New(logging.Options{Verbose: global.verbose, Out: errOut})
	if err != nil {
		return err
	}
	defer log.Close()

	path, err := configPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !force {
		log.Warning(i18n.T("%s already exists (use --force to overwrite)"), path)
	} else {
		if err := config.Default().Save(path); err != nil {
			return err
		}
		log.Success(i18n.T("Wrote %s"), path)
	}

	prompts, err := settings.PromptsFilePath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(prompts); err == nil && !force {
		log.Warning(i18n.T("%s already exists (use --force to overwrite)"), prompts)
		return nil
	}
	if err := translate.WriteDefaultPrompts(prompts); err != nil {
		return err
	}
	log.Success(i18n.T("Wrote %s"), prompts)
	return nil
}

func runConfigSet(errOut io.Writer, key, value string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	shown := value
	if key == "api.api_key" {
		shown = settings.MaskKey(value)
	}
	log, _ := logging.New(logging.Options{Out: errOut})
	log.Success("%s = %s", key, shown)
	return nil
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: i18n.T("Manage the stored API key"),
		Long: i18n.T(`Manage the API key kept in auth.json in the data directory.

The key actually used is chosen in this order:
  1. --api-key flag
  2. ABOUTDESC_API_KEY, then OPENAI_API_KEY
  3. api.api_key in config.yaml
  4. auth.json`),
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set [key]",
			Short: i18n.T("Store an API key (prompts if not given)"),
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				key := ""
				if len(args) == 1 {
					key = args[0]
				}
				return runAuthSet(cmd.InOrStdin(), cmd.ErrOrStderr(), key)
			},
		},
		&cobra.Command{
			Use:     "remove",
			Aliases: []string{"rm", "logout"},
			Short:   i18n.T("Delete the stored API key"),
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := settings.Remove(settings.DefaultProvider); err != nil {
					return err
				}
				log, _ := logging.New(logging.Options{Out: cmd.ErrOrStderr()})
				log.Success(i18n.T("API key removed"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: i18n.T("Show which API key would be used"),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runAuthShow(cmd.OutOrStdout())
			},
		},
	)
	return cmd
}

func runAuthSet(in io.Reader, errOut io.Writer, key string) error {
	log, err := logging.New(logging.Options{Out: errOut})
	if err != nil {
		return err
	}
	defer log.Close()

	if key == "" {
		existing := settings.GetAPIKey(settings.DefaultProvider)
		if existing != "" {
			fmt.Fprintf(errOut, i18n.T("  Current key: %s\n"), color.YellowString(settings.MaskKey(existing)))
			fmt.Fprint(errOut, i18n.T("  Enter new key to replace, or press Enter to keep: "))
		} else {
			fmt.Fprint(errOut, i18n.T("  Enter API key: "))
		}

		scanner := bufio.NewScanner(in)
		if !scanner.Scan() {
			return errors.New(i18n.T("no input received"))
		}
		key = strings.TrimSpace(scanner.Text())
		if key == "" {
			if existing != "" {
				log.Info(i18n.T("Keeping existing key"))
				return nil
			}
			return errors.New(i18n.T("no API key provided"))
		}
	}

	baseURL := ""
	if cfg, err := loadConfig(); err == nil {
		baseURL = cfg.API.BaseURL
	}
	if err := settings.SetAPIKey(settings.DefaultProvider, key, baseURL); err != nil {
		return fmt.Errorf("saving API key: %w", err)
	}
	log.Success(i18n.T("API key saved to %s"), settings.FilePath())
	return nil
}

func runAuthShow(out io.Writer) error {
	cfgKey := ""
	if cfg, err := loadConfig(); err == nil {
		cfgKey = cfg.API.APIKey
	}

	fmt.Fprintf(out, "%s %s\n", color.BlueString(i18n.T("Credential store:")), settings.FilePath())
	key, source := settings.ResolveAPIKey("", cfgKey)
	if key == "" {
		fmt.Fprintf(out, "%s %s\n", color.BlueString(i18n.T("API key:")), color.RedString(i18n.T("not configured")))
		return nil
	}
	fmt.Fprintf(out, "%s %s (%s)\n", color.BlueString(i18n.T("API key:")), color.GreenString(settings.MaskKey(key)), source)
	return nil
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: i18n.T("Show version information"),
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "aboutdesc version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}

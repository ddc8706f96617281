// Package main provides the entry point for the hanspeak CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/hanspeak/tts"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile    string
	fromClipboard bool
	quiet         bool

	rootCmd = &cobra.Command{
		Use:   "hanspeak [SOURCE]",
		Short: "Read mixed Korean and English text aloud",
		Long: paragraph(
			fmt.Sprintf("\nRead mixed Korean and English text aloud, %s.", keyword("one voice per language")),
		),
		Example: paragraph("hanspeak notes.md\necho '안녕하세요 world' | hanspeak\nhanspeak --clipboard --translate"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("config") {
				return loadConfigFile()
			}
			return nil
		},
		RunE: execute,
	}
)

// source provides readable text.
type source struct {
	reader io.ReadCloser
	URL    string
}

// sourceFromArg parses an argument and creates a readable source for it.
func sourceFromArg(ctx context.Context, arg string) (*source, error) {
	// from stdin
	if arg == "-" {
		return &source{reader: io.NopCloser(os.Stdin)}, nil
	}

	// HTTP(S) URLs:
	if u, err := url.ParseRequestURI(arg); err == nil && strings.Contains(arg, "://") {
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("%s is not a supported protocol", u.Scheme)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("unable to get url: %w", err)
		}
		// consumer of the source is responsible for closing the ReadCloser.
		resp, err := http.DefaultClient.Do(req) //nolint:bodyclose
		if err != nil {
			return nil, fmt.Errorf("unable to get url: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("HTTP status %d", resp.StatusCode)
		}
		return &source{resp.Body, u.String()}, nil
	}

	path, err := homedir.Expand(arg)
	if err != nil {
		return nil, fmt.Errorf("unable to expand path: %w", err)
	}
	st, err := os.Stat(path)
	if err == nil && st.IsDir() {
		return nil, fmt.Errorf("%s is a directory", arg)
	}

	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}
	u, err := filepath.Abs(path)
	if err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("unable to get absolute path: %w", err)
	}
	return &source{r, u}, nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

// readInput returns the text named by args, the clipboard, or piped stdin.
// usedStdin reports whether the text came from stdin, in which case stdin is
// unavailable for key presses.
func readInput(ctx context.Context, args []string) (text string, usedStdin bool, err error) {
	if fromClipboard {
		text, err := clipboard.ReadAll()
		if err != nil {
			return "", false, fmt.Errorf("unable to read clipboard: %w", err)
		}
		return text, false, nil
	}

	arg := "-"
	if len(args) > 0 {
		arg = args[0]
	} else if yes, err := stdinIsPipe(); err != nil {
		return "", false, err
	} else if !yes {
		return "", false, errors.New("missing source: pass a file, URL, - or --clipboard")
	}

	src, err := sourceFromArg(ctx, arg)
	if err != nil {
		return "", false, err
	}
	defer src.reader.Close() //nolint:errcheck

	b, err := io.ReadAll(src.reader)
	if err != nil {
		return "", false, fmt.Errorf("unable to read from reader: %w", err)
	}
	log.Debug("Read source", "url", src.URL, "bytes", len(b))
	return string(b), arg == "-", nil
}

// loadConfigFile reads the file named by --config.
func loadConfigFile() error {
	path, err := homedir.Expand(configFile)
	if err != nil {
		return fmt.Errorf("unable to expand config path: %w", err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("unable to read config file: %w", err)
	}
	configFile = path
	log.Debug("Using configuration file", "path", path)
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringP("engine", "e", "", "speech engine (espeak or mock)")
	rootCmd.PersistentFlags().String("korean-voice", "", "name or ID of the voice for Korean segments")
	rootCmd.PersistentFlags().String("latin-voice", "", "name or ID of the voice for Latin segments")
	rootCmd.PersistentFlags().String("policy", "", "segmentation policy (language or sentence)")
	rootCmd.PersistentFlags().BoolP("markdown", "m", false, "strip markdown before speaking")
	rootCmd.Flags().BoolVarP(&fromClipboard, "clipboard", "c", false, "read text from the clipboard")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print segments as they are spoken")
	rootCmd.Flags().Float64P("rate", "r", 0, "speech rate multiplier (0.5 to 2.0)")
	rootCmd.Flags().Float64P("pitch", "p", 0, "pitch multiplier (0 to 2.0)")
	rootCmd.Flags().BoolP("translate", "t", false, "also speak a translation of the text")
	rootCmd.Flags().String("target", "", "translation target language")

	// Config bindings
	_ = viper.BindPFlag("tts.engine", rootCmd.PersistentFlags().Lookup("engine"))
	_ = viper.BindPFlag("tts.voices.korean.name", rootCmd.PersistentFlags().Lookup("korean-voice"))
	_ = viper.BindPFlag("tts.voices.latin.name", rootCmd.PersistentFlags().Lookup("latin-voice"))
	_ = viper.BindPFlag("tts.segment.policy", rootCmd.PersistentFlags().Lookup("policy"))
	_ = viper.BindPFlag("tts.segment.markdown", rootCmd.PersistentFlags().Lookup("markdown"))
	_ = viper.BindPFlag("tts.rate", rootCmd.Flags().Lookup("rate"))
	_ = viper.BindPFlag("tts.pitch", rootCmd.Flags().Lookup("pitch"))
	_ = viper.BindPFlag("tts.translate.enabled", rootCmd.Flags().Lookup("translate"))
	_ = viper.BindPFlag("tts.translate.target", rootCmd.Flags().Lookup("target"))

	if err := tts.SetDefaults(); err != nil {
		log.Warn("Could not read TTS defaults from the environment", "err", err)
	}

	rootCmd.AddCommand(configCmd, manCmd, segmentsCmd, voicesCmd, cacheCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "hanspeak")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "hanspeak")}, dirs...)
	}

	if c := os.Getenv("HANSPEAK_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("hanspeak")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("hanspeak")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "hanspeak.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}

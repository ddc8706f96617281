package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const defaultConfig = `# Text-to-speech settings
tts:
  # Speech engine: espeak or mock
  engine: "espeak"
  # Speech rate multiplier (0.5 to 2.0)
  rate: 1.0
  # Pitch multiplier (0 to 2.0)
  pitch: 1.0

  segment:
    # language: split only where the script changes
    # sentence: also split after . ! ? and their full-width forms
    policy: "language"
    # Strip markdown syntax before speaking
    markdown: false
    # Read code blocks when markdown is stripped
    code_blocks: false
    # Compose decomposed Hangul before segmenting
    normalize: true

  # Voices are matched by name or ID first, then by locale.
  voices:
    korean:
      # name: "Korean"
      locale: "ko-KR"
    latin:
      # name: "English (America)"
      locale: "en-US"

  espeak:
    binary: "espeak-ng"
    words_per_minute: 175

  # Mock engine for testing; every segment "plays" for delay
  mock:
    delay: "300ms"

  # Speak a translation after the original text (LibreTranslate API)
  translate:
    enabled: false
    endpoint: "http://localhost:5000/translate"
    source: "auto"
    target: "en"
    # api_key: ""
    timeout: "10s"
    requests_per_minute: 30

  # Translation cache
  cache:
    # dir: "~/.cache/hanspeak/translations"
    memory_bytes: 1048576
    disk_bytes: 16777216
    compression_level: 3
`

var (
	printConfig bool

	configCmd = &cobra.Command{
		Use:     "config",
		Hidden:  false,
		Short:   "Edit the hanspeak config file",
		Long:    paragraph(fmt.Sprintf("\n%s the hanspeak config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
		Example: paragraph("hanspeak config\nhanspeak config --config path/to/config.yml\nhanspeak config --print"),
		Args:    cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if printConfig {
				return writeSettings(os.Stdout, viper.AllSettings())
			}

			if err := ensureConfigFile(); err != nil {
				return err
			}

			c, err := editor.Cmd("hanspeak", configFile)
			if err != nil {
				return fmt.Errorf("unable to set config file: %w", err)
			}
			c.Stdin = os.Stdin
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			if err := c.Run(); err != nil {
				return fmt.Errorf("unable to run command: %w", err)
			}

			fmt.Println("Wrote config file to:", configFile)
			return nil
		},
	}
)

// writeSettings prints the effective settings as YAML.
func writeSettings(w io.Writer, settings map[string]any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(settings); err != nil {
		return fmt.Errorf("unable to encode settings: %w", err)
	}
	return enc.Close()
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}

func init() {
	configCmd.Flags().BoolVar(&printConfig, "print", false, "print the effective settings instead of editing")
}

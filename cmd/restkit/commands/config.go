package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/restkit/internal/constants"
)

// Config represents the CLI configuration.
type Config struct {
	Host        string        `json:"host,omitempty"          yaml:"host,omitempty"`
	Version     string        `json:"api_version,omitempty"   yaml:"api_version,omitempty"`
	AuthHeader  string        `json:"auth_header,omitempty"   yaml:"auth_header,omitempty"`
	APIKey      string        `json:"api_key,omitempty"       yaml:"api_key,omitempty"`
	LinksHeader string        `json:"links_header,omitempty"  yaml:"links_header,omitempty"`
	MaxPages    int           `json:"max_pages,omitempty"     yaml:"max_pages,omitempty"`
	Timeout     time.Duration `json:"timeout,omitempty"       yaml:"timeout,omitempty"`
	Output      string        `json:"output,omitempty"        yaml:"output,omitempty"`

	// OAuth2 client credentials, used when no API key is set.
	TokenURL     string `json:"token_url,omitempty"     yaml:"token_url,omitempty"`
	ClientID     string `json:"client_id,omitempty"     yaml:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`
}

// configKeys lists the keys accepted by config set and unset.
var configKeys = []string{
	"host", "api_version", "auth_header", "api_key", "links_header",
	"max_pages", "timeout", "output", "token_url", "client_id", "client_secret",
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage restkit CLI configuration such as the API host, version and credentials",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigSetKeyCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective CLI configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := maskSecrets(loadConfig())
			out := cmd.OutOrStdout()

			switch viper.GetString("output") {
			case constants.FormatJSON:
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")

				return encoder.Encode(config)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(out)

				return encoder.Encode(config)
			default:
				return displayConfigTable(out, config)
			}
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + strings.Join(configKeys, ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			err := NewConfigPersister().Update(func(config *Config) error {
				return setConfigValue(config, key, value)
			})
			if err != nil {
				return err
			}

			shown := value
			if isSecretKey(key) {
				shown = constants.MaskedSecret
			}

			return outputConfigUpdateResult(cmd.OutOrStdout(), "Set", key, shown)
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value. Keys: " + strings.Join(configKeys, ", "),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			err := NewConfigPersister().Update(func(config *Config) error {
				return setConfigValue(config, key, "")
			})
			if err != nil {
				return err
			}

			return outputConfigUpdateResult(cmd.OutOrStdout(), "Unset", key, "")
		},
	}
}

func newConfigSetKeyCommand() *cobra.Command {
	var headerName string

	cmd := &cobra.Command{
		Use:   "set-key",
		Short: "Store an API key",
		Long:  "Prompt for an API key without echoing it and store it in the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := readSecret(cmd, "API key: ")
			if err != nil {
				return err
			}

			if key == "" {
				return ErrAPIKeyRequired
			}

			err = NewConfigPersister().Update(func(config *Config) error {
				config.APIKey = key
				if headerName != "" {
					config.AuthHeader = headerName
				}

				return nil
			})
			if err != nil {
				return err
			}

			return outputConfigUpdateResult(cmd.OutOrStdout(), "Set", "api_key", constants.MaskedSecret)
		},
	}

	cmd.Flags().StringVar(&headerName, "header", "", "header used to send the key")

	return cmd
}

// readSecret reads a line from the terminal without echo, or from the
// command input when it is not a terminal.
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	if file, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), prompt)

		secret, err := term.ReadPassword(int(file.Fd()))

		_, _ = fmt.Fprintln(cmd.ErrOrStderr())

		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}

		return strings.TrimSpace(string(secret)), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

// loadConfig builds the effective configuration from flags, environment and
// the config file.
func loadConfig() *Config {
	return &Config{
		Host:         viper.GetString("host"),
		Version:      viper.GetString("api_version"),
		AuthHeader:   viper.GetString("auth_header"),
		APIKey:       viper.GetString("api_key"),
		LinksHeader:  viper.GetString("links_header"),
		MaxPages:     viper.GetInt("max_pages"),
		Timeout:      viper.GetDuration("timeout"),
		Output:       viper.GetString("output"),
		TokenURL:     viper.GetString("token_url"),
		ClientID:     viper.GetString("client_id"),
		ClientSecret: viper.GetString("client_secret"),
	}
}

// configFilePath returns the config file in use, or ~/.restkit/config.yml.
func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".restkit", "config.yml"), nil
}

// readConfigFile loads the persisted configuration only, ignoring flags and
// environment so they are never written back.
func readConfigFile(path string) (*Config, error) {
	config := &Config{}

	// path comes from viper or the user's home directory
	// #nosec G304
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return config, nil
}

func saveConfigStruct(path string, config *Config) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setConfigValue sets key to value; an empty value clears it.
func setConfigValue(config *Config, key, value string) error {
	switch key {
	case "host":
		config.Host = value
	case "api_version":
		config.Version = value
	case "auth_header":
		config.AuthHeader = value
	case "api_key":
		config.APIKey = value
	case "links_header":
		config.LinksHeader = value
	case "max_pages":
		if value == "" {
			config.MaxPages = 0

			return nil
		}

		maxPages, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: max_pages must be an integer: %s", ErrInvalidConfigValue, value)
		}

		config.MaxPages = maxPages
	case "timeout":
		if value == "" {
			config.Timeout = 0

			return nil
		}

		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: timeout must be a duration such as 30s: %s", ErrInvalidConfigValue, value)
		}

		config.Timeout = timeout
	case "output":
		if value != "" && value != constants.FormatTable && value != constants.FormatJSON && value != constants.FormatYAML {
			return fmt.Errorf("%w: output must be table, json or yaml: %s", ErrInvalidConfigValue, value)
		}

		config.Output = value
	case "token_url":
		config.TokenURL = value
	case "client_id":
		config.ClientID = value
	case "client_secret":
		config.ClientSecret = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}

	return nil
}

func isSecretKey(key string) bool {
	return key == "api_key" || key == "client_secret"
}

func maskSecrets(config *Config) *Config {
	masked := *config
	if masked.APIKey != "" {
		masked.APIKey = constants.MaskedSecret
	}

	if masked.ClientSecret != "" {
		masked.ClientSecret = constants.MaskedSecret
	}

	return &masked
}

func displayConfigTable(out io.Writer, config *Config) error {
	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	_ = table.Append("Host", valueOrNA(config.Host))
	_ = table.Append("API Version", valueOrNA(config.Version))
	_ = table.Append("Auth Header", valueOrNA(config.AuthHeader))
	_ = table.Append("API Key", valueOrNA(config.APIKey))
	_ = table.Append("Links Header", valueOrNA(config.LinksHeader))
	_ = table.Append("Max Pages", strconv.Itoa(config.MaxPages))
	_ = table.Append("Timeout", config.Timeout.String())
	_ = table.Append("Output", valueOrNA(config.Output))

	if config.ClientID != "" {
		_ = table.Append("Token URL", valueOrNA(config.TokenURL))
		_ = table.Append("Client ID", config.ClientID)
		_ = table.Append("Client Secret", valueOrNA(config.ClientSecret))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func outputConfigUpdateResult(out io.Writer, action, key, value string) error {
	result := map[string]string{
		"action": action,
		"key":    key,
	}

	if value != "" {
		result["value"] = value
	}

	switch viper.GetString("output") {
	case constants.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")

		return encoder.Encode(result)
	case constants.FormatYAML:
		return yaml.NewEncoder(out).Encode(result)
	default:
		if value == "" {
			_, err := fmt.Fprintf(out, "%s %s\n", action, key)

			return err
		}

		_, err := fmt.Fprintf(out, "%s %s = %s\n", action, key, value)

		return err
	}
}

func valueOrNA(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

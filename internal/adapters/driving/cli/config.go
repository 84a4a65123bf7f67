package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/plantap/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and change configuration",
	Long: `Read and change the settings stored in the config file
(~/.plantap/config.toml by default).

Keys:
  proxy.listen, proxy.upstream
  tap.relevant_host, tap.max_body_bytes, tap.parses_per_second
  capture.debounce_ms, capture.reflush_ms
  storage.backend (sqlite, memory, redis), storage.data_dir
  redis.url, redis.channel, bus.backend (local, redis)
  api.listen`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a stored value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a value so its default applies",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if settingsService == nil {
			return notConfigured("settings")
		}
		cmd.Println(settingsService.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}
	s := settingsService.Get()

	cmd.Println("[proxy]")
	cmd.Printf("  listen            = %s\n", s.ProxyListen)
	cmd.Printf("  upstream          = %s\n", s.ProxyUpstream)
	cmd.Println("[tap]")
	cmd.Printf("  relevant_host     = %s\n", s.RelevantHost)
	cmd.Printf("  max_body_bytes    = %d\n", s.MaxBodyBytes)
	cmd.Printf("  parses_per_second = %g\n", s.ParsesPerSecond)
	cmd.Println("[capture]")
	cmd.Printf("  debounce_ms       = %d\n", s.Debounce.Milliseconds())
	cmd.Printf("  reflush_ms        = %d\n", s.Reflush.Milliseconds())
	cmd.Println("[storage]")
	cmd.Printf("  backend           = %s\n", s.Storage)
	cmd.Printf("  data_dir          = %s\n", orDefault(s.DataDir, "~/.plantap/data"))
	cmd.Println("[redis]")
	cmd.Printf("  url               = %s\n", s.RedisURL)
	cmd.Printf("  channel           = %s\n", s.RedisChannel)
	cmd.Println("[bus]")
	cmd.Printf("  backend           = %s\n", s.Bus)
	cmd.Println("[api]")
	cmd.Printf("  listen            = %s\n", orDefault(s.APIListen, "(disabled)"))
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}
	value, ok := settingsService.Lookup(args[0])
	if !ok {
		return fmt.Errorf("%s: %w", args[0], domain.ErrNotFound)
	}
	cmd.Println(fmt.Sprint(value))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Set %s\n", args[0])
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}
	if err := settingsService.Unset(args[0]); err != nil {
		return err
	}
	cmd.Printf("Unset %s\n", args[0])
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

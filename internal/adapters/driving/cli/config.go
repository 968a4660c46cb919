package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gautamkumar30/kontract.ai/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage kontract configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := file.NewConfigStore("")
		if err != nil {
			return err
		}
		value, ok := cfg.Get(args[0])
		if !ok {
			return fmt.Errorf("key %q is not set", args[0])
		}
		cmd.Printf("%v\n", value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := file.NewConfigStore("")
		if err != nil {
			return err
		}
		return cfg.Set(args[0], args[1])
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset KEY",
	Short: "Remove a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := file.NewConfigStore("")
		if err != nil {
			return err
		}
		return cfg.Delete(args[0])
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration keys",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := file.NewConfigStore("")
		if err != nil {
			return err
		}
		for _, key := range cfg.Keys() {
			value, _ := cfg.Get(key)
			cmd.Printf("%s = %v\n", key, value)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/vantahq/pulseboard/internal/cli"
	"github.com/vantahq/pulseboard/internal/config"
)

var generateTemporary bool

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email>",
	Short: "Set a new password for an account directly in the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		return cli.RunResetPasswordCommand(cfg.Database.Path, args[0], generateTemporary)
	},
}

func init() {
	resetPasswordCmd.Flags().BoolVar(&generateTemporary, "generate", false, "mint and print a temporary password instead of prompting")
	rootCmd.AddCommand(resetPasswordCmd)
}

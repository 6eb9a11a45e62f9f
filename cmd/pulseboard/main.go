package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pulseboard",
	Short: "Pulseboard time tracking and workforce analytics server",
	Long:  "Pulseboard is a multi-tenant backend for employee time tracking, activity monitoring and productivity analytics.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in defaults plus PULSEBOARD_* env)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

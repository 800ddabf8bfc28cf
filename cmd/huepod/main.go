package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "huepod",
	Short: "Control daemon for the huepod color-sensing handheld",
	Long: `huepod is the brain of a battery-powered handheld: a rotary encoder
with an integral push button, an RGBC color sensor, an addressable LED ring
and a small speaker. Point the device at a colored surface and it answers
with sound and light.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and exit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("huepod v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
}

func main() {
	cobra.CheckErr(rootCmd.Execute())
}

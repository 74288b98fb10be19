package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/redisds/cmd/kv"
	"github.com/ValentinKolb/redisds/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "redisds",
		Short: "dataspace client for redis",
		Long: fmt.Sprintf(`redisds (v%s)

A resilient client for Redis-protocol key-value stores. Keys live in named
dataspaces (database index + key prefix); connections are opened lazily and
re-established automatically when the server goes away.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of redisds",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("redisds v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer used to print and parse values (json, yaml)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("level at which logs are written to stderr (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

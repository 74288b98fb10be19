package kv

import (
	"os"

	"github.com/ValentinKolb/redisds/cmd/util"
	"github.com/ValentinKolb/redisds/lib/common"
	"github.com/ValentinKolb/redisds/lib/dataspace"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	Logger = logger.GetLogger("cli")

	client *dataspace.Client
	dsName string

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:                "kv",
		Short:              "Perform operations on a dataspace",
		PersistentPreRunE:  setupKVClient,
		PersistentPostRunE: teardownKVClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add server and dataspace flags to the KV command
	util.SetupServerFlags(KeyValueCommands)

	// Add subcommands
	KeyValueCommands.AddCommand(readCmd)
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(appendCmd)
	KeyValueCommands.AddCommand(incrCmd)
	KeyValueCommands.AddCommand(ttlCmd)
	KeyValueCommands.AddCommand(checkCmd)
	KeyValueCommands.AddCommand(storeCmd)
	KeyValueCommands.AddCommand(perfTestCmd)
}

// setupKVClient opens the server and registers the dataspace given by the flags
func setupKVClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	if err := common.InitLoggers(util.GetLogLevel()); err != nil {
		return err
	}

	// a previous command of the same process may have failed before its teardown
	if client != nil {
		client.CloseServer()
	}
	client = dataspace.New()
	if err := client.OpenServer(util.GetServerConfig()); err != nil {
		return err
	}

	// the prefix is taken literally, never as a template
	ds := util.GetDataspaceConfig()
	if err := client.Register(ds.Name, ds.Database, "%s", ds.Prefix); err != nil {
		return err
	}
	dsName = ds.Name

	Logger.Debugf("using dataspace %q (db %d, prefix %q)", ds.Name, ds.Database, ds.Prefix)
	return nil
}

// teardownKVClient prints the metrics if requested and closes all connections
func teardownKVClient(_ *cobra.Command, _ []string) error {
	if client == nil {
		return nil
	}
	if viper.GetBool("metrics") {
		client.WriteMetrics(os.Stderr)
	}
	client.CloseServer()
	client = nil
	return nil
}

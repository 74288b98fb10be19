package util

import (
	"strings"

	"github.com/ValentinKolb/redisds/lib/common"
	"github.com/ValentinKolb/redisds/lib/value"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupServerFlags adds the connection and dataspace flags to a command
func SetupServerFlags(cmd *cobra.Command) {
	key := "host"
	cmd.PersistentFlags().String(key, "localhost", WrapString("Host of the redis server"))

	key = "port"
	cmd.PersistentFlags().Int(key, 6379, WrapString("Port of the redis server"))

	key = "auth"
	cmd.PersistentFlags().String(key, "", WrapString("Password sent with AUTH after connecting (empty disables authentication). Prefer the REDISDS_AUTH environment variable"))

	key = "timeout"
	cmd.PersistentFlags().Int(key, common.DefaultTimeoutMs, WrapString("Dial, read and write timeout in milliseconds"))

	key = "dataspace"
	cmd.PersistentFlags().String(key, "cli", WrapString("Name under which the dataspace is registered"))

	key = "db"
	cmd.PersistentFlags().Int(key, 0, WrapString("Database index of the dataspace"))

	key = "prefix"
	cmd.PersistentFlags().String(key, "", WrapString("Key prefix of the dataspace, prepended to every key"))

	key = "metrics"
	cmd.PersistentFlags().Bool(key, false, WrapString("Print the client metrics in Prometheus format to stderr when the command finishes"))
}

// InitClientConfig initializes configuration from environment variables
func InitClientConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("redisds")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetServerConfig reads the server configuration from viper
func GetServerConfig() common.ServerConfig {
	return common.ServerConfig{
		Host:      viper.GetString("host"),
		Port:      viper.GetInt("port"),
		Auth:      viper.GetString("auth"),
		TimeoutMs: viper.GetInt("timeout"),
	}
}

// DataspaceConfig is the dataspace the command line works on
type DataspaceConfig struct {
	Name     string
	Database int
	Prefix   string
}

// GetDataspaceConfig reads the dataspace flags from viper
func GetDataspaceConfig() DataspaceConfig {
	return DataspaceConfig{
		Name:     viper.GetString("dataspace"),
		Database: viper.GetInt("db"),
		Prefix:   viper.GetString("prefix"),
	}
}

// GetSerializer creates the value serializer selected by the serializer flag
func GetSerializer() (value.ISerializer, error) {
	return value.GetSerializer(viper.GetString("serializer"))
}

// GetLogLevel returns the configured log level
func GetLogLevel() string {
	return viper.GetString("log-level")
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

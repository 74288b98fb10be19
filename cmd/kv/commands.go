package kv

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ValentinKolb/redisds/cmd/util"
	"github.com/ValentinKolb/redisds/lib/value"
	"github.com/spf13/cobra"
)

var (
	readCmd = &cobra.Command{
		Use:   "read [key]",
		Short: "Reads a key and prints it as a structured value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := util.GetSerializer()
			if err != nil {
				return err
			}
			v, err := client.Read(dsName, "%s", args[0])
			if err != nil {
				return err
			}
			out, err := s.Serialize(v)
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key, installing the ttl if the key has no expiry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ttl, err := cmd.Flags().GetInt64("ttl")
			if err != nil {
				return err
			}
			applied, err := client.Set(dsName, "%s", "%s", ttl, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, ttl=%d\n", args[0], applied)
			return nil
		},
	}
	appendCmd = &cobra.Command{
		Use:   "append [key] [member]",
		Short: "Adds a member to the set at key and prints the set's size",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ttl, err := cmd.Flags().GetInt64("ttl")
			if err != nil {
				return err
			}
			n, err := client.Append(dsName, "%s", "%s", ttl, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, size=%d\n", args[0], n)
			return nil
		},
	}
	incrCmd = &cobra.Command{
		Use:   "incr [key] [amount]",
		Short: "Increments the integer at key (default amount 1)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ttl, err := cmd.Flags().GetInt64("ttl")
			if err != nil {
				return err
			}
			amount := int64(1)
			if len(args) == 2 {
				if amount, err = strconv.ParseInt(args[1], 10, 64); err != nil {
					return fmt.Errorf("amount must be a number: %w", err)
				}
			}
			n, err := client.Increment(dsName, "%s", amount, ttl, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, value=%d\n", args[0], n)
			return nil
		},
	}
	ttlCmd = &cobra.Command{
		Use:   "ttl [key]",
		Short: "Prints the remaining ttl of a key (-1 no expiry, -2 missing)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ttl, err := client.TTL(dsName, "%s", args[0])
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, ttl=%d\n", args[0], ttl)
			return nil
		},
	}
	checkCmd = &cobra.Command{
		Use:   "check [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := client.Check(dsName, "%s", args[0])
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%t\n", args[0], found)
			return nil
		},
	}
	storeCmd = &cobra.Command{
		Use:   "store [key] [file]",
		Short: "Stores a structured value read from a file (or - for stdin)",
		Long: `Stores a structured value read from a file (or - for stdin). The file is parsed with
the selected serializer: objects become hashes, arrays become lists, scalars strings.
With --document the file must be a JSON object; each top-level field is stored under
the dataspace prefix plus the field name and the key argument is omitted.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ttl, err := cmd.Flags().GetInt64("ttl")
			if err != nil {
				return err
			}
			document, err := cmd.Flags().GetBool("document")
			if err != nil {
				return err
			}

			if document {
				if len(args) != 1 {
					return fmt.Errorf("store --document takes exactly one file argument")
				}
				data, err := readInput(args[0])
				if err != nil {
					return err
				}
				doc, err := value.ParseDocument(data)
				if err != nil {
					return err
				}
				n, err := client.StoreDocument(dsName, doc, ttl)
				if err != nil {
					return err
				}
				fmt.Printf("fields=%d, written=%d\n", len(doc), n)
				return nil
			}

			if len(args) != 2 {
				return fmt.Errorf("store takes a key and a file argument")
			}
			s, err := util.GetSerializer()
			if err != nil {
				return err
			}
			data, err := readInput(args[1])
			if err != nil {
				return err
			}
			var v value.Value
			if err := s.Deserialize(data, &v); err != nil {
				return err
			}
			n, err := client.Store(dsName, "%s", v, ttl, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, kind=%s, written=%d\n", args[0], v.Kind(), n)
			return nil
		},
	}
)

func init() {
	for _, cmd := range []*cobra.Command{setCmd, appendCmd, incrCmd, storeCmd} {
		cmd.Flags().Int64("ttl", 0, util.WrapString("Expiry in seconds, installed only if the key has none (0 disables)"))
	}
	storeCmd.Flags().Bool("document", false, util.WrapString("Store every top-level field of a JSON object as its own key"))
}

// readInput reads a file, or stdin for "-"
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

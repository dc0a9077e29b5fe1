// Command rootpoolstat drives a rootpool.Allocator through a synthetic
// allocate/free workload and reports its chunk occupancy, for manually
// eyeballing allocator behavior the way hivectl lets you eyeball a hive.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:     "rootpoolstat",
	Short:   "Drive and inspect a rootpool.Allocator workload",
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	execute()
}

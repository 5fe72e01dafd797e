package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mohammad-safakhou/wsd/internal/logging"
	"github.com/spf13/cobra"
)

func main() {
	var cfgPath string
	root := &cobra.Command{
		Use:          "wsd",
		Short:        "Lesk word-sense disambiguation and similarity evaluation",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config/config.json)")

	root.AddCommand(
		serveCMD(&cfgPath),
		migrateCMD(&cfgPath),
		batchCMD(&cfgPath),
		runsCMD(&cfgPath),
		evalCMD(&cfgPath),
		disambiguateCMD(&cfgPath),
		tokenCMD(&cfgPath),
	)
	err := root.Execute()
	logging.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

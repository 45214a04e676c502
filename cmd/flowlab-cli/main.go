// Flowlab CLI — инструмент командной строки для управления
// flows, их версиями и сравнения версий через HTTP API.
//
// Использование:
//
//	flowlab [--api-url URL] [--user ID] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	flow     Управление flows
//	version  Управление версиями flow
//	compare  Сравнение выходов узла между версиями
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Flowlab/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var userID string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "flowlab",
		Short:         "Flowlab CLI — flow versioning and comparison tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().StringVar(&userID, "user", os.Getenv("FLOWLAB_USER_ID"), "User ID for the X-User-ID header")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL, userID) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewFlowCmd(clientFn, outputFn),
		cli.NewVersionCmd(clientFn, outputFn),
		cli.NewCompareCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

package main

import (
	"botrouter/internal/app"
	"botrouter/internal/config"
	"botrouter/internal/handlers"
	"botrouter/internal/metrics"
	"botrouter/internal/middleware"
	"botrouter/internal/storage/repository"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print registered commands and callback routes",
		Long:  `Build the update pipeline without contacting Telegram and print its route tables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := handlers.New(repository.NewMemoryNoteRepository(), "")
			pipeline := app.NewPipeline(h, middleware.New(&config.Config{}), metrics.New(), "")
			return printRoutes(cmd.OutOrStdout(), pipeline)
		},
	}
}

func printRoutes(out io.Writer, pipeline *app.Pipeline) error {
	descriptions := make(map[string]handlers.Command, len(handlers.Commands))
	for _, cmd := range handlers.Commands {
		descriptions[cmd.Name] = cmd
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "UPDATE KINDS")
	for _, kind := range pipeline.Kinds() {
		fmt.Fprintf(w, "  %s\n", kind)
	}

	fmt.Fprintln(w, "\nCOMMANDS")
	for _, name := range pipeline.Commands() {
		cmd := descriptions[name]
		access := ""
		if cmd.AdminOnly {
			access = "admin"
		}
		fmt.Fprintf(w, "  /%s\t%s\t%s\n", name, access, cmd.Description)
	}

	fmt.Fprintln(w, "\nCALLBACKS")
	for _, prefix := range pipeline.Callbacks() {
		fmt.Fprintf(w, "  %s:*\n", prefix)
	}

	return w.Flush()
}

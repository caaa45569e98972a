package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillcase/skillcase/pkg/presenter"
	"github.com/skillcase/skillcase/pkg/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the front matter JSON Schema",
	Long:  `Print the JSON Schema for document front matter, for editor integration and CI.`,
	Run: func(_ *cobra.Command, _ []string) {
		out, err := schema.FrontMatterJSON()
		if err != nil {
			presenter.Error(err, "Failed to generate schema")
			os.Exit(1)
		}
		fmt.Println(out)
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

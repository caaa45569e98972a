package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skillcase/skillcase/pkg/presenter"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Inspect the skill registry",
	Long:  `Inspect the skills that use-case documents may reference.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered skills",
	Long:  `List all registered skills with their names, descriptions, and directories.`,
	Run: func(_ *cobra.Command, _ []string) {
		runSkillList()
	},
}

func init() {
	skillCmd.AddCommand(skillListCmd)
	rootCmd.AddCommand(skillCmd)
}

func runSkillList() {
	reg, err := newRegistryFromConfig()
	if err != nil {
		presenter.Error(err, "Failed to load skill registry")
		os.Exit(1)
	}

	if reg.Empty() {
		presenter.Info("No skills registered")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDIRECTORY\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t---------\t-----------")

	for _, name := range reg.Names() {
		skill, err := reg.Get(name)
		if err != nil {
			continue
		}
		description := skill.Description
		if len(description) > 60 {
			description = description[:57] + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", skill.Name, skill.Directory, description)
	}
	tw.Flush()
}

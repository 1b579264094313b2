package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Vishai/nba-integrity/pkg/config"
	"github.com/Vishai/nba-integrity/pkg/season"
)

func newCasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cases",
		Short: "Manage the case catalog",
	}
	cmd.AddCommand(
		newCasesListCmd(),
		newCasesAddCmd(),
		newCasesPinCmd(),
		newCasesHideCmd(),
	)
	return cmd
}

func newCasesListCmd() *cobra.Command {
	var (
		configPath string
		showHidden bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in and registered cases",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			var cases []season.Case
			cases = append(cases, config.BuiltInCases()...)
			recs, err := e.reg.Cases()
			if err != nil {
				return err
			}
			for _, rec := range recs {
				cases = append(cases, rec.Case)
			}

			for _, c := range cases {
				prefs, err := e.reg.Prefs(c.ID)
				if err != nil {
					return err
				}
				if prefs.Hidden && !showHidden {
					continue
				}
				marker := " "
				if prefs.Pinned {
					marker = "*"
				}
				expected := c.Expected
				if expected == "" {
					expected = "-"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-12s %-4s %-8s seed %-2d expected %s\n",
					marker, c.ID, c.TeamAbbr, c.Season, c.CutoffSeed, expected)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	cmd.Flags().BoolVar(&showHidden, "hidden", false, "Include hidden cases")
	return cmd
}

func newCasesAddCmd() *cobra.Command {
	var (
		configPath string
		team       string
		seasonStr  string
		archetype  string
		expected   string
		cutoffSeed int
		addedBy    string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new team-season case",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := season.LookupTeam(team)
			if err != nil {
				return err
			}

			e, err := loadEnv(configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			id, err := e.reg.Add(season.Case{
				TeamID:     t.ID,
				TeamAbbr:   t.Abbr,
				TeamName:   t.Name,
				Season:     seasonStr,
				Archetype:  archetype,
				Expected:   expected,
				CutoffSeed: cutoffSeed,
			}, addedBy)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Registered case %s (%s, %s)\n", id, t.Name, seasonStr)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	cmd.Flags().StringVar(&team, "team", "", "Team abbreviation or name (required)")
	cmd.Flags().StringVar(&seasonStr, "season", "", "Season label, e.g. 2024-25 (required)")
	cmd.Flags().StringVar(&archetype, "archetype", "Ad-hoc", "Case archetype label")
	cmd.Flags().StringVar(&expected, "expected", "", "Expected classification, e.g. Orange/Red")
	cmd.Flags().IntVar(&cutoffSeed, "cutoff-seed", 10, "Playoff cutoff seed (8 pre play-in, 10 after)")
	cmd.Flags().StringVar(&addedBy, "added-by", "", "Contributor name for the activity log")
	_ = cmd.MarkFlagRequired("team")
	_ = cmd.MarkFlagRequired("season")
	return cmd
}

func newCasesPinCmd() *cobra.Command {
	var (
		configPath string
		unpin      bool
	)

	cmd := &cobra.Command{
		Use:   "pin CASE",
		Short: "Pin a case to the top of listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			c, err := e.resolveCase(args[0])
			if err != nil {
				return err
			}
			return e.reg.SetPinned(c.ID, !unpin)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	cmd.Flags().BoolVar(&unpin, "unpin", false, "Remove the pin instead")
	return cmd
}

func newCasesHideCmd() *cobra.Command {
	var (
		configPath string
		unhide     bool
	)

	cmd := &cobra.Command{
		Use:   "hide CASE",
		Short: "Hide a case from default listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			c, err := e.resolveCase(args[0])
			if err != nil {
				return err
			}
			return e.reg.SetHidden(c.ID, !unhide)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	cmd.Flags().BoolVar(&unhide, "unhide", false, "Unhide instead")
	return cmd
}

func newActivityCmd() *cobra.Command {
	var (
		configPath string
		tail       int
	)

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Summarize the ingest/score activity log",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			summary, err := e.reg.SummarizeActivity()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Events: %d\n", summary.Total)
			for action, n := range summary.ByAction {
				fmt.Fprintf(out, "  %-12s %d\n", action, n)
			}
			if top := summary.TopCases(10); len(top) > 0 {
				fmt.Fprintln(out, "Most active cases:")
				for _, id := range top {
					fmt.Fprintf(out, "  %-14s %d\n", id, summary.ByCase[id])
				}
			}

			if tail > 0 {
				events, err := e.reg.TailEvents(tail)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, "Recent:")
				for _, ev := range events {
					fmt.Fprintf(out, "  %s %-12s %s\n",
						ev.TS.Format("2006-01-02 15:04"), ev.Action, ev.CaseID)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	cmd.Flags().IntVar(&tail, "tail", 0, "Also print the N most recent events")
	return cmd
}

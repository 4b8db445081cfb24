package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"backstage/internal/app"
	"backstage/internal/config"
	"backstage/internal/conflict"
	"backstage/internal/runsheet"
	"backstage/internal/timeline"
)

func runsheetCmd() *cobra.Command {
	var blocks bool
	cmd := &cobra.Command{
		Use:   "runsheet",
		Short: "Print the current show's timed running order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, cfg *config.Config) error {
				st := sess.State()
				show, err := currentShow(st)
				if err != nil {
					return err
				}
				sheet := runsheet.Build(show, st.ItemsOf(show.ID), scheduleOptions(cfg))
				if blocks {
					segments := runsheet.Blocks(sheet)
					if viper.GetBool("json") {
						return printJSON(segments)
					}
					tw := newTable(table.Row{"Segment", "Items", "Start", "End", "Duration"})
					for _, seg := range segments {
						tw.AppendRow(table.Row{seg.Kind, seg.Count, seg.Start, seg.End, timeline.FormatDuration(seg.DurationMin)})
					}
					tw.Render()
					return nil
				}
				if viper.GetBool("json") {
					return printJSON(sheet)
				}
				tw := newTable(table.Row{"#", "In", "Out", "Title", "Min"})
				for _, e := range sheet.Entries {
					order := ""
					if e.Order > 0 {
						order = fmt.Sprint(e.Order)
					}
					tw.AppendRow(table.Row{order, e.In, e.Out, e.Title, e.DurationMin})
				}
				tw.AppendFooter(table.Row{"", sheet.Start, sheet.End, "Total", timeline.FormatDuration(sheet.TotalMin)})
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&blocks, "blocks", false, "group consecutive acts into blocks")
	return cmd
}

func conflictsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "List quick changes and mic hand-offs between adjacent items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				st := sess.State()
				show, err := currentShow(st)
				if err != nil {
					return err
				}
				warnings := conflict.Detect(st.ItemsOf(show.ID), st.PeopleOf(show.ID))
				return printWarnings(warnings)
			})
		},
	}
}

func printWarnings(warnings []conflict.Warning) error {
	if viper.GetBool("json") {
		if warnings == nil {
			warnings = []conflict.Warning{}
		}
		return printJSON(warnings)
	}
	if len(warnings) == 0 {
		fmt.Println("no conflicts")
		return nil
	}
	tw := newTable(table.Row{"Kind", "From", "To", "Warning"})
	for _, w := range warnings {
		tw.AppendRow(table.Row{w.Kind, w.FromTitle, w.ToTitle, w.Message})
	}
	tw.Render()
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"backstage/internal/app"
	"backstage/internal/config"
	"backstage/internal/domain"
	"backstage/internal/engine"
	"backstage/internal/transfer"
)

func showCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "show", Short: "Manage shows"}
	cmd.AddCommand(showListCmd())
	cmd.AddCommand(showCreateCmd())
	cmd.AddCommand(showUpdateCmd())
	cmd.AddCommand(showDeleteCmd())
	cmd.AddCommand(showDuplicateCmd())
	cmd.AddCommand(showUseCmd())
	cmd.AddCommand(showExportCmd())
	cmd.AddCommand(showImportCmd())
	return cmd
}

func showListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List shows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				st := sess.State()
				if viper.GetBool("json") {
					return printJSON(st.Shows)
				}
				tw := newTable(table.Row{"ID", "Name", "Date", "Start", "Items", "People"})
				for _, sh := range st.Shows {
					tw.AppendRow(table.Row{sh.ID, sh.Name, sh.Date, sh.StartTime, len(st.ItemsOf(sh.ID)), len(st.PeopleOf(sh.ID))})
				}
				tw.Render()
				return nil
			})
		},
	}
}

// showFlags binds the editable show fields to cmd.
type showFlags struct {
	name, date, start    string
	breakAfter, breakMin int
	headsets, handhelds  int
}

func (f *showFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "show name")
	cmd.Flags().StringVar(&f.date, "date", "", "performance date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.start, "start", "", "start time (HH:MM)")
	cmd.Flags().IntVar(&f.breakAfter, "break-after", 0, "insert the interval after this item number")
	cmd.Flags().IntVar(&f.breakMin, "break-minutes", 0, "interval length in minutes")
	cmd.Flags().IntVar(&f.headsets, "headsets", 0, "number of headset slots")
	cmd.Flags().IntVar(&f.handhelds, "handhelds", 0, "number of handheld slots")
}

func (f *showFlags) patch(cmd *cobra.Command) engine.ShowPatch {
	changed := cmd.Flags().Changed
	return engine.ShowPatch{
		Name:           optional(changed("name"), f.name),
		Date:           optional(changed("date"), f.date),
		StartTime:      optional(changed("start"), f.start),
		BreakAfterItem: optional(changed("break-after"), f.breakAfter),
		BreakMinutes:   optional(changed("break-minutes"), f.breakMin),
		Headsets:       optional(changed("headsets"), f.headsets),
		Handhelds:      optional(changed("handhelds"), f.handhelds),
	}
}

func showCreateCmd() *cobra.Command {
	var f showFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a show",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				var created domain.Show
				_, err := sess.Mutate(ctx, "create_show", func(s domain.State) (domain.State, error) {
					next, sh, err := sess.Engine.CreateShow(s, domain.Show{
						Name:           f.name,
						Date:           f.date,
						StartTime:      f.start,
						BreakAfterItem: f.breakAfter,
						BreakMinutes:   f.breakMin,
						Headsets:       f.headsets,
						Handhelds:      f.handhelds,
					})
					created = sh
					return next, err
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(created)
			})
		},
	}
	f.bind(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func showUpdateCmd() *cobra.Command {
	var f showFlags
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the current show",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				show, err := currentShow(sess.State())
				if err != nil {
					return err
				}
				var updated domain.Show
				_, err = sess.Mutate(ctx, "update_show", func(s domain.State) (domain.State, error) {
					next, sh, err := sess.Engine.UpdateShow(s, show.ID, f.patch(cmd))
					updated = sh
					return next, err
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(updated)
			})
		},
	}
	f.bind(cmd)
	return cmd
}

func showDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a show and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				show, ok := sess.State().FindShow(args[0])
				if !ok {
					return engine.NotFoundError{Kind: "show", ID: args[0]}
				}
				if !confirm(yes, fmt.Sprintf("Delete %q with all its items, cast, mics and rehearsals?", show.Name)) {
					fmt.Println("aborted")
					return nil
				}
				_, err := sess.Mutate(ctx, "delete_show", func(s domain.State) (domain.State, error) {
					return sess.Engine.DeleteShow(s, args[0])
				})
				if err != nil {
					return err
				}
				fmt.Printf("Deleted show %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func showDuplicateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Copy a show with its cast, mics and running order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				var created domain.Show
				_, err := sess.Mutate(ctx, "duplicate_show", func(s domain.State) (domain.State, error) {
					next, sh, err := sess.Engine.DuplicateShow(s, args[0])
					created = sh
					return next, err
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(created)
			})
		},
	}
}

func showUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Set the current show for this workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showID := strings.TrimSpace(args[0])
			if showID == "" {
				return fmt.Errorf("show id is required")
			}
			workspace := viper.GetString("workspace")
			if err := setEnvValue(filepath.Join(workspace, ".env"), "BACKSTAGE_SHOW", showID); err != nil {
				return err
			}
			fmt.Printf("Set BACKSTAGE_SHOW=%s in %s/.env\n", showID, workspace)
			return nil
		},
	}
}

func showExportCmd() *cobra.Command {
	var out string
	var archive bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current show as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, cfg *config.Config) error {
				st := sess.State()
				show, err := currentShow(st)
				if err != nil {
					return err
				}
				doc, err := transfer.Export(st, show.ID, sess.Engine.Now())
				if err != nil {
					return err
				}
				if archive {
					exports, err := openExports(ctx, cfg)
					if err != nil {
						return err
					}
					info, err := transfer.Archive(ctx, exports, doc)
					if err != nil {
						return err
					}
					fmt.Fprintf(os.Stderr, "Archived to %s:%s\n", exports.Driver(), info.Key)
				}
				if out == "" {
					return transfer.Encode(os.Stdout, doc)
				}
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				return transfer.Encode(f, doc)
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&archive, "archive", false, "also store the export in the export store")
	return cmd
}

func showImportCmd() *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import an exported show under fresh ids",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" && len(args) == 0 {
				return fmt.Errorf("pass a file or --key")
			}
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, cfg *config.Config) error {
				var doc transfer.Document
				if key != "" {
					exports, err := openExports(ctx, cfg)
					if err != nil {
						return err
					}
					if doc, err = transfer.Fetch(ctx, exports, key); err != nil {
						return err
					}
				} else {
					f, err := os.Open(args[0])
					if err != nil {
						return err
					}
					defer f.Close()
					if doc, err = transfer.Decode(f); err != nil {
						return err
					}
				}
				var showID string
				_, err := sess.Mutate(ctx, "import_show", func(s domain.State) (domain.State, error) {
					next, id := transfer.Import(s, doc, sess.Engine.IDs)
					showID = id
					return next, nil
				})
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]string{"show_id": showID})
				}
				fmt.Printf("Imported %q as show %s\n", doc.Show.Name, showID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "read the export from the export store instead of a file")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"backstage/internal/app"
	"backstage/internal/config"
	"backstage/internal/domain"
	"backstage/internal/engine"
)

func personCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "person", Short: "Manage the cast"}
	cmd.AddCommand(personListCmd())
	cmd.AddCommand(personAddCmd())
	cmd.AddCommand(personRemoveCmd())
	return cmd
}

func personListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the current show's cast",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				st := sess.State()
				show, err := currentShow(st)
				if err != nil {
					return err
				}
				people := st.PeopleOf(show.ID)
				if viper.GetBool("json") {
					return printJSON(people)
				}
				tw := newTable(table.Row{"ID", "Name", "Category", "Tags"})
				for _, p := range people {
					tw.AppendRow(table.Row{p.ID, p.DisplayName(), p.Category, p.Tags})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func personAddCmd() *cobra.Command {
	var last, category, tags string
	cmd := &cobra.Command{
		Use:   "add <first-name>",
		Short: "Add a person to the current show",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				show, err := currentShow(sess.State())
				if err != nil {
					return err
				}
				var created domain.Person
				_, err = sess.Mutate(ctx, "add_person", func(s domain.State) (domain.State, error) {
					next, p, err := sess.Engine.AddPerson(s, show.ID, domain.Person{
						FirstName: args[0],
						LastName:  last,
						Category:  domain.PersonCategory(category),
						Tags:      tags,
					})
					created = p
					return next, err
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(created)
			})
		},
	}
	cmd.Flags().StringVar(&last, "last-name", "", "last name")
	cmd.Flags().StringVar(&category, "category", string(domain.CategoryPerformer), "speler or danser")
	cmd.Flags().StringVar(&tags, "tags", "", "free-form tags")
	return cmd
}

func personRemoveCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a person and clear their roles, mics and absences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				p, ok := sess.State().FindPerson(args[0])
				if !ok {
					return engine.NotFoundError{Kind: "person", ID: args[0]}
				}
				if !confirm(yes, fmt.Sprintf("Remove %s from the show and every assignment?", p.DisplayName())) {
					fmt.Println("aborted")
					return nil
				}
				_, err := sess.Mutate(ctx, "remove_person", func(s domain.State) (domain.State, error) {
					return sess.Engine.RemovePerson(s, args[0])
				})
				if err != nil {
					return err
				}
				fmt.Printf("Removed person %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func rehearsalCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "rehearsal", Short: "Manage rehearsals"}
	cmd.AddCommand(rehearsalListCmd())
	cmd.AddCommand(rehearsalAddCmd())
	return cmd
}

func rehearsalListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the current show's rehearsals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				st := sess.State()
				show, err := currentShow(st)
				if err != nil {
					return err
				}
				rehearsals := st.RehearsalsOf(show.ID)
				if viper.GetBool("json") {
					return printJSON(rehearsals)
				}
				tw := newTable(table.Row{"ID", "Date", "Location", "Type", "Absent"})
				for _, r := range rehearsals {
					var absent []string
					for _, a := range r.Absentees {
						if domain.IsCrewToken(a) {
							absent = append(absent, a)
							continue
						}
						absent = append(absent, personName(st, a))
					}
					tw.AppendRow(table.Row{r.ID, r.Date, r.Location, r.Type, strings.Join(absent, ", ")})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func rehearsalAddCmd() *cobra.Command {
	var date, location, kind, comments string
	var absent []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Schedule a rehearsal for the current show",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				show, err := currentShow(sess.State())
				if err != nil {
					return err
				}
				var created domain.Rehearsal
				_, err = sess.Mutate(ctx, "add_rehearsal", func(s domain.State) (domain.State, error) {
					next, r, err := sess.Engine.AddRehearsal(s, show.ID, domain.Rehearsal{
						Date:      date,
						Location:  location,
						Type:      kind,
						Comments:  comments,
						Absentees: absent,
					})
					created = r
					return next, err
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(created)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&location, "location", "", "location")
	cmd.Flags().StringVar(&kind, "type", "", "rehearsal type")
	cmd.Flags().StringVar(&comments, "comments", "", "comments")
	cmd.Flags().StringArrayVar(&absent, "absent", nil, "absent person id or crew position (repeatable)")
	return cmd
}

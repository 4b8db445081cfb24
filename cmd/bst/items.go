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

func itemCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "item", Short: "Manage the running order"}
	cmd.AddCommand(itemListCmd())
	cmd.AddCommand(itemAddCmd())
	cmd.AddCommand(itemUpdateCmd())
	cmd.AddCommand(itemRemoveCmd())
	cmd.AddCommand(itemMoveCmd())
	return cmd
}

func itemListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the current show's items in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				st := sess.State()
				show, err := currentShow(st)
				if err != nil {
					return err
				}
				items := st.ItemsOf(show.ID)
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := newTable(table.Row{"#", "ID", "Kind", "Title", "Min", "Cast", "Mics"})
				for _, it := range items {
					cast, mics := "", ""
					if it.Stage != nil {
						var names []string
						for _, r := range it.Stage.Roles {
							if r.PersonID != "" {
								names = append(names, personName(st, r.PersonID))
							}
						}
						cast = strings.Join(names, ", ")
						mics = string(engine.MicStatusOf(it))
					}
					tw.AppendRow(table.Row{it.Order, it.ID, it.Kind, it.Title, it.DurationMin, cast, mics})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func itemAddCmd() *cobra.Command {
	var kind, title string
	var duration int
	var roles, micRoles []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append an item to the current show",
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := engine.ItemDefaults{Title: title, DurationMin: duration}
			for _, r := range roles {
				defaults.Roles = append(defaults.Roles, domain.Role{Name: r})
			}
			for _, r := range micRoles {
				defaults.Roles = append(defaults.Roles, domain.Role{Name: r, NeedsMic: true})
			}
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				show, err := currentShow(sess.State())
				if err != nil {
					return err
				}
				var created domain.ShowItem
				_, err = sess.Mutate(ctx, "add_item", func(s domain.State) (domain.State, error) {
					next, it, err := sess.Engine.AddItem(s, show.ID, domain.ItemKind(kind), defaults)
					created = it
					return next, err
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(created)
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(domain.KindSketch), "sketch, break or waerse")
	cmd.Flags().StringVar(&title, "title", "", "title (defaults per kind)")
	cmd.Flags().IntVar(&duration, "duration", 0, "duration in minutes")
	cmd.Flags().StringArrayVar(&roles, "role", nil, "role without a mic (repeatable)")
	cmd.Flags().StringArrayVar(&micRoles, "mic-role", nil, "role that needs a mic (repeatable)")
	return cmd
}

func itemUpdateCmd() *cobra.Command {
	var kind, title, script, notes string
	var duration, order int
	var props, costumes, cues, attachments []string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an item; --order moves it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := cmd.Flags().Changed
			patch := engine.ItemPatch{
				Title:       optional(changed("title"), title),
				DurationMin: optional(changed("duration"), duration),
				Order:       optional(changed("order"), order),
				Script:      optional(changed("script"), script),
				Notes:       optional(changed("notes"), notes),
				Props:       optional(changed("prop"), props),
				Costumes:    optional(changed("costume"), costumes),
				Cues:        optional(changed("cue"), cues),
				Attachments: optional(changed("attachment"), attachments),
			}
			if changed("kind") {
				k := domain.ItemKind(kind)
				patch.Kind = &k
			}
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				var updated domain.ShowItem
				_, err := sess.Mutate(ctx, "update_item", func(s domain.State) (domain.State, error) {
					next, it, err := sess.Engine.UpdateItem(s, args[0], patch)
					updated = it
					return next, err
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(updated)
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "sketch, break or waerse")
	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().IntVar(&duration, "duration", 0, "duration in minutes")
	cmd.Flags().IntVar(&order, "order", 0, "new position (clamped to the running order)")
	cmd.Flags().StringVar(&script, "script", "", "script reference")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	cmd.Flags().StringArrayVar(&props, "prop", nil, "prop (repeatable, replaces the list)")
	cmd.Flags().StringArrayVar(&costumes, "costume", nil, "costume (repeatable, replaces the list)")
	cmd.Flags().StringArrayVar(&cues, "cue", nil, "light or sound cue (repeatable, replaces the list)")
	cmd.Flags().StringArrayVar(&attachments, "attachment", nil, "attachment reference (repeatable, replaces the list)")
	return cmd
}

func itemRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				_, err := sess.Mutate(ctx, "remove_item", func(s domain.State) (domain.State, error) {
					return sess.Engine.RemoveItem(s, args[0])
				})
				if err != nil {
					return err
				}
				fmt.Printf("Removed item %s\n", args[0])
				return nil
			})
		},
	}
}

func itemMoveCmd() *cobra.Command {
	var before string
	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move an item directly before another",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				st, err := sess.Mutate(ctx, "move_item", func(s domain.State) (domain.State, error) {
					return sess.Engine.MoveItem(s, args[0], before), nil
				})
				if err != nil {
					return err
				}
				it, ok := st.FindItem(args[0])
				if !ok {
					return engine.NotFoundError{Kind: "item", ID: args[0]}
				}
				tw := newTable(table.Row{"#", "Title"})
				for _, o := range st.ItemsOf(it.ShowID) {
					tw.AppendRow(table.Row{o.Order, o.Title})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "id of the item to land on")
	_ = cmd.MarkFlagRequired("before")
	return cmd
}

func roleCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "role", Short: "Manage an item's roles"}
	cmd.AddCommand(roleAddCmd())
	cmd.AddCommand(roleAssignCmd())
	return cmd
}

func roleAddCmd() *cobra.Command {
	var needsMic bool
	cmd := &cobra.Command{
		Use:   "add <item> <name>",
		Short: "Add a role to an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				var created domain.Role
				_, err := sess.Mutate(ctx, "add_role", func(s domain.State) (domain.State, error) {
					next, r, err := sess.Engine.AddRole(s, args[0], args[1], needsMic)
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
	cmd.Flags().BoolVar(&needsMic, "mic", false, "the role needs a mic")
	return cmd
}

func roleAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <item> <role-key> [person]",
		Short: "Put a person in a role; omit the person to empty it",
		Long:  "role-key is the role id, or its position for roles without an id. A person already holding another role in the item is moved.",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, key, personID := args[0], args[1], ""
			if len(args) == 3 {
				personID = args[2]
			}
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				st, err := sess.Mutate(ctx, "assign_role", func(s domain.State) (domain.State, error) {
					return sess.Engine.AssignRole(s, itemID, personID, key)
				})
				if err != nil {
					return err
				}
				return printRoles(st, itemID)
			})
		},
	}
}

func printRoles(st domain.State, itemID string) error {
	it, ok := st.FindItem(itemID)
	if !ok {
		return engine.NotFoundError{Kind: "item", ID: itemID}
	}
	if it.Stage == nil {
		fmt.Printf("%s has no roles\n", it.Title)
		return nil
	}
	if viper.GetBool("json") {
		return printJSON(it.Stage.Roles)
	}
	tw := newTable(table.Row{"Key", "Role", "Mic", "Person"})
	for i, r := range it.Stage.Roles {
		key := r.ID
		if key == "" {
			key = fmt.Sprint(i)
		}
		tw.AppendRow(table.Row{key, r.Name, r.NeedsMic, personName(st, r.PersonID)})
	}
	tw.Render()
	return nil
}

func micCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "mic", Short: "Mic channels and assignments"}
	cmd.AddCommand(micChannelsCmd())
	cmd.AddCommand(micAddCmd())
	cmd.AddCommand(micAssignCmd())
	cmd.AddCommand(micStatusCmd())
	return cmd
}

func micChannelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "List the current show's named mics and generated slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				st := sess.State()
				show, err := currentShow(st)
				if err != nil {
					return err
				}
				channels := st.Channels(show.ID)
				if viper.GetBool("json") {
					return printJSON(channels)
				}
				tw := newTable(table.Row{"ID", "Label", "Kind", "Slot"})
				for _, ch := range channels {
					tw.AppendRow(table.Row{ch.ID, ch.Label, ch.Kind, ch.Slot})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func micAddCmd() *cobra.Command {
	var name, kind string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a named mic to the current show",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				show, err := currentShow(sess.State())
				if err != nil {
					return err
				}
				var created domain.Mic
				_, err = sess.Mutate(ctx, "add_mic", func(s domain.State) (domain.State, error) {
					next, m, err := sess.Engine.AddMic(s, show.ID, domain.Mic{Name: name, Kind: domain.MicKind(kind)})
					created = m
					return next, err
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(created)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "mic name")
	cmd.Flags().StringVar(&kind, "kind", string(domain.MicHeadset), "headset or handheld")
	return cmd
}

func micAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <item> <channel> [person]",
		Short: "Put a person on a mic channel; omit the person to clear it",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			personID := ""
			if len(args) == 3 {
				personID = args[2]
			}
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				st, err := sess.Mutate(ctx, "assign_mic", func(s domain.State) (domain.State, error) {
					return sess.Engine.AssignMic(s, args[0], args[1], personID)
				})
				if err != nil {
					return err
				}
				it, ok := st.FindItem(args[0])
				if !ok {
					return engine.NotFoundError{Kind: "item", ID: args[0]}
				}
				fmt.Printf("%s: mics %s\n", it.Title, engine.MicStatusOf(it))
				return nil
			})
		},
	}
}

func micStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show mic coverage per item",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				st := sess.State()
				show, err := currentShow(st)
				if err != nil {
					return err
				}
				type row struct {
					ItemID   string           `json:"item_id"`
					Title    string           `json:"title"`
					Required []string         `json:"required"`
					Missing  []string         `json:"missing"`
					Status   engine.MicStatus `json:"status"`
				}
				var rows []row
				for _, it := range st.ItemsOf(show.ID) {
					if it.Stage == nil {
						continue
					}
					onChannel := map[string]bool{}
					for _, p := range it.Stage.Mics {
						onChannel[p] = true
					}
					r := row{ItemID: it.ID, Title: it.Title, Required: engine.RequiredMicPeople(it), Status: engine.MicStatusOf(it)}
					for _, p := range r.Required {
						if !onChannel[p] {
							r.Missing = append(r.Missing, personName(st, p))
						}
					}
					rows = append(rows, r)
				}
				if viper.GetBool("json") {
					return printJSON(rows)
				}
				tw := newTable(table.Row{"Item", "Required", "Missing", "Status"})
				for _, r := range rows {
					tw.AppendRow(table.Row{r.Title, len(r.Required), strings.Join(r.Missing, ", "), r.Status})
				}
				tw.Render()
				return nil
			})
		},
	}
}

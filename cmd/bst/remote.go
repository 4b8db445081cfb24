package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	backstagesdk "backstage/sdk/go"
)

func remoteClient() *backstagesdk.Client {
	c := backstagesdk.New(viper.GetString("url"))
	c.BearerToken = viper.GetString("token")
	return c
}

func remoteLoginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the token in the workspace .env",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = viper.GetString("auth.password")
			}
			if password == "" {
				return fmt.Errorf("--password or BACKSTAGE_AUTH_PASSWORD is required")
			}
			tok, err := remoteClient().Login(cmd.Context(), password)
			if err != nil {
				return err
			}
			path := filepath.Join(viper.GetString("workspace"), ".env")
			if err := setEnvValue(path, "BACKSTAGE_TOKEN", tok.Token); err != nil {
				return err
			}
			fmt.Printf("Logged in; token valid until %s, stored in %s\n", tok.ExpiresAt.Local().Format("2006-01-02 15:04"), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "shared password")
	return cmd
}

func remoteHistoryCmd(direction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   direction,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := remoteClient()
			step := c.Undo
			if direction == "redo" {
				step = c.Redo
			}
			res, err := step(cmd.Context())
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(res)
			}
			if !res.Applied {
				fmt.Printf("nothing to %s\n", direction)
				return nil
			}
			fmt.Printf("%s applied (undo available: %t, redo available: %t)\n", direction, res.CanUndo, res.CanRedo)
			return nil
		},
	}
}

func remoteConflictsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "List conflicts for --show on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			showID := strings.TrimSpace(viper.GetString("show"))
			if showID == "" {
				return fmt.Errorf("no show selected; pass --show or run 'bst show use <id>'")
			}
			warnings, err := remoteClient().Conflicts(cmd.Context(), showID)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(warnings)
			}
			if len(warnings) == 0 {
				fmt.Println("no conflicts")
				return nil
			}
			tw := newTable(table.Row{"Kind", "From", "To", "Warning"})
			for _, w := range warnings {
				tw.AppendRow(table.Row{w.Kind, w.FromItemID, w.ToItemID, w.Message})
			}
			tw.Render()
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"backstage/internal/app"
	"backstage/internal/config"
)

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Named snapshots of the whole document",
	}
	cmd.AddCommand(versionListCmd())
	cmd.AddCommand(versionSaveCmd())
	cmd.AddCommand(versionRestoreCmd())
	cmd.AddCommand(versionDeleteCmd())
	return cmd
}

func versionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List versions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				versions, err := sess.ListVersions(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(versions)
				}
				tw := newTable(table.Row{"ID", "Label", "Created"})
				for _, v := range versions {
					tw.AppendRow(table.Row{v.ID, v.Label, v.CreatedAt})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func versionSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <label>",
		Short: "Snapshot the current document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				v, err := sess.SaveVersion(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(v)
			})
		},
	}
}

func versionRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Replace the document with a saved version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				st, err := sess.RestoreVersion(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("Restored version %s (%d shows)\n", args[0], len(st.Shows))
				return nil
			})
		},
	}
}

func versionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *app.Session, _ *config.Config) error {
				if err := sess.DeleteVersion(ctx, args[0]); err != nil {
					return err
				}
				fmt.Printf("Deleted version %s\n", args[0])
				return nil
			})
		},
	}
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Inspect workspace config",
		Long:  "Config lives in backstage.yml in the workspace. Flags and BACKSTAGE_* variables (also read from .env) override file values.",
	}
	cfg.AddCommand(configShowCmd())
	cfg.AddCommand(configValidateCmd())
	cfg.AddCommand(configInitCmd())
	return cfg
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Auth.Secret != "" {
				cfg.Auth.Secret = "********"
			}
			if cfg.Auth.Password != "" {
				cfg.Auth.Password = "********"
			}
			if viper.GetBool("json") {
				return printJSON(cfg)
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}
}

func configValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := loadConfig()
			if viper.GetBool("json") {
				return printJSON(map[string]any{"ok": err == nil, "error": fmt.Sprint(err)})
			}
			if err != nil {
				return err
			}
			fmt.Println("config OK")
			return nil
		},
	}
}

func configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default backstage.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if err := writeDefaultConfig(path, force); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "bst",
	Short: "Backstage planner CLI",
	Long: `Backstage plans a variety show from the wings.
Core concepts:
- Show: one production with a date, a start time and an optional interval after a given item.
- Items: the running order. Sketches and the waerse act put people on stage; breaks do not.
- Roles: named parts inside an item. A person holds at most one role per item.
- Mics: named mics plus HS{n}/HH{n} slots generated from the show's headset and handheld counts.
- Run-sheet: the running order on the wall clock, with a changeover gap after every entry.
- Conflicts: the same person in back-to-back sketches, or a mic that changes hands between adjacent items.
- Versions: named snapshots you can restore. Undo/redo lives in the server session ('bst serve' and 'bst remote').`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadDotEnv(viper.GetString("workspace"))
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("BACKSTAGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("workspace", "w", ".", "workspace directory")
	flags.Bool("json", false, "output JSON")
	flags.String("show", "", "show id (overrides BACKSTAGE_SHOW)")
	flags.String("driver", "", "storage driver: sqlite, postgres, redis, memory")
	flags.String("dsn", "", "storage DSN")
	_ = viper.BindPFlag("workspace", flags.Lookup("workspace"))
	_ = viper.BindPFlag("json", flags.Lookup("json"))
	_ = viper.BindPFlag("show", flags.Lookup("show"))
	_ = viper.BindPFlag("storage.driver", flags.Lookup("driver"))
	_ = viper.BindPFlag("storage.dsn", flags.Lookup("dsn"))
}

func registerCommands() {
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(itemCmd())
	rootCmd.AddCommand(roleCmd())
	rootCmd.AddCommand(micCmd())
	rootCmd.AddCommand(personCmd())
	rootCmd.AddCommand(rehearsalCmd())
	rootCmd.AddCommand(runsheetCmd())
	rootCmd.AddCommand(conflictsCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(remoteCmd())
}

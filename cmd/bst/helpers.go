package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"backstage/internal/app"
	"backstage/internal/blob"
	"backstage/internal/config"
	"backstage/internal/domain"
	"backstage/internal/metrics"
	"backstage/internal/runsheet"
	"backstage/internal/store"
)

// loadDotEnv exports the workspace .env without overriding the real
// environment.
func loadDotEnv(workspace string) error {
	err := godotenv.Load(filepath.Join(workspace, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// overrides lists the config keys viper may replace from flags or
// BACKSTAGE_* variables.
var overrides = []struct {
	key string
	set func(*config.Config, string)
}{
	{"storage.driver", func(c *config.Config, v string) { c.Storage.Driver = v }},
	{"storage.dsn", func(c *config.Config, v string) { c.Storage.DSN = v }},
	{"storage.redis_addr", func(c *config.Config, v string) { c.Storage.RedisAddr = v }},
	{"storage.redis_password", func(c *config.Config, v string) { c.Storage.RedisPassword = v }},
	{"storage.key", func(c *config.Config, v string) { c.Storage.Key = v }},
	{"auth.secret", func(c *config.Config, v string) { c.Auth.Secret = v }},
	{"auth.password", func(c *config.Config, v string) { c.Auth.Password = v }},
	{"auth.password_hash", func(c *config.Config, v string) { c.Auth.PasswordHash = v }},
	{"auth.token_ttl", func(c *config.Config, v string) { c.Auth.TokenTTL = v }},
	{"schedule.default_start", func(c *config.Config, v string) { c.Schedule.DefaultStart = v }},
	{"export.driver", func(c *config.Config, v string) { c.Export.Driver = v }},
	{"export.dir", func(c *config.Config, v string) { c.Export.Dir = v }},
	{"export.s3_bucket", func(c *config.Config, v string) { c.Export.S3Bucket = v }},
	{"export.s3_region", func(c *config.Config, v string) { c.Export.S3Region = v }},
	{"export.s3_endpoint", func(c *config.Config, v string) { c.Export.S3Endpoint = v }},
	{"server.addr", func(c *config.Config, v string) { c.Server.Addr = v }},
	{"server.base_path", func(c *config.Config, v string) { c.Server.BasePath = v }},
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetString("workspace"))
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		if viper.IsSet(o.key) {
			if v := viper.GetString(o.key); v != "" {
				o.set(cfg, v)
			}
		}
	}
	if viper.IsSet("storage.redis_db") {
		cfg.Storage.RedisDB = viper.GetInt("storage.redis_db")
	}
	if viper.IsSet("schedule.changeover_minutes") {
		cfg.Schedule.ChangeoverMinutes = viper.GetInt("schedule.changeover_minutes")
	}
	if viper.IsSet("history.limit") {
		cfg.History.Limit = viper.GetInt("history.limit")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	return store.Open(ctx, store.Config{
		Driver:        store.Driver(cfg.Storage.Driver),
		Workspace:     viper.GetString("workspace"),
		DSN:           cfg.Storage.DSN,
		RedisAddr:     cfg.Storage.RedisAddr,
		RedisPassword: cfg.Storage.RedisPassword,
		RedisDB:       cfg.Storage.RedisDB,
		Key:           cfg.Storage.Key,
	})
}

func openExports(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	dir := cfg.Export.Dir
	if dir != "" && !filepath.IsAbs(dir) {
		dir = filepath.Join(viper.GetString("workspace"), dir)
	}
	return blob.Open(ctx, blob.Config{
		Driver:    blob.Driver(cfg.Export.Driver),
		Dir:       dir,
		Bucket:    cfg.Export.S3Bucket,
		Region:    cfg.Export.S3Region,
		Endpoint:  cfg.Export.S3Endpoint,
		PathStyle: cfg.Export.S3PathStyle,
	})
}

func scheduleOptions(cfg *config.Config) runsheet.Options {
	return runsheet.Options{GapMin: cfg.Schedule.ChangeoverMinutes, DefaultStart: cfg.Schedule.DefaultStart}
}

func openSession(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*app.Session, error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	sess, err := app.Open(ctx, app.Options{
		Store:        st,
		HistoryLimit: cfg.History.Limit,
		Logger:       log.Default(),
		Metrics:      m,
	})
	if err != nil {
		st.Close()
		return nil, err
	}
	return sess, nil
}

func withSession(ctx context.Context, fn func(context.Context, *app.Session, *config.Config) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sess, err := openSession(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer sess.Close()
	return fn(ctx, sess, cfg)
}

// currentShow resolves --show / BACKSTAGE_SHOW, falling back to the only
// show when there is exactly one.
func currentShow(st domain.State) (domain.Show, error) {
	id := strings.TrimSpace(viper.GetString("show"))
	if id == "" {
		if len(st.Shows) == 1 {
			return st.Shows[0], nil
		}
		return domain.Show{}, fmt.Errorf("no show selected; pass --show or run 'bst show use <id>'")
	}
	show, ok := st.FindShow(id)
	if !ok {
		return domain.Show{}, fmt.Errorf("show %s not found", id)
	}
	return show, nil
}

func newTable(header table.Row) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(header)
	return tw
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func setEnvValue(path, key, value string) error {
	var lines []string
	seen := false
	f, err := os.Open(path)
	if err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, key+"=") {
				lines = append(lines, fmt.Sprintf("%s=%s", key, value))
				seen = true
			} else {
				lines = append(lines, line)
			}
		}
		if err := scanner.Err(); err != nil {
			f.Close()
			return err
		}
		f.Close()
	} else if !os.IsNotExist(err) {
		return err
	}
	if !seen {
		lines = append(lines, fmt.Sprintf("%s=%s", key, value))
	}
	content := strings.Join(lines, "\n")
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// optional returns a pointer to v when the flag was given.
func optional[T any](changed bool, v T) *T {
	if !changed {
		return nil
	}
	return &v
}

func personName(st domain.State, id string) string {
	if id == "" {
		return ""
	}
	if p, ok := st.FindPerson(id); ok {
		return p.DisplayName()
	}
	return id
}

func writeDefaultConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists; pass --force to overwrite", path)
		}
	}
	return os.WriteFile(path, []byte(config.GenerateDefault()), 0o644)
}

// confirm asks on stdin unless --yes was given. Anything but y/yes declines.
func confirm(yes bool, prompt string) bool {
	if yes {
		return true
	}
	fmt.Printf("%s [y/N] ", prompt)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

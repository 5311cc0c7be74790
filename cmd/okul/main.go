package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/bilgen/okul/internal/genai"
	"github.com/bilgen/okul/internal/handler"
	appI18n "github.com/bilgen/okul/internal/i18n"
	"github.com/bilgen/okul/internal/model"
	"github.com/bilgen/okul/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "okul",
		Short: "School management backend: exams, homework, grading",
	}

	serve := serveCmd()
	root.AddCommand(serve, addUserCmd(), exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `okul --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "okul.db", "SQLite database path")
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.Bool("llm-check", false, "Ping the LLM endpoint at startup")
	f.StringP("lang", "l", "en", "Default response language (en, tr)")
	f.String("jwt-secret", "", "Secret for signing access tokens (or set OKUL_JWT_SECRET)")
	f.Duration("token-ttl", 24*time.Hour, "Access token lifetime")
	f.String("admin-password", "", "Initial admin password (or set OKUL_ADMIN_PASSWORD)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func addUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create a user directly in the database",
		RunE:  runAddUser,
	}
	f := cmd.Flags()
	f.String("db", "okul.db", "SQLite database path")
	f.String("name", "", "Display name (required)")
	f.String("email", "", "Email address (required)")
	f.String("password", "", "Password (required)")
	f.StringSlice("roles", []string{"STUDENT"}, "Roles (STUDENT, TEACHER, ADMIN)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")

	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an exam's homework results as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "okul.db", "SQLite database path")
	f.String("exam", "", "Exam id to export (required)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")

	_ = cmd.MarkFlagRequired("exam")

	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("OKUL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("okul")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/okul")
	v.AddConfigPath("/etc/okul")
	v.AddConfigPath("/data")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	jwtSecret := v.GetString("jwt-secret")
	if jwtSecret == "" {
		return fmt.Errorf("JWT secret is required: set --jwt-secret flag or OKUL_JWT_SECRET env var")
	}

	// Open database.
	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	// Seed default admin user if no users exist.
	if err := seedAdmin(db, v.GetString("admin-password")); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	// Initialize i18n.
	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	// Create generation client.
	genClient := genai.New(
		v.GetString("llm-url"),
		v.GetString("llm-key"),
		v.GetString("llm-model"),
	)
	if v.GetBool("llm-check") {
		if err := genClient.Ping(context.Background()); err != nil {
			return fmt.Errorf("LLM health check: %w", err)
		}
		slog.Info("LLM endpoint OK", "url", v.GetString("llm-url"), "model", v.GetString("llm-model"))
	}

	h, err := handler.New(db, genClient, handler.Config{
		JWTSecret: jwtSecret,
		TokenTTL:  v.GetDuration("token-ttl"),
	})
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"db", v.GetString("db"),
		"llm_url", v.GetString("llm-url"),
		"llm_model", v.GetString("llm-model"),
		"lang", lang,
	)
	return http.ListenAndServe(addr, r)
}

func runAddUser(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	var roles []model.Role
	for _, raw := range v.GetStringSlice("roles") {
		role := model.Role(strings.ToUpper(strings.TrimSpace(raw)))
		switch role {
		case model.RoleStudent, model.RoleTeacher, model.RoleAdmin:
			roles = append(roles, role)
		default:
			return fmt.Errorf("unknown role %q", raw)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(v.GetString("password")), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	id, err := db.CreateUser(model.User{
		Name:         v.GetString("name"),
		Email:        v.GetString("email"),
		PasswordHash: string(hash),
		Roles:        roles,
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	slog.Info("user created", "user_id", id, "email", v.GetString("email"), "roles", roles)
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	examID, err := strconv.ParseInt(v.GetString("exam"), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid exam id %q", v.GetString("exam"))
	}

	export, err := db.ExportExamResults(examID)
	if err != nil {
		return fmt.Errorf("export exam results: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}

func seedAdmin(db *store.Store, password string) error {
	count, err := db.UserCount()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if password == "" {
		return fmt.Errorf("admin password is required: set --admin-password flag or OKUL_ADMIN_PASSWORD env var")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = db.CreateUser(model.User{
		Name:         "Administrator",
		Email:        "admin@okul.local",
		PasswordHash: string(hash),
		Roles:        []model.Role{model.RoleAdmin},
	})
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	slog.Info("seeded default admin user", "email", "admin@okul.local")
	return nil
}

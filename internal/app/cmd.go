package app

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// Command はアプリケーションのサブコマンド名を表す。
type Command string

const (
	// CommandServe はHTTPサーバーを起動する。引数なしの場合もこれを実行する。
	CommandServe Command = "serve"
	// CommandMigrate はデータベースマイグレーションを実行する。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck はヘルスチェックを実行する。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
	// CommandEntitlement は指定ユーザーのプラン判定の診断結果を出力する。
	CommandEntitlement Command = "entitlement"
)

// Run はアプリケーションのメインエントリーポイント。
// argsにはos.Args[1:]を渡す。ログはwに、コマンドの出力は標準出力に書き出す。
func Run(w io.Writer, args []string) error {
	root := NewRootCommand(w, os.Stdout)
	root.SetArgs(args)
	return root.Execute()
}

// NewRootCommand はサブコマンドを登録したルートコマンドを生成する。
// logOutはログの出力先、outはentitlementなどのコマンド出力先。
func NewRootCommand(logOut, out io.Writer) *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "teamroster",
		Short:         "Team roster service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(logOut, envFiles)
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "env files to load (default: .env if present)")

	root.AddCommand(
		&cobra.Command{
			Use:   string(CommandServe),
			Short: "Start the HTTP server",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(logOut, envFiles)
			},
		},
		newMigrateCommand(logOut, &envFiles),
		newHealthcheckCommand(),
		&cobra.Command{
			Use:   string(CommandEntitlement) + " <user-id>",
			Short: "Explain the plan entitlement decision for a user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				userID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid user id %q: %w", args[0], err)
				}
				cfg, err := Init(logOut, envFiles...)
				if err != nil {
					return fmt.Errorf("initialization failed: %w", err)
				}
				return runEntitlement(cmd.Context(), cfg, cmd.OutOrStdout(), userID)
			},
		},
	)

	return root
}

// newMigrateCommand はmigrateサブコマンドを生成する。
// --rollbackを指定した場合は適用の代わりに指定段数だけ巻き戻す。
func newMigrateCommand(logOut io.Writer, envFiles *[]string) *cobra.Command {
	var rollback int
	cmd := &cobra.Command{
		Use:   string(CommandMigrate),
		Short: "Apply all pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rollback < 0 {
				return fmt.Errorf("--rollback must not be negative: %d", rollback)
			}
			cfg, err := Init(logOut, *envFiles...)
			if err != nil {
				return fmt.Errorf("initialization failed: %w", err)
			}
			return runMigrate(cfg, rollback)
		},
	}
	cmd.Flags().IntVar(&rollback, "rollback", 0, "number of migrations to roll back instead of applying")
	return cmd
}

// newHealthcheckCommand はhealthcheckサブコマンドを生成する。
// 軽量サブコマンドのため、設定の読み込みとログの初期化をスキップする。
func newHealthcheckCommand() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   string(CommandHealthcheck),
		Short: "Check the local /health endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = os.Getenv("SERVER_PORT")
			}
			if port == "" {
				port = "8080"
			}
			return runHealthcheck(port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "server port (default: $SERVER_PORT or 8080)")
	return cmd
}

func serve(logOut io.Writer, envFiles []string) error {
	cfg, err := Init(logOut, envFiles...)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	return runServe(cfg)
}

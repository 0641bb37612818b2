// Package cli - команды blogicum: сервер, миграции и администрирование
package cli

import (
	"fmt"

	"github.com/VitaminP8/blogicum/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type runtime struct {
	configPath string
	verbose    bool
	logger     *zap.Logger
	cfg        *config.Config
}

// Execute запускает корневую команду
func Execute() error {
	return newRootCmd(nil).Execute()
}

// newRootCmd собирает дерево команд. Если logger не nil, он используется
// вместо production-логгера.
func newRootCmd(logger *zap.Logger) *cobra.Command {
	rt := &runtime{logger: logger}

	rootCmd := &cobra.Command{
		Use:          "blogicum",
		Short:        "Blogicum - блог с публикациями, категориями и комментариями",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if rt.logger == nil {
				zapConfig := zap.NewProductionConfig()
				if rt.verbose {
					zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
				}
				l, err := zapConfig.Build()
				if err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
				rt.logger = l
			}

			cfg, err := config.Load(rt.configPath)
			if err != nil {
				return err
			}
			rt.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&rt.configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(
		newServeCmd(rt),
		newMigrateCmd(rt),
		newCategoryCmd(rt),
		newLocationCmd(rt),
		newUserCmd(rt),
	)
	return rootCmd
}

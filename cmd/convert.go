package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moyu-x/image-mirror/internal"
	"github.com/moyu-x/image-mirror/internal/app"
	"github.com/moyu-x/image-mirror/pkg/config"
	"github.com/moyu-x/image-mirror/pkg/logger"
	"github.com/moyu-x/image-mirror/pkg/transform"
	"github.com/moyu-x/image-mirror/pkg/walker"
	"github.com/moyu-x/image-mirror/tui"
)

func newReformatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reformat <source> <destination>",
		Short: "把目录中的所有图片转换为同一格式",
		Long: `递归遍历源目录，在目标目录中镜像目录结构，并把每个图片转换为 --target 指定的格式。
输出文件名为原文件名去掉扩展名后加上目标格式扩展名，已存在的输出会被覆盖。
可选 --max-width/--max-height 等比缩小图片。`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, internal.OpReformat)
		},
	}

	addConvertFlags(cmd)
	cmd.Flags().String("target", internal.DefaultTarget, "目标格式: webp、avif、jpeg、png、tiff、gif")
	cmd.Flags().Int("max-width", 0, "最大宽度，0 表示不限制")
	cmd.Flags().Int("max-height", 0, "最大高度，0 表示不限制")

	return cmd
}

func newRecompressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recompress <source> <destination>",
		Short: "保持原格式，以指定质量重新压缩图片",
		Long: `递归遍历源目录，在目标目录中镜像目录结构，并把每个图片按原格式以 --quality 重新编码。
输出文件名与源文件相同。无法按原格式编码的图片（如 bmp）记为失败。`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, internal.OpRecompress)
		},
	}

	addConvertFlags(cmd)

	return cmd
}

func addConvertFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("quality", "q", internal.DefaultQuality, "编码质量 (1-100)")
	cmd.Flags().Int("effort", internal.DefaultEffort, "压缩力度 (0-10)，越大越慢、体积越小")
	cmd.Flags().IntP("workers", "w", 0, "同时转换的文件数上限，<= 0 表示不限制（默认使用配置值）")
	cmd.Flags().StringSlice("placeholder", nil, "跳过的占位文件名（默认: .gitkeep）")
	cmd.Flags().String("log-file", "", "日志文件路径")
	cmd.Flags().BoolP("verbose", "v", false, "显示详细日志")
	cmd.Flags().Bool("strict", false, "有文件转换失败时以非零状态退出")
	cmd.Flags().Bool("tui", false, "使用终端界面显示进度")
}

// applyFlags 命令行中显式设置的参数覆盖配置文件
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("quality") {
		cfg.Convert.Quality, _ = flags.GetInt("quality")
	}
	if flags.Changed("effort") {
		cfg.Convert.Effort, _ = flags.GetInt("effort")
	}
	if flags.Changed("target") {
		cfg.Convert.Target, _ = flags.GetString("target")
	}
	if flags.Changed("max-width") {
		cfg.Convert.MaxWidth, _ = flags.GetInt("max-width")
	}
	if flags.Changed("max-height") {
		cfg.Convert.MaxHeight, _ = flags.GetInt("max-height")
	}
	if flags.Changed("workers") {
		cfg.Performance.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("placeholder") {
		cfg.Walker.Placeholders, _ = flags.GetStringSlice("placeholder")
	}
	if flags.Changed("log-file") {
		cfg.Logging.File, _ = flags.GetString("log-file")
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}
}

func runConvert(cmd *cobra.Command, args []string, op internal.Operation) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	useTUI, _ := cmd.Flags().GetBool("tui")
	strict, _ := cmd.Flags().GetBool("strict")

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File, !useTUI); err != nil {
		return err
	}
	logger.Get().Info().Msg("加载配置完成")

	opts := &app.ConvertOptions{
		Operation: op,
		SourceDir: args[0],
		DestDir:   args[1],
		Target:    cfg.Convert.Target,
		Settings: transform.Settings{
			Quality:   cfg.Convert.Quality,
			Effort:    cfg.Convert.Effort,
			MaxWidth:  cfg.Convert.MaxWidth,
			MaxHeight: cfg.Convert.MaxHeight,
		},
		Workers:      cfg.Performance.Workers,
		Placeholders: cfg.Walker.Placeholders,
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	var outcome *walker.Outcome
	if useTUI {
		outcome, err = tui.Run(ctx, opts)
	} else {
		outcome, err = app.RunConvert(ctx, opts)
	}

	if outcome != nil {
		fmt.Fprintln(cmd.OutOrStdout(), outcome.String())
	}
	if err != nil {
		return err
	}

	if strict && !outcome.OK() {
		return fmt.Errorf("%d 个文件转换失败", outcome.Failed)
	}

	return nil
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "image-mirror",
	Short: "批量转换图片格式并镜像目录结构的工具",
	Long: `Image Mirror 是一个命令行工具，用于批量转换或重新压缩整棵目录中的图片。

主要功能:
- 递归遍历源目录，在目标位置镜像完整的目录结构
- reformat: 把所有图片转换为同一目标格式（webp/avif/jpeg/png/tiff/gif）
- recompress: 保持原格式，以指定质量重新编码
- 同一目录内的图片并发处理，单个文件失败不影响其他文件
- 运行结束输出统计信息（成功/失败数量、平均输出大小）`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "配置文件路径（默认在 $HOME/.image-mirror、当前目录、/etc/image-mirror 中查找 config.yaml）")

	rootCmd.AddCommand(newReformatCmd())
	rootCmd.AddCommand(newRecompressCmd())
}

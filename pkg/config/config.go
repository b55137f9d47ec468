package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/moyu-x/image-mirror/internal"
	"github.com/moyu-x/image-mirror/pkg/format"
	"github.com/moyu-x/image-mirror/pkg/walker"
)

type Config struct {
	Convert struct {
		Target    string
		Quality   int
		Effort    int
		MaxWidth  int `mapstructure:"max_width"`
		MaxHeight int `mapstructure:"max_height"`
	}
	Walker struct {
		Placeholders []string
	}
	Performance struct {
		Workers int
	}
	Logging struct {
		Level string
		File  string
	}
}

// Load 读取配置。file 非空时只读取该文件，否则在默认路径中查找 config.yaml，
// 找不到配置文件时使用默认值。IMAGE_MIRROR_ 前缀的环境变量覆盖文件中的值。
func Load(file string) (*Config, error) {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath("$HOME/.image-mirror")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/image-mirror")
	}

	v.SetEnvPrefix(internal.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("convert.target", internal.DefaultTarget)
	v.SetDefault("convert.quality", internal.DefaultQuality)
	v.SetDefault("convert.effort", internal.DefaultEffort)
	v.SetDefault("convert.max_width", 0)
	v.SetDefault("convert.max_height", 0)
	v.SetDefault("walker.placeholders", []string{walker.DefaultPlaceholder})
	v.SetDefault("performance.workers", runtime.NumCPU())
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	return &c, nil
}

// Validate 检查转换参数
func (c *Config) Validate() error {
	if _, err := format.Parse(c.Convert.Target); err != nil {
		return fmt.Errorf("无效的目标格式 %q: %w", c.Convert.Target, err)
	}
	if c.Convert.Quality < 1 || c.Convert.Quality > 100 {
		return fmt.Errorf("质量必须在 1-100 之间，当前为 %d", c.Convert.Quality)
	}
	if c.Convert.Effort < 0 || c.Convert.Effort > 10 {
		return fmt.Errorf("压缩等级必须在 0-10 之间，当前为 %d", c.Convert.Effort)
	}
	if c.Convert.MaxWidth < 0 || c.Convert.MaxHeight < 0 {
		return errors.New("最大宽高不能为负数")
	}
	return nil
}

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/moyu-x/image-mirror/pkg/logger"
)

// signalContext 收到 SIGINT/SIGTERM 时取消返回的 context，
// 已经开始的文件会继续写完，不再启动新的转换
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Get().Warn().Msgf("收到信号 %v，正在优雅关闭...", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

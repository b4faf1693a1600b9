// akwamd 是 Akwam 提取流水线的 HTTP 服务入口。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/John-Robertt/akwamd/internal/akwam"
	"github.com/John-Robertt/akwamd/internal/api"
	"github.com/John-Robertt/akwamd/internal/config"
	"github.com/John-Robertt/akwamd/internal/infra/cache"
	"github.com/John-Robertt/akwamd/internal/infra/httpx"
	"github.com/John-Robertt/akwamd/internal/infra/ratelimit"
	"github.com/John-Robertt/akwamd/internal/service"
)

func main() {
	if code := run(); code != 0 {
		os.Exit(code)
	}
}

func run() int {
	cfgPath := flag.String("config", "akwamd.json", "配置文件路径（可选，不存在时用内置默认值）")
	flag.Parse()

	cfg, err := config.LoadEffective(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取配置失败：%v\n", err)
		return 2
	}

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败：%v\n", err)
		return 1
	}
	defer log.Sync()

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = akwam.DefaultBaseURL
	}

	fetcher, err := httpx.New(baseURL, cfg.ProxyURL)
	if err != nil {
		log.Error("构造抓取客户端失败", zap.Error(err))
		return 1
	}

	svc := service.New(
		fetcher,
		cache.New(cfg.CacheTTL),
		log,
		service.Options{
			BaseURL:     baseURL,
			CacheFailed: cfg.CacheFailedLookups,
			Workers:     cfg.FetchWorkers,
		},
	)
	limiter := ratelimit.New(cfg.RateLimitMax, cfg.RateLimitWindow)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           api.NewRouter(svc, limiter, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("akwamd 启动",
			zap.String("listen", cfg.Listen),
			zap.String("base_url", baseURL))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("服务异常退出", zap.Error(err))
			return 1
		}
	case <-ctx.Done():
		// 收到退出信号：给在途请求一个有限的收尾窗口。
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("优雅关闭超时", zap.Error(err))
			return 1
		}
		log.Info("akwamd 已退出")
	}
	return 0
}

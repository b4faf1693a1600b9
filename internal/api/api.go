// Package api 暴露提取流水线的 HTTP 入口。
//
// 约束：
// - 准入控制在任何提取工作之前执行（middleware 注册顺序保证）
// - “解析完成但没找到”（failed 结果）返回 200 + failed 信封；
//   “无法完成”（类型化错误）映射为 4xx/5xx + error 信封
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/John-Robertt/akwamd/internal/akwam"
	"github.com/John-Robertt/akwamd/internal/domain"
	"github.com/John-Robertt/akwamd/internal/service"
)

// Pipeline 是 API 层对编排层的最小依赖（测试注入假实现）。
type Pipeline interface {
	Movies(ctx context.Context, page, category int) (domain.Listing, error)
	Series(ctx context.Context, page, category int) (domain.Listing, error)
	Search(ctx context.Context, q string, page int) (domain.Listing, error)
	Movie(ctx context.Context, url string) (domain.MovieDetail, error)
	SeriesDetail(ctx context.Context, url string) (domain.SeriesDetail, error)
	ResolveWatch(ctx context.Context, url string) (domain.Outcome, error)
}

// Limiter 是准入控制的最小契约（ratelimit.Limiter 实现）。
type Limiter interface {
	Allow(identity string) bool
}

// NewRouter 组装全部路由与中间件。
func NewRouter(p Pipeline, limiter Limiter, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(loggingMiddleware(log))
	r.Use(corsMiddleware())
	r.Use(rateLimitMiddleware(limiter))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":   "Akwam API - Production Ready",
			"version":   "2.0",
			"endpoints": []string{"/movies", "/series", "/search", "/movie", "/show", "/watch"},
		})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().Unix()})
	})

	// 分类表是静态快照，不触发任何抓取。
	r.GET("/categories", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "success", "categories": akwam.Genres()})
	})

	r.GET("/movies", listingHandler(p.Movies))
	r.GET("/series", listingHandler(p.Series))

	r.GET("/search", func(c *gin.Context) {
		l, err := p.Search(c.Request.Context(), c.Query("q"), intQuery(c, "page", 1))
		if err != nil {
			writeError(c, err)
			return
		}
		writeListing(c, l)
	})

	r.GET("/movie", func(c *gin.Context) {
		u := c.Query("url")
		if u == "" {
			writeErrorMessage(c, http.StatusBadRequest, "missing url parameter")
			return
		}
		d, err := p.Movie(c.Request.Context(), u)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "type": "movie", "details": d})
	})

	r.GET("/show", func(c *gin.Context) {
		u := c.Query("url")
		if u == "" {
			writeErrorMessage(c, http.StatusBadRequest, "missing url parameter")
			return
		}
		d, err := p.SeriesDetail(c.Request.Context(), u)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "type": "series", "details": d})
	})

	r.GET("/watch", func(c *gin.Context) {
		u := c.Query("url")
		if u == "" {
			writeErrorMessage(c, http.StatusBadRequest, "missing url parameter")
			return
		}
		out, err := p.ResolveWatch(c.Request.Context(), u)
		if err != nil {
			writeError(c, err)
			return
		}
		// success 与 failed 都是“解析完成”，统一 200。
		c.JSON(http.StatusOK, out)
	})

	return r
}

func listingHandler(fn func(ctx context.Context, page, category int) (domain.Listing, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		l, err := fn(c.Request.Context(), intQuery(c, "page", 1), intQuery(c, "category", 0))
		if err != nil {
			writeError(c, err)
			return
		}
		writeListing(c, l)
	}
}

func writeListing(c *gin.Context, l domain.Listing) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"has_next": l.HasNext,
		"count":    l.Count,
		"data":     l.Items,
	})
}

// writeError 把类型化错误映射为状态码 + error 信封。
func writeError(c *gin.Context, err error) {
	msg := err.Error()
	var se *service.Error
	if errors.As(err, &se) {
		msg = se.Msg
	}
	switch service.KindOf(err) {
	case service.KindInvalidInput:
		writeErrorMessage(c, http.StatusBadRequest, msg)
	case service.KindNotFound:
		writeErrorMessage(c, http.StatusNotFound, msg)
	default:
		writeErrorMessage(c, http.StatusInternalServerError, "Error: "+err.Error())
	}
}

func writeErrorMessage(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"status": "error", "message": msg})
}

func rateLimitMiddleware(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "Too many requests. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func loggingMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions collects everything route registration needs. Optional
// middlewares may be nil.
type RouterOptions struct {
	UserAPI      *UserAPI
	PostAPI      *PostAPI
	Auth         gin.HandlerFunc
	CORS         gin.HandlerFunc
	LoginLimiter gin.HandlerFunc
	Web          http.FileSystem // embedded client; nil disables it
}

// RegisterRoutes mounts the public API surface on the engine.
func RegisterRoutes(r *gin.Engine, opts RouterOptions) {
	if opts.CORS != nil {
		r.Use(opts.CORS)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// connectivity probe
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, "Hello World")
	})

	// 公共路由
	r.POST("/register", opts.UserAPI.Register)
	if opts.LoginLimiter != nil {
		r.POST("/login", opts.LoginLimiter, opts.UserAPI.Login)
	} else {
		r.POST("/login", opts.UserAPI.Login)
	}
	r.POST("/logout", opts.UserAPI.Logout)
	r.GET("/post", opts.PostAPI.List)
	r.GET("/post/:id", opts.PostAPI.Get)
	r.GET("/profile/:id", opts.PostAPI.Profile)
	r.GET("/uploads/:name", opts.PostAPI.ServeCover)

	// 私有路由
	private := r.Group("/")
	private.Use(opts.Auth)
	{
		private.GET("/profile", opts.UserAPI.Profile)
		private.POST("/post", opts.PostAPI.Create)
		private.PUT("/post", opts.PostAPI.Update)
		private.PUT("/post/:id/like", opts.PostAPI.Like)
		private.PUT("/post/:id/unlike", opts.PostAPI.Unlike)
		private.DELETE("/post/:id", opts.PostAPI.Delete)
	}

	if opts.Web != nil {
		fileServer := http.FileServer(opts.Web)
		r.NoRoute(func(c *gin.Context) {
			fileServer.ServeHTTP(c.Writer, c.Request)
		})
	}
}

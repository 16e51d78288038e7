package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	v1 "bloggerz/api/v1"
	"bloggerz/config"
	"bloggerz/dao"
	"bloggerz/internal/auth"
	"bloggerz/internal/storage"
	myvalidator "bloggerz/internal/validator"
	"bloggerz/middleware"
	"bloggerz/service"
	"bloggerz/web"
)

func main() {
	// 初始化配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "../"
	}
	config.InitConfig(configPath)
	config.InitRedis()
	cfg := config.GlobalConfig

	// 初始化数据库
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatalf("Mongo connect failed: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Mongo ping failed: %v", err)
	}
	db := client.Database(cfg.Mongo.Database)

	// 初始化 DAO
	userDAO := dao.NewUserDAO(db)
	postDAO := dao.NewPostDAO(db)
	if err := userDAO.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Ensure indexes failed: %v", err)
	}

	// 封面存储后端
	covers, err := newCoverStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Storage init failed: %v", err)
	}

	// 初始化 Service 和 API
	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.Expire)*time.Second)
	userService := service.NewUserService(userDAO, tokens)
	postService := service.NewPostService(postDAO, userDAO, covers)
	userAPI := v1.NewUserAPI(userService, int(cfg.JWT.Expire))
	postAPI := v1.NewPostAPI(postService, covers)

	// 注册自定义校验器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("phone", myvalidator.IsPhone); err != nil {
			panic(err)
		}
	}

	// 初始化路由
	r := gin.Default()
	v1.RegisterRoutes(r, v1.RouterOptions{
		UserAPI:      userAPI,
		PostAPI:      postAPI,
		Auth:         middleware.AuthMiddleware(tokens),
		CORS:         middleware.CORS(cfg.Server.CORSOrigin),
		LoginLimiter: middleware.LoginRateLimiter(config.RedisClient, 5, time.Minute),
		Web:          web.FS(),
	})

	// 启动服务
	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newCoverStore selects the cover backend from config; local disk is the
// default, MinIO serves deployments without durable local storage.
func newCoverStore(ctx context.Context, cfg config.StorageConfig) (storage.CoverStore, error) {
	if cfg.Backend == "minio" {
		m := cfg.Minio
		return storage.NewMinio(ctx, m.Endpoint, m.AccessKey, m.SecretKey, m.Bucket, m.UseSSL)
	}
	dir := cfg.UploadDir
	if dir == "" {
		dir = "uploads"
	}
	return storage.NewLocal(dir)
}

package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	gzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rizkirifandi7/web-silat-be-v2/middleware"
	"github.com/rizkirifandi7/web-silat-be-v2/routes"
	"github.com/rizkirifandi7/web-silat-be-v2/services"
	"github.com/rizkirifandi7/web-silat-be-v2/utils"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	execDir, err := filepath.Abs(filepath.Dir(os.Args[0]))
	if err != nil {
		log.Fatalf("Failed to get exec dir: %v", err)
	}

	// Load config from the working directory first, then fall back to the
	// directory of the binary.
	viper.SetConfigFile("config.yaml")
	if err := viper.ReadInConfig(); err != nil {
		viper.SetConfigFile(filepath.Join(execDir, "config.yaml"))
		if err := viper.ReadInConfig(); err != nil {
			log.Fatalf("Failed to read config: %v", err)
		}
	}

	if err := utils.InitLogger(); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer utils.Log.Sync()

	if err := utils.InitDatabase(
		viper.GetString("mysql.host"),
		viper.GetString("mysql.user"),
		viper.GetString("mysql.password"),
		viper.GetString("mysql.dbname"),
		viper.GetInt("mysql.port"),
	); err != nil {
		utils.Log.Fatal("database connection failed", zap.Error(err))
	}
	if err := utils.MigrateDatabase(); err != nil {
		utils.Log.Fatal("database migration failed", zap.Error(err))
	}

	if err := utils.InitRedis(
		viper.GetString("redis.addr"),
		viper.GetString("redis.password"),
		viper.GetInt("redis.db"),
	); err != nil {
		utils.Log.Fatal("redis connection failed", zap.Error(err))
	}

	middleware.InitAuth(
		viper.GetString("jwt.secret"),
		time.Duration(viper.GetInt("jwt.expires_hours"))*time.Hour,
	)

	gateway := services.NewMidtransClient(services.MidtransConfig{
		ServerKey: viper.GetString("midtrans.server_key"),
		ClientKey: viper.GetString("midtrans.client_key"),
		APIURL:    viper.GetString("midtrans.api_url"),
	}, utils.Log)
	limiter := services.NewLoginLimiter(utils.RDB)

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.SetTrustedProxies([]string{"127.0.0.1"})
	router.Use(gin.Recovery())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(middleware.RequestLogger(utils.Log))

	allowedOrigins := viper.GetStringSlice("cors.origins")
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")

		origin := c.GetHeader("Origin")
		for _, allowed := range allowedOrigins {
			if allowed == "*" || strings.EqualFold(allowed, origin) {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Credentials", "true")
				break
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	apiRoutes := routes.NewAPIRoutes(gateway, limiter, utils.Log)
	apiRoutes.SetupRoutes(router)

	port := viper.GetInt("server.port")
	addr := fmt.Sprintf(":%d", port)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	utils.Log.Info("server starting", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		utils.Log.Fatal("server failed", zap.Error(err))
	}
}

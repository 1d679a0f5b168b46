package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-api/config"
	pginfra "github.com/oksasatya/blog-api/internal/infrastructure/postgres"
	"github.com/oksasatya/blog-api/pkg/helpers"
)

// Process-wide components built in main and read by the router when it wires
// modules. Optional integrations stay nil when not configured.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	db          pginfra.DB
	redisClient *redis.Client
	gcsClient   *storage.Client
	esClient    *elasticsearch.Client
	rabbitPub   *helpers.RabbitPublisher

	jwtManager *helpers.JWTManager
	hasher     *helpers.PasswordHasher
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }

func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger == nil {
		return helpers.NopLogger()
	}
	return logger
}

func SetDB(d pginfra.DB) { db = d }
func GetDB() pginfra.DB  { return db }

func SetRedis(r *redis.Client) { redisClient = r }
func GetRedis() *redis.Client  { return redisClient }

func SetGCS(s *storage.Client) { gcsClient = s }
func GetGCS() *storage.Client  { return gcsClient }

func SetES(c *elasticsearch.Client) { esClient = c }
func GetES() *elasticsearch.Client  { return esClient }

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }

func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

func SetHasher(h *helpers.PasswordHasher) { hasher = h }
func GetHasher() *helpers.PasswordHasher {
	if hasher == nil {
		return helpers.NewPasswordHasher(0)
	}
	return hasher
}

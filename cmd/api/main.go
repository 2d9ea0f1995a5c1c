package main

import (
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/events"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/logging"
	"app/internal/metrics"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.Item{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.User{},
	); err != nil {
		logger.Fatal("db migrate failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	itemRepo := infraRepo.NewItemGormRepository(gormDB)
	txRepo := infraRepo.NewTransactionGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}
	verifier := usecase.NewBcryptPasswordVerifier()
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 15 * time.Minute,
	}

	//売上イベント（KAFKA_BROKERS未設定なら無効）
	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()
	if publisher.Enabled() {
		logger.Info("sale events enabled", zap.String("topic", cfg.KafkaTopic))
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, verifier, issuer, clock)
	invUC := usecase.NewInventoryUsecase(itemRepo)
	txUC := usecase.NewTransactionUsecase(txRepo, itemRepo, publisher, idGen, logger)

	//Handler生成
	authH := handler.NewAuthHandler(authUC)
	invH := handler.NewInventoryHandler(invUC)
	txH := handler.NewTransactionHandler(txUC)

	//Server起動
	m := metrics.NewServerMetrics("api")
	e := server.New(m)
	server.RegisterRoutes(e, cfg, authH, invH, txH)

	addr := ":" + cfg.Port
	logger.Info("api listening", zap.String("addr", addr))
	if err := server.Start(e, addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

package logging

import "go.uber.org/zap"

// New は環境に応じたzapロガーを返す。prodはJSON、それ以外はコンソール。
func New(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

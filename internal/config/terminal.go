package config

import (
	"fmt"
	"os"
	"time"
)

// TerminalConfig はレジ端末（posコマンド）側の設定。
// サーバー側のDB設定は要らない。
type TerminalConfig struct {
	APIBase  string // POS_API_BASE
	Email    string // POS_EMAIL（POS_TOKENが無いときに必須）
	Password string // POS_PASSWORD
	Token    string // POS_TOKEN（指定があればログインを省略）

	TaxRate        float64
	SearchDebounce time.Duration
	ScanInterval   time.Duration
	GoEnv          string
}

func LoadTerminal() (TerminalConfig, error) {
	cfg := TerminalConfig{
		APIBase:  getenv("POS_API_BASE", "http://localhost:8080"),
		Email:    os.Getenv("POS_EMAIL"),
		Password: os.Getenv("POS_PASSWORD"),
		Token:    os.Getenv("POS_TOKEN"),

		TaxRate:        getenvFloat("TAX_RATE", 0.10),
		SearchDebounce: time.Duration(getenvInt("SEARCH_DEBOUNCE_MS", 300)) * time.Millisecond,
		ScanInterval:   time.Duration(getenvInt("SCAN_INTERVAL_MS", 200)) * time.Millisecond,
		GoEnv:          getenv("GO_ENV", "dev"),
	}

	if cfg.Token == "" && (cfg.Email == "" || cfg.Password == "") {
		return TerminalConfig{}, fmt.Errorf("POS_TOKEN or POS_EMAIL/POS_PASSWORD is required")
	}
	if cfg.TaxRate < 0 {
		return TerminalConfig{}, fmt.Errorf("TAX_RATE must be >= 0")
	}

	return cfg, nil
}

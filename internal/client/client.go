package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"app/internal/checkout"

	"go.uber.org/zap"
)

// Config はコラボレータAPIクライアントの設定。
type Config struct {
	BaseURL string
	Token   string        // bearerトークン。Loginで後から差し替えられる
	Timeout time.Duration // 0なら10秒
	Logger  *zap.Logger
}

// Client は在庫検索・取引記録コラボレータへのHTTPクライアント。
// checkout.CatalogSearcher と checkout.SaleRecorder を実装する。
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	logger  *zap.Logger
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// SetToken はログイン後にbearerトークンを差し替える。
func (c *Client) SetToken(token string) {
	c.token = token
}

type errorResponse struct {
	Error string `json:"error"`
}

// APIの商品表現。barcodeはnullのことがある。
type wireItem struct {
	ItemName     string  `json:"item_name"`
	Price        float64 `json:"price"`
	Barcode      *string `json:"barcode"`
	CurrentStock *int64  `json:"current_stock,omitempty"`
}

func (w wireItem) toCatalogItem() checkout.CatalogItem {
	barcode := ""
	if w.Barcode != nil {
		barcode = *w.Barcode
	}
	return checkout.CatalogItem{
		ItemName:     w.ItemName,
		Price:        w.Price,
		Barcode:      barcode,
		CurrentStock: w.CurrentStock,
	}
}

type searchRequest struct {
	Query string `json:"query"`
}

// Search は POST /inventory/search。
// 応答は単一オブジェクトと配列の両形があるので、ここで必ず
// []CatalogItem に正規化してから返す（曖昧さを台帳側へ漏らさない）。
func (c *Client) Search(ctx context.Context, query string) ([]checkout.CatalogItem, error) {
	body, status, err := c.post(ctx, "/inventory/search", searchRequest{Query: query})
	if err != nil {
		return nil, err
	}

	if status == http.StatusNotFound {
		return nil, checkout.ErrLookupNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("inventory search: %s", apiErrorMessage(body, status))
	}

	trimmed := bytes.TrimSpace(body)
	var raw []wireItem
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("inventory search: decode response: %w", err)
		}
	} else {
		var one wireItem
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, fmt.Errorf("inventory search: decode response: %w", err)
		}
		raw = []wireItem{one}
	}

	items := make([]checkout.CatalogItem, 0, len(raw))
	for _, w := range raw {
		items = append(items, w.toCatalogItem())
	}
	return items, nil
}

type recordSaleResponse struct {
	ID        string    `json:"id"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordSale は POST /transactions。成功で取引IDを返す。
func (c *Client) RecordSale(ctx context.Context, sale checkout.SaleRecord) (string, error) {
	body, status, err := c.post(ctx, "/transactions", sale)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return "", fmt.Errorf("record sale: %s", apiErrorMessage(body, status))
	}

	var out recordSaleResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("record sale: decode response: %w", err)
	}
	return out.ID, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Login は認証コラボレータからbearerトークンを得て保持する。
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, status, err := c.post(ctx, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("login: %s", apiErrorMessage(body, status))
	}

	var out loginResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("login: decode response: %w", err)
	}
	c.token = out.AccessToken
	return out.AccessToken, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

// エラーボディの {"error": "..."} を取り出す。壊れていたらステータスで代用。
func apiErrorMessage(body []byte, status int) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		return er.Error
	}
	return http.StatusText(status)
}

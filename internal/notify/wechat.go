package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// WeChat platform error codes we care about.
const (
	errCodeOK           = 0
	errCodeUserRejected = 43101 // user revoked the subscription
)

// WeChatProvider sends mini-program subscribe messages through the platform
// HTTP API. Access tokens are cached until shortly before expiry.
type WeChatProvider struct {
	appID      string
	appSecret  string
	templateID string
	apiBase    string
	client     *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewWeChatProvider(appID, appSecret, templateID, apiBase string) *WeChatProvider {
	return &WeChatProvider{
		appID:      appID,
		appSecret:  appSecret,
		templateID: templateID,
		apiBase:    apiBase,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *WeChatProvider) Name() string { return "wechat" }

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	ErrCode     int    `json:"errcode"`
	ErrMsg      string `json:"errmsg"`
}

func (p *WeChatProvider) token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.accessToken != "" && time.Now().Before(p.tokenExpiry) {
		return p.accessToken, nil
	}

	endpoint := fmt.Sprintf("%s/cgi-bin/token?grant_type=client_credential&appid=%s&secret=%s",
		p.apiBase, url.QueryEscape(p.appID), url.QueryEscape(p.appSecret))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch access token: %w", err)
	}
	defer resp.Body.Close()

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tr.ErrCode != errCodeOK || tr.AccessToken == "" {
		return "", fmt.Errorf("token error %d: %s", tr.ErrCode, tr.ErrMsg)
	}

	p.accessToken = tr.AccessToken
	// Refresh a minute early
	p.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn-60) * time.Second)
	return p.accessToken, nil
}

type sendRequest struct {
	ToUser     string                       `json:"touser"`
	TemplateID string                       `json:"template_id"`
	Data       map[string]map[string]string `json:"data"`
}

type sendResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// Send pushes one subscribe message. The platform's 43101 answer means the
// user revoked consent and surfaces as *RejectedError.
func (p *WeChatProvider) Send(ctx context.Context, msg Message) error {
	token, err := p.token(ctx)
	if err != nil {
		return err
	}

	data := make(map[string]map[string]string, len(msg.Data))
	for k, v := range msg.Data {
		data[k] = map[string]string{"value": v}
	}
	body, err := json.Marshal(sendRequest{
		ToUser:     msg.OpenID,
		TemplateID: p.templateID,
		Data:       data,
	})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/cgi-bin/message/subscribe/send?access_token=%s", p.apiBase, url.QueryEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("send subscribe message: %w", err)
	}
	defer resp.Body.Close()

	var sr sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return fmt.Errorf("decode send response: %w", err)
	}
	switch sr.ErrCode {
	case errCodeOK:
		return nil
	case errCodeUserRejected:
		return &RejectedError{OpenID: msg.OpenID}
	}
	return fmt.Errorf("send error %d: %s", sr.ErrCode, sr.ErrMsg)
}

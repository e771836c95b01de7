// Package apiclient 考勤 REST API 的类型化客户端，供命令行与集成测试使用
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL 本地开发服务地址
const DefaultBaseURL = "http://localhost:5000/api"

// 统一错误提示
const (
	msgServerError = "Server error occurred"
	msgNoResponse  = "No response from server. Please check your connection."
	msgUnexpected  = "An unexpected error occurred"
)

const defaultHTTPTimeout = 30 * time.Second

// Error 规范化后的请求错误
// Status 为 0 表示未收到服务端响应
type Error struct {
	Status  int
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsStatus 判断错误是否为指定 HTTP 状态
func IsStatus(err error, status int) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == status
}

// envelope 服务端统一响应结构
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// Client API 客户端
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
}

// Option 客户端可选配置
type Option func(*Client)

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenStore 指定 Token 存储
func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

// New 创建客户端；baseURL 为空时使用 DefaultBaseURL
func New(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultHTTPTimeout},
		tokens:  &MemoryTokenStore{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tokens 当前 Token 存储
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

// newRequest 构造请求并附加 Bearer Token
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if token, _ := c.tokens.Load(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// send 发送请求；返回 2xx 响应，否则返回 *Error
func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Message: msgNoResponse}
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	return nil, responseError(resp)
}

// do 发送 JSON 请求并把 data 字段解码到 out（out 可为 nil）
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return unexpected(err)
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return unexpected(err)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return unexpected(err)
	}
	return nil
}

// download 获取二进制响应体及服务端建议的文件名
func (c *Client) download(ctx context.Context, path string, query url.Values) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, "", unexpected(err)
	}

	resp, err := c.send(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &Error{Message: msgNoResponse}
	}
	return b, attachmentName(resp.Header.Get("Content-Disposition")), nil
}

// responseError 服务端错误：优先 message，其次 error 字段
func responseError(resp *http.Response) *Error {
	e := &Error{Status: resp.StatusCode, Message: msgServerError}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil {
		e.Code = env.Code
		switch {
		case env.Message != "":
			e.Message = env.Message
		case env.Error != "":
			e.Message = env.Error
		}
	}
	return e
}

func unexpected(err error) *Error {
	if err == nil || err.Error() == "" {
		return &Error{Message: msgUnexpected}
	}
	return &Error{Message: err.Error()}
}

// attachmentName 解析 filename*=UTF-8''xxx 或 filename="xxx"
func attachmentName(header string) string {
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "filename*=UTF-8''"):
			name, err := url.QueryUnescape(strings.TrimPrefix(part, "filename*=UTF-8''"))
			if err == nil {
				return name
			}
		case strings.HasPrefix(part, "filename="):
			return strings.Trim(strings.TrimPrefix(part, "filename="), `"`)
		}
	}
	return ""
}

// ── 泛型请求 ──

// BaseService 各业务客户端共用的路径前缀与客户端
type BaseService struct {
	client *Client
	prefix string
}

func (s BaseService) path(p string) string {
	return s.prefix + p
}

// Get 发送 GET 并解码 data
func Get[T any](ctx context.Context, s BaseService, path string, query url.Values) (T, error) {
	var out T
	err := s.client.do(ctx, http.MethodGet, s.path(path), query, nil, &out)
	return out, err
}

// Post 发送 POST 并解码 data
func Post[T any](ctx context.Context, s BaseService, path string, body interface{}) (T, error) {
	var out T
	err := s.client.do(ctx, http.MethodPost, s.path(path), nil, body, &out)
	return out, err
}

// Put 发送 PUT 并解码 data
func Put[T any](ctx context.Context, s BaseService, path string, body interface{}) (T, error) {
	var out T
	err := s.client.do(ctx, http.MethodPut, s.path(path), nil, body, &out)
	return out, err
}

// Patch 发送 PATCH 并解码 data
func Patch[T any](ctx context.Context, s BaseService, path string, body interface{}) (T, error) {
	var out T
	err := s.client.do(ctx, http.MethodPatch, s.path(path), nil, body, &out)
	return out, err
}

// Delete 发送 DELETE 并解码 data
func Delete[T any](ctx context.Context, s BaseService, path string) (T, error) {
	var out T
	err := s.client.do(ctx, http.MethodDelete, s.path(path), nil, nil, &out)
	return out, err
}

func idPath(format string, ids ...uint) string {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}

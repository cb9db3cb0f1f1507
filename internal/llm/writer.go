package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/wonny/fsa/backend/pkg/httputil"
	"github.com/wonny/fsa/backend/pkg/logger"
)

// minPromptLength guards against calling the model with an empty or
// truncated data prompt
const minPromptLength = 100

const systemPrompt = "你是一个专业的财务分析师和技术写作专家。"

const userPromptTemplate = `请根据以下财务数据撰写一份综合分析报告。

数据：
%s

要求：
1. 使用Markdown格式
2. 包含数据表格
3. 引用具体数字支撑分析
4. 结构清晰，逻辑连贯
5. 字数3000-5000字

请撰写完整的分析报告。`

// ErrPromptTooShort rejects prompts that cannot carry a full data section
var ErrPromptTooShort = errors.New("prompt must carry the full data section")

// Writer generates markdown analysis articles through an OpenAI-compatible
// chat completions endpoint.
// ⭐ SSOT: LLM 기사 생성 호출은 여기서만
type Writer struct {
	httpClient *httputil.Client
	log        *logger.Logger
	cfg        *WriterConfig
	outputDir  string
}

func NewWriter(httpClient *httputil.Client, log *logger.Logger, cfg *WriterConfig, outputDir string) *Writer {
	return &Writer{
		httpClient: httpClient,
		log:        log.WithField("component", "llm_writer"),
		cfg:        cfg,
		outputDir:  outputDir,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// WriteArticle generates the analysis article from the assembled data
// prompt and saves it under <outputDir>/<symbol>/ with a timestamped name.
func (w *Writer) WriteArticle(ctx context.Context, symbol, dataPrompt string) (string, error) {
	if len(dataPrompt) < minPromptLength {
		return "", ErrPromptTooShort
	}

	w.log.WithField("symbol", symbol).Info("generating article")

	req := chatRequest{
		Model: w.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(userPromptTemplate, dataPrompt)},
		},
		Temperature: w.cfg.Temperature,
		MaxTokens:   w.cfg.MaxTokens,
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(w.cfg.TimeoutSec)*time.Second)
	defer cancel()

	url := w.cfg.APIBase + "/chat/completions"
	httpResp, err := w.httpClient.PostJSON(ctx, url, w.cfg.APIKey, req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer httpResp.Body.Close()

	var resp chatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("decode chat completion: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		msg := "unknown error"
		if resp.Error != nil {
			msg = resp.Error.Message
		}
		return "", fmt.Errorf("chat completion status %d: %s", httpResp.StatusCode, msg)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("chat completion returned no content")
	}

	article := resp.Choices[0].Message.Content
	w.log.WithFields(map[string]interface{}{
		"symbol": symbol,
		"length": len(article),
	}).Info("article generated")

	path, err := w.saveArticle(symbol, article)
	if err != nil {
		return "", err
	}
	return path, nil
}

// saveArticle writes the article with a timestamped filename so repeated
// runs never overwrite each other
func (w *Writer) saveArticle(symbol, article string) (string, error) {
	dir := filepath.Join(w.outputDir, symbol)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create article dir: %w", err)
	}

	name := fmt.Sprintf("%s_AI生成综合分析报告_%s.md", symbol, time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(article), 0o644); err != nil {
		return "", fmt.Errorf("write article: %w", err)
	}

	w.log.WithField("path", path).Info("article saved")
	return path, nil
}

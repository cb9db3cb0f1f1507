package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wonny/fsa/backend/pkg/config"
	"github.com/wonny/fsa/backend/pkg/httputil"
	"github.com/wonny/fsa/backend/pkg/logger"
)

func testLog() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("LLM_TEST_KEY", "secret")

	if got := substituteEnvVars("${LLM_TEST_KEY}"); got != "secret" {
		t.Errorf("got %q", got)
	}
	if got := substituteEnvVars("prefix-${LLM_TEST_KEY}-suffix"); got != "prefix-secret-suffix" {
		t.Errorf("got %q", got)
	}
	// Unknown vars stay literal
	if got := substituteEnvVars("${LLM_NO_SUCH_VAR}"); got != "${LLM_NO_SUCH_VAR}" {
		t.Errorf("got %q", got)
	}
}

func TestLoadWriterConfig(t *testing.T) {
	t.Setenv("LLM_TEST_API_KEY", "from-env")

	path := filepath.Join(t.TempDir(), "llm_config.yaml")
	yaml := `
writer_model: test-model
writer_api_key: ${LLM_TEST_API_KEY}
writer_temperature: 0.3
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{LLM: config.LLMConfig{ConfigFile: path, BaseURL: "https://example.com/api/v3"}}
	wc, err := LoadWriterConfig(cfg)
	if err != nil {
		t.Fatalf("LoadWriterConfig error: %v", err)
	}

	if wc.Model != "test-model" {
		t.Errorf("Model = %q", wc.Model)
	}
	if wc.APIKey != "from-env" {
		t.Errorf("APIKey = %q", wc.APIKey)
	}
	if wc.Temperature != 0.3 {
		t.Errorf("Temperature = %v", wc.Temperature)
	}
	// Untouched fields keep defaults
	if wc.MaxTokens != 8000 {
		t.Errorf("MaxTokens = %d", wc.MaxTokens)
	}
}

func TestLoadWriterConfigMissingFile(t *testing.T) {
	cfg := &config.Config{LLM: config.LLMConfig{
		ConfigFile: "/nonexistent/llm_config.yaml",
		Model:      "fallback-model",
	}}
	wc, err := LoadWriterConfig(cfg)
	if err != nil {
		t.Fatalf("missing file must fall back to defaults, got %v", err)
	}
	if wc.Model != "fallback-model" {
		t.Errorf("Model = %q", wc.Model)
	}
}

func TestWriteArticle(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("auth = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "# 分析报告\n\n内容"}},
			},
		})
	}))
	defer srv.Close()

	outputDir := t.TempDir()
	writer := NewWriter(
		httputil.New(testLog(), 5*time.Second).DisableRetry(),
		testLog(),
		&WriterConfig{Model: "test-model", APIBase: srv.URL, APIKey: "test-key", Temperature: 0.7, MaxTokens: 8000, TimeoutSec: 5},
		outputDir,
	)

	prompt := strings.Repeat("数据 ", 50)
	path, err := writer.WriteArticle(context.Background(), "600519", prompt)
	if err != nil {
		t.Fatalf("WriteArticle error: %v", err)
	}

	if gotReq.Model != "test-model" {
		t.Errorf("request model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("unexpected messages: %+v", gotReq.Messages)
	}
	if !strings.Contains(gotReq.Messages[1].Content, "请根据以下财务数据撰写一份综合分析报告") {
		t.Error("user prompt missing template")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read article: %v", err)
	}
	if string(data) != "# 分析报告\n\n内容" {
		t.Errorf("article content = %q", data)
	}
	if !strings.HasPrefix(filepath.Base(path), "600519_AI生成综合分析报告_") {
		t.Errorf("unexpected article name %s", path)
	}
}

func TestWriteArticleShortPrompt(t *testing.T) {
	writer := NewWriter(nil, testLog(), &WriterConfig{TimeoutSec: 5}, t.TempDir())

	if _, err := writer.WriteArticle(context.Background(), "600519", "too short"); err != ErrPromptTooShort {
		t.Errorf("err = %v, want ErrPromptTooShort", err)
	}
}

func TestBuildDataPrompt(t *testing.T) {
	outputDir := t.TempDir()
	dir := filepath.Join(outputDir, "600519")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "600519_analysis_report.md"), []byte("# 报告"), 0o644); err != nil {
		t.Fatal(err)
	}
	// CSVs are excluded from the prompt
	if err := os.WriteFile(filepath.Join(dir, "600519_data.csv"), []byte("a,b"), 0o644); err != nil {
		t.Fatal(err)
	}

	prompt, err := BuildDataPrompt(outputDir, "600519")
	if err != nil {
		t.Fatalf("BuildDataPrompt error: %v", err)
	}
	if !strings.Contains(prompt, "以下是具体的计算数据") {
		t.Error("prompt missing header")
	}
	if !strings.Contains(prompt, "--- 文件: 600519_analysis_report.md ---") {
		t.Error("prompt missing report section")
	}
	if strings.Contains(prompt, "a,b") {
		t.Error("CSV content must not leak into the prompt")
	}
}

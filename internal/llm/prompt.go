package llm

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// BuildDataPrompt assembles the article data prompt from the generated
// markdown reports under <outputDir>/<symbol>/. Raw statement CSVs are
// deliberately excluded: the full three-statement dump blows past the
// model's useful context and degrades the output.
func BuildDataPrompt(outputDir, symbol string) (string, error) {
	dir := filepath.Join(outputDir, symbol)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read report dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "", fmt.Errorf("no markdown reports for %s", symbol)
	}

	var b strings.Builder
	b.WriteString("以下是具体的计算数据\n")
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		fmt.Fprintf(&b, "\n--- 文件: %s ---\n%s\n", name, content)
	}
	return b.String(), nil
}

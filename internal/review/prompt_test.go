package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/critic/internal/loader"
)

func TestBuildPrompt(t *testing.T) {
	files := []loader.ChangedFile{
		{Path: "src/Main.java", Content: "class Main {}\n", LineCount: 1},
		{Path: "scripts/run.sh", Content: "echo hi", LineCount: 1},
	}

	prompt := BuildPrompt(files)

	assert.Contains(t, prompt, "### File: src/Main.java\n```java\nclass Main {}\n```")
	assert.Contains(t, prompt, "### File: scripts/run.sh\n```bash\necho hi\n```")
	assert.Less(t, strings.Index(prompt, "src/Main.java"), strings.Index(prompt, "scripts/run.sh"))
	assert.Contains(t, prompt, "Languages: Java, Shell")

	for _, want := range []string{`"overall_score"`, `"severity": "critical|high|medium|low|info"`, `"best-practice"`, "Security", "Performance"} {
		assert.Contains(t, prompt, want)
	}
}

func TestBuildPrompt_UnknownExtension(t *testing.T) {
	prompt := BuildPrompt([]loader.ChangedFile{{Path: "Makefile", Content: "all:"}})
	assert.Contains(t, prompt, "### File: Makefile\n```\nall:\n```")
	assert.NotContains(t, prompt, "Languages:")
}

func TestFenceLanguage(t *testing.T) {
	tests := map[string]string{
		"main.go":     "go",
		"App.JAVA":    "java",
		"index.tsx":   "tsx",
		"deploy.yml":  "yaml",
		"README":      "",
		"notes.txt":   "",
		"infra/x.tf":  "hcl",
		"lib/util.py": "python",
	}
	for path, want := range tests {
		assert.Equal(t, want, FenceLanguage(path), path)
	}
}

package review

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dshills/critic/internal/loader"
)

const instructions = `For each file, evaluate:

1. **Code quality** (score 0-10):
   - Language conventions (naming, formatting)
   - Readability and maintainability
   - Complexity and architecture

2. **Potential bugs and errors**:
   - Possible null or nil dereferences
   - Resource and memory leaks
   - Incorrect exception or error handling
   - Concurrency hazards (race conditions, deadlocks)

3. **Security**:
   - Injection (SQL, command, template)
   - XSS and other OWASP vulnerabilities
   - Handling of sensitive data
   - Input validation

4. **Performance**:
   - Expensive operations
   - Possible optimisations
   - Inefficient use of collections

5. **Idiomatic usage**:
   - Use of the language's standard idioms and libraries
   - Resource management (closing files, connections, streams)
   - Immutability where appropriate
   - Appropriate design patterns

6. **Tests**:
   - Is the code testable?
   - Suggested coverage

Respond with JSON using exactly this structure:
{
  "summary": "Overall summary of the review",
  "overall_score": <score 0-100>,
  "files": [
    {
      "path": "path/to/file",
      "score": <0-10>,
      "issues": [
        {
          "severity": "critical|high|medium|low|info",
          "category": "bug|security|performance|style|best-practice",
          "line": <line number or null>,
          "title": "Short title",
          "description": "Detailed description",
          "suggestion": "How to fix it"
        }
      ],
      "strengths": ["Positive points..."],
      "recommendations": ["General recommendations..."]
    }
  ]
}

List the files in the same order they were given. Be precise and constructive, and include code examples where relevant.`

// BuildPrompt embeds every file as a fenced code block followed by the
// review instructions and the requested JSON structure.
func BuildPrompt(files []loader.ChangedFile) string {
	var b strings.Builder

	b.WriteString("You are an expert code reviewer. Analyse the following code and produce a detailed report.\n\n")

	if langs := detectLanguages(files); len(langs) > 0 {
		fmt.Fprintf(&b, "Languages: %s\n\n", strings.Join(langs, ", "))
	}

	for i, f := range files {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "### File: %s\n```%s\n%s\n```", f.Path, FenceLanguage(f.Path), strings.TrimRight(f.Content, "\n"))
	}

	b.WriteString("\n\n")
	b.WriteString(instructions)
	return b.String()
}

var languages = map[string]struct{ name, fence string }{
	".go":    {"Go", "go"},
	".py":    {"Python", "python"},
	".js":    {"JavaScript", "javascript"},
	".ts":    {"TypeScript", "typescript"},
	".tsx":   {"TypeScript/React", "tsx"},
	".jsx":   {"JavaScript/React", "jsx"},
	".rs":    {"Rust", "rust"},
	".java":  {"Java", "java"},
	".kt":    {"Kotlin", "kotlin"},
	".rb":    {"Ruby", "ruby"},
	".cpp":   {"C++", "cpp"},
	".c":     {"C", "c"},
	".h":     {"C/C++", "c"},
	".cs":    {"C#", "csharp"},
	".php":   {"PHP", "php"},
	".swift": {"Swift", "swift"},
	".scala": {"Scala", "scala"},
	".sql":   {"SQL", "sql"},
	".sh":    {"Shell", "bash"},
	".yaml":  {"YAML", "yaml"},
	".yml":   {"YAML", "yaml"},
	".json":  {"JSON", "json"},
	".xml":   {"XML", "xml"},
	".tf":    {"Terraform", "hcl"},
}

// FenceLanguage returns the Markdown code-fence language for path, or "".
func FenceLanguage(path string) string {
	return languages[strings.ToLower(filepath.Ext(path))].fence
}

// detectLanguages lists the languages present, in first-seen order.
func detectLanguages(files []loader.ChangedFile) []string {
	seen := make(map[string]bool)
	var langs []string
	for _, f := range files {
		lang := languages[strings.ToLower(filepath.Ext(f.Path))].name
		if lang != "" && !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}
	return langs
}

package lang

// Category groups languages by their usual role in a project.
type Category string

const (
	CategoryFrontend    Category = "frontend"
	CategoryBackend     Category = "backend"
	CategoryMobile      Category = "mobile"
	CategoryDataScience Category = "data"
	CategoryMarkup      Category = "markup"
	CategoryConfig      Category = "config"
	CategoryGeneral     Category = "general"
)

// extensionTable maps lowercased file extensions to language names.
var extensionTable = map[string]string{
	".py":       "Python",
	".pyw":      "Python",
	".js":       "JavaScript",
	".mjs":      "JavaScript",
	".cjs":      "JavaScript",
	".jsx":      "JavaScript",
	".ts":       "TypeScript",
	".tsx":      "TypeScript",
	".java":     "Java",
	".cpp":      "C++",
	".cc":       "C++",
	".cxx":      "C++",
	".hpp":      "C++",
	".hxx":      "C++",
	".c":        "C",
	".h":        "C",
	".cs":       "C#",
	".csx":      "C#",
	".php":      "PHP",
	".phtml":    "PHP",
	".rb":       "Ruby",
	".rbw":      "Ruby",
	".go":       "Go",
	".rs":       "Rust",
	".swift":    "Swift",
	".kt":       "Kotlin",
	".kts":      "Kotlin",
	".scala":    "Scala",
	".dart":     "Dart",
	".r":        "R",
	".sh":       "Shell",
	".bash":     "Shell",
	".zsh":      "Shell",
	".fish":     "Shell",
	".ps1":      "PowerShell",
	".psm1":     "PowerShell",
	".html":     "HTML",
	".htm":      "HTML",
	".css":      "CSS",
	".scss":     "CSS",
	".sass":     "CSS",
	".less":     "CSS",
	".sql":      "SQL",
	".json":     "JSON",
	".xml":      "XML",
	".yml":      "YAML",
	".yaml":     "YAML",
	".toml":     "TOML",
	".md":       "Markdown",
	".markdown": "Markdown",
	".vue":      "Vue",
	".svelte":   "Svelte",
}

// specialFiles maps exact basenames to languages that have no
// distinguishing extension.
var specialFiles = map[string]string{
	"Dockerfile":     "Dockerfile",
	"dockerfile":     "Dockerfile",
	"Makefile":       "Makefile",
	"makefile":       "Makefile",
	"GNUmakefile":    "Makefile",
	"CMakeLists.txt": "CMake",
	"Gemfile":        "Ruby",
	"Rakefile":       "Ruby",
	"Pipfile":        "TOML",
	"go.mod":         "Go Module",
	"go.sum":         "Go Module",
}

// shebangTable maps interpreter names found on a #! line to languages.
var shebangTable = map[string]string{
	"python":  "Python",
	"python3": "Python",
	"node":    "JavaScript",
	"ruby":    "Ruby",
	"sh":      "Shell",
	"bash":    "Shell",
	"zsh":     "Shell",
	"perl":    "Perl",
}

// categories classifies languages for reporting.
var categories = map[string]Category{
	"HTML":       CategoryMarkup,
	"CSS":        CategoryFrontend,
	"JavaScript": CategoryFrontend,
	"TypeScript": CategoryFrontend,
	"Vue":        CategoryFrontend,
	"Svelte":     CategoryFrontend,
	"Python":     CategoryBackend,
	"Java":       CategoryBackend,
	"C#":         CategoryBackend,
	"PHP":        CategoryBackend,
	"Ruby":       CategoryBackend,
	"Go":         CategoryBackend,
	"Rust":       CategoryBackend,
	"Swift":      CategoryMobile,
	"Kotlin":     CategoryMobile,
	"Dart":       CategoryMobile,
	"R":          CategoryDataScience,
	"SQL":        CategoryDataScience,
	"JSON":       CategoryConfig,
	"YAML":       CategoryConfig,
	"TOML":       CategoryConfig,
	"XML":        CategoryConfig,
	"Markdown":   CategoryMarkup,
}

// CategoryOf returns the reporting category for a language.
func CategoryOf(language string) Category {
	if c, ok := categories[language]; ok {
		return c
	}
	return CategoryGeneral
}

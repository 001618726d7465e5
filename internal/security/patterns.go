package security

import "regexp"

// Pattern defines one line-level detection signature.
type Pattern struct {
	Name        string
	Category    Category
	Severity    Severity
	Regex       *regexp.Regexp
	MinEntropy  float64 // Minimum entropy of the captured value (0 = disabled)
	Extensions  []string
	Description string
}

// secretExts are the file types scanned for hardcoded secrets.
var secretExts = []string{".py", ".js", ".ts", ".env", ".json", ".yaml", ".yml", ".toml", ".go"}

// codeExts are the file types scanned for dangerous calls.
var codeExts = []string{".py", ".js", ".ts", ".php", ".java", ".go"}

// BuiltinPatterns contains all builtin detection signatures. Severity
// is fixed per signature.
var BuiltinPatterns = []Pattern{
	// ============ Hardcoded secrets (assignment style) ============
	{
		Name:        "password",
		Category:    CategorySecret,
		Severity:    SeverityHigh,
		Regex:       regexp.MustCompile(`(?i)(?:password|passwd|pwd)\s*[=:]\s*["']?([^"'\s]+)["']?`),
		MinEntropy:  2.5,
		Extensions:  secretExts,
		Description: "Potential hardcoded password",
	},
	{
		Name:        "api_key",
		Category:    CategorySecret,
		Severity:    SeverityHigh,
		Regex:       regexp.MustCompile(`(?i)(?:api[_-]?key|apikey)\s*[=:]\s*["']?([^"'\s]+)["']?`),
		MinEntropy:  2.5,
		Extensions:  secretExts,
		Description: "Potential hardcoded API key",
	},
	{
		Name:        "secret",
		Category:    CategorySecret,
		Severity:    SeverityHigh,
		Regex:       regexp.MustCompile(`(?i)(?:secret|secret_key)\s*[=:]\s*["']?([^"'\s]+)["']?`),
		MinEntropy:  2.5,
		Extensions:  secretExts,
		Description: "Potential hardcoded secret",
	},
	{
		Name:        "token",
		Category:    CategorySecret,
		Severity:    SeverityHigh,
		Regex:       regexp.MustCompile(`(?i)(?:access_token|bearer_token|auth_token)\s*[=:]\s*["']?([^"'\s]+)["']?`),
		MinEntropy:  2.5,
		Extensions:  secretExts,
		Description: "Potential hardcoded token",
	},
	{
		Name:        "database_url",
		Category:    CategorySecret,
		Severity:    SeverityHigh,
		Regex:       regexp.MustCompile(`(?i)(?:database[_-]?url|db[_-]?url)\s*[=:]\s*["']?(\w+://[^"'\s]+)["']?`),
		Extensions:  secretExts,
		Description: "Potential hardcoded database URL",
	},

	// ============ Provider key formats ============
	{
		Name:        "aws_access_key_id",
		Category:    CategorySecret,
		Severity:    SeverityHigh,
		Regex:       regexp.MustCompile(`(?:^|[^A-Z0-9])(AKIA[A-Z0-9]{16})(?:[^A-Z0-9]|$)`),
		Extensions:  secretExts,
		Description: "AWS Access Key ID",
	},
	{
		Name:        "github_pat",
		Category:    CategorySecret,
		Severity:    SeverityHigh,
		Regex:       regexp.MustCompile(`(ghp_[A-Za-z0-9]{36,})`),
		Extensions:  secretExts,
		Description: "GitHub Personal Access Token",
	},
	{
		Name:        "google_api_key",
		Category:    CategorySecret,
		Severity:    SeverityHigh,
		Regex:       regexp.MustCompile(`(AIza[A-Za-z0-9_-]{35})`),
		Extensions:  secretExts,
		Description: "Google API Key",
	},
	{
		Name:        "stripe_live_secret",
		Category:    CategorySecret,
		Severity:    SeverityHigh,
		Regex:       regexp.MustCompile(`(sk_live_[A-Za-z0-9]{24,})`),
		Extensions:  secretExts,
		Description: "Stripe Live Secret Key",
	},
	{
		Name:        "private_key_pem",
		Category:    CategorySecret,
		Severity:    SeverityHigh,
		Regex:       regexp.MustCompile(`-----BEGIN (?:RSA |EC |OPENSSH |DSA )?PRIVATE KEY-----`),
		Description: "Private key material",
	},

	// ============ Dangerous calls ============
	{
		Name:        "eval",
		Category:    CategoryDangerousCall,
		Severity:    SeverityHigh,
		Regex:       regexp.MustCompile(`\beval\s*\(`),
		Extensions:  codeExts,
		Description: "eval() on dynamic input executes arbitrary code",
	},
	{
		Name:        "exec",
		Category:    CategoryDangerousCall,
		Severity:    SeverityHigh,
		Regex:       regexp.MustCompile(`\bexec\s*\(`),
		Extensions:  []string{".py"},
		Description: "exec() executes arbitrary code",
	},
	{
		Name:        "pickle_load",
		Category:    CategoryDangerousCall,
		Severity:    SeverityHigh,
		Regex:       regexp.MustCompile(`pickle\.loads?\s*\(`),
		Extensions:  []string{".py"},
		Description: "Unpickling untrusted data executes arbitrary code",
	},
	{
		Name:        "os_system",
		Category:    CategoryDangerousCall,
		Severity:    SeverityMedium,
		Regex:       regexp.MustCompile(`os\.system\s*\(`),
		Extensions:  []string{".py"},
		Description: "os.system() invokes a shell",
	},
	{
		Name:        "subprocess_call",
		Category:    CategoryDangerousCall,
		Severity:    SeverityMedium,
		Regex:       regexp.MustCompile(`subprocess\.(?:call|run|Popen)`),
		Extensions:  []string{".py"},
		Description: "Subprocess invocation",
	},
	{
		Name:        "shell_true",
		Category:    CategoryDangerousCall,
		Severity:    SeverityMedium,
		Regex:       regexp.MustCompile(`shell\s*=\s*True`),
		Extensions:  []string{".py"},
		Description: "shell=True enables shell injection",
	},
	{
		Name:        "yaml_load",
		Category:    CategoryDangerousCall,
		Severity:    SeverityMedium,
		Regex:       regexp.MustCompile(`yaml\.load\s*\(`),
		Extensions:  []string{".py"},
		Description: "yaml.load without SafeLoader can construct objects",
	},
	{
		Name:        "sql_format",
		Category:    CategoryDangerousCall,
		Severity:    SeverityMedium,
		Regex:       regexp.MustCompile(`execute\s*\(\s*["'].*%s.*["']`),
		Extensions:  codeExts,
		Description: "String-formatted SQL invites injection",
	},
	{
		Name:        "inner_html",
		Category:    CategoryDangerousCall,
		Severity:    SeverityMedium,
		Regex:       regexp.MustCompile(`innerHTML\s*=`),
		Extensions:  []string{".js", ".ts"},
		Description: "innerHTML assignment invites XSS",
	},

	// ============ Weak crypto ============
	{
		Name:        "weak_hash_md5",
		Category:    CategoryWeakCrypto,
		Severity:    SeverityMedium,
		Regex:       regexp.MustCompile(`(?i)\bmd5\s*\(|hashlib\.md5|crypto/md5`),
		Extensions:  codeExts,
		Description: "MD5 is broken for integrity and signatures",
	},
	{
		Name:        "weak_hash_sha1",
		Category:    CategoryWeakCrypto,
		Severity:    SeverityMedium,
		Regex:       regexp.MustCompile(`(?i)\bsha1\s*\(|hashlib\.sha1|crypto/sha1`),
		Extensions:  codeExts,
		Description: "SHA-1 is deprecated for signatures",
	},
	{
		Name:        "weak_cipher_des",
		Category:    CategoryWeakCrypto,
		Severity:    SeverityMedium,
		Regex:       regexp.MustCompile(`(?i)\bDES\.new\s*\(|crypto/des`),
		Extensions:  codeExts,
		Description: "DES key size is trivially brute-forced",
	},
}

// GetPatternByName returns a pattern by name, or nil.
func GetPatternByName(name string) *Pattern {
	for i := range BuiltinPatterns {
		if BuiltinPatterns[i].Name == name {
			return &BuiltinPatterns[i]
		}
	}
	return nil
}

package rules

import "github.com/deepsweep-ai/deepsweep/internal/model"

// Rule-file surfaces shared by most instruction-file rules.
var instructionFiles = []string{
	".cursorrules",
	".cursor/rules/*",
	"CLAUDE.md",
	"AGENTS.md",
	"GEMINI.md",
	".windsurfrules",
	".clinerules",
	"copilot-instructions.md",
}

// MCP server manifests.
var mcpFiles = []string{
	"mcp.json",
	"mcp-config.json",
	"claude_desktop_config.json",
	"*.mcp.json",
	"*.mcp.yaml",
	"*.mcp.yml",
}

const (
	refPromptInjection = "https://owasp.org/www-project-top-10-for-large-language-model-applications/"
	refMCPTools        = "https://modelcontextprotocol.io/docs/concepts/tools"
)

// Builtins returns the curated built-in rule set. The returned slice is
// fresh on every call; compilation happens in NewSet.
func Builtins() []Rule {
	return []Rule{
		// Prompt injection.
		{
			ID:          "DS-PI-001",
			Name:        "Instruction Override Pattern",
			Severity:    model.SeverityCritical,
			Pattern:     `(ignore|disregard|forget|override).{0,30}(previous|prior|above|earlier|all).{0,30}(instruction|rule|directive|command|prompt)`,
			AppliesTo:   instructionFiles,
			Remediation: "Remove instruction override phrasing from assistant configuration files.",
			References:  []string{"CVE-2025-53773", refPromptInjection},
		},
		{
			ID:          "DS-PI-002",
			Name:        "Auto-Accept Mode Activation",
			Severity:    model.SeverityCritical,
			Pattern:     `(yolo|auto.?accept|auto.?approve|auto.?execute|no.?confirm|skip.?confirm|always.?approve|disable.?prompt)`,
			AppliesTo:   instructionFiles,
			Remediation: "Never enable auto-accept modes; require user confirmation for shell commands.",
			References:  []string{"CVE-2025-53773"},
		},
		{
			ID:            "DS-PI-003",
			Name:          "Zero-Width Character Injection",
			Severity:      model.SeverityCritical,
			Pattern:       `[\x{200B}\x{200C}\x{200D}\x{2060}\x{FEFF}]`,
			CaseSensitive: true,
			AppliesTo:     append(append([]string{}, instructionFiles...), mcpFiles...),
			Remediation:   "Remove invisible Unicode characters; they can hide instructions from human review.",
			References:    []string{"CVE-2025-53774"},
		},
		{
			ID:            "DS-PI-004",
			Name:          "Bidirectional Text Override",
			Severity:      model.SeverityHigh,
			Pattern:       `[\x{202A}-\x{202E}\x{2066}-\x{2069}]`,
			CaseSensitive: true,
			AppliesTo:     append(append([]string{}, instructionFiles...), mcpFiles...),
			Remediation:   "Remove right-to-left override characters that disguise text direction.",
			References:    []string{"CVE-2025-53774"},
		},
		{
			ID:          "DS-PI-005",
			Name:        "Jailbreak Pattern",
			Severity:    model.SeverityHigh,
			Pattern:     `(\bDAN\b|do anything now|jailbreak|uncensored|no.?restrictions|bypass.{0,20}(filter|safety|restriction))`,
			AppliesTo:   instructionFiles,
			Remediation: "Remove jailbreak phrasing; it attempts to bypass assistant safety measures.",
			References:  []string{refPromptInjection},
		},
		{
			ID:          "DS-PI-006",
			Name:        "Role Impersonation",
			Severity:    model.SeverityHigh,
			Pattern:     `(you are now|act as|pretend to be|roleplay as|assume the role|from now on you).{0,30}(unrestricted|unlimited|without limit|no filter|admin|root|system)`,
			AppliesTo:   instructionFiles,
			Remediation: "Remove role impersonation instructions; the assistant should not assume privileged identities.",
			References:  []string{refPromptInjection},
		},
		{
			ID:          "DS-PI-007",
			Name:        "Prompt Leaking Attempt",
			Severity:    model.SeverityMedium,
			Pattern:     `(reveal|show|print|display|output|repeat).{0,20}(system prompt|initial instruction|original prompt|hidden instruction)`,
			AppliesTo:   instructionFiles,
			Remediation: "Remove system prompt extraction attempts.",
		},
		{
			ID:          "DS-PI-008",
			Name:        "Encoded Payload Execution",
			Severity:    model.SeverityMedium,
			Pattern:     `(execute|run|eval|decode).{0,20}base64|base64.{0,10}(decode|execute)`,
			AppliesTo:   instructionFiles,
			Remediation: "Review and remove instructions that decode and execute encoded content.",
		},

		// Data exfiltration.
		{
			ID:          "DS-EX-001",
			Name:        "DNS Exfiltration Pattern",
			Severity:    model.SeverityCritical,
			Pattern:     `(nslookup|dig|host)\s+.{0,50}\$|(\$\{?\w+\}?)\.(burp|oast|interact|dnslog|ceye|requestbin)`,
			AppliesTo:   append(append([]string{}, instructionFiles...), "*.sh"),
			Remediation: "Remove DNS lookup commands with variable interpolation.",
			References:  []string{"CVE-2025-55284"},
		},
		{
			ID:          "DS-EX-002",
			Name:        "HTTP Callback Exfiltration",
			Severity:    model.SeverityCritical,
			Pattern:     `(curl|wget|fetch)\s.{0,50}(burp|oast|interact|requestbin|pipedream|hookbin|ngrok|webhook\.site)`,
			AppliesTo:   instructionFiles,
			Remediation: "Remove HTTP callbacks to out-of-band collaborator services.",
			References:  []string{"CVE-2025-55284"},
		},
		{
			ID:          "DS-EX-003",
			Name:        "Environment Variable Exposure",
			Severity:    model.SeverityHigh,
			Pattern:     `(env|printenv|echo\s+\$\w+).{0,30}(curl|wget|nc\b|netcat|\|)`,
			AppliesTo:   append(append([]string{}, instructionFiles...), "*.sh"),
			Remediation: "Remove commands that pipe environment variables to external tools.",
			References:  []string{"CVE-2025-55284"},
		},
		{
			ID:          "DS-EX-004",
			Name:        "Credential File Access",
			Severity:    model.SeverityHigh,
			Pattern:     `(cat|type|read|load|open|include).{0,30}(\.env\b|\.aws|credentials|\.ssh|id_rsa|\.netrc|\.npmrc|\.pypirc)`,
			AppliesTo:   instructionFiles,
			Remediation: "Remove instructions that read credential files.",
		},
		{
			ID:          "DS-EX-005",
			Name:        "Git Credential Extraction",
			Severity:    model.SeverityHigh,
			Pattern:     `git\s+(credential|config).{0,30}(fill|get|store|helper)|\.git-credentials`,
			AppliesTo:   instructionFiles,
			Remediation: "Remove git credential access patterns.",
		},

		// Destructive operations.
		{
			ID:          "DS-DO-001",
			Name:        "Recursive Delete Command",
			Severity:    model.SeverityCritical,
			Pattern:     `rm\s+(-rf|-fr|--force\s+--recursive)|del\s+/[sS]\s+/[qQ]|Remove-Item\s+.*-Recurse\s+.*-Force`,
			AppliesTo:   instructionFiles,
			Remediation: "Remove mass deletion commands from assistant instructions.",
			References:  []string{"CVE-2025-8217"},
		},
		{
			ID:          "DS-DO-002",
			Name:        "Disk Wipe Command",
			Severity:    model.SeverityCritical,
			Pattern:     `(dd\s+if=/dev/zero|mkfs\.|diskpart|wipefs|shred\s+.*-[uvz])`,
			AppliesTo:   instructionFiles,
			Remediation: "Remove disk wiping commands.",
		},
		{
			ID:          "DS-DO-003",
			Name:        "Cloud Resource Destruction",
			Severity:    model.SeverityCritical,
			Pattern:     `(aws\s+\S+\s+(delete|terminate)|gcloud\s+.{0,40}delete|az\s+.{0,40}delete|kubectl\s+delete)`,
			AppliesTo:   instructionFiles,
			Remediation: "Review cloud resource deletion commands embedded in assistant instructions.",
		},
		{
			ID:          "DS-DO-004",
			Name:        "Git History Manipulation",
			Severity:    model.SeverityHigh,
			Pattern:     `git\s+(push\s+.*--force|reset\s+--hard|clean\s+-fd|filter-branch)`,
			AppliesTo:   instructionFiles,
			Remediation: "Review destructive git history commands.",
		},
		{
			ID:          "DS-DO-005",
			Name:        "Database Drop Command",
			Severity:    model.SeverityCritical,
			Pattern:     `(DROP\s+(DATABASE|TABLE|SCHEMA)|TRUNCATE\s+TABLE)`,
			AppliesTo:   instructionFiles,
			Remediation: "Review database destruction statements.",
		},

		// Supply chain.
		{
			ID:          "DS-SC-001",
			Name:        "Curl Pipe Shell",
			Severity:    model.SeverityCritical,
			Pattern:     `curl\s+.*\|\s*(bash|sh|zsh)|wget\s+.*-O-\s*\|\s*(bash|sh)`,
			AppliesTo:   instructionFiles,
			Remediation: "Download scripts first, review them, then execute.",
		},
		{
			ID:          "DS-SC-002",
			Name:        "Direct URL Package Install",
			Severity:    model.SeverityHigh,
			Pattern:     `(pip3?\s+install\s+https?://|npm\s+install\s+https?://)`,
			AppliesTo:   instructionFiles,
			Remediation: "Install from package registries instead of direct URLs.",
		},
		{
			ID:          "DS-SC-003",
			Name:        "Custom Package Index",
			Severity:    model.SeverityMedium,
			Pattern:     `(--index-url|--extra-index-url|--trusted-host)\s+\S+`,
			AppliesTo:   append(append([]string{}, instructionFiles...), "pip.conf", ".npmrc"),
			Remediation: "Only configure trusted package indexes.",
		},
		{
			ID:          "DS-SC-004",
			Name:        "Unpinned Package Install",
			Severity:    model.SeverityLow,
			Pattern:     `(?m)pip3?\s+install\s+[a-zA-Z][a-zA-Z0-9_-]*\s*$`,
			AppliesTo:   instructionFiles,
			Remediation: "Pin package versions for reproducible builds.",
		},
		{
			ID:          "DS-SC-005",
			Name:        "Suspicious Lifecycle Script",
			Severity:    model.SeverityHigh,
			Pattern:     `"(postinstall|preinstall)"\s*:\s*".{0,80}(curl|wget|nc\b|bash|\bsh\b|eval|exec)`,
			AppliesTo:   []string{"package.json"},
			Remediation: "Review and remove install lifecycle scripts that fetch or execute code.",
			References:  []string{"CVE-2025-64439"},
		},

		// MCP poisoning.
		{
			ID:          "DS-MCP-001",
			Name:        "MCP Auto-Start Enabled",
			Severity:    model.SeverityCritical,
			Pattern:     `"autoStart"\s*:\s*true|autoStart:\s*true`,
			AppliesTo:   mcpFiles,
			Remediation: "Set autoStart to false for all MCP servers.",
			References:  []string{"CVE-2025-54135", refMCPTools},
		},
		{
			ID:          "DS-MCP-002",
			Name:        "Suspicious MCP Server Name",
			Severity:    model.SeverityHigh,
			Pattern:     `"(mcpServers|servers)"\s*:\s*\{[^}]*"(shell|exec|cmd|system|eval|hack|exploit|backdoor|payload)`,
			AppliesTo:   mcpFiles,
			Remediation: "Review and remove suspicious MCP server entries.",
			References:  []string{"CVE-2025-54135"},
		},
		{
			ID:          "DS-MCP-003",
			Name:        "MCP Shell Command Execution",
			Severity:    model.SeverityCritical,
			Pattern:     `"command"\s*:\s*"(bash|sh|cmd|powershell|zsh|/bin/)`,
			AppliesTo:   mcpFiles,
			Remediation: "Avoid MCP servers that execute shell commands directly.",
			References:  []string{"CVE-2025-6514"},
		},
		{
			ID:          "DS-MCP-004",
			Name:        "External MCP Server URL",
			Severity:    model.SeverityHigh,
			Pattern:     `"(url|endpoint|server)"\s*:\s*"https?://([a-z0-9-]+\.)+[a-z]{2,}`,
			AppliesTo:   mcpFiles,
			Remediation: "Only use trusted, local MCP servers or verified remote endpoints.",
			References:  []string{"CVE-2025-6514"},
		},
		{
			ID:          "DS-MCP-005",
			Name:        "MCP Ephemeral Package Execution",
			Severity:    model.SeverityHigh,
			Pattern:     `"command"\s*:\s*"(npx|uvx|pnpx)`,
			AppliesTo:   mcpFiles,
			Remediation: "Pin MCP server packages to specific versions instead of npx/uvx.",
			References:  []string{"CVE-2025-49596"},
		},
		{
			ID:          "DS-MCP-006",
			Name:        "MCP Secret In Environment Block",
			Severity:    model.SeverityMedium,
			Pattern:     `"env"\s*:\s*\{[^}]*(SECRET|KEY|TOKEN|PASSWORD|CREDENTIAL)`,
			AppliesTo:   mcpFiles,
			Remediation: "Review environment variables passed to MCP servers; avoid embedding secrets.",
			References:  []string{"CVE-2025-53776"},
		},

		// Extension risk.
		{
			ID:          "DS-EXT-001",
			Name:        "Auto-Update From External URL",
			Severity:    model.SeverityHigh,
			Pattern:     `"(autoUpdate|updateUrl|downloadUrl)"\s*:\s*"https?://`,
			AppliesTo:   []string{"package.json", "extension.json"},
			Remediation: "Disable auto-update from arbitrary URLs; use the marketplace only.",
			References:  []string{"CVE-2025-8217"},
		},
		{
			ID:          "DS-EXT-002",
			Name:        "Wildcard Extension Permissions",
			Severity:    model.SeverityMedium,
			Pattern:     `"(activationEvents|permissions)"\s*:\s*\[[^\]]*"\*"`,
			AppliesTo:   []string{"package.json", "extension.json"},
			Remediation: "Request only the permissions the extension needs.",
			References:  []string{"CVE-2025-8217"},
		},
	}
}

package analyze

import "regexp"

// Thresholds for the completion heuristics. These are the only values shared
// across components; everything else is local to its classifier.
const (
	// CompletionConfidenceThreshold is the confidence score at or above which
	// a session counts as likely completed, independent of the per-type
	// completion evaluator.
	CompletionConfidenceThreshold = 60

	confidenceBase = 50

	lookupMaxDuration  = 5.0 // minutes
	lookupMaxToolCalls = 10

	retryRatioThreshold = 15.0
	issueRatioThreshold = 10.0

	abandonMaxDuration  = 2.0
	abandonMinToolCalls = 5
)

// errorPatterns flag commands whose text suggests a failed execution.
var errorPatterns = compileAll(
	`\berror\b`, `\bfailed\b`, `\bfailure\b`, `\bexception\b`,
	`\bcrash\b`, `\btimeout\b`, `\bdenied\b`, `\bforbidden\b`,
	`\bnot found\b`, `\bcannot\b`, `\bunable to\b`,
)

// frustrationPatterns flag user prompts that signal giving up or distress.
var frustrationPatterns = compileAll(
	`\bnever\s*mind\b`, `\bforget\s*it\b`, `\bgive\s*up\b`,
	`\bdoesn'?t\s*work\b`, `\bnot\s*working\b`, `\bstop\b`,
	`\bcancel\b`, `\babort\b`, `\bwrong\b`, `\bbroken\b`,
	`\bundo\b`, `\brevert\b`, `\btry\s*again\b`, `\bstill\s*broken\b`,
)

// testPatterns match commands that run a test suite.
var testPatterns = compileAll(
	`\btest\b`, `\bpytest\b`, `\bjest\b`,
	`\bnpm\s+test\b`, `\byarn\s+test\b`, `\bgradle.*test\b`,
)

// buildPatterns match commands that build or compile the project.
var buildPatterns = compileAll(
	`\bbuild\b`, `\bcompile\b`, `\bnpm\s+run\b`,
	`\byarn\b`, `\bgradle\b`, `\bmake\b`,
)

var (
	gitCommitRe = regexp.MustCompile(`\bgit\s+commit\b`)
	gitPushRe   = regexp.MustCompile(`\bgit\s+push\b`)
	gitAddRe    = regexp.MustCompile(`\bgit\s+add\b`)

	ticketRe = regexp.MustCompile(`(?i)([A-Z]+-\d+)`)
)

// readOnlyGitPatterns cover git subcommands that inspect state without
// mutating the repository.
var readOnlyGitPatterns = compileAll(
	`\bgit\s+status\b`, `\bgit\s+log\b`, `\bgit\s+diff\b`,
	`\bgit\s+branch\b`, `\bgit\s+show\b`, `\bgit\s+remote\b`,
	`\bgit\s+fetch\b`, `\bgit\s+ls-files\b`, `\bgit\s+rev-parse\b`,
)

// taskKeywords drives the task-type classifier. Order is the contract:
// the first category whose keyword list matches wins, so a prompt matching
// both "bug" and "test" always classifies as bug_fix.
var taskKeywords = []struct {
	Type     TaskType
	Keywords []string
}{
	{TaskBugFix, []string{
		"bug", "fix", "error", "issue", "broken", "doesn't work", "not working",
		"failing", "crash", "exception", "resolve", "patch",
	}},
	{TaskTesting, []string{
		"test", "spec", "e2e", "unit test", "integration test", "coverage",
		"assertion", "mock", "stub", "jest", "pytest", "testing",
	}},
	{TaskConfig, []string{
		"config", "setup", "install", "terraform", "infra", "infrastructure",
		"deploy", "ci", "cd", "pipeline", "docker", "kubernetes", "k8s",
		"environment", "env", "yaml", "json config",
	}},
	{TaskReview, []string{
		"review", "pr", "pull request", "code review", "feedback",
		"approve", "merge", "diff", "changes",
	}},
	{TaskExploration, []string{
		"explain", "what is", "how does", "document", "learn",
		"describe", "tell me about", "help me understand",
	}},
	{TaskDebug, []string{
		"debug", "investigate", "why", "understand", "trace", "log",
		"what's happening", "look into", "figure out", "diagnose",
	}},
	{TaskRefactor, []string{
		"refactor", "clean", "improve", "optimize", "restructure",
		"reorganize", "simplify", "rename", "extract", "consolidate",
	}},
	{TaskFeature, []string{
		"add", "create", "implement", "new feature", "build", "introduce",
		"develop", "make", "generate", "design",
	}},
	{TaskUpdate, []string{
		"update", "change", "modify", "edit", "adjust", "tweak",
		"alter", "revise", "enhance", "upgrade", "migrate",
	}},
	{TaskLookup, []string{
		"find", "search", "locate", "where", "show me", "list",
		"get", "fetch", "check", "verify", "validate", "confirm",
	}},
}

// techTerms is the fixed vocabulary for key-topic extraction.
var techTerms = []string{
	"api", "database", "auth", "login", "test", "build", "deploy",
	"component", "hook", "state", "redux", "react", "typescript",
	"error", "bug", "fix", "feature", "refactor", "performance",
	"terraform", "kubernetes", "docker", "ci", "cd", "pipeline",
}

var (
	readTools  = []string{"Read", "Grep", "Glob"}
	editTools  = []string{"Edit", "Write"}
	writeTools = []string{"Edit", "Write", "NotebookEdit"}
)

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(p))
	}
	return res
}

func anyPatternMatches(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// HasTestRun reports whether any command looks like a test invocation.
func HasTestRun(commands []string) bool {
	return anyCommandMatches(testPatterns, commands)
}

// anyCommandMatches reports whether any command matches any of the patterns.
// Commands are lowercased before matching.
func anyCommandMatches(patterns []*regexp.Regexp, commands []string) bool {
	for _, cmd := range commands {
		if anyPatternMatches(patterns, lower(cmd)) {
			return true
		}
	}
	return false
}

package analyze

import "strings"

// ClassifyGitOps scans a session's commands and summarizes its git activity.
// A command is collected when it contains "git" anywhere (case-insensitive);
// commit/push/add are word-boundary matches on the lowercased command. A
// commit command that also mentions error/fail/abort counts as failed.
//
// ReadOnly is true only when at least one git command was collected and every
// collected command matches a read-only subcommand. No git commands at all
// means ReadOnly is false: absence of evidence is not evidence of read-only
// behavior.
func ClassifyGitOps(commands []string) GitOps {
	var ops GitOps

	for _, cmd := range commands {
		cmdLower := strings.ToLower(cmd)
		if !strings.Contains(cmdLower, "git") {
			continue
		}

		ops.GitCommands = append(ops.GitCommands, cmd)

		if gitCommitRe.MatchString(cmdLower) {
			ops.HasCommit = true
			ops.CommitCount++
			if strings.Contains(cmdLower, "error") ||
				strings.Contains(cmdLower, "fail") ||
				strings.Contains(cmdLower, "abort") {
				ops.HasFailedCommit = true
			}
		}
		if gitPushRe.MatchString(cmdLower) {
			ops.HasPush = true
		}
		if gitAddRe.MatchString(cmdLower) {
			ops.HasAdd = true
		}
	}

	if len(ops.GitCommands) == 0 {
		return ops
	}

	ops.ReadOnly = true
	for _, cmd := range ops.GitCommands {
		if !anyPatternMatches(readOnlyGitPatterns, strings.ToLower(cmd)) {
			ops.ReadOnly = false
			break
		}
	}

	return ops
}

package transcript

import (
	"strings"

	"github.com/johns/sessionlens/internal/sanitize"
)

func computeStats(entries []Entry) Stats {
	s := Stats{
		ToolsUsed:    make(map[string]bool),
		FilesTouched: make(map[string]bool),
	}

	for _, e := range entries {
		if !e.Timestamp.IsZero() {
			if s.StartTime.IsZero() || e.Timestamp.Before(s.StartTime) {
				s.StartTime = e.Timestamp
			}
			if s.EndTime.IsZero() || e.Timestamp.After(s.EndTime) {
				s.EndTime = e.Timestamp
			}
		}

		if s.SessionID == "" && e.SessionID != "" {
			s.SessionID = e.SessionID
		}
		if s.CWD == "" && e.CWD != "" {
			s.CWD = e.CWD
		}
		if s.GitBranch == "" && e.GitBranch != "" {
			s.GitBranch = e.GitBranch
		}
		if s.Version == "" && e.Version != "" {
			s.Version = e.Version
		}

		switch e.Type {
		case "user":
			processUser(&s, e)
		case "assistant":
			processAssistant(&s, e)
		case "summary":
			if e.Summary != "" {
				s.Summary = e.Summary
			}
		}
	}

	return s
}

// processUser counts user messages and collects prompts and slash commands.
// Tool-result entries and system-injected meta messages do not count.
func processUser(s *Stats, e Entry) {
	if e.Message == nil {
		return
	}

	blocks := ContentBlocks(e.Message)
	for _, b := range blocks {
		if b.Type == "tool_result" {
			return
		}
	}

	s.UserMessages++

	if e.IsMeta {
		return
	}

	var parts []string
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, "\n"))
	if text == "" {
		return
	}

	if strings.HasPrefix(text, "/") {
		if name := firstWord(text[1:]); name != "" {
			s.SlashCommands = append(s.SlashCommands, name)
		}
	}

	// Command-wrapped messages are tool plumbing, not prompts.
	if strings.Contains(text, "<command-name>") {
		return
	}

	if clean := sanitize.CleanPrompt(text); clean != "" {
		s.Prompts = append(s.Prompts, clean)
	}
}

// processAssistant counts assistant messages and walks tool_use blocks for
// tool, file, command, and feature tracking.
func processAssistant(s *Stats, e Entry) {
	if e.Message == nil {
		return
	}

	s.AssistantMessages++

	for _, tu := range ToolUses(e.Message) {
		s.ToolCallCount++
		s.ToolsUsed[tu.Name] = true

		input, _ := tu.Input.(map[string]interface{})

		switch tu.Name {
		case "Read", "Edit", "Write":
			if p, ok := input["file_path"].(string); ok && p != "" {
				s.FilesTouched[p] = true
			}
		case "NotebookEdit":
			if p, ok := input["notebook_path"].(string); ok && p != "" {
				s.FilesTouched[p] = true
			}
		case "Bash":
			if cmd, ok := input["command"].(string); ok && cmd != "" {
				s.Commands = append(s.Commands, cmd)
			}
		case "Skill":
			if name, ok := input["skill"].(string); ok && name != "" {
				s.SkillsInvoked = append(s.SkillsInvoked, name)
			}
		case "Task":
			if agent, ok := input["subagent_type"].(string); ok && agent != "" {
				s.AgentsSpawned = append(s.AgentsSpawned, agent)
			}
		}
	}
}

func firstWord(s string) string {
	for i, r := range s {
		if r == ' ' || r == '\n' || r == '\t' {
			return s[:i]
		}
	}
	return s
}

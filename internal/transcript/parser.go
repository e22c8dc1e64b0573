// Package transcript parses Claude Code JSONL transcripts into typed entries
// and extracts the per-session statistics the analysis core consumes.
package transcript

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"strings"

	"github.com/johns/sessionlens/internal/archive"
)

// ParseFile reads and parses a transcript file. Plain .jsonl and
// zstd-compressed .jsonl.zst files are both accepted.
func ParseFile(path string) (*Transcript, error) {
	r, closer, err := archive.OpenTranscript(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer closer()
	return Parse(r)
}

// Parse reads a JSONL transcript from a reader. Unparseable lines are
// skipped rather than failing the whole transcript.
func Parse(r io.Reader) (*Transcript, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024) // 10MB max line

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}

		// Skip non-conversation types
		if entry.Type == "file-history-snapshot" || entry.Type == "progress" {
			continue
		}

		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}

	stats := computeStats(entries)
	return &Transcript{Entries: entries, Stats: stats}, nil
}

// ContentBlocks extracts typed content blocks from a message.
// Handles both string content and array content.
func ContentBlocks(msg *Message) []ContentBlock {
	if msg == nil {
		return nil
	}

	switch c := msg.Content.(type) {
	case string:
		return []ContentBlock{{Type: "text", Text: c}}
	case []interface{}:
		var blocks []ContentBlock
		for _, item := range c {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			b, err := json.Marshal(m)
			if err != nil {
				continue
			}
			var block ContentBlock
			if err := json.Unmarshal(b, &block); err != nil {
				continue
			}
			blocks = append(blocks, block)
		}
		return blocks
	}
	return nil
}

// ToolUses extracts all tool_use blocks from an assistant message.
func ToolUses(msg *Message) []ContentBlock {
	var tools []ContentBlock
	for _, b := range ContentBlocks(msg) {
		if b.Type == "tool_use" {
			tools = append(tools, b)
		}
	}
	return tools
}

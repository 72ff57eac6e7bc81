package sessions

import (
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// estimateTokens is a cheap token estimate (~4 bytes/token), matching the
// order of magnitude the teacher's compaction.go uses for its MaxTokens
// trigger without pulling in a real tokenizer — the core never sends raw
// byte counts to the model, only uses this to decide when to prune.
func estimateTokens(msg models.Message) int {
	return (len(msg.Content) + 3) / 4
}

// PruneWindow applies the spec §4.1 pruning policy to messages, returning
// the retained window.
//
// Resolution of the spec's §9 open question ("last 20 messages" vs. token
// budget — which wins when both are in force): this implementation makes
// the STRICTER of the two win, per spec.md's explicit resolution. That
// means: start from the last N messages, then, if that window still
// exceeds the token budget, keep shrinking from the front (in pairs) until
// under budget. The window therefore never exceeds N messages AND never
// exceeds the token budget, whichever is smaller.
func PruneWindow(messages []models.Message, lastN, tokenBudget int) []models.Message {
	if lastN <= 0 {
		lastN = 20
	}
	if tokenBudget <= 0 {
		tokenBudget = 8000
	}

	var systemMsg *models.Message
	rest := messages
	if len(messages) > 0 && messages[0].Role == models.RoleSystem {
		systemMsg = &messages[0]
		rest = messages[1:]
	}

	if len(rest) > lastN {
		rest = rest[len(rest)-lastN:]
	}
	rest = alignToPairBoundary(rest)

	total := 0
	for _, m := range rest {
		total += estimateTokens(m)
	}
	for total > tokenBudget && len(rest) > 0 {
		dropped := dropOldestPair(&rest)
		for _, m := range dropped {
			total -= estimateTokens(m)
		}
	}

	if systemMsg == nil {
		return rest
	}
	out := make([]models.Message, 0, len(rest)+1)
	out = append(out, *systemMsg)
	out = append(out, rest...)
	return out
}

// alignToPairBoundary ensures the window never starts mid-pair: a `tool`
// message's originating `assistant tool_call` message must not be split
// off by a naive last-N cut (spec invariant 2, testable property 4).
func alignToPairBoundary(messages []models.Message) []models.Message {
	if len(messages) == 0 {
		return messages
	}
	if messages[0].Role == models.RoleTool {
		// The assistant message that produced this tool result was cut
		// off; drop the orphaned tool message too.
		i := 1
		for i < len(messages) && messages[i].Role == models.RoleTool {
			i++
		}
		return messages[i:]
	}
	return messages
}

// dropOldestPair removes the oldest request+response pair from the front
// of messages (spec §4.1 step 2: "drop oldest non-system messages in
// pairs"), never splitting a tool/assistant-tool_call pair (spec §4.1 step
// 3), and returns what was dropped.
func dropOldestPair(messages *[]models.Message) []models.Message {
	m := *messages
	if len(m) == 0 {
		return nil
	}

	end := 1
	// If the first message is an assistant message with tool calls, its
	// whole run of subsequent tool-role responses belongs to the same pair.
	if len(m[0].ToolCalls) > 0 {
		for end < len(m) && m[end].Role == models.RoleTool {
			end++
		}
	} else if end < len(m) {
		// A plain request+response pair: the next message is dropped with
		// it as its response half; any tool-role messages left leading the
		// remainder are then removed by alignToPairBoundary below.
		end++
	}

	rest := alignToPairBoundary(m[end:])
	dropped := append([]models.Message(nil), m[:len(m)-len(rest)]...)
	*messages = rest
	return dropped
}

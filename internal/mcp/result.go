package mcp

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/bobmcallan/toolbridge/internal/models"
)

// ResultText flattens an engine response stream into the single text block an
// MCP tools/call result carries. An empty stream yields "".
func ResultText(parts []models.MessagePart) string {
	var sb strings.Builder
	for _, part := range parts {
		switch part.Type {
		case models.MessageText:
			sb.WriteString(part.Text)
		case models.MessageLink:
			sb.WriteString("result link: ")
			sb.WriteString(part.Text)
			sb.WriteString(". please tell user to check it.")
		case models.MessageImage, models.MessageImageLink:
			sb.WriteString("Not support message type: ")
			sb.WriteString(string(part.Type))
			sb.WriteString(".")
		case models.MessageJSON:
			sb.WriteString("tool response: ")
			sb.WriteString(encodeUnescaped(part.JSON))
			sb.WriteString(".")
		default:
			sb.WriteString("tool response: ")
			sb.WriteString(rawMessage(part))
			sb.WriteString(".")
		}
	}
	return sb.String()
}

// encodeUnescaped renders v as compact JSON without escaping <, > and &.
func encodeUnescaped(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "null"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func rawMessage(part models.MessagePart) string {
	if len(part.Raw) == 0 {
		return "{}"
	}
	return string(part.Raw)
}

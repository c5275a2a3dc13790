package simulation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"shareholder-qa-sim/internal/model"
)

const (
	exportDivider       = "======================================"
	exportTimeLayout    = "2006-01-02 15:04:05"
	exportMessageFooter = "----------------------------------------"
)

// ExportTranscript renders a session as a deterministic plain-text log
// suitable for file download. The message block format is stable so the
// transcript can be re-parsed into the original ordered sequence.
func ExportTranscript(session model.Session) string {
	var b strings.Builder

	writeLine := func(s string) {
		b.WriteString(s)
		b.WriteString("\n")
	}

	writeLine(exportDivider)
	writeLine("株主総会Q&Aシミュレーション セッションログ")
	writeLine(exportDivider)
	writeLine("")
	writeLine("セッション ID: " + session.Id.String())
	writeLine("作成日時: " + session.CreatedAt.Format(exportTimeLayout))
	writeLine("ステータス: " + statusLabel(session.Status))
	writeLine(fmt.Sprintf("メッセージ数: %d", len(session.Messages)))
	writeLine("")
	writeLine(exportDivider)
	writeLine("質疑応答ログ")
	writeLine(exportDivider)
	writeLine("")

	for i, msg := range session.Messages {
		writeLine(fmt.Sprintf("[%d] %s (%s)", i+1, msg.Role.SpeakerLabel(), msg.Timestamp.Format(exportTimeLayout)))
		writeLine(exportMessageFooter)
		writeLine(msg.Content)
		writeLine("")
	}

	writeLine(exportDivider)
	writeLine("エクスポート完了")
	writeLine(exportDivider)

	return b.String()
}

func statusLabel(status model.SessionStatus) string {
	switch status {
	case model.StatusCompleted:
		return "完了"
	case model.StatusActive:
		return "進行中"
	case model.StatusError:
		return "エラー"
	default:
		return string(status)
	}
}

var exportMessagePattern = regexp.MustCompile(`^\[(\d+)\] (株主|会社側) \((\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\)$`)

// ExportedMessage is one parsed transcript entry.
type ExportedMessage struct {
	Index     int
	Speaker   string
	Timestamp time.Time
	Content   string
}

// ParseTranscript recovers the ordered message sequence from an exported
// transcript. Used by tooling and by the export round-trip tests.
func ParseTranscript(transcript string) []ExportedMessage {
	lines := strings.Split(transcript, "\n")
	var parsed []ExportedMessage

	for i := 0; i < len(lines); i++ {
		m := exportMessagePattern.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		ts, err := time.Parse(exportTimeLayout, m[3])
		if err != nil {
			continue
		}

		// Content follows the divider line and runs until the blank line.
		var content []string
		for j := i + 2; j < len(lines) && lines[j] != ""; j++ {
			content = append(content, lines[j])
		}

		var index int
		fmt.Sscanf(m[1], "%d", &index)
		parsed = append(parsed, ExportedMessage{
			Index:     index,
			Speaker:   m[2],
			Timestamp: ts,
			Content:   strings.Join(content, "\n"),
		})
	}
	return parsed
}

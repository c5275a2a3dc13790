package dialogue

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/google/uuid"

	"shareholder-qa-sim/internal/model"
	"shareholder-qa-sim/pkg/llm"
	"shareholder-qa-sim/pkg/vocabulary"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testDoc(name, text string) model.Document {
	return model.Document{Id: uuid.New(), OriginalName: name, TextContent: text}
}

func TestQuestionerExpectedQuestions(t *testing.T) {
	expected := []string{
		"・今期の設備投資の計画を教えてください。",
		"海外展開の進捗はいかがですか。",
	}
	q := NewQuestioner(nil, expected, llm.Disabled(), vocabulary.Default(), testLogger())

	first, ok := q.GenerateQuestion(context.Background(), nil)
	if !ok {
		t.Fatal("expected first question")
	}
	if first != "今期の設備投資の計画を教えてください。" {
		t.Errorf("first question = %q, want bullet-stripped verbatim entry", first)
	}
	if q.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", q.Cursor())
	}

	second, ok := q.GenerateQuestion(context.Background(), []model.Message{{Role: model.RoleResponder, Content: "回答"}})
	if !ok {
		t.Fatal("expected second question")
	}
	if second != expected[1] {
		t.Errorf("second question = %q, want %q", second, expected[1])
	}
	if q.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", q.Cursor())
	}
}

func TestQuestionerOpeningFallback(t *testing.T) {
	docText := "当社の業績は好調で、売上高は前年比10%増となりました。"
	q := NewQuestioner([]model.Document{testDoc("決算.pdf", docText)}, nil, llm.Disabled(), vocabulary.Default(), testLogger())

	question, ok := q.GenerateQuestion(context.Background(), nil)
	if !ok {
		t.Fatal("fallback must still produce an opening question")
	}
	if strings.TrimSpace(question) == "" {
		t.Fatal("opening question is empty")
	}
	if strings.Contains(question, docText) {
		t.Error("fallback question must not quote document text verbatim")
	}

	// Performance material draws from the performance bank.
	found := false
	for _, entry := range openingBank[vocabulary.ThemePerformance] {
		if question == entry {
			found = true
		}
	}
	if !found {
		t.Errorf("question %q not from the performance opening bank", question)
	}
}

func TestQuestionerFollowUpFallback(t *testing.T) {
	q := NewQuestioner([]model.Document{testDoc("計画.pdf", "中期経営計画の資料")}, nil, llm.Disabled(), vocabulary.Default(), testLogger())

	history := []model.Message{
		{Role: model.RoleQuestioner, Content: "今後の戦略について教えてください。"},
		{Role: model.RoleResponder, Content: "今後の戦略につきましては、計画に沿って推進してまいります。"},
	}
	question, ok := q.GenerateQuestion(context.Background(), history)
	if !ok {
		t.Fatal("expected a follow-up question")
	}

	found := false
	for _, entry := range followUpBank[vocabulary.ThemeStrategy] {
		if question == entry {
			found = true
		}
	}
	if !found {
		t.Errorf("follow-up %q not from the strategy bank", question)
	}

	// Deterministic: the same history picks the same entry.
	q2 := NewQuestioner([]model.Document{testDoc("計画.pdf", "中期経営計画の資料")}, nil, llm.Disabled(), vocabulary.Default(), testLogger())
	again, _ := q2.GenerateQuestion(context.Background(), history)
	if again != question {
		t.Errorf("fallback selection not deterministic: %q vs %q", question, again)
	}
}

func TestAdvanceCursor(t *testing.T) {
	q := NewQuestioner(nil, []string{"質問1", "質問2"}, llm.Disabled(), vocabulary.Default(), testLogger())

	q.AdvanceCursor()
	if q.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", q.Cursor())
	}
	q.AdvanceCursor()
	q.AdvanceCursor() // must not pass the end
	if q.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", q.Cursor())
	}

	// The skipped questions are gone; generation falls through to banks.
	question, ok := q.GenerateQuestion(context.Background(), nil)
	if !ok || question == "質問1" || question == "質問2" {
		t.Errorf("skipped expected questions must not reappear, got %q", question)
	}
}

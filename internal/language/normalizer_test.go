package language

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// fakeChatModel records the prompt it receives and returns a canned reply.
type fakeChatModel struct {
	reply string
	err   error

	calls   int
	gotUser string
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.calls++
	if len(input) > 0 {
		f.gotUser = input[len(input)-1].Content
	}
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func TestNormalize_EnglishPassesThrough(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{reply: "should never be used"}
	n := New(fake)

	in := "What are the common symptoms of eczema on the hands?"
	if got := n.Normalize(context.Background(), in); got != in {
		t.Errorf("English input changed: %q", got)
	}
	if fake.calls != 0 {
		t.Errorf("model called %d times for English input, want 0", fake.calls)
	}
}

func TestNormalize_TranslatesNonEnglish(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{reply: "  What causes itchy red patches on the skin?  "}
	n := New(fake)

	got := n.Normalize(context.Background(), "Qu'est-ce qui provoque des plaques rouges qui démangent sur la peau ?")
	if got != "What causes itchy red patches on the skin?" {
		t.Errorf("Normalize = %q, want trimmed translation", got)
	}
	if fake.calls != 1 {
		t.Fatalf("model called %d times, want 1", fake.calls)
	}
	if !strings.Contains(fake.gotUser, "to English") {
		t.Errorf("translation prompt missing instruction: %q", fake.gotUser)
	}
	if !strings.Contains(fake.gotUser, "French") {
		t.Errorf("translation prompt does not name the detected language: %q", fake.gotUser)
	}
}

func TestNormalize_TranslationErrorFallsBack(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{err: errors.New("model unavailable")}
	n := New(fake)

	in := "Qu'est-ce que le psoriasis et comment le traiter efficacement ?"
	if got := n.Normalize(context.Background(), in); got != in {
		t.Errorf("error fallback returned %q, want original text", got)
	}
}

func TestNormalize_EmptyTranslationFallsBack(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{reply: "   "}
	n := New(fake)

	in := "Wie behandelt man Neurodermitis bei kleinen Kindern am besten?"
	if got := n.Normalize(context.Background(), in); got != in {
		t.Errorf("empty translation fallback returned %q, want original text", got)
	}
}

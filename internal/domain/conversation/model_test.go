package conversation_test

import (
	"testing"

	"salespilot/services/chat-api/internal/domain/conversation"
)

func TestFlatten(t *testing.T) {
	tests := []struct {
		name  string
		turns []conversation.Turn
		want  string
	}{
		{
			name:  "empty history",
			turns: nil,
			want:  "",
		},
		{
			name:  "single turn",
			turns: []conversation.Turn{{Question: "hi", Answer: "hello"}},
			want:  "User: hi\nAssistant: hello",
		},
		{
			name: "multiple turns",
			turns: []conversation.Turn{
				{Question: "my name is Dana", Answer: "nice to meet you"},
				{Question: "what is my name?", Answer: "Dana"},
			},
			want: "User: my name is Dana\nAssistant: nice to meet you\nUser: what is my name?\nAssistant: Dana",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := conversation.Flatten(tt.turns); got != tt.want {
				t.Errorf("Flatten() = %q, want %q", got, tt.want)
			}
		})
	}
}

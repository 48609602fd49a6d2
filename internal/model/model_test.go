package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestQuestionJSON(t *testing.T) {
	q := Question{
		ID:          uuid.New(),
		Title:       "title",
		Description: "description",
		CreatedAt:   time.Date(2024, 3, 1, 12, 30, 0, 123456000, time.UTC),
	}

	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal fields: %v", err)
	}
	for _, key := range []string{"question_uuid", "title", "description", "created_at"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("missing %q in %s", key, data)
		}
	}

	var got Question
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != q.ID || got.Title != q.Title || got.Description != q.Description || !got.CreatedAt.Equal(q.CreatedAt) {
		t.Fatalf("round trip = %+v, want %+v", got, q)
	}
}

func TestAnswerJSON(t *testing.T) {
	a := Answer{
		ID:         uuid.New(),
		QuestionID: uuid.New(),
		Content:    "content",
		CreatedAt:  time.Date(2024, 3, 1, 12, 30, 0, 1000, time.UTC),
	}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"answer_uuid":"`+a.ID.String()+`"`) {
		t.Fatalf("answer_uuid missing from %s", data)
	}

	var got Answer
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != a.ID || got.QuestionID != a.QuestionID || got.Content != a.Content || !got.CreatedAt.Equal(a.CreatedAt) {
		t.Fatalf("round trip = %+v, want %+v", got, a)
	}
}

func TestRequestValidation(t *testing.T) {
	id := uuid.NewString()
	long := strings.Repeat("x", 256)
	atMax := strings.Repeat("x", 255)

	tests := []struct {
		name    string
		req     interface{ Validate() error }
		wantErr bool
	}{
		{"create question ok", &CreateQuestionRequest{Title: "t", Description: "d"}, false},
		{"create question at max length", &CreateQuestionRequest{Title: atMax, Description: atMax}, false},
		{"create question empty title", &CreateQuestionRequest{Description: "d"}, true},
		{"create question long description", &CreateQuestionRequest{Title: "t", Description: long}, true},
		{"list questions", &ListQuestionsRequest{}, false},
		{"delete question ok", &DeleteQuestionRequest{QuestionID: id}, false},
		{"delete question upper case id", &DeleteQuestionRequest{QuestionID: strings.ToUpper(id)}, false},
		{"delete question bad id", &DeleteQuestionRequest{QuestionID: "123"}, true},
		{"create answer ok", &CreateAnswerRequest{QuestionID: id, Content: "c"}, false},
		{"create answer missing content", &CreateAnswerRequest{QuestionID: id}, true},
		{"create answer bad id", &CreateAnswerRequest{QuestionID: "nope", Content: "c"}, true},
		{"list answers ok", &ListAnswersRequest{QuestionID: id}, false},
		{"list answers missing id", &ListAnswersRequest{}, true},
		{"delete answer ok", &DeleteAnswerRequest{AnswerID: id}, false},
		{"delete answer missing id", &DeleteAnswerRequest{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParsedIDs(t *testing.T) {
	id := uuid.New()

	if got := (&DeleteQuestionRequest{QuestionID: id.String()}).ID(); got != id {
		t.Fatalf("DeleteQuestionRequest.ID() = %s, want %s", got, id)
	}
	if got := (&CreateAnswerRequest{QuestionID: strings.ToUpper(id.String())}).QuestionUUID(); got != id {
		t.Fatalf("CreateAnswerRequest.QuestionUUID() = %s, want %s", got, id)
	}
	if got := (&ListAnswersRequest{QuestionID: id.String()}).QuestionUUID(); got != id {
		t.Fatalf("ListAnswersRequest.QuestionUUID() = %s, want %s", got, id)
	}
	if got := (&DeleteAnswerRequest{AnswerID: id.String()}).ID(); got != id {
		t.Fatalf("DeleteAnswerRequest.ID() = %s, want %s", got, id)
	}
}

package ai

import (
	"strings"
	"testing"
)

func TestParseToothBoxes_PlainArray(t *testing.T) {
	boxes, err := ParseToothBoxes(`[{"x":42,"y":46,"width":10,"height":16},{"x":52,"y":46,"width":10,"height":16}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(boxes) != 2 {
		t.Fatalf("expected 2 boxes, got %d", len(boxes))
	}
	if boxes[0].X != 42 || boxes[0].Width != 10 {
		t.Errorf("unexpected first box: %+v", boxes[0])
	}
}

func TestParseToothBoxes_MarkdownFence(t *testing.T) {
	text := "Here are the detected teeth:\n```json\n[{\"x\":50,\"y\":45,\"width\":8,\"height\":12}]\n```\n"
	boxes, err := ParseToothBoxes(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(boxes) != 1 || boxes[0].X != 50 {
		t.Errorf("unexpected boxes: %+v", boxes)
	}
}

func TestParseToothBoxes_NoArray(t *testing.T) {
	if _, err := ParseToothBoxes("I could not find any teeth in this image."); err == nil {
		t.Error("expected error for prose-only output")
	}
}

func TestParseToothBoxes_OutOfRange(t *testing.T) {
	_, err := ParseToothBoxes(`[{"x":150,"y":45,"width":8,"height":12}]`)
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("expected out of range error, got %v", err)
	}
}

func TestNewGeminiDetector_RequiresKey(t *testing.T) {
	if _, err := NewGeminiDetector(nil, "", "gemini-1.5-flash"); err == nil {
		t.Error("expected error for missing api key")
	}
}

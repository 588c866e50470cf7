package source

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func drain(t *testing.T, b *BatchReader) [][]Record {
	t.Helper()

	var batches [][]Record
	for {
		batch, err := b.Next()
		if err == io.EOF {
			return batches
		}
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		batches = append(batches, batch)
	}
}

func arrayPayload(n int) string {
	elements := make([]string, 0, n)
	for i := 0; i < n; i++ {
		elements = append(elements, fmt.Sprintf(`{"id": %d}`, i))
	}
	return "[" + strings.Join(elements, ",") + "]"
}

func TestBatchBoundaries(t *testing.T) {
	// 10 elements with batch size 3 must yield 4 batches: 3, 3, 3, 1
	reader := NewBatchReader(strings.NewReader(arrayPayload(10)), 3)
	batches := drain(t, reader)

	if len(batches) != 4 {
		t.Fatalf("Expected 4 batches, got %d", len(batches))
	}

	sizes := []int{3, 3, 3, 1}
	for i, batch := range batches {
		if len(batch) != sizes[i] {
			t.Errorf("Expected batch %d to have %d elements, got %d", i, sizes[i], len(batch))
		}
	}

	// Concatenation preserves element order
	index := 0
	for _, batch := range batches {
		for _, record := range batch {
			if record["id"] != float64(index) {
				t.Errorf("Expected element %d at position %d, got %v", index, index, record["id"])
			}
			index++
		}
	}
}

func TestBatchExactMultiple(t *testing.T) {
	reader := NewBatchReader(strings.NewReader(arrayPayload(6)), 3)
	batches := drain(t, reader)

	if len(batches) != 2 {
		t.Fatalf("Expected 2 batches, got %d", len(batches))
	}
	for i, batch := range batches {
		if len(batch) != 3 {
			t.Errorf("Expected batch %d to have 3 elements, got %d", i, len(batch))
		}
	}
}

func TestEmptyArray(t *testing.T) {
	reader := NewBatchReader(strings.NewReader("[]"), 3)

	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("Expected io.EOF for empty array, got: %v", err)
	}
}

func TestSingleUse(t *testing.T) {
	reader := NewBatchReader(strings.NewReader(arrayPayload(2)), 10)
	drain(t, reader)

	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("Expected io.EOF after drain, got: %v", err)
	}
}

func TestMalformedContainer(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not an array", `{"id": 1}`},
		{"truncated", `[{"id": 1},`},
		{"invalid syntax", `[{"id": 1} {"id": 2}]`},
		{"garbage", `not json at all`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewBatchReader(strings.NewReader(tt.payload), 3)

			var err error
			for err == nil {
				_, err = reader.Next()
			}

			if err == io.EOF {
				t.Fatal("Expected MalformedPayloadError, got io.EOF")
			}

			var malformed *MalformedPayloadError
			if !errors.As(err, &malformed) {
				t.Errorf("Expected MalformedPayloadError, got: %v", err)
			}
		})
	}
}

func TestNonObjectElementSkipped(t *testing.T) {
	payload := `[{"id": 1}, 42, {"id": 2}, "junk", {"id": 3}]`
	reader := NewBatchReader(strings.NewReader(payload), 10)
	batches := drain(t, reader)

	if len(batches) != 1 {
		t.Fatalf("Expected 1 batch, got %d", len(batches))
	}
	if len(batches[0]) != 3 {
		t.Fatalf("Expected 3 records after skipping bad elements, got %d", len(batches[0]))
	}
	for i, record := range batches[0] {
		if record["id"] != float64(i+1) {
			t.Errorf("Expected record id %d, got %v", i+1, record["id"])
		}
	}
}

func TestBatchSizeClamped(t *testing.T) {
	reader := NewBatchReader(strings.NewReader(arrayPayload(2)), 0)
	batches := drain(t, reader)

	if len(batches) != 1 {
		t.Fatalf("Expected 1 batch with defaulted batch size, got %d", len(batches))
	}
	if len(batches[0]) != 2 {
		t.Errorf("Expected 2 records, got %d", len(batches[0]))
	}
}

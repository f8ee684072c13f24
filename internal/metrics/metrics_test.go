package metrics

import (
	"testing"
	"time"

	"github.com/lexihelp/lexi-server/internal/llm"
)

func TestStoreRecords(t *testing.T) {
	s := NewStore()
	s.RecordSuccess(100*time.Millisecond, llm.Usage{InputTokens: 10, OutputTokens: 5})
	s.RecordSuccess(300*time.Millisecond, llm.Usage{InputTokens: 4, OutputTokens: 6})
	s.RecordError(200 * time.Millisecond)

	snap := s.Snapshot()
	if snap["total_calls"] != 3 {
		t.Fatalf("total_calls = %v", snap["total_calls"])
	}
	if snap["total_errors"] != 1 {
		t.Fatalf("total_errors = %v", snap["total_errors"])
	}
	if snap["total_tokens"] != 25 {
		t.Fatalf("total_tokens = %v", snap["total_tokens"])
	}
	if snap["avg_duration_ms"] != 200 {
		t.Fatalf("avg_duration_ms = %v", snap["avg_duration_ms"])
	}

	usage := s.UsageTotals()
	if usage.InputTokens != 14 || usage.OutputTokens != 11 || usage.TotalTokens != 25 {
		t.Fatalf("unexpected usage totals: %+v", usage)
	}
}

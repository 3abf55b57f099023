package id

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	if id1.String() == id2.String() {
		t.Error("Generated IDs should be unique")
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	gen := NewGenerator()

	for _, prefix := range []string{SessionPrefix, RequestPrefix} {
		id := gen.GenerateWithPrefix(prefix)

		if !strings.HasPrefix(id, prefix+"_") {
			t.Errorf("ID should start with '%s_', got: %s", prefix, id)
		}

		parts := strings.Split(id, "_")
		if len(parts) != 2 {
			t.Errorf("Prefixed ID should have format 'prefix_ulid', got: %s", id)
		}

		if len(parts[1]) != 26 {
			t.Errorf("ULID should be 26 characters, got %d in ID: %s", len(parts[1]), id)
		}
	}
}

func TestTypedIDGeneration(t *testing.T) {
	sessID := NewSessionID()
	reqID := NewRequestID()

	if !strings.HasPrefix(sessID.String(), "sess_") {
		t.Errorf("SessionID should start with 'sess_', got: %s", sessID)
	}

	if !strings.HasPrefix(reqID.String(), "req_") {
		t.Errorf("RequestID should start with 'req_', got: %s", reqID)
	}
}

func TestIsValidSessionID(t *testing.T) {
	valid := NewSessionID().String()
	if !IsValidSessionID(valid) {
		t.Errorf("Generated session ID should be valid: %s", valid)
	}

	invalidIDs := []string{
		"",
		"invalid",
		"sess_",
		"sess_notaulid",
		"req_" + NewRequestID().String()[len("req_"):], // wrong prefix
		"sess_../../../etc/passwd",
	}

	for _, id := range invalidIDs {
		if IsValidSessionID(id) {
			t.Errorf("ID should be invalid: %s", id)
		}
	}
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()

	const goroutines = 100
	const idsPerGoroutine = 100

	var wg sync.WaitGroup
	idChan := make(chan string, goroutines*idsPerGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < idsPerGoroutine; j++ {
				idChan <- gen.Generate().String()
			}
		}()
	}

	wg.Wait()
	close(idChan)

	seen := make(map[string]bool)
	count := 0
	for id := range idChan {
		if seen[id] {
			t.Errorf("Duplicate ID found in concurrent generation: %s", id)
		}
		seen[id] = true
		count++
	}

	expected := goroutines * idsPerGoroutine
	if count != expected {
		t.Errorf("Expected %d unique IDs, got %d", expected, count)
	}
}

func TestLexicographicSorting(t *testing.T) {
	gen := NewGenerator()

	ids := make([]string, 5)
	for i := 0; i < 5; i++ {
		ids[i] = gen.Generate().String()
		time.Sleep(2 * time.Millisecond)
	}

	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Errorf("IDs should be lexicographically sorted: %s should be > %s", ids[i], ids[i-1])
		}
	}
}

func TestDefaultGenerator(t *testing.T) {
	gen1 := Default()
	gen2 := Default()

	if gen1 != gen2 {
		t.Error("Default() should return the same instance")
	}

	if !IsValidSessionID(NewSessionID().String()) {
		t.Error("Default generator should produce valid session IDs")
	}
}

func BenchmarkGenerate(b *testing.B) {
	gen := NewGenerator()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gen.Generate()
	}
}

func BenchmarkGenerateWithPrefix(b *testing.B) {
	gen := NewGenerator()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gen.GenerateWithPrefix(SessionPrefix)
	}
}

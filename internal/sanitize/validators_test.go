package sanitize

import (
	"strings"
	"testing"
)

func TestStringLength(t *testing.T) {
	if err := StringLength("abc", 3, "title"); err != nil {
		t.Fatalf("boundary should pass: %v", err)
	}
	if err := StringLength("abcd", 3, "title"); err == nil {
		t.Fatalf("expected error for oversized string")
	}
	if err := StringLength(42, 3, "title"); err != nil {
		t.Fatalf("non-string should be not-applicable: %v", err)
	}
	if err := StringLength(nil, 3, "title"); err != nil {
		t.Fatalf("nil should be not-applicable: %v", err)
	}
}

func TestBase64SizeBoundary(t *testing.T) {
	// 1MB decoded needs ceil(1MiB * 4/3) base64 chars.
	exact := strings.Repeat("A", 1024*1024*4/3)
	if err := Base64Size(exact, 1, "image"); err != nil {
		t.Fatalf("exactly at cap should pass: %v", err)
	}
	over := strings.Repeat("A", 1024*1024*4/3+1024)
	if err := Base64Size(over, 1, "image"); err == nil {
		t.Fatalf("expected error above cap")
	}
	if err := Base64Size(123, 1, "image"); err != nil {
		t.Fatalf("non-string should pass: %v", err)
	}
}

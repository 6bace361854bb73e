package auth

import "testing"

func TestHashAndVerifyToken(t *testing.T) {
	hash, err := HashToken("correct-horse-battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct-horse-battery" {
		t.Fatal("hash must not equal plaintext")
	}

	if !VerifyToken(hash, "correct-horse-battery") {
		t.Fatal("expected matching token to verify")
	}
	if VerifyToken(hash, "wrong-token-entirely") {
		t.Fatal("expected mismatched token to fail")
	}
}

func TestHashToken_RejectsShortTokens(t *testing.T) {
	if _, err := HashToken("short"); err == nil {
		t.Fatal("expected error for short token")
	}
}

func TestVerifyToken_EmptyHashNeverVerifies(t *testing.T) {
	if VerifyToken("", "anything-at-all") {
		t.Fatal("empty hash must disable verification")
	}
	if VerifyToken("   ", "anything-at-all") {
		t.Fatal("blank hash must disable verification")
	}
}

package services

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("rahasia123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "rahasia123" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword(hash, "rahasia123") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "salah123") {
		t.Fatal("wrong password accepted")
	}
}

func TestPasswordHashesDiffer(t *testing.T) {
	first, err := HashPassword("rahasia123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := HashPassword("rahasia123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if first == second {
		t.Fatal("expected salted hashes to differ")
	}
}

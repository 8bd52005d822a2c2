package utils

import "testing"

func TestMintAndMatchToken(t *testing.T) {
	plain, hash, err := MintToken()
	if err != nil {
		t.Fatal(err)
	}
	if plain == "" || hash == "" {
		t.Fatal("mint produced empty parts")
	}
	if plain == hash {
		t.Fatal("stored hash must differ from the plaintext")
	}
	if !TokenMatches(hash, plain) {
		t.Fatal("minted token must match its own hash")
	}
	if TokenMatches(hash, plain+"x") {
		t.Fatal("tampered token must not match")
	}
}

func TestMintTokenUnique(t *testing.T) {
	a, _, err := MintToken()
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := MintToken()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("two minted tokens collided")
	}
}

func TestSplitToken(t *testing.T) {
	bearer := FormatToken(42, "deadbeef")
	id, plain, err := SplitToken(bearer)
	if err != nil {
		t.Fatal(err)
	}
	if id != 42 || plain != "deadbeef" {
		t.Fatalf("got id=%d plain=%q", id, plain)
	}

	for _, bad := range []string{"", "noseparator", "x|y", "-1|y"} {
		if _, _, err := SplitToken(bad); err == nil {
			t.Fatalf("SplitToken(%q) should fail", bad)
		}
	}
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("Abcdef12")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "Abcdef12" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "Abcdef12") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "Abcdef13") {
		t.Fatal("wrong password accepted")
	}
}

package hash

import "testing"

func TestSHA256Hex(t *testing.T) {
	got := SHA256Hex("hello")
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("SHA256Hex(hello) = %s, want %s", got, want)
	}
}

func TestSHA256Hex_Deterministic(t *testing.T) {
	a := SHA256Hex("account-1")
	b := SHA256Hex("account-1")
	if a != b {
		t.Error("same input should produce same hash")
	}
	if SHA256Hex("account-2") == a {
		t.Error("different inputs should produce different hashes")
	}
}

func TestIteratedSHA256(t *testing.T) {
	one := IteratedSHA256("input", 1)
	if one != SHA256Hex("input") {
		t.Error("a single iteration should match SHA256Hex")
	}

	two := IteratedSHA256("input", 2)
	if one == two {
		t.Error("different iteration counts should produce different hashes")
	}
	if len(two) != 64 {
		t.Errorf("hash length = %d, want 64", len(two))
	}
}

func TestHashIP_SaltChangesOutput(t *testing.T) {
	a := HashIP("192.168.1.1", "salt-a")
	b := HashIP("192.168.1.1", "salt-b")
	if a == b {
		t.Error("different salts should produce different hashes")
	}
}

func TestHashFingerprint_FixedWidth(t *testing.T) {
	short := HashFingerprint("fp")
	long := HashFingerprint("a-much-longer-raw-device-fingerprint-value")
	if len(short) != 64 || len(long) != 64 {
		t.Errorf("fingerprint hashes should be 64 chars, got %d and %d", len(short), len(long))
	}
}

func TestShortHash(t *testing.T) {
	got := ShortHash("10.0.0.1", 12)
	if len(got) != 12 {
		t.Errorf("ShortHash length = %d, want 12", len(got))
	}
	if ShortHash("10.0.0.1", 200) != SHA256Hex("10.0.0.1") {
		t.Error("oversized prefix should return the full hash")
	}
}

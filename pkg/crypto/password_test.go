package crypto

import (
	"errors"
	"strings"
	"testing"
)

// fastArgon2 keeps the test suite quick while exercising the same code path.
func fastArgon2() *Argon2 {
	return &Argon2{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

// Requirement: Hash produces an argon2id encoding with six $-separated parts.
func TestArgon2_Hash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "success", password: "testPassword123"},
		{name: "empty password", password: ""},
		{name: "long password", password: strings.Repeat("a", 128)},
		{name: "unicode", password: "パスワード🔐"},
		{name: "null byte", password: "pass\x00word"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			a := fastArgon2()

			// Act
			hash, err := a.Hash(test.password)

			// Assert
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if !strings.HasPrefix(hash, "$argon2id$v=19$") {
				t.Errorf("Hash() = %q, want $argon2id$v=19$ prefix", hash)
			}
			if len(strings.Split(hash, "$")) != 6 {
				t.Error("Hash() should have 6 parts")
			}
		})
	}
}

func TestArgon2_Hash_UniqueSalts(t *testing.T) {
	// Arrange
	a := fastArgon2()

	// Act
	hash1, _ := a.Hash("samePassword")
	hash2, _ := a.Hash("samePassword")

	// Assert
	if hash1 == hash2 {
		t.Error("Hash() should generate different hashes with unique salts")
	}
}

// Requirement: Verify accepts only the exact original password.
func TestArgon2_Verify(t *testing.T) {
	tests := []struct {
		name     string
		password string
		attempt  string
		wantOk   bool
	}{
		{name: "correct password", password: "correctPassword", attempt: "correctPassword", wantOk: true},
		{name: "wrong password", password: "correctPassword", attempt: "wrongPassword", wantOk: false},
		{name: "case sensitive", password: "correctPassword", attempt: "correctpassword", wantOk: false},
		{name: "extra character", password: "correctPassword", attempt: "correctPassword1", wantOk: false},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			a := fastArgon2()
			hash, _ := a.Hash(test.password)

			// Act
			ok, err := a.Verify(test.attempt, hash)

			// Assert
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if ok != test.wantOk {
				t.Errorf("Verify() = %v, want %v", ok, test.wantOk)
			}
		})
	}
}

func TestArgon2_Verify_InvalidHashes(t *testing.T) {
	tests := []struct {
		name    string
		hash    string
		wantErr error
	}{
		{name: "empty", hash: "", wantErr: ErrInvalidHash},
		{name: "too few parts", hash: "$argon2id$v=19$m=65536,t=3,p=2$salt", wantErr: ErrInvalidHash},
		{name: "unsupported algorithm", hash: "$argon2i$v=19$m=65536,t=3,p=2$salt$hash", wantErr: ErrUnsupportedHashAlgo},
		{name: "wrong version", hash: "$argon2id$v=16$m=65536,t=3,p=2$c2FsdA$aGFzaA", wantErr: ErrUnsupportedHashAlgo},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			a := fastArgon2()

			// Act
			_, err := a.Verify("password", test.hash)

			// Assert
			if !errors.Is(err, test.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, test.wantErr)
			}
		})
	}
}

// Requirement: a hash made with one parameter set verifies with a hasher using another.
func TestArgon2_Verify_AcrossParameters(t *testing.T) {
	// Arrange
	weak := &Argon2{Memory: 4 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}
	hash, _ := weak.Hash("test")

	// Act
	ok, err := fastArgon2().Verify("test", hash)

	// Assert
	if err != nil || !ok {
		t.Fatalf("Verify() = %v, %v; want true, nil", ok, err)
	}
	if !fastArgon2().NeedsRehash(hash) {
		t.Error("NeedsRehash() should flag hashes made with weaker parameters")
	}
}

package config

import (
	"testing"
)

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name    string
		cost    int
		wantErr bool
	}{
		{"minimum cost", 10, false},
		{"maximum cost", 14, false},
		{"cost too low", 9, true},
		{"cost too high", 15, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewPasswordConfig(tt.cost, "")
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewPasswordConfig(%d) error = %v, wantErr %v", tt.cost, err, tt.wantErr)
			}
			if !tt.wantErr && cfg.BcryptCost != tt.cost {
				t.Errorf("BcryptCost = %d, want %d", cfg.BcryptCost, tt.cost)
			}
		})
	}
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	cfg, err := NewPasswordConfig(10, "")
	if err != nil {
		t.Fatal(err)
	}

	hash, err := cfg.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "password123" {
		t.Fatal("hash should not equal the plain password")
	}
	if !cfg.VerifyPassword("password123", hash) {
		t.Error("VerifyPassword() should accept the original password")
	}
	if cfg.VerifyPassword("wrong", hash) {
		t.Error("VerifyPassword() should reject a wrong password")
	}
}

func TestPasswordConfig_Pepper(t *testing.T) {
	peppered, _ := NewPasswordConfig(10, "pepper")
	plain, _ := NewPasswordConfig(10, "")

	hash, err := peppered.HashPassword("password123")
	if err != nil {
		t.Fatal(err)
	}
	if !peppered.VerifyPassword("password123", hash) {
		t.Error("peppered config should verify its own hash")
	}
	if plain.VerifyPassword("password123", hash) {
		t.Error("hash made with a pepper must not verify without it")
	}
}

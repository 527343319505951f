package auth

import (
	"errors"
	"testing"

	"marketplace/internal/domain/models"
)

type stubVerifier struct {
	subject string
	closed  bool
}

func (s *stubVerifier) VerifyToken(token string) (*models.Claims, error) {
	if token != s.subject {
		return nil, errors.New("rejected")
	}
	claims := &models.Claims{Role: models.RoleClient}
	claims.Subject = s.subject
	return claims, nil
}

func (s *stubVerifier) Close() error {
	s.closed = true
	return nil
}

func TestChainVerifier(t *testing.T) {
	first := &stubVerifier{subject: "1"}
	second := &stubVerifier{subject: "2"}
	chain := NewChainVerifier(first, second)

	tests := []struct {
		token   string
		wantErr bool
	}{
		{"1", false},
		{"2", false},
		{"3", true},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			claims, err := chain.VerifyToken(tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("VerifyToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && claims.Subject != tt.token {
				t.Errorf("subject = %q", claims.Subject)
			}
		})
	}

	if err := chain.Close(); err != nil || !first.closed || !second.closed {
		t.Errorf("Close() = %v, closed = %v/%v", err, first.closed, second.closed)
	}

	if _, err := NewChainVerifier().VerifyToken("x"); err == nil {
		t.Error("empty chain accepted a token")
	}
}

package balance

import "testing"

func TestEvaluateToggleOffAlwaysAllowed(t *testing.T) {
	got := Evaluate(false, 1e6, 500, 0)
	if !got.Allowed {
		t.Fatal("toggle off must always allow submission")
	}
	if got.Remaining != 0 || got.Message != "" {
		t.Fatalf("toggle off must not report remaining funds, got %+v", got)
	}
}

func TestEvaluateInsufficientFunds(t *testing.T) {
	got := Evaluate(true, 100, 50, 100)
	if got.Allowed {
		t.Fatal("balance 100 cannot cover total 150")
	}
	if got.Remaining != -50 {
		t.Fatalf("Remaining = %v, want -50", got.Remaining)
	}
	if got.Message == "" {
		t.Fatal("insufficient funds must carry a message")
	}
}

func TestEvaluateSufficientFunds(t *testing.T) {
	got := Evaluate(true, 100, 50, 200)
	if !got.Allowed {
		t.Fatal("balance 200 covers total 150")
	}
	if got.Remaining != 50 {
		t.Fatalf("Remaining = %v, want 50", got.Remaining)
	}
}

func TestEvaluateExactCover(t *testing.T) {
	got := Evaluate(true, 100, 50, 150)
	if !got.Allowed || got.Remaining != 0 {
		t.Fatalf("exact cover must be allowed with 0 remaining, got %+v", got)
	}
}

package repository

import "testing"

func TestPairKey_OrderIndependent(t *testing.T) {
	if PairKey("alice", "bob") != PairKey("bob", "alice") {
		t.Fatalf("pair key depends on argument order")
	}
}

func TestPairKey_DistinctPairs(t *testing.T) {
	keys := map[string]bool{
		PairKey("alice", "bob"):   true,
		PairKey("alice", "carol"): true,
		PairKey("bob", "carol"):   true,
	}
	if len(keys) != 3 {
		t.Fatalf("distinct pairs collided: %v", keys)
	}
}

func TestPairKey_Format(t *testing.T) {
	if got := PairKey("b", "a"); got != "a|b" {
		t.Fatalf("PairKey(b,a) = %q, want a|b", got)
	}
}

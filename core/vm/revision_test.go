package vm

import "testing"

func TestRevisionAtLeast(t *testing.T) {
	if !London.AtLeast(Berlin) {
		t.Fatal("London should be at least Berlin")
	}
	if Berlin.AtLeast(London) {
		t.Fatal("Berlin should not be at least London")
	}
	if !Cancun.AtLeast(Cancun) {
		t.Fatal("a revision should be at least itself")
	}
}

func TestRevisionString(t *testing.T) {
	cases := map[Revision]string{
		Frontier: "Frontier",
		Berlin:   "Berlin",
		Prague:   "Prague",
	}
	for rev, want := range cases {
		if got := rev.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", rev, got, want)
		}
	}
	if got := Revision(-1).String(); got != "unknown" {
		t.Fatalf("negative revision String() = %q, want unknown", got)
	}
	if got := Revision(1000).String(); got != "unknown" {
		t.Fatalf("out-of-range revision String() = %q, want unknown", got)
	}
}

func TestRevisionOrdering(t *testing.T) {
	revs := []Revision{
		Frontier, Homestead, TangerineWhistle, SpuriousDragon, Byzantium,
		Constantinople, Istanbul, Berlin, London, Paris, Shanghai, Cancun, Prague,
	}
	for i := 1; i < len(revs); i++ {
		if revs[i] <= revs[i-1] {
			t.Fatalf("revision %s should sort after %s", revs[i], revs[i-1])
		}
	}
}

func TestLatestIsPrague(t *testing.T) {
	if Latest != Prague {
		t.Fatalf("Latest = %s, want Prague", Revision(Latest))
	}
}

package strpool

import "testing"

func TestPutResets(t *testing.T) {
	t.Parallel()

	b := Get()
	b.WriteString("tilequest-play-state-b1")
	s := b.String()
	Put(b)

	if s != "tilequest-play-state-b1" {
		t.Errorf("string changed after put: %q", s)
	}
	if got := Get(); got.Len() != 0 {
		t.Errorf("builder from pool not empty: %q", got.String())
	}
}

package wordtag

import "testing"

func TestMakeValueRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 42, -42, 1 << 40, -(1 << 40)} {
		w := MakeValue(v)
		if w.Tag() != TagValue {
			t.Fatalf("MakeValue(%d).Tag() = %v, want TagValue", v, w.Tag())
		}
		if got := w.Value(); got != v {
			t.Fatalf("MakeValue(%d).Value() = %d, want %d", v, got, v)
		}
	}
}

func TestMakeDescriptorRoundTrip(t *testing.T) {
	cases := []struct {
		tid int
		seq uint64
	}{
		{0, 0},
		{1, 1},
		{255, 1 << 30},
		{7, 0xffffffff},
	}
	for _, c := range cases {
		w := MakeDescriptor(c.tid, c.seq)
		if w.Tag() != TagDescriptor {
			t.Fatalf("MakeDescriptor(%d,%d).Tag() = %v, want TagDescriptor", c.tid, c.seq, w.Tag())
		}
		if got := w.DescriptorTID(); got != c.tid {
			t.Fatalf("DescriptorTID() = %d, want %d", got, c.tid)
		}
		if got := w.DescriptorSeq(); got != c.seq {
			t.Fatalf("DescriptorSeq() = %d, want %d", got, c.seq)
		}
	}
}

func TestCellCASRaw(t *testing.T) {
	var c Cell
	c.WriteInit(MakeValue(10))

	if !c.CASRaw(MakeValue(10), MakeValue(11)) {
		t.Fatal("CASRaw on matching old value should succeed")
	}
	if got := c.ReadRaw().Value(); got != 11 {
		t.Fatalf("ReadRaw().Value() = %d, want 11", got)
	}
	if c.CASRaw(MakeValue(10), MakeValue(12)) {
		t.Fatal("CASRaw on stale old value should fail")
	}
	if got := c.ReadRaw().Value(); got != 11 {
		t.Fatalf("ReadRaw().Value() after failed CAS = %d, want 11", got)
	}
}

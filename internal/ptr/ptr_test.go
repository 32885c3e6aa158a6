package ptr_test

import (
	"testing"

	"github.com/trainew/trainew/internal/ptr"
)

func TestRef(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		s := "supino"
		p := ptr.Ref(s)

		if p == nil {
			t.Fatal("Expected pointer to be non-nil")
		}
		if *p != s {
			t.Errorf("Expected %q, got %q", s, *p)
		}

		// The pointer holds a copy, not the original variable.
		s = "agachamento"
		if *p == s {
			t.Errorf("Pointer value should not change when original value is modified")
		}
	})

	t.Run("struct", func(t *testing.T) {
		type prescription struct {
			Sets int
			Reps string
		}

		want := prescription{Sets: 3, Reps: "10-12"}
		p := ptr.Ref(want)

		if p == nil {
			t.Fatal("Expected pointer to be non-nil")
		}
		if p.Sets != want.Sets || p.Reps != want.Reps {
			t.Errorf("Expected %+v, got %+v", want, *p)
		}
	})
}

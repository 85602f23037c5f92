package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndexError_UnwrapAndHint(t *testing.T) {
	cause := errors.New("short read")
	e := &IndexError{Dir: "/db/idx", Err: cause}
	require.Contains(t, e.Error(), "/db/idx")
	require.ErrorIs(t, e, cause)
	require.NotEmpty(t, e.Hint())
}

func TestMalformedTaxonomyError_Message(t *testing.T) {
	e := &MalformedTaxonomyError{NodeA: 10, NodeB: 20}
	require.Contains(t, e.Error(), "10")
	require.Contains(t, e.Error(), "20")
}

func TestUnclassified_Unwraps(t *testing.T) {
	cause := errors.New("boom")
	e := &Unclassified{Err: cause}
	require.ErrorIs(t, e, cause)
	require.Equal(t, "boom", e.Error())
}

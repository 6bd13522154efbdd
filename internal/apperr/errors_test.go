package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindsSurviveWrapping(t *testing.T) {
	base := errors.New("connection reset")

	q := fmt.Errorf("load page: %w", Query("products", base))
	var qe *RemoteQueryError
	require.True(t, errors.As(q, &qe))
	assert.Equal(t, "products", qe.Collection)
	assert.ErrorIs(t, q, base)

	m := fmt.Errorf("save: %w", Mutation("orders", "insert", base))
	var me *RemoteMutationError
	require.True(t, errors.As(m, &me))
	assert.Equal(t, "connection reset", me.Message())
	assert.Equal(t, "insert orders: connection reset", me.Error())

	assert.True(t, IsNotFound(fmt.Errorf("x: %w", NotFound("products", "p1"))))
	assert.False(t, IsNotFound(base))

	assert.True(t, IsValidation(Invalid("name", "wajib diisi")))
	assert.Equal(t, "validation: name: wajib diisi", Invalid("name", "wajib diisi").Error())
	assert.Equal(t, "validation: keranjang kosong", Invalid("", "keranjang kosong").Error())
}

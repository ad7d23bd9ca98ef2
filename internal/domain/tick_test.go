package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTick_Equal(t *testing.T) {
	a := NewTick("09:30:01", NewDecimalFromInt(123), NewDecimalFromInt(10))

	assert.True(t, a.Equal(NewTick("09:30:01", NewDecimalFromInt(123), NewDecimalFromInt(10))))
	assert.False(t, a.Equal(NewTick("09:30:02", NewDecimalFromInt(123), NewDecimalFromInt(10))))
	assert.False(t, a.Equal(NewTick("09:30:01", NewDecimalFromInt(124), NewDecimalFromInt(10))))
	assert.True(t, NewTick("x", NaN(), NaN()).Equal(NewTick("x", NaN(), NaN())))
}

func TestTick_MarshalJSON(t *testing.T) {
	tick := NewTick("1", mustDecimalFromString("123.5"), NaN())

	data, err := json.Marshal(tick)
	require.NoError(t, err)
	assert.JSONEq(t, `{"time":"1","price":123.5,"volume":null}`, string(data))
}


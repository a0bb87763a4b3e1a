package auction

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "0", want: "0"},
		{in: "42", want: "42"},
		{in: "1000000000000000000000000", want: "1000000000000000000000000"},
		{in: "-1", wantErr: true},
		{in: "1.5", wantErr: true},
		{in: "", wantErr: true},
		{in: "one", wantErr: true},
	}
	for _, c := range cases {
		a, err := ParseAmount(c.in)
		if c.wantErr {
			assert.True(t, errors.Is(err, ErrInvalidAmount), c.in)
			continue
		}
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, a.String())
	}
}

func TestAmountArithmetic(t *testing.T) {
	one := NewAmount(1)
	two := NewAmount(2)
	assert.True(t, two.GreaterThan(one))
	assert.False(t, one.GreaterThan(one))
	assert.True(t, one.Add(one).Equal(two))
	assert.True(t, two.Sub(one).Equal(one))
	assert.True(t, Zero.IsZero())
	assert.False(t, Zero.IsPositive())
	assert.Equal(t, -1, one.Cmp(two))
}

func TestAmountJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Amount `json:"a"`
	}{NewAmount(7)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"7"}`, string(b))

	var out struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"12","b":3}`), &out))
	assert.Equal(t, "12", out.A.String())
	assert.Equal(t, "3", out.B.String())

	assert.Error(t, json.Unmarshal([]byte(`{"a":"-1"}`), &out))
}

func TestAmountBSON(t *testing.T) {
	type doc struct {
		A Amount `bson:"a"`
	}
	b, err := bson.Marshal(doc{MustParseAmount("123456789012345678901234567890")})
	require.NoError(t, err)

	var raw bson.M
	require.NoError(t, bson.Unmarshal(b, &raw))
	assert.Equal(t, "123456789012345678901234567890", raw["a"])

	var out doc
	require.NoError(t, bson.Unmarshal(b, &out))
	assert.Equal(t, "123456789012345678901234567890", out.A.String())
}

package auction

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"golang.org/x/xerrors"
)

// Amount is a non-negative integer quantity in the settlement unit of an
// auction (yocto units of the native value, or the smallest unit of the
// payment asset). It is encoded as a base 10 string in JSON and BSON.
type Amount struct {
	d decimal.Decimal
}

var Zero = Amount{}

func NewAmount(v int64) Amount {
	return Amount{decimal.NewFromInt(v)}
}

// ParseAmount parses a base 10 integer. Negative and fractional values fail
// with ErrInvalidAmount.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, xerrors.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() || !d.Equal(d.Truncate(0)) {
		return Zero, xerrors.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Amount{d.Truncate(0)}, nil
}

// MustParseAmount is ParseAmount for literals. It panics on bad input.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Add(b Amount) Amount {
	return Amount{a.d.Add(b.d)}
}

// Sub returns a-b. The caller keeps the result non-negative.
func (a Amount) Sub(b Amount) Amount {
	return Amount{a.d.Sub(b.d)}
}

func (a Amount) Cmp(b Amount) int {
	return a.d.Cmp(b.d)
}

func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

func (a Amount) GreaterThan(b Amount) bool {
	return a.d.GreaterThan(b.d)
}

func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

func (a Amount) IsPositive() bool {
	return a.d.IsPositive()
}

func (a Amount) String() string {
	return a.d.String()
}

func (a Amount) Float64() float64 {
	f, _ := a.d.Float64()
	return f
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both "123" and 123.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Zero
		return nil
	}
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a Amount) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(a.String())
}

func (a *Amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	s, ok := raw.StringValueOK()
	if !ok {
		return xerrors.Errorf("%w: bson type %s", ErrInvalidAmount, t)
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

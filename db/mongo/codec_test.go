package mongo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type money struct {
	Amount   decimal.Decimal     `bson:"amount"`
	Tax      decimal.NullDecimal `bson:"tax"`
	Discount decimal.NullDecimal `bson:"discount"`
}

func TestDecimalStoredAsDecimal128(t *testing.T) {
	reg := NewRegistry()
	in := money{
		Amount: decimal.RequireFromString("1234.56"),
		Tax:    decimal.NewNullDecimal(decimal.Zero),
	}

	raw, err := bson.MarshalWithRegistry(reg, in)
	require.NoError(t, err)

	doc := bson.Raw(raw)
	assert.Equal(t, bsontype.Decimal128, doc.Lookup("amount").Type)
	assert.Equal(t, bsontype.Decimal128, doc.Lookup("tax").Type)
	assert.Equal(t, bsontype.Null, doc.Lookup("discount").Type)

	var out money
	require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &out))
	assert.True(t, in.Amount.Equal(out.Amount))
	assert.True(t, out.Tax.Valid, "a stored zero stays set")
	assert.True(t, out.Tax.Decimal.IsZero())
	assert.False(t, out.Discount.Valid)
}

func TestDecimalDecodesLegacyNumbers(t *testing.T) {
	reg := NewRegistry()
	raw, err := bson.Marshal(bson.M{"amount": 12.5, "tax": int32(3)})
	require.NoError(t, err)

	var out money
	require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &out))
	assert.True(t, out.Amount.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, out.Tax.Valid)
	assert.True(t, out.Tax.Decimal.Equal(decimal.NewFromInt(3)))
	assert.False(t, out.Discount.Valid)
}

package mongostore

import (
	"testing"

	"storefront_backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDecimalCodec_RoundTripsProductPrice(t *testing.T) {
	// --- Arrange ---
	reg := NewRegistry()
	in := models.Product{Name: "Lamp", Price: decimal.RequireFromString("19.99"), Stock: 3}
	in.ID = "p1"

	// --- Act ---
	raw, err := bson.MarshalWithRegistry(reg, in)
	require.NoError(t, err)

	var out models.Product
	require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &out))

	// --- Assert ---
	assert.True(t, in.Price.Equal(out.Price))
	assert.Equal(t, "p1", out.ID)
	assert.Equal(t, bson.TypeDecimal128, bson.Raw(raw).Lookup("price").Type)
}

func TestDecimalCodec_DecodesDoubles(t *testing.T) {
	reg := NewRegistry()
	raw, err := bson.Marshal(bson.M{"price": 12.5})
	require.NoError(t, err)

	var out struct {
		Price decimal.Decimal `bson:"price"`
	}
	require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &out))

	assert.Equal(t, "12.5", out.Price.String())
}

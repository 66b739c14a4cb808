package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_String(t *testing.T) {
	assert.Equal(t, "NULL", NullValue(IntegerType()).String())
	assert.Equal(t, "42", IntegerValue(42).String())
	assert.Equal(t, "-7", BigintValue(-7).String())
	assert.Equal(t, "true", BooleanValue(true).String())
	assert.Equal(t, "abc", VarcharValue("abc").String())
	assert.Equal(t, "1.5", DoubleValue(1.5).String())

	day := time.Date(1998, 12, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "1998-12-01", DateValue(day).String())
}

func TestValue_Decimal(t *testing.T) {
	typ := DecimalType(15, 2)
	v, err := DecimalValue(typ, "12.3")
	require.NoError(t, err)
	assert.Equal(t, int64(1230), v.I64)
	assert.Equal(t, "12.30", v.String())

	v, err = DecimalValue(typ, "-0.05")
	require.NoError(t, err)
	assert.Equal(t, int64(-5), v.I64)
	assert.Equal(t, "-0.05", v.String())

	_, err = DecimalValue(IntegerType(), "1")
	require.Error(t, err)
	_, err = DecimalValue(typ, "abc")
	require.Error(t, err)
}

func TestValue_EqualCompare(t *testing.T) {
	assert.True(t, IntegerValue(1).Equal(IntegerValue(1)))
	assert.False(t, IntegerValue(1).Equal(BigintValue(1)))
	assert.True(t, NullValue(VarcharType()).Equal(NullValue(VarcharType())))
	assert.False(t, NullValue(VarcharType()).Equal(VarcharValue("")))

	assert.Equal(t, -1, IntegerValue(1).Compare(IntegerValue(2)))
	assert.Equal(t, 1, VarcharValue("b").Compare(VarcharValue("a")))
	assert.Equal(t, 0, DoubleValue(2).Compare(DoubleValue(2)))
	assert.Equal(t, -1, NullValue(IntegerType()).Compare(IntegerValue(-100)))
	assert.Equal(t, -1, BooleanValue(false).Compare(BooleanValue(true)))
}

func TestLType(t *testing.T) {
	assert.True(t, DecimalType(10, 2).Equal(DecimalType(10, 2)))
	assert.False(t, DecimalType(10, 2).Equal(DecimalType(10, 3)))
	assert.True(t, IntegerType().IsValid())
	assert.False(t, InvalidType().IsValid())
	assert.Equal(t, 4, IntegerType().Size())
	assert.Equal(t, 0, VarcharType().Size())
	assert.Equal(t, "decimal(10,2)", DecimalType(10, 2).String())
}

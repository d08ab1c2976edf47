package token_test

import (
	"testing"

	"github.com/hexaengine/hxslc/pkg/token"
	"github.com/stretchr/testify/assert"
)

func TestArithDivideByZeroYieldsUnknown(t *testing.T) {
	a := token.NewInt(token.NumberI32, 1)
	b := token.NewInt(token.NumberI32, 0)

	assert.True(t, a.Arith("/", b).IsUnknown())
	assert.True(t, a.Arith("%", b).IsUnknown())
}

func TestArithWidensToWiderOperand(t *testing.T) {
	a := token.NewInt(token.NumberI32, 2)
	b := token.NewFloat(token.NumberFloat, 3.0)

	result := a.Arith("+", b)
	assert.Equal(t, token.NumberFloat, result.Kind())
	assert.Equal(t, 5.0, result.AsFloat64())
}

func TestLogicalShortCircuitTruthiness(t *testing.T) {
	zero := token.NewInt(token.NumberI32, 0)
	one := token.NewInt(token.NumberI32, 1)

	assert.False(t, zero.Logical("&&", one).AsInt64() != 0)
	assert.True(t, zero.Logical("||", one).AsInt64() != 0)
}

func TestUnknownPropagatesThroughArith(t *testing.T) {
	u := token.UnknownNumber
	one := token.NewInt(token.NumberI32, 1)

	assert.True(t, u.Arith("+", one).IsUnknown())
	assert.True(t, one.Compare("==", u).IsUnknown())
}

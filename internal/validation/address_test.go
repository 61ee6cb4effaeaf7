package validation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const (
	beamBech32    = "beam1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc54hw952"
	nhbBech32     = "nhb1qypqxpq9qcrsszg2pvxq6rs0zqg3yyc5h3zu0a"
	shortBech32   = "beam1qypqxpq9qcrsszg2ycv5e2"
	beamWalletHex = "1b516fb39884a3281bc0761f9c7f7a8e1e3df1b4c4d7e6c5e0d0a4e2f3b9d8c7a1"
)

func TestHexValidator(t *testing.T) {
	v := NewHexValidator()

	tests := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"wallet id", beamWalletHex, true},
		{"odd length", beamWalletHex[1:], true},
		{"upper case", strings.ToUpper(beamWalletHex), true},
		{"empty", "", false},
		{"too short", "abc", false},
		{"too long", strings.Repeat("a", MaxHexAddressLength+1), false},
		{"not hex", "zz516fb39884a3281bc0", false},
		{"uri leftovers", beamWalletHex + "?amount=1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsValid(tt.candidate))
		})
	}
}

func TestBech32Validator(t *testing.T) {
	tests := []struct {
		name      string
		validator *Bech32Validator
		candidate string
		want      bool
	}{
		{"allowed prefix", NewBech32Validator([]string{"beam"}, 20), beamBech32, true},
		{"any prefix", NewBech32Validator(nil, 0), nhbBech32, true},
		{"foreign prefix", NewBech32Validator([]string{"beam"}, 20), nhbBech32, false},
		{"wrong payload size", NewBech32Validator([]string{"beam"}, 20), shortBech32, false},
		{"bad checksum", NewBech32Validator(nil, 0), beamBech32[:len(beamBech32)-1] + "q", false},
		{"hex is not bech32", NewBech32Validator(nil, 0), beamWalletHex, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.validator.IsValid(tt.candidate))
		})
	}
}

func TestValidatorFunc(t *testing.T) {
	v := ValidatorFunc(func(c string) bool { return c == "ok" })
	assert.True(t, v.IsValid("ok"))
	assert.False(t, v.IsValid("nope"))
}

type MockVerdictStore struct {
	mock.Mock
}

func (m *MockVerdictStore) GetVerdict(ctx context.Context, key string) (bool, bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

func (m *MockVerdictStore) SetVerdict(ctx context.Context, key string, valid bool, ttl time.Duration) error {
	args := m.Called(ctx, key, valid, ttl)
	return args.Error(0)
}

func TestCachedValidator(t *testing.T) {
	key := VerdictKey("addr")

	t.Run("cache hit skips the wrapped validator", func(t *testing.T) {
		store := new(MockVerdictStore)
		store.On("GetVerdict", mock.Anything, key).Return(true, true, nil)

		calls := 0
		next := ValidatorFunc(func(string) bool { calls++; return false })

		v := NewCachedValidator(next, store, time.Minute)
		assert.True(t, v.IsValid("addr"))
		assert.Equal(t, 0, calls)
		store.AssertExpectations(t)
	})

	t.Run("cache miss stores the verdict", func(t *testing.T) {
		store := new(MockVerdictStore)
		store.On("GetVerdict", mock.Anything, key).Return(false, false, nil)
		store.On("SetVerdict", mock.Anything, key, true, time.Minute).Return(nil)

		v := NewCachedValidator(ValidatorFunc(func(string) bool { return true }), store, time.Minute)
		assert.True(t, v.IsValid("addr"))
		store.AssertExpectations(t)
	})

	t.Run("store failure falls through", func(t *testing.T) {
		store := new(MockVerdictStore)
		store.On("GetVerdict", mock.Anything, key).Return(false, false, errors.New("redis down"))
		store.On("SetVerdict", mock.Anything, key, false, time.Minute).Return(errors.New("redis down"))

		v := NewCachedValidator(ValidatorFunc(func(string) bool { return false }), store, time.Minute)
		assert.False(t, v.IsValid("addr"))
		store.AssertExpectations(t)
	})
}

func TestVerdictKey(t *testing.T) {
	long := strings.Repeat("x", MaxPayloadLength)

	assert.True(t, strings.HasPrefix(VerdictKey(long), verdictKeyPrefix))
	assert.Len(t, VerdictKey(long), len(verdictKeyPrefix)+64)
	assert.NotEqual(t, VerdictKey("a"), VerdictKey("b"))
}

func TestValidator_Request(t *testing.T) {
	v := New()
	v.Required("payload", "  ")
	v.OneOf("mode", "scan", "payment", "identity")
	v.MaxLength("label", "abcdef", 3)

	assert.False(t, v.Valid())
	assert.Equal(t, "label must not be more than 3 characters long; mode must be one of payment, identity; payload must not be empty", v.Error())
}
